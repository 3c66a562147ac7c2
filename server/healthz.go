// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/utils/retry"
)

const (
	healthzPath = "/healthz"

	healthzInterval = time.Second
	healthzTimeout  = 10 * time.Second
)

func (s *apiServer) addHealthzRouter() {
	s.GET(healthzPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// healthCheck waits until the http listener answers its own health route.
func (s *apiServer) healthCheck() error {
	url := fmt.Sprintf("http://%s%s", s.options.HTTP.healthzAddr(), healthzPath)

	err := retry.RetryWithTimeout(context.Background(), healthzInterval, healthzTimeout, func() error {
		return ping(url)
	})
	if err != nil {
		return errors.WithMessage(err, "healthz check failed")
	}
	log.Debug("The router has been deployed successfully.")

	return nil
}

func ping(url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthzInterval)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Debug("Waiting for the router deploy", "error", err)
		return errors.Wrap(retry.RetryableErr, err.Error())
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(retry.RetryableErr, "healthz answered %d", resp.StatusCode)
	}

	return nil
}
