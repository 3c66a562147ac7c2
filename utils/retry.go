// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package utils

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// NotRetryErr is an error that should not retry.
var NotRetryErr = errors.New("not retry error")

// Retry runs f up to retryLimit times, sleeping interval between attempts.
// It stops early when f succeeds, returns an error wrapping NotRetryErr, or
// ctx is done.
func Retry(ctx context.Context, retryLimit int, interval time.Duration, f func() error) error {
	var err error
	for i := 0; i < retryLimit; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return errors.WithMessage(ctx.Err(), err.Error())
			case <-time.After(interval):
			}
		}
		err = f()
		if err == nil {
			return nil
		}
		if errors.Is(err, NotRetryErr) {
			return err
		}
	}
	return err
}
