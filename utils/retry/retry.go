// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"math"
	"time"

	"github.com/wangtaoking1/shopdesk/errors"
)

var (
	// RetryableErr defines the error that can be retryed.
	RetryableErr = errors.New("retry")
	// TimeoutErr defines the timeout error.
	TimeoutErr = errors.New("retry timeout")
)

// RetryWithTimeout runs do immediately and then every interval while it keeps
// returning an error wrapping RetryableErr. A zero timeout never expires.
func RetryWithTimeout(ctx context.Context, interval time.Duration, timeout time.Duration, do func() error) error {
	if timeout == 0 {
		timeout = time.Duration(math.MaxInt64)
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	wait := time.Duration(0)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return TimeoutErr
		case <-time.After(wait):
			err := do()
			if err == nil {
				return nil
			}

			if !errors.Is(err, RetryableErr) {
				return err
			}
			wait = interval
		}
	}
}
