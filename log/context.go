// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package log

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

// With returns the global logger with the given fields attached.
func With(keysAndValues ...interface{}) *zap.SugaredLogger {
	return SugarLogger().With(keysAndValues...)
}

// WithContext returns a copy of ctx whose logger adds keysAndValues to the
// fields ctx already carries. Code handling one peer or one request logs
// through it so every line names the peer or request.
func WithContext(ctx context.Context, keysAndValues ...interface{}) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(keysAndValues) == 0 {
		if _, ok := fromContext(ctx); ok {
			return ctx
		}
	}

	return context.WithValue(ctx, contextKey{}, From(ctx).With(keysAndValues...))
}

// From returns the logger ctx carries, or the global logger.
func From(ctx context.Context) *zap.SugaredLogger {
	if logger, ok := fromContext(ctx); ok {
		return logger
	}

	return SugarLogger()
}

func fromContext(ctx context.Context) (*zap.SugaredLogger, bool) {
	if ctx == nil {
		return nil, false
	}
	logger, ok := ctx.Value(contextKey{}).(*zap.SugaredLogger)

	return logger, ok
}
