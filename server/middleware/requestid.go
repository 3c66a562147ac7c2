// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wangtaoking1/shopdesk/log"
)

// XRequestIDKey is the header and context key of the request id.
const XRequestIDKey = "X-Request-ID"

// RequestID tags every request with an id, reusing the one the caller sent.
// The id is echoed in the response and carried by the request logger.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(XRequestIDKey)
		if rid == "" {
			rid = uuid.NewString()
			c.Request.Header.Set(XRequestIDKey, rid)
		}
		c.Set(XRequestIDKey, rid)
		c.Writer.Header().Set(XRequestIDKey, rid)
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context(), "request_id", rid))

		c.Next()
	}
}

// GetRequestID returns the id RequestID attached to c.
func GetRequestID(c *gin.Context) string {
	return c.GetString(XRequestIDKey)
}
