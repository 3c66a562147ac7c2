// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(names ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	for _, name := range names {
		g.Use(Get(name))
	}
	g.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	return g
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"cors", "logger", "requestid"}, Names())
	assert.Nil(t, Get("missing"))
}

func TestRequestID(t *testing.T) {
	g := newEngine("requestid", "logger")

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	rid := w.Header().Get(XRequestIDKey)
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(XRequestIDKey, "abc")
	w = httptest.NewRecorder()
	g.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(XRequestIDKey))
	assert.Equal(t, "abc", w.Body.String())
}

func TestCors(t *testing.T) {
	g := newEngine("cors")

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://console.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
