// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package server

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/shopdesk/server/middleware"
)

func testOptions() *Options {
	opts := NewOptions()
	opts.Mode = gin.TestMode
	return opts
}

func TestNew_InvalidOptions(t *testing.T) {
	opts := testOptions()
	opts.Mode = "fast"
	opts.HTTP.BindPort = 0

	_, err := New(opts)
	assert.Error(t, err)
}

func TestServer_HealthzAndSetup(t *testing.T) {
	s, err := New(testOptions())
	require.NoError(t, err)
	require.NoError(t, s.Setup(func(g *gin.Engine) error {
		g.GET("/hello", func(c *gin.Context) { c.String(http.StatusOK, "hi") })
		return nil
	}))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, healthzPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.XRequestIDKey))

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, "hi", w.Body.String())
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port
}

func TestServer_RunAndClose(t *testing.T) {
	opts := testOptions()
	opts.HTTP.BindPort = freePort(t)
	s, err := New(opts)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	url := "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(opts.HTTP.BindPort)) + healthzPath
	require.Eventually(t, func() bool { return ping(url) == nil }, 2*time.Second, 20*time.Millisecond)

	s.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
}
