// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package middleware holds the named gin middlewares a server can install.
package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	middlewares = map[string]gin.HandlerFunc{}
	mtx         sync.RWMutex
)

func init() {
	Register("requestid", RequestID())
	Register("logger", Logger())
	Register("cors", Cors())
}

// Register register a middleware.
func Register(name string, middleware gin.HandlerFunc) {
	mtx.Lock()
	defer mtx.Unlock()

	middlewares[name] = middleware
}

// Get returns the specific name middleware.
func Get(name string) gin.HandlerFunc {
	mtx.RLock()
	defer mtx.RUnlock()

	return middlewares[name]
}

// Names lists the registered middlewares, sorted.
func Names() []string {
	mtx.RLock()
	defer mtx.RUnlock()

	names := maps.Keys(middlewares)
	slices.Sort(names)

	return names
}
