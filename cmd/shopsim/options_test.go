// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_SharedComponents(t *testing.T) {
	opts := NewOptions()
	assert.Same(t, opts.Backend.Store, opts.Store)
	assert.Same(t, opts.Backend.Store.MySQL, opts.MySQL)
	assert.Same(t, opts.Backend.Store.SQLite, opts.SQLite)
	assert.Same(t, opts.Backend.Kafka, opts.Kafka)
	assert.Same(t, opts.Backend.WebSocket, opts.WebSocket)
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())

	opts.Backend.APIPrefix = "api"
	opts.Log.Format = "xml"
	assert.Len(t, opts.Validate(), 2)
}

func TestOptions_FlagSets(t *testing.T) {
	fss := NewOptions().Flags()
	assert.Equal(t, []string{"log", "server", "backend"}, fss.Order)
	assert.NotNil(t, fss.FlagSets["backend"].Lookup("store.driver"))
	assert.NotNil(t, fss.FlagSets["backend"].Lookup("kafka.brokers"))
	assert.NotNil(t, fss.FlagSets["backend"].Lookup("redis.enabled"))
}

func TestOptions_SharedRedisAndStore(t *testing.T) {
	opts := NewOptions()
	assert.Same(t, opts.Backend.Redis, opts.Redis)
	assert.Same(t, opts.Backend.Store, opts.Store)
}
