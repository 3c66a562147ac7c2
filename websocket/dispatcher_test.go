// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_ReplacesHandler(t *testing.T) {
	r := NewRouter()
	var calls []string
	r.OnMessage("brands_data", func(ctx context.Context, p Payload) {
		calls = append(calls, "first")
	})
	r.OnMessage("brands_data", func(ctx context.Context, p Payload) {
		calls = append(calls, "second:"+p.String("brand", ""))
	})

	r.Dispatch(context.Background(), nil, &Frame{Type: "brands_data", Payload: Payload(`{"brand":"acme"}`)})

	assert.Equal(t, []string{"second:acme"}, calls)
}

func TestRouter_DropsUnknownType(t *testing.T) {
	r := NewRouter()
	called := false
	r.OnMessage("orders_data", func(ctx context.Context, p Payload) {
		called = true
	})

	assert.NotPanics(t, func() {
		r.Dispatch(context.Background(), nil, &Frame{Type: "coupons_data", Payload: Payload(`{}`)})
	})
	assert.False(t, called)
}

func TestRouter_NoopAfterUnmount(t *testing.T) {
	r := NewRouter()
	called := 0
	r.OnMessage("category_updated", func(ctx context.Context, p Payload) {
		called++
	})
	r.OnMessage("category_updated", Noop)

	r.Dispatch(context.Background(), nil, &Frame{Type: "category_updated", Payload: Payload(`{}`)})
	assert.Equal(t, 0, called)
	assert.Equal(t, []string{"category_updated"}, r.Types())
}

func TestRouter_NilHandlerIsNoop(t *testing.T) {
	r := NewRouter()
	r.OnMessage("error", nil)

	assert.NotPanics(t, func() {
		r.Dispatch(context.Background(), nil, &Frame{Type: "error", Payload: Payload(`{}`)})
	})
}

func TestRouter_RecoversPanic(t *testing.T) {
	r := NewRouter()
	r.OnMessage("pricing_config", func(ctx context.Context, p Payload) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		r.Dispatch(context.Background(), nil, &Frame{Type: "pricing_config", Payload: Payload(`{}`)})
	})
}

func TestRouter_Types(t *testing.T) {
	r := NewRouter()
	r.OnMessage("orders_data", Noop)
	r.OnMessage("brands_data", Noop)
	r.OnMessage("error", Noop)

	assert.Equal(t, []string{"brands_data", "error", "orders_data"}, r.Types())
}
