// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package console implements the admin pages. Each page owns one resource:
// on mount it registers handlers for the frames it consumes and requests its
// data, on unmount it overwrites those handlers with no-ops.
package console

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/notify"
	"github.com/wangtaoking1/shopdesk/websocket"
)

const (
	typeError = "error"

	defaultErrorMessage = "An error occurred"
	notConnectedMessage = "Not connected to server"
)

// Transport is the frame dispatcher pages talk to.
type Transport interface {
	// OnMessage registers or replaces the handler of a frame type.
	OnMessage(typ string, handler websocket.HandlerFunc)
	// Send transmits a frame, failing when the connection is not open.
	Send(ctx context.Context, frame *websocket.Frame) error
	// IsConnected reports the raw connection state.
	IsConnected() bool
}

// Page is one admin screen.
type Page interface {
	Name() string
	// Mount registers the page handlers and requests the initial data.
	Mount(ctx context.Context) error
	// Refresh requests the page data again.
	Refresh(ctx context.Context) error
	// Unmount replaces every handler the page registered with a no-op.
	Unmount()
	// Loading reports whether a request is waiting for its answer.
	Loading() bool
}

type page struct {
	name      string
	transport Transport
	notifier  notify.Notifier

	loading atomic.Bool

	mtx        sync.Mutex
	registered []string
}

func newPage(name string, transport Transport, notifier notify.Notifier) page {
	return page{
		name:      name,
		transport: transport,
		notifier:  notifier,
	}
}

func (p *page) Name() string {
	return p.name
}

func (p *page) Loading() bool {
	return p.loading.Load()
}

// on registers handler for typ and remembers typ for Unmount.
func (p *page) on(typ string, handler websocket.HandlerFunc) {
	p.mtx.Lock()
	p.registered = append(p.registered, typ)
	p.mtx.Unlock()

	p.transport.OnMessage(typ, handler)
}

func (p *page) Unmount() {
	p.mtx.Lock()
	registered := p.registered
	p.registered = nil
	p.mtx.Unlock()

	for _, typ := range registered {
		p.transport.OnMessage(typ, websocket.Noop)
	}
	p.loading.Store(false)
	log.Debug("Page unmounted", "page", p.name, "types", registered)
}

// send transmits one frame, toasting when it cannot.
func (p *page) send(ctx context.Context, typ string, body interface{}) error {
	if !p.transport.IsConnected() {
		p.notifier.Notify(notify.Failure("Error", notConnectedMessage))
		return websocket.ErrNotConnected
	}

	frame, err := websocket.NewFrame(typ, body)
	if err != nil {
		p.notifier.Notify(notify.Failure("Error", err.Error()))
		return err
	}
	if err := p.transport.Send(ctx, frame); err != nil {
		log.From(ctx).Errorw("Send frame failed", "page", p.name, "type", typ, "error", err)
		p.notifier.Notify(notify.Failure("Error", err.Error()))
		return err
	}

	return nil
}

// request marks the page loading and sends a frame that expects an answer.
// The answer may be dispatched before Send returns, so the flag is set first
// and restored when nothing was sent.
func (p *page) request(ctx context.Context, typ string, body interface{}) error {
	was := p.loading.Swap(true)
	if err := p.send(ctx, typ, body); err != nil {
		p.loading.Store(was)
		return err
	}

	return nil
}

// handleError is the handler of the generic error frame.
func (p *page) handleError(ctx context.Context, payload websocket.Payload) {
	p.loading.Store(false)
	p.notifier.Notify(notify.Failure("Error", payload.Message(defaultErrorMessage)))
}

// acknowledge returns a handler for a mutation acknowledgment: toast, then
// re-request the whole list.
func (p *page) acknowledge(title string, refresh func(ctx context.Context) error) websocket.HandlerFunc {
	return func(ctx context.Context, payload websocket.Payload) {
		p.loading.Store(false)
		p.notifier.Notify(notify.Success(title, payload.Message("")))
		_ = refresh(ctx)
	}
}

// decodeList decodes the list in field key. A missing or malformed
// field yields an empty list.
func decodeList[T any](ctx context.Context, payload websocket.Payload, key string) []T {
	var items []T
	if !payload.Has(key) {
		return []T{}
	}
	if err := payload.Decode(key, &items); err != nil {
		log.From(ctx).Errorw("Decode list failed", "field", key, "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}

	return items
}

// listState is the list a page renders.
type listState[T any] struct {
	mtx   sync.RWMutex
	items []T
}

func (s *listState[T]) set(items []T) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.items = items
}

func (s *listState[T]) snapshot() []T {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return append([]T(nil), s.items...)
}

func (s *listState[T]) filter(keep func(T) bool) []T {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var out []T
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}

	return out
}
