// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/wangtaoking1/shopdesk/log"
)

// Writer sends frames back over the connection a frame arrived on.
type Writer interface {
	Write(ctx context.Context, frame *Frame) error
}

// Dispatcher routes inbound frames.
type Dispatcher interface {
	Dispatch(ctx context.Context, writer Writer, frame *Frame)
}

// HandlerFunc processes the payload of one frame type.
type HandlerFunc func(ctx context.Context, payload Payload)

// Noop is the handler installed in place of a handler that went away.
func Noop(context.Context, Payload) {}

// Router maps a frame type to exactly one handler. Registering a type again
// replaces the previous handler; frames of unregistered types are dropped.
type Router struct {
	mtx      sync.RWMutex
	handlers map[string]HandlerFunc
}

var _ Dispatcher = (*Router)(nil)

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
	}
}

// OnMessage registers handler for frames of type typ, replacing any handler
// registered before. A nil handler is stored as Noop.
func (r *Router) OnMessage(typ string, handler HandlerFunc) {
	if handler == nil {
		handler = Noop
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.handlers[typ] = handler
}

// Types returns the registered frame types, sorted.
func (r *Router) Types() []string {
	r.mtx.RLock()
	types := maps.Keys(r.handlers)
	r.mtx.RUnlock()

	slices.Sort(types)

	return types
}

// Dispatch invokes the handler registered for the frame's type.
func (r *Router) Dispatch(ctx context.Context, _ Writer, frame *Frame) {
	r.mtx.RLock()
	handler, ok := r.handlers[frame.Type]
	r.mtx.RUnlock()

	if !ok {
		log.Debug("Drop frame without handler", "type", frame.Type)
		return
	}

	defer func() {
		if err := recover(); err != nil {
			log.Errorw("Handle frame panic", "type", frame.Type, "error", err)
		}
	}()

	handler(ctx, frame.Payload)
}
