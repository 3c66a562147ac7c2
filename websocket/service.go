// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import "context"

// Service is the frame dispatcher the admin pages talk to: one router over one
// persistent client connection.
type Service struct {
	router *Router
	client *Client
}

// NewService creates a service for the given client options.
func NewService(opts *ClientOptions) (*Service, error) {
	router := NewRouter()
	client, err := NewClient(router, opts)
	if err != nil {
		return nil, err
	}

	return &Service{
		router: router,
		client: client,
	}, nil
}

// OnMessage registers or replaces the handler for a frame type.
func (s *Service) OnMessage(typ string, handler HandlerFunc) {
	s.router.OnMessage(typ, handler)
}

// Send transmits a frame over the active connection.
func (s *Service) Send(ctx context.Context, frame *Frame) error {
	return s.client.Send(ctx, frame)
}

// IsConnected reports the raw socket state.
func (s *Service) IsConnected() bool {
	return s.client.IsConnected()
}

// OnConnect sets a callback run after every successful dial.
func (s *Service) OnConnect(fn func(ctx context.Context)) {
	s.client.OnConnect(fn)
}

// Types lists the frame types with a registered handler.
func (s *Service) Types() []string {
	return s.router.Types()
}

// Run keeps the connection open until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	return s.client.Run(ctx)
}
