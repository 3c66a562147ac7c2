// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/panjf2000/ants/v2"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
)

// Server upgrades http requests to websocket peers and feeds their frames to
// a dispatcher. The number of live peers is bounded by a goroutine pool.
type Server struct {
	opts *ServerOptions

	dispatcher Dispatcher
	upgrader   websocket.Upgrader
	pool       *ants.Pool
}

var _ http.Handler = (*Server)(nil)

// NewServer creates a websocket server.
func NewServer(dispatcher Dispatcher, opts *ServerOptions) (*Server, error) {
	if opts == nil {
		opts = NewServerOptions()
	}
	if errs := opts.Validate(); len(errs) != 0 {
		return nil, errors.NewAggregate(errs)
	}

	pool, err := ants.NewPool(opts.MaxConnections, ants.WithNonblocking(true))
	if err != nil {
		return nil, errors.Wrap(err, "create peer pool")
	}

	return &Server{
		opts:       opts,
		dispatcher: dispatcher,
		pool:       pool,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  opts.ReadBufferSize,
			WriteBufferSize: opts.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			EnableCompression: opts.Compression,
		},
	}, nil
}

// Path returns the http path the server expects to be mounted on.
func (s *Server) Path() string {
	return s.opts.Path
}

// Running returns the number of live peers.
func (s *Server) Running() int {
	return s.pool.Running()
}

// Close releases the peer pool. Live peers keep running until their
// connection ends.
func (s *Server) Close() {
	s.pool.Release()
}

func (s *Server) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	id := request.URL.Query().Get("uuid")
	if len(id) == 0 {
		id = uuid.New().String()
	}
	ip := request.Header.Get("True-Client-IP")
	if len(ip) == 0 {
		ip = request.RemoteAddr
	}
	log.Infow("request",
		"client_id", id,
		"url", request.URL.Path,
		"real_ip", ip,
	)
	conn, err := s.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		log.Infof("stream request error: %v", err)
		return
	}

	peer := newPeer(id, s.dispatcher, conn, s.opts)
	done := make(chan struct{})
	err = s.pool.Submit(func() {
		defer close(done)
		peer.Run(request.Context())
	})
	if err != nil {
		log.Warn("Reject websocket peer", "client_id", id, "error", err)
		msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too many connections")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.opts.WriteTimeout))
		_ = conn.Close()
		return
	}
	<-done
}
