// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/utils/retry"
)

// ErrNotConnected is returned by Send while the socket is not open. Frames are
// never queued for a later connection.
var ErrNotConnected = errors.New("websocket is not connected")

// Client owns one websocket to the server and keeps it open, redialing after
// the connection is lost.
type Client struct {
	opts       *ClientOptions
	dispatcher Dispatcher
	dialer     *websocket.Dialer

	// writeMtx serializes writers, gorilla allows one concurrent writer.
	writeMtx  sync.Mutex
	conn      *websocket.Conn
	connected atomic.Bool

	onConnect func(ctx context.Context)
}

var _ Writer = (*Client)(nil)

// NewClient creates a client. Call Run to connect.
func NewClient(dispatcher Dispatcher, opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = NewClientOptions()
	}
	if errs := opts.Validate(); len(errs) != 0 {
		return nil, errors.NewAggregate(errs)
	}

	return &Client{
		opts:       opts,
		dispatcher: dispatcher,
		dialer: &websocket.Dialer{
			Proxy:             websocket.DefaultDialer.Proxy,
			HandshakeTimeout:  opts.HandshakeTimeout,
			EnableCompression: opts.Compression,
		},
	}, nil
}

// OnConnect sets a callback run after every successful dial.
func (c *Client) OnConnect(fn func(ctx context.Context)) {
	c.onConnect = fn
}

// IsConnected reports whether the socket is currently open.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// Run connects and serves the connection until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		c.serve(ctx, conn)

		if ctx.Err() != nil {
			return nil
		}
		log.Infof("Websocket disconnected, reconnect in %v", c.opts.ReconnectInterval)
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	var conn *websocket.Conn
	attempt := func() error {
		var err error
		conn, _, err = c.dialer.DialContext(ctx, c.opts.URL, nil)
		if err != nil {
			log.Warnf("Dial %s error: %v", c.opts.URL, err)
			return errors.Wrapf(retry.RetryableErr, "dial error: %v", err)
		}
		return nil
	}

	if err := retry.RetryWithTimeout(ctx, c.opts.ReconnectInterval, 0, attempt); err != nil {
		return nil, err
	}

	return conn, nil
}

func (c *Client) serve(ctx context.Context, conn *websocket.Conn) {
	c.writeMtx.Lock()
	c.conn = conn
	c.writeMtx.Unlock()
	c.connected.Store(true)
	log.Infow("Websocket connected", "url", c.opts.URL)

	defer func() {
		c.connected.Store(false)
		c.writeMtx.Lock()
		c.conn = nil
		c.writeMtx.Unlock()
		_ = conn.Close()
	}()

	if c.opts.MaxMessageSize > 0 {
		conn.SetReadLimit(c.opts.MaxMessageSize)
	}
	_ = conn.SetReadDeadline(time.Now().Add(c.opts.HeartbeatTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(c.opts.HeartbeatTimeout))
	})

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return c.readLoop(gctx, conn)
	})
	eg.Go(func() error {
		return c.pingLoop(gctx, conn)
	})
	eg.Go(func() error {
		// Unblocks ReadMessage once the session is over.
		<-gctx.Done()
		_ = conn.Close()
		return nil
	})
	if c.onConnect != nil {
		eg.Go(func() error {
			c.onConnect(gctx)
			return nil
		})
	}

	if err := eg.Wait(); err != nil && ctx.Err() == nil {
		log.Warnf("Websocket session ended: %v", err)
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			return errors.Wrap(err, "read frame")
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		frame, err := ParseFrame(message)
		if err != nil {
			log.Errorw("Drop malformed frame", "error", err, "size", len(message))
			continue
		}
		c.handleFrame(ctx, frame)
	}
}

func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) error {
	pingTicker := time.NewTicker(c.opts.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(c.opts.WriteTimeout)); err != nil {
				return errors.Wrap(err, "write ping")
			}
		}
	}
}

func (c *Client) handleFrame(ctx context.Context, frame *Frame) {
	defer func() {
		if err := recover(); err != nil {
			log.Errorf("Handle frame panic: %v", err)
		}
	}()

	c.dispatcher.Dispatch(ctx, c, frame)
}

// Send writes one frame. It fails fast with ErrNotConnected when the socket
// is not open; callers gate on IsConnected when they care.
func (c *Client) Send(ctx context.Context, frame *Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	text, err := json.Marshal(frame)
	if err != nil {
		return errors.Wrapf(err, "encode %s frame", frame.Type)
	}

	c.writeMtx.Lock()
	defer c.writeMtx.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, text); err != nil {
		return errors.Wrapf(err, "write %s frame", frame.Type)
	}

	return nil
}

// Write implements Writer.
func (c *Client) Write(ctx context.Context, frame *Frame) error {
	return c.Send(ctx, frame)
}
