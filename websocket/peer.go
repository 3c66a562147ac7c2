// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
)

const writeBufferSize = 100

// ErrPeerClosed is returned when writing to a peer whose connection is gone.
var ErrPeerClosed = errors.New("peer closed")

type clientPeer struct {
	clientId   string
	opts       *ServerOptions
	dispatcher Dispatcher
	conn       *websocket.Conn
	writeCh    chan *Frame

	stopCh   chan struct{}
	stopOnce sync.Once
}

func newPeer(id string, dispatcher Dispatcher, conn *websocket.Conn, opts *ServerOptions) *clientPeer {
	return &clientPeer{
		clientId:   id,
		opts:       opts,
		dispatcher: dispatcher,
		conn:       conn,
		writeCh:    make(chan *Frame, writeBufferSize),
		stopCh:     make(chan struct{}),
	}
}

func (p *clientPeer) Run(ctx context.Context) {
	ctx = log.WithContext(ctx, "peer", p.clientId)
	if p.opts.MaxMessageSize > 0 {
		p.conn.SetReadLimit(p.opts.MaxMessageSize)
	}
	_ = p.conn.SetReadDeadline(time.Now().Add(p.opts.HeartbeatTimeout))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(p.opts.HeartbeatTimeout))
	})

	wg := sync.WaitGroup{}
	wg.Add(3)
	go func() {
		defer wg.Done()
		p.pingLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		p.readLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		p.writeLoop(ctx)
	}()
	go func() {
		select {
		case <-ctx.Done():
		case <-p.stopCh:
		}
		// Unblocks the read loop.
		_ = p.conn.Close()
	}()
	wg.Wait()
	p.stop()
	log.Infof("Client peer closed, id: %v", p.clientId)
}

func (p *clientPeer) stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
}

func (p *clientPeer) pingLoop(ctx context.Context) {
	pingTicker := time.NewTicker(p.opts.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-pingTicker.C:
			if err := p.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(p.opts.WriteTimeout)); err != nil {
				log.Errorf("Write ping message error: %v", err)
				p.stop()
				return
			}
		}
	}
}

func (p *clientPeer) readLoop(ctx context.Context) {
	defer p.stop()

	for {
		messageType, message, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.From(ctx).Errorf("Connect unexpected close: %v", err)
			}
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		frame, err := ParseFrame(message)
		if err != nil {
			log.From(ctx).Errorf("Parse frame error: %v", err)
			continue
		}
		p.handleFrame(ctx, frame)
	}
}

func (p *clientPeer) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case frame := <-p.writeCh:
			text, err := json.Marshal(frame)
			if err != nil {
				log.Errorf("Marshal frame error: %v", err)
				continue
			}
			_ = p.conn.SetWriteDeadline(time.Now().Add(p.opts.WriteTimeout))
			if err = p.conn.WriteMessage(websocket.TextMessage, text); err != nil {
				log.Errorf("Write frame error: %v", err)
				p.stop()
				return
			}
		}
	}
}

func (p *clientPeer) handleFrame(ctx context.Context, frame *Frame) {
	defer func() {
		if err := recover(); err != nil {
			log.Errorf("Handle frame panic: %v", err)
			return
		}
	}()

	p.dispatcher.Dispatch(ctx, p, frame)
}

func (p *clientPeer) Write(ctx context.Context, frame *Frame) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.stopCh:
		return ErrPeerClosed
	case p.writeCh <- frame:
		return nil
	}
}
