// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package backend simulates the platform backend: the admin frame vocabulary
// over a websocket and the mobile REST api.
package backend

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/wangtaoking1/shopdesk/backend/events"
	"github.com/wangtaoking1/shopdesk/backend/store"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// Backend owns the store, the event publisher and the endpoints built on
// them.
type Backend struct {
	opts *Options

	store     store.Store
	publisher events.Publisher
	admin     *Admin
	ws        *websocket.Server
	api       *api

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New opens the store, the publisher and the token store the options describe.
func New(ctx context.Context, opts *Options) (*Backend, error) {
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, errors.NewAggregate(errs)
	}

	s, err := store.New(opts.Store)
	if err != nil {
		return nil, errors.WithMessage(err, "open store")
	}
	if opts.Seed {
		if err := Seed(ctx, s, opts.SeedPassword); err != nil {
			_ = s.Close()
			return nil, errors.WithMessage(err, "seed store")
		}
	}
	pub, err := events.NewPublisher(opts.Kafka)
	if err != nil {
		_ = s.Close()
		return nil, errors.WithMessage(err, "create event publisher")
	}
	ctx, cancel := context.WithCancel(ctx)
	tokens, err := NewTokenStore(ctx, opts.Redis, opts.TokenTTL)
	if err != nil {
		cancel()
		pub.Close()
		_ = s.Close()
		return nil, errors.WithMessage(err, "create token store")
	}

	b, err := newBackend(opts, s, pub, tokens)
	if err != nil {
		cancel()
		pub.Close()
		_ = s.Close()
		return nil, err
	}
	b.cancel = cancel

	return b, nil
}

func newBackend(opts *Options, s store.Store, pub events.Publisher, tokens TokenStore) (*Backend, error) {
	admin := NewAdmin(s, pub)
	ws, err := websocket.NewServer(admin, opts.WebSocket)
	if err != nil {
		return nil, err
	}

	return &Backend{
		opts:      opts,
		store:     s,
		publisher: pub,
		admin:     admin,
		ws:        ws,
		api: &api{
			store:     s,
			publisher: pub,
			tokens:    tokens,
			geocoder:  NewAddressBook(DefaultAddresses),
		},
	}, nil
}

// Setup mounts the websocket endpoint and the REST api on g.
func (b *Backend) Setup(g *gin.Engine) error {
	g.GET(b.ws.Path(), gin.WrapH(b.ws))
	b.api.register(g.Group(b.opts.APIPrefix))

	log.Infow("Backend routes installed", "websocket", b.ws.Path(), "api", b.opts.APIPrefix,
		"admin_types", len(b.admin.Types()))

	return nil
}

// Close releases the websocket pool, the publisher, the token store and the
// store. Only the first call has an effect.
func (b *Backend) Close() {
	b.closeOnce.Do(func() {
		b.ws.Close()
		if b.cancel != nil {
			b.cancel()
		}
		b.publisher.Close()
		if err := b.store.Close(); err != nil {
			log.Warn("Failed to close store", "error", err)
		}
	})
}
