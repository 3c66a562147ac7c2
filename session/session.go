// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package session keeps the bearer token of the mobile app between calls.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/storage/etcd"
	"github.com/wangtaoking1/shopdesk/storage/redis"
)

const tokenKey = "auth_token"

// Store holds the current bearer token. An empty token means signed out.
type Store interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type memory struct {
	mtx   sync.RWMutex
	token string
}

// NewMemory returns a store that forgets the token with the process.
func NewMemory() Store {
	return &memory{}
}

func (m *memory) Token(context.Context) (string, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	return m.token, nil
}

func (m *memory) SetToken(_ context.Context, token string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.token = token
	return nil
}

func (m *memory) Clear(ctx context.Context) error {
	return m.SetToken(ctx, "")
}

type redisStore struct {
	store redis.Store
	key   string
	ttl   time.Duration
}

// NewRedis returns a store keeping the token of account under store. A zero
// ttl keeps the token until it is cleared.
func NewRedis(store redis.Store, account string, ttl time.Duration) Store {
	key := tokenKey
	if account != "" {
		key += ":" + account
	}

	return &redisStore{store: store, key: key, ttl: ttl}
}

func (r *redisStore) Token(context.Context) (string, error) {
	token, err := r.store.GetKey(r.key)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return "", nil
	}

	return token, errors.WithMessage(err, "read session token")
}

func (r *redisStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return r.Clear(ctx)
	}

	return errors.WithMessage(r.store.SetKey(r.key, token, r.ttl), "save session token")
}

func (r *redisStore) Clear(context.Context) error {
	r.store.DeleteKey(r.key)
	return nil
}

type etcdStore struct {
	store etcd.Store
	key   string
	ttl   time.Duration
}

// NewEtcd returns a store keeping the token of account in etcd. A zero ttl
// keeps the token until it is cleared.
func NewEtcd(store etcd.Store, account string, ttl time.Duration) Store {
	key := tokenKey
	if account != "" {
		key += "/" + account
	}

	return &etcdStore{store: store, key: key, ttl: ttl}
}

func (e *etcdStore) Token(ctx context.Context) (string, error) {
	token, err := e.store.Get(ctx, e.key)
	if errors.Is(err, etcd.ErrKeyNotFound) {
		return "", nil
	}

	return token, errors.WithMessage(err, "read session token")
}

func (e *etcdStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return e.Clear(ctx)
	}

	return errors.WithMessage(e.store.Put(ctx, e.key, token, e.ttl), "save session token")
}

func (e *etcdStore) Clear(ctx context.Context) error {
	_, err := e.store.Delete(ctx, e.key)

	return errors.WithMessage(err, "clear session token")
}
