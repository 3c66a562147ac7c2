// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/storage/redis"
)

const tokenKeyPrefix = "token:"

var errUnknownToken = errors.New("unknown or expired token")

// TokenStore keeps the bearer tokens issued at login.
type TokenStore interface {
	// Issue creates a token for userID.
	Issue(ctx context.Context, userID string) (string, error)
	// Lookup returns the user owning token, or errUnknownToken.
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// NewTokenStore returns a redis backed store when opts enables redis, an
// in-process one otherwise. A redis client lives until ctx is done.
func NewTokenStore(ctx context.Context, opts *redis.Options, ttl time.Duration) (TokenStore, error) {
	if opts == nil || !opts.Enabled {
		return newMemoryTokens(ttl), nil
	}

	cli, err := redis.NewClient(ctx, opts)
	if err != nil {
		return nil, errors.WithMessage(err, "create redis client")
	}
	storeOpts := []redis.Option{redis.WithKeyPrefix(opts.KeyPrefix)}
	if opts.KeyHash {
		storeOpts = append(storeOpts, redis.WithKeyHash())
	}

	return newRedisTokens(redis.NewStore(cli, storeOpts...), ttl), nil
}

type redisTokens struct {
	store redis.Store
	ttl   time.Duration
}

func newRedisTokens(store redis.Store, ttl time.Duration) *redisTokens {
	return &redisTokens{store: store, ttl: ttl}
}

func (r *redisTokens) Issue(_ context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := r.store.SetKey(tokenKeyPrefix+token, userID, r.ttl); err != nil {
		return "", errors.WithMessage(err, "save token")
	}

	return token, nil
}

func (r *redisTokens) Lookup(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", errUnknownToken
	}
	userID, err := r.store.GetKey(tokenKeyPrefix + token)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return "", errUnknownToken
	}
	if err != nil {
		return "", errors.WithMessage(err, "read token")
	}

	return userID, nil
}

func (r *redisTokens) Revoke(_ context.Context, token string) error {
	if token != "" {
		r.store.DeleteKey(tokenKeyPrefix + token)
	}

	return nil
}

type grant struct {
	userID  string
	expires time.Time
}

// memoryTokens forgets every token with the process.
type memoryTokens struct {
	mtx    sync.Mutex
	ttl    time.Duration
	grants map[string]grant
	now    func() time.Time
}

func newMemoryTokens(ttl time.Duration) *memoryTokens {
	return &memoryTokens{
		ttl:    ttl,
		grants: make(map[string]grant),
		now:    time.Now,
	}
}

func (m *memoryTokens) Issue(_ context.Context, userID string) (string, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.evict()
	token := uuid.NewString()
	m.grants[token] = grant{userID: userID, expires: m.now().Add(m.ttl)}

	return token, nil
}

func (m *memoryTokens) Lookup(_ context.Context, token string) (string, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	g, ok := m.grants[token]
	if !ok {
		return "", errUnknownToken
	}
	if m.ttl > 0 && m.now().After(g.expires) {
		delete(m.grants, token)
		return "", errUnknownToken
	}

	return g.userID, nil
}

func (m *memoryTokens) Revoke(_ context.Context, token string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	delete(m.grants, token)
	return nil
}

// evict drops expired grants. Callers hold the lock.
func (m *memoryTokens) evict() {
	if m.ttl <= 0 {
		return
	}
	now := m.now()
	for token, g := range m.grants {
		if now.After(g.expires) {
			delete(m.grants, token)
		}
	}
}
