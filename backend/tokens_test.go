// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/shopdesk/mobile"
	"github.com/wangtaoking1/shopdesk/storage/redis"
)

// fakeRedis is an in-memory redis.Store recording the ttl of every key.
type fakeRedis struct {
	mtx  sync.Mutex
	kv   map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{kv: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) GetKey(key string) (string, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	v, ok := f.kv[key]
	if !ok {
		return "", redis.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeRedis) SetKey(key, value string, ttl time.Duration) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.kv[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) GetExp(key string) (time.Duration, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return f.ttls[key], nil
}

func (f *fakeRedis) SetExp(key string, ttl time.Duration) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	f.ttls[key] = ttl
	return nil
}

func (f *fakeRedis) DeleteKey(key string) bool {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	_, ok := f.kv[key]
	delete(f.kv, key)
	delete(f.ttls, key)
	return ok
}

func (f *fakeRedis) Exists(key string) (bool, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	_, ok := f.kv[key]
	return ok, nil
}

func (f *fakeRedis) Publish(string, string) error { return nil }

func (f *fakeRedis) GetKeyPrefix() string { return "" }

func (f *fakeRedis) len() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	return len(f.kv)
}

func TestMemoryTokens_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := newMemoryTokens(time.Hour)
	tokens.now = func() time.Time { return now }

	token, err := tokens.Issue(ctx, "u1")
	require.NoError(t, err)
	userID, err := tokens.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	now = now.Add(2 * time.Hour)
	_, err = tokens.Lookup(ctx, token)
	assert.ErrorIs(t, err, errUnknownToken)
	assert.Empty(t, tokens.grants)

	token, err = tokens.Issue(ctx, "u2")
	require.NoError(t, err)
	require.NoError(t, tokens.Revoke(ctx, token))
	_, err = tokens.Lookup(ctx, token)
	assert.ErrorIs(t, err, errUnknownToken)
}

func TestMemoryTokens_NoTTL(t *testing.T) {
	ctx := context.Background()
	tokens := newMemoryTokens(0)
	token, err := tokens.Issue(ctx, "u1")
	require.NoError(t, err)
	tokens.now = func() time.Time { return time.Now().Add(24 * 365 * time.Hour) }

	userID, err := tokens.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestRedisTokens(t *testing.T) {
	ctx := context.Background()
	kv := newFakeRedis()
	tokens := newRedisTokens(kv, 30*time.Minute)

	token, err := tokens.Issue(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", kv.kv[tokenKeyPrefix+token])
	assert.Equal(t, 30*time.Minute, kv.ttls[tokenKeyPrefix+token])

	userID, err := tokens.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = tokens.Lookup(ctx, "")
	assert.ErrorIs(t, err, errUnknownToken)
	_, err = tokens.Lookup(ctx, "missing")
	assert.ErrorIs(t, err, errUnknownToken)

	require.NoError(t, tokens.Revoke(ctx, token))
	_, err = tokens.Lookup(ctx, token)
	assert.ErrorIs(t, err, errUnknownToken)
}

func TestNewTokenStore_Memory(t *testing.T) {
	tokens, err := NewTokenStore(context.Background(), redis.NewOptions(), time.Hour)
	require.NoError(t, err)
	assert.IsType(t, &memoryTokens{}, tokens)
}

func TestAPI_RedisTokens(t *testing.T) {
	ctx := context.Background()
	kv := newFakeRedis()
	srv := newTestBackendWithTokens(t, &fakePublisher{}, newRedisTokens(kv, time.Hour))
	c := newMobileClient(t, srv, SeedCustomerEmail)
	assert.Equal(t, 1, kv.len())

	orders, err := c.Orders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	token, err := c.Tokens().Token(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, 0, kv.len())

	require.NoError(t, c.Tokens().SetToken(ctx, token))
	_, err = c.Orders(ctx)
	assert.True(t, mobile.IsUnauthorized(err))
}
