// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/storage/etcd"
	"github.com/wangtaoking1/shopdesk/storage/redis"
)

type fakeKV struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) GetKey(key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[key]
	if !ok {
		return "", redis.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeKV) SetKey(key, value string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) GetExp(key string) (time.Duration, error) { return f.ttls[key], nil }
func (f *fakeKV) SetExp(key string, ttl time.Duration) error {
	f.ttls[key] = ttl
	return nil
}

func (f *fakeKV) DeleteKey(key string) bool {
	_, ok := f.values[key]
	delete(f.values, key)
	return ok
}

func (f *fakeKV) Exists(key string) (bool, error) {
	_, ok := f.values[key]
	return ok, nil
}

func (f *fakeKV) Publish(string, string) error { return nil }
func (f *fakeKV) GetKeyPrefix() string         { return "" }

type fakeEtcd struct {
	kv *fakeKV
}

func (f fakeEtcd) Put(_ context.Context, key, val string, ttl time.Duration) error {
	return f.kv.SetKey(key, val, ttl)
}

func (f fakeEtcd) Get(_ context.Context, key string) (string, error) {
	v, err := f.kv.GetKey(key)
	if errors.Is(err, redis.ErrKeyNotFound) {
		return "", etcd.ErrKeyNotFound
	}
	return v, err
}

func (f fakeEtcd) Delete(_ context.Context, key string) (bool, error) {
	return f.kv.DeleteKey(key), nil
}

func (f fakeEtcd) Close() error { return nil }

func TestMemory(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SetToken(ctx, "abc"))
	token, _ = store.Token(ctx)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear(ctx))
	token, _ = store.Token(ctx)
	assert.Empty(t, token)
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewRedis(kv, "rider-7", time.Hour)

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SetToken(ctx, "abc"))
	assert.Equal(t, "abc", kv.values["auth_token:rider-7"])
	assert.Equal(t, time.Hour, kv.ttls["auth_token:rider-7"])

	token, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.SetToken(ctx, ""))
	assert.Empty(t, kv.values)

	kv.err = errors.New("connection refused")
	_, err = store.Token(ctx)
	assert.ErrorContains(t, err, "read session token")
}

func TestEtcd(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV()
	store := NewEtcd(fakeEtcd{kv: kv}, "rider-7", 30*time.Minute)

	token, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SetToken(ctx, "xyz"))
	assert.Equal(t, "xyz", kv.values["auth_token/rider-7"])
	assert.Equal(t, 30*time.Minute, kv.ttls["auth_token/rider-7"])

	token, err = store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, kv.values)

	kv.err = errors.New("etcdserver: request timed out")
	assert.ErrorContains(t, store.SetToken(ctx, "again"), "save session token")
}

func TestNew(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())

	store, err := New(context.Background(), opts)
	require.NoError(t, err)
	assert.IsType(t, &memory{}, store)

	opts.TTL = -time.Second
	assert.NotEmpty(t, opts.Validate())

	opts.TTL = time.Hour
	opts.Redis.Enabled = true
	opts.Etcd.Enabled = true
	assert.Contains(t, fmt.Sprint(opts.Validate()), "mutually exclusive")
}
