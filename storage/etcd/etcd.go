// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package etcd is a small key-value store over an etcd cluster with
// per-key expiry through leases.
package etcd

import (
	"context"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
)

// ErrKeyNotFound is returned by Get for a missing or expired key.
var ErrKeyNotFound = errors.New("key not found")

// Store defines the interface of etcd store.
type Store interface {
	// Put stores val under key. A positive ttl attaches a lease so the key
	// expires on its own.
	Put(ctx context.Context, key, val string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)
	Close() error
}

type store struct {
	options *Options
	cli     *clientv3.Client
}

// New connects to the cluster the options describe.
func New(opts *Options) (Store, error) {
	cli, err := initClient(opts)
	if err != nil {
		return nil, errors.Wrap(err, "init etcd client")
	}
	log.Infow("Etcd client connected", "endpoints", opts.Endpoints, "namespace", opts.Namespace)

	return &store{options: opts, cli: cli}, nil
}

func initClient(opts *Options) (*clientv3.Client, error) {
	tlsConfig, err := opts.loadTLSConfig()
	if err != nil {
		return nil, err
	}

	cfg := clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.Timeout,
		Username:    opts.Username,
		Password:    opts.Password,
		TLS:         tlsConfig,

		DialOptions: []grpc.DialOption{
			grpc.WithBlock(),
		},
	}

	return clientv3.New(cfg)
}

func (s *store) getKey(key string) string {
	if len(s.options.Namespace) == 0 {
		return key
	}

	return "/" + s.options.Namespace + "/" + key
}

func (s *store) Put(ctx context.Context, key, val string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, s.options.RequestTimeout)
	defer cancel()

	var opts []clientv3.OpOption
	if ttl > 0 {
		seconds := int64(ttl / time.Second)
		if seconds == 0 {
			seconds = 1
		}
		lease, err := s.cli.Grant(ctx, seconds)
		if err != nil {
			return errors.Wrap(err, "grant lease error")
		}
		opts = append(opts, clientv3.WithLease(lease.ID))
	}

	if _, err := s.cli.Put(ctx, s.getKey(key), val, opts...); err != nil {
		return errors.Wrap(err, "put key-value pair to etcd failed")
	}

	return nil
}

func (s *store) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.RequestTimeout)
	defer cancel()

	resp, err := s.cli.Get(ctx, s.getKey(key))
	if err != nil {
		return "", errors.Wrap(err, "get key from etcd failed")
	}
	if len(resp.Kvs) == 0 {
		return "", ErrKeyNotFound
	}

	return string(resp.Kvs[0].Value), nil
}

func (s *store) Delete(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.options.RequestTimeout)
	defer cancel()

	resp, err := s.cli.Delete(ctx, s.getKey(key))
	if err != nil {
		return false, errors.Wrap(err, "delete key from etcd failed")
	}

	return resp.Deleted > 0, nil
}

func (s *store) Close() error {
	return s.cli.Close()
}
