// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package redis

import (
	"context"

	"github.com/go-redis/redis/v7"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
)

// NewClient creates a redis client for opts: a sentinel backed failover
// client when a master name is set, a cluster client when cluster mode is
// enabled, a single node client otherwise. The client is closed when ctx is
// done.
func NewClient(ctx context.Context, opts *Options) (redis.UniversalClient, error) {
	if opts == nil {
		return nil, errors.New("options can not be nil")
	}

	tlsConfig, err := opts.loadTLSConfig()
	if err != nil {
		return nil, errors.Wrap(err, "load redis tls config")
	}

	universalOpts := &redis.UniversalOptions{
		Addrs:      opts.Addrs,
		MasterName: opts.MasterName,
		Username:   opts.Username,
		Password:   opts.Password,
		DB:         opts.Database,

		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.RequestTimeout,
		WriteTimeout: opts.RequestTimeout,
		TLSConfig:    tlsConfig,
	}

	var client redis.UniversalClient
	switch {
	case opts.MasterName != "":
		log.Debug("Creating sentinel-backed failover redis client")
		client = redis.NewFailoverClient(universalOpts.Failover())
	case opts.EnableCluster:
		log.Debug("Creating cluster redis client")
		client = redis.NewClusterClient(universalOpts.Cluster())
	default:
		log.Debug("Creating single-node redis client")
		client = redis.NewClient(universalOpts.Simple())
	}

	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()

	return client, nil
}
