// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package session

import (
	"context"
	"time"

	"github.com/spf13/pflag"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/storage/etcd"
	"github.com/wangtaoking1/shopdesk/storage/redis"
)

// Options defines where session tokens are kept.
type Options struct {
	Account string         `json:"account" mapstructure:"account"`
	TTL     time.Duration  `json:"ttl"     mapstructure:"ttl"`
	Redis   *redis.Options `json:"redis"   mapstructure:"redis"`
	Etcd    *etcd.Options  `json:"etcd"    mapstructure:"etcd"`
}

// NewOptions creates options keeping tokens in memory.
func NewOptions() *Options {
	return &Options{
		TTL:   24 * time.Hour,
		Redis: redis.NewOptions(),
		Etcd:  etcd.NewOptions(),
	}
}

// Validate verifies flags passed to Options.
func (o *Options) Validate() []error {
	var errs []error
	if o.TTL < 0 {
		errs = append(errs, errors.New("--session.ttl cannot be negative"))
	}

	if o.Redis.Enabled && o.Etcd.Enabled {
		errs = append(errs, errors.New("--redis.enabled and --etcd.enabled are mutually exclusive"))
	}
	errs = append(errs, o.Redis.Validate()...)

	return append(errs, o.Etcd.Validate()...)
}

// AddFlags adds flags related to session storage to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Account, "session.account", o.Account, "Account the stored token belongs to.")
	fs.DurationVar(&o.TTL, "session.ttl", o.TTL, "How long a stored token is kept, 0 keeps it forever.")
	o.Redis.AddFlags(fs)
	o.Etcd.AddFlags(fs)
}

// New creates the store the options describe. A redis store lives until ctx
// is done.
func New(ctx context.Context, o *Options) (Store, error) {
	if o.Etcd != nil && o.Etcd.Enabled {
		cli, err := etcd.New(o.Etcd)
		if err != nil {
			return nil, err
		}

		return NewEtcd(cli, o.Account, o.TTL), nil
	}
	if o.Redis == nil || !o.Redis.Enabled {
		return NewMemory(), nil
	}

	cli, err := redis.NewClient(ctx, o.Redis)
	if err != nil {
		return nil, err
	}

	var storeOpts []redis.Option
	storeOpts = append(storeOpts, redis.WithKeyPrefix(o.Redis.KeyPrefix))
	if o.Redis.KeyHash {
		storeOpts = append(storeOpts, redis.WithKeyHash())
	}

	return NewRedis(redis.NewStore(cli, storeOpts...), o.Account, o.TTL), nil
}
