// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/wangtaoking1/shopdesk/backend/store"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/kafka"
	"github.com/wangtaoking1/shopdesk/storage/redis"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// Options contains configuration options for the simulator backend.
type Options struct {
	APIPrefix    string        `json:"api-prefix"    mapstructure:"api-prefix"`
	TokenTTL     time.Duration `json:"token-ttl"     mapstructure:"token-ttl"`
	Seed         bool          `json:"seed"          mapstructure:"seed"`
	SeedPassword string        `json:"-"             mapstructure:"seed-password"`

	Store     *store.Options           `json:"store"     mapstructure:"store"`
	Kafka     *kafka.Options           `json:"kafka"     mapstructure:"kafka"`
	Redis     *redis.Options           `json:"redis"     mapstructure:"redis"`
	WebSocket *websocket.ServerOptions `json:"websocket" mapstructure:"websocket"`
}

// NewOptions creates options for a seeded in-memory backend.
func NewOptions() *Options {
	return &Options{
		APIPrefix:    "/api",
		TokenTTL:     24 * time.Hour,
		Seed:         true,
		SeedPassword: "shopdesk",
		Store:        store.NewOptions(),
		Kafka:        kafka.NewOptions(),
		Redis:        redis.NewOptions(),
		WebSocket:    websocket.NewServerOptions(),
	}
}

// Validate verifies flags passed to Options.
func (o *Options) Validate() []error {
	var errs []error
	if o.APIPrefix == "" || o.APIPrefix[0] != '/' {
		errs = append(errs, errors.New("--backend.api-prefix must start with /"))
	}
	if o.TokenTTL < 0 {
		errs = append(errs, errors.New("--backend.token-ttl can not be negative"))
	}
	if o.Seed && len(o.SeedPassword) < 6 {
		errs = append(errs, errors.New("--backend.seed-password must have at least 6 characters"))
	}
	errs = append(errs, o.Store.Validate()...)
	errs = append(errs, o.Kafka.Validate()...)
	errs = append(errs, o.Redis.Validate()...)
	errs = append(errs, o.WebSocket.Validate()...)

	return errs
}

// AddFlags adds flags of the backend and its components to fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.APIPrefix, "backend.api-prefix", o.APIPrefix, "Path prefix of the mobile REST api.")
	fs.DurationVar(&o.TokenTTL, "backend.token-ttl", o.TokenTTL, "Lifetime of issued bearer tokens, 0 means forever.")
	fs.BoolVar(&o.Seed, "backend.seed", o.Seed, "Fill an empty store with demo data on start.")
	fs.StringVar(&o.SeedPassword, "backend.seed-password", o.SeedPassword, "Password of the seeded accounts.")

	o.Store.AddFlags(fs)
	o.Kafka.AddFlags(fs)
	o.Redis.AddFlags(fs)
	o.WebSocket.AddFlags(fs)
}
