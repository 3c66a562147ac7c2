// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/wangtaoking1/shopdesk/backend"
	"github.com/wangtaoking1/shopdesk/backend/store"
	"github.com/wangtaoking1/shopdesk/flag"
	"github.com/wangtaoking1/shopdesk/kafka"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/server"
	"github.com/wangtaoking1/shopdesk/storage/mysql"
	"github.com/wangtaoking1/shopdesk/storage/redis"
	"github.com/wangtaoking1/shopdesk/storage/sqlite"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// Options of the simulator. The backend components are also exposed at the
// top level so config keys match the flag names.
type Options struct {
	Log     *log.Options     `json:"log"     mapstructure:"log"`
	Server  *server.Options  `json:"server"  mapstructure:"server"`
	Backend *backend.Options `json:"backend" mapstructure:"backend"`

	Store     *store.Options           `json:"store"     mapstructure:"store"`
	MySQL     *mysql.Options           `json:"mysql"     mapstructure:"mysql"`
	SQLite    *sqlite.Options          `json:"sqlite"    mapstructure:"sqlite"`
	Kafka     *kafka.Options           `json:"kafka"     mapstructure:"kafka"`
	Redis     *redis.Options           `json:"redis"     mapstructure:"redis"`
	WebSocket *websocket.ServerOptions `json:"websocket" mapstructure:"websocket"`
}

// NewOptions creates options with default parameters.
func NewOptions() *Options {
	b := backend.NewOptions()

	return &Options{
		Log:       log.NewOptions(),
		Server:    server.NewOptions(),
		Backend:   b,
		Store:     b.Store,
		MySQL:     b.Store.MySQL,
		SQLite:    b.Store.SQLite,
		Kafka:     b.Kafka,
		Redis:     b.Redis,
		WebSocket: b.WebSocket,
	}
}

func (o *Options) Flags() (fss flag.NamedFlagSets) {
	o.Log.AddFlags(fss.FlagSet("log"))
	o.Server.AddFlags(fss.FlagSet("server"))
	o.Backend.AddFlags(fss.FlagSet("backend"))

	return fss
}

func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.Log.Validate()...)
	errs = append(errs, o.Server.Validate()...)
	errs = append(errs, o.Backend.Validate()...)

	return errs
}

// Complete sets up logging once the options are final.
func (o *Options) Complete() error {
	log.Init(o.Log)

	return nil
}
