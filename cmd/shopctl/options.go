// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/flag"
	"github.com/wangtaoking1/shopdesk/kafka"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/mobile"
	"github.com/wangtaoking1/shopdesk/session"
	"github.com/wangtaoking1/shopdesk/storage/etcd"
	"github.com/wangtaoking1/shopdesk/storage/redis"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// Options are shared by every shopctl command. Nested component options
// are also exposed at the top level so config keys match the flag names.
type Options struct {
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	Log       *log.Options             `json:"log"       mapstructure:"log"`
	WebSocket *websocket.ClientOptions `json:"websocket" mapstructure:"websocket"`
	API       *mobile.Options          `json:"api"       mapstructure:"api"`
	Session   *session.Options         `json:"session"   mapstructure:"session"`
	Redis     *redis.Options           `json:"redis"     mapstructure:"redis"`
	Etcd      *etcd.Options            `json:"etcd"      mapstructure:"etcd"`
	Kafka     *kafka.Options           `json:"kafka"     mapstructure:"kafka"`
}

// NewOptions creates options with default parameters.
func NewOptions() *Options {
	sess := session.NewOptions()
	sess.Account = "default"

	return &Options{
		Timeout:   10 * time.Second,
		Log:       log.NewOptions(),
		WebSocket: websocket.NewClientOptions(),
		API:       mobile.NewOptions(),
		Session:   sess,
		Redis:     sess.Redis,
		Etcd:      sess.Etcd,
		Kafka:     kafka.NewOptions(),
	}
}

func (o *Options) Flags() (fss flag.NamedFlagSets) {
	fss.FlagSet("generic").DurationVar(&o.Timeout, "timeout", o.Timeout,
		"How long to wait for the backend to answer.")
	o.Log.AddFlags(fss.FlagSet("log"))
	o.WebSocket.AddFlags(fss.FlagSet("websocket"))
	o.API.AddFlags(fss.FlagSet("api"))
	o.Session.AddFlags(fss.FlagSet("session"))
	o.Kafka.AddFlags(fss.FlagSet("kafka"))

	return fss
}

func (o *Options) Validate() []error {
	var errs []error
	if o.Timeout <= 0 {
		errs = append(errs, errors.New("--timeout must be positive"))
	}
	errs = append(errs, o.Log.Validate()...)
	errs = append(errs, o.WebSocket.Validate()...)
	errs = append(errs, o.API.Validate()...)
	errs = append(errs, o.Session.Validate()...)
	errs = append(errs, o.Kafka.Validate()...)

	return errs
}

// Complete sets up logging once the options are final.
func (o *Options) Complete() error {
	log.Init(o.Log)

	return nil
}
