// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/spf13/pflag"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/kafka/auth"
)

// Start offsets of a consumer group without committed offsets.
const (
	StartFirst = "first"
	StartLast  = "last"
)

// Options defines options shared by producers and consumers of one topic.
type Options struct {
	Brokers  []string      `json:"brokers"   mapstructure:"brokers"`
	Topic    string        `json:"topic"     mapstructure:"topic"`
	AuthType auth.AuthType `json:"auth-type" mapstructure:"auth-type"`
	Username string        `json:"username"  mapstructure:"username"`
	Password string        `json:"-"         mapstructure:"password"`

	// Producer side.
	RequiredAcks int  `json:"required-acks" mapstructure:"required-acks"`
	Async        bool `json:"async"         mapstructure:"async"`

	// Consumer side.
	GroupID        string        `json:"group-id"        mapstructure:"group-id"`
	Workers        int           `json:"workers"         mapstructure:"workers"`
	StartOffset    string        `json:"start-offset"    mapstructure:"start-offset"`
	CommitInterval time.Duration `json:"commit-interval" mapstructure:"commit-interval"`
	RetryLimit     int           `json:"retry-limit"     mapstructure:"retry-limit"`
	RetryInterval  time.Duration `json:"retry-interval"  mapstructure:"retry-interval"`
}

// NewOptions creates default options. Without brokers kafka is disabled.
func NewOptions() *Options {
	return &Options{
		Topic:          "shopdesk.events",
		AuthType:       auth.AuthTypeRaw,
		RequiredAcks:   int(kafka.RequireOne),
		GroupID:        "shopdesk",
		Workers:        4,
		StartOffset:    StartLast,
		CommitInterval: 2 * time.Second,
		RetryLimit:     3,
		RetryInterval:  100 * time.Millisecond,
	}
}

// Enabled reports whether brokers are configured.
func (o *Options) Enabled() bool {
	return len(o.Brokers) > 0
}

// Validate verifies flags passed to Options.
func (o *Options) Validate() []error {
	if !o.Enabled() {
		return nil
	}

	var errs []error
	if o.Topic == "" {
		errs = append(errs, errors.New("--kafka.topic can not be empty"))
	}
	if _, err := auth.New(o.AuthType, o.Username, o.Password); err != nil {
		errs = append(errs, err)
	} else if o.AuthType != auth.AuthTypeRaw && o.Username == "" {
		errs = append(errs, errors.New("--kafka.username must be specified for sasl auth"))
	}
	if o.RequiredAcks < int(kafka.RequireAll) || o.RequiredAcks > int(kafka.RequireOne) {
		errs = append(errs, errors.New("--kafka.required-acks must be -1, 0 or 1"))
	}
	if o.Workers <= 0 {
		errs = append(errs, errors.New("--kafka.workers must be positive"))
	}
	if o.StartOffset != StartFirst && o.StartOffset != StartLast {
		errs = append(errs, errors.New("--kafka.start-offset must be first or last"))
	}
	if o.CommitInterval <= 0 {
		errs = append(errs, errors.New("--kafka.commit-interval must be positive"))
	}

	return errs
}

// AddFlags adds flags related to kafka to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&o.Brokers, "kafka.brokers", o.Brokers, ""+
		"Kafka broker addresses, comma separated. Empty disables kafka.")
	fs.StringVar(&o.Topic, "kafka.topic", o.Topic, "Topic domain events are written to.")
	fs.StringVar((*string)(&o.AuthType), "kafka.auth-type", string(o.AuthType), "Authentication: raw, sasl or scram.")
	fs.StringVar(&o.Username, "kafka.username", o.Username, "SASL username.")
	fs.StringVar(&o.Password, "kafka.password", o.Password, "SASL password.")

	fs.IntVar(&o.RequiredAcks, "kafka.required-acks", o.RequiredAcks, ""+
		"Acknowledges required before a write succeeds: -1 all replicas, 0 none, 1 leader.")
	fs.BoolVar(&o.Async, "kafka.async", o.Async, "Write messages without waiting for the brokers.")

	fs.StringVar(&o.GroupID, "kafka.group-id", o.GroupID, "Consumer group id.")
	fs.IntVar(&o.Workers, "kafka.workers", o.Workers, "Parallel message handlers of a consumer.")
	fs.StringVar(&o.StartOffset, "kafka.start-offset", o.StartOffset, ""+
		"Where a group without committed offsets starts: first or last.")
	fs.DurationVar(&o.CommitInterval, "kafka.commit-interval", o.CommitInterval, "Offset commit interval.")
	fs.IntVar(&o.RetryLimit, "kafka.retry-limit", o.RetryLimit, "Attempts per message before it is dropped.")
	fs.DurationVar(&o.RetryInterval, "kafka.retry-interval", o.RetryInterval, "Pause between attempts.")
}

func (o *Options) authenticator() (auth.Authenticator, error) {
	return auth.New(o.AuthType, o.Username, o.Password)
}

func (o *Options) startOffset() int64 {
	if o.StartOffset == StartFirst {
		return kafka.FirstOffset
	}
	return kafka.LastOffset
}
