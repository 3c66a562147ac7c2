// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package auth builds kafka transports and dialers for the supported broker
// authentication schemes.
package auth

import (
	"net"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/wangtaoking1/shopdesk/errors"
)

type AuthType string

const (
	AuthTypeRaw   AuthType = "raw"
	AuthTypeSASL  AuthType = "sasl"
	AuthTypeSCRAM AuthType = "scram"
)

const dialTimeout = 10 * time.Second

// Authenticator hands out connections authenticated against the brokers.
type Authenticator interface {
	// Transport is used by writers.
	Transport() kafka.RoundTripper
	// Dialer is used by readers.
	Dialer() *kafka.Dialer
}

// New returns the authenticator of authType.
func New(authType AuthType, username, password string) (Authenticator, error) {
	switch authType {
	case AuthTypeRaw, "":
		return &authenticator{}, nil
	case AuthTypeSASL:
		return &authenticator{mechanism: plain.Mechanism{Username: username, Password: password}}, nil
	case AuthTypeSCRAM:
		m, err := scram.Mechanism(scram.SHA512, username, password)
		if err != nil {
			return nil, errors.Wrap(err, "scram mechanism")
		}
		return &authenticator{mechanism: m}, nil
	}

	return nil, errors.Errorf("unknown kafka auth type %q", authType)
}

type authenticator struct {
	mechanism sasl.Mechanism
}

func (a *authenticator) Transport() kafka.RoundTripper {
	return &kafka.Transport{
		Dial: (&net.Dialer{Timeout: dialTimeout}).DialContext,
		SASL: a.mechanism,
	}
}

func (a *authenticator) Dialer() *kafka.Dialer {
	return &kafka.Dialer{
		Timeout:       dialTimeout,
		DualStack:     true,
		SASLMechanism: a.mechanism,
	}
}
