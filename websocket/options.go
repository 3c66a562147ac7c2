// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"net/url"
	"time"

	"github.com/spf13/pflag"

	"github.com/wangtaoking1/shopdesk/errors"
)

// ServerOptions contains configuration options for the websocket endpoint.
type ServerOptions struct {
	Path             string        `json:"path"              mapstructure:"path"`
	ReadBufferSize   int           `json:"read-buffer-size"  mapstructure:"read-buffer-size"`
	WriteBufferSize  int           `json:"write-buffer-size" mapstructure:"write-buffer-size"`
	Compression      bool          `json:"compression"       mapstructure:"compression"`
	MaxConnections   int           `json:"max-connections"   mapstructure:"max-connections"`
	MaxMessageSize   int64         `json:"max-message-size"  mapstructure:"max-message-size"`
	PingInterval     time.Duration `json:"ping-interval"     mapstructure:"ping-interval"`
	WriteTimeout     time.Duration `json:"write-timeout"     mapstructure:"write-timeout"`
	HeartbeatTimeout time.Duration `json:"heartbeat-timeout" mapstructure:"heartbeat-timeout"`
}

// NewServerOptions return a new options for server.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		Path:             "/ws",
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		Compression:      true,
		MaxConnections:   1024,
		MaxMessageSize:   4 << 20,
		PingInterval:     10 * time.Second,
		WriteTimeout:     10 * time.Second,
		HeartbeatTimeout: 30 * time.Second,
	}
}

func (o *ServerOptions) Validate() []error {
	var errs []error
	if o.MaxConnections <= 0 {
		errs = append(errs, errors.Errorf("--websocket.max-connections %v must be positive", o.MaxConnections))
	}
	if o.PingInterval >= o.HeartbeatTimeout {
		errs = append(errs, errors.New("--websocket.ping-interval must be less than --websocket.heartbeat-timeout"))
	}
	return errs
}

func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Path, "websocket.path", o.Path, "The http path on which to serve the websocket endpoint")
	fs.IntVar(&o.ReadBufferSize, "websocket.read-buffer-size", o.ReadBufferSize, "The byte size of websocket read buffer")
	fs.IntVar(&o.WriteBufferSize, "websocket.write-buffer-size", o.WriteBufferSize, "The byte size of websocket write buffer")
	fs.BoolVar(&o.Compression, "websocket.compression", o.Compression, "Enable compression for websocket message")
	fs.IntVar(&o.MaxConnections, "websocket.max-connections", o.MaxConnections, "Maximum concurrent websocket connections")
	fs.Int64Var(&o.MaxMessageSize, "websocket.max-message-size", o.MaxMessageSize, "Maximum inbound frame size in bytes, 0 means unlimited")
	fs.DurationVar(&o.PingInterval, "websocket.ping-interval", o.PingInterval, "Interval between two pings to a peer")
	fs.DurationVar(&o.WriteTimeout, "websocket.write-timeout", o.WriteTimeout, "Time allowed to write a frame to a peer")
	fs.DurationVar(&o.HeartbeatTimeout, "websocket.heartbeat-timeout", o.HeartbeatTimeout, "Time allowed to read the next pong from a peer")
}

// ClientOptions contains configuration options for the websocket client.
type ClientOptions struct {
	URL               string        `json:"url"                mapstructure:"url"`
	Compression       bool          `json:"compression"        mapstructure:"compression"`
	MaxMessageSize    int64         `json:"max-message-size"   mapstructure:"max-message-size"`
	PingInterval      time.Duration `json:"ping-interval"      mapstructure:"ping-interval"`
	WriteTimeout      time.Duration `json:"write-timeout"      mapstructure:"write-timeout"`
	HeartbeatTimeout  time.Duration `json:"heartbeat-timeout"  mapstructure:"heartbeat-timeout"`
	HandshakeTimeout  time.Duration `json:"handshake-timeout"  mapstructure:"handshake-timeout"`
	ReconnectInterval time.Duration `json:"reconnect-interval" mapstructure:"reconnect-interval"`
}

// NewClientOptions return a new options for client.
func NewClientOptions() *ClientOptions {
	return &ClientOptions{
		URL:               "ws://127.0.0.1:8080/ws",
		Compression:       true,
		MaxMessageSize:    16 << 20,
		PingInterval:      10 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatTimeout:  30 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		ReconnectInterval: 3 * time.Second,
	}
}

func (o *ClientOptions) Validate() []error {
	var errs []error
	u, err := url.Parse(o.URL)
	if err != nil {
		errs = append(errs, errors.Errorf("--websocket.url %q is invalid: %v", o.URL, err))
	} else if u.Scheme != "ws" && u.Scheme != "wss" {
		errs = append(errs, errors.Errorf("--websocket.url %q must use ws or wss scheme", o.URL))
	}
	if o.PingInterval >= o.HeartbeatTimeout {
		errs = append(errs, errors.New("--websocket.ping-interval must be less than --websocket.heartbeat-timeout"))
	}
	if o.ReconnectInterval <= 0 {
		errs = append(errs, errors.New("--websocket.reconnect-interval must be positive"))
	}
	return errs
}

func (o *ClientOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.URL, "websocket.url", o.URL, "The admin websocket url to connect to")
	fs.BoolVar(&o.Compression, "websocket.compression", o.Compression, "Enable compression for websocket message")
	fs.Int64Var(&o.MaxMessageSize, "websocket.max-message-size", o.MaxMessageSize, "Maximum inbound frame size in bytes, 0 means unlimited")
	fs.DurationVar(&o.PingInterval, "websocket.ping-interval", o.PingInterval, "Interval between two pings to the server")
	fs.DurationVar(&o.WriteTimeout, "websocket.write-timeout", o.WriteTimeout, "Time allowed to write a frame")
	fs.DurationVar(&o.HeartbeatTimeout, "websocket.heartbeat-timeout", o.HeartbeatTimeout, "Time allowed to read the next pong")
	fs.DurationVar(&o.HandshakeTimeout, "websocket.handshake-timeout", o.HandshakeTimeout, "Time allowed for the opening handshake")
	fs.DurationVar(&o.ReconnectInterval, "websocket.reconnect-interval", o.ReconnectInterval, "Interval between two dial attempts")
}
