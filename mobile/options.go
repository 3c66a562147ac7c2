// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package mobile

import (
	"net/url"
	"time"

	"github.com/spf13/pflag"

	"github.com/wangtaoking1/shopdesk/errors"
)

// Options defines options for the mobile api client.
type Options struct {
	BaseURL      string        `json:"base-url"      mapstructure:"base-url"`
	Timeout      time.Duration `json:"timeout"       mapstructure:"timeout"`
	LoginTimeout time.Duration `json:"login-timeout" mapstructure:"login-timeout"`
}

// NewOptions creates default options. Login has no deadline of its own.
func NewOptions() *Options {
	return &Options{
		BaseURL:      "http://127.0.0.1:8080/api",
		Timeout:      30 * time.Second,
		LoginTimeout: 0,
	}
}

// Validate verifies flags passed to Options.
func (o *Options) Validate() []error {
	var errs []error

	u, err := url.Parse(o.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, errors.Errorf("--api.base-url %q is not a http(s) url", o.BaseURL))
	}
	if o.Timeout < 0 {
		errs = append(errs, errors.New("--api.timeout cannot be negative"))
	}
	if o.LoginTimeout < 0 {
		errs = append(errs, errors.New("--api.login-timeout cannot be negative"))
	}

	return errs
}

// AddFlags adds flags related to the mobile api to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.BaseURL, "api.base-url", o.BaseURL, "Base url of the mobile rest api.")
	fs.DurationVar(&o.Timeout, "api.timeout", o.Timeout, "Timeout of one api call, 0 means none.")
	fs.DurationVar(&o.LoginTimeout, "api.login-timeout", o.LoginTimeout, ""+
		"Deadline of the login call, 0 means none.")
}
