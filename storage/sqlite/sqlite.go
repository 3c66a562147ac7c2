// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package sqlite opens file or in-memory sqlite databases through gorm.
package sqlite

import (
	"time"

	"github.com/spf13/pflag"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/storage/mysql"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// Options defines options for a sqlite database.
type Options struct {
	Path          string        `json:"path"           mapstructure:"path"`
	SlowThreshold time.Duration `json:"slow-threshold" mapstructure:"slow-threshold"`
	LogLevel      int           `json:"log-level"      mapstructure:"log-level"`
}

// NewOptions create a new options instance.
func NewOptions() *Options {
	return &Options{
		Path:          "shopdesk.db",
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      int(gormlogger.Silent),
	}
}

// Validate verifies flags passed to Options.
func (o *Options) Validate() []error {
	var errs []error
	if o.Path == "" {
		errs = append(errs, errors.New("--sqlite.path can not be empty"))
	}
	if o.LogLevel < 1 || o.LogLevel > 4 {
		errs = append(errs, errors.New("--sqlite.log-level must be an integer in [1,4]"))
	}

	return errs
}

// AddFlags adds flags related to sqlite storage to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Path, "sqlite.path", o.Path, "Database file, :memory: keeps it in memory.")
	fs.DurationVar(&o.SlowThreshold, "sqlite.slow-threshold", o.SlowThreshold, ""+
		"Slow sql threshold when access to sqlite.")
	fs.IntVar(&o.LogLevel, "sqlite.log-level", o.LogLevel, "Specify gorm log level. "+
		"1: Silent, 2: Error, 3: Warn, 4: Info")
}

// New returns a new gorm db instance with specified options.
func New(opts *Options) (*gorm.DB, error) {
	logger := mysql.NewLogger(&mysql.Options{SlowThreshold: opts.SlowThreshold, LogLevel: opts.LogLevel})
	db, err := gorm.Open(sqlite.Open(opts.Path), &gorm.Config{Logger: logger})
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", opts.Path)
	}

	if opts.Path == Memory {
		// every pooled connection would see its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}
