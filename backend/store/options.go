// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package store

import (
	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/storage/mysql"
	"github.com/wangtaoking1/shopdesk/storage/sqlite"
)

// Drivers a store can be backed by.
const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Options selects and configures the store backend.
type Options struct {
	Driver string          `json:"driver" mapstructure:"driver"`
	MySQL  *mysql.Options  `json:"mysql"  mapstructure:"mysql"`
	SQLite *sqlite.Options `json:"sqlite" mapstructure:"sqlite"`
}

// NewOptions creates options for an in-memory store.
func NewOptions() *Options {
	return &Options{
		Driver: DriverMemory,
		MySQL:  mysql.NewOptions(),
		SQLite: sqlite.NewOptions(),
	}
}

// Validate verifies flags passed to Options.
func (o *Options) Validate() []error {
	switch o.Driver {
	case DriverMemory:
		return nil
	case DriverMySQL:
		return o.MySQL.Validate()
	case DriverSQLite:
		return o.SQLite.Validate()
	default:
		return []error{errors.Errorf("--store.driver %q is not one of memory, mysql, sqlite", o.Driver)}
	}
}

// AddFlags adds flags related to the store to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Driver, "store.driver", o.Driver, "Storage backend: memory, mysql or sqlite.")
	o.MySQL.AddFlags(fs)
	o.SQLite.AddFlags(fs)
}

// New opens the store the options describe.
func New(o *Options) (Store, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch o.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverMySQL:
		db, err = mysql.New(o.MySQL)
	case DriverSQLite:
		db, err = sqlite.New(o.SQLite)
	default:
		return nil, errors.Errorf("unknown store driver %q", o.Driver)
	}
	if err != nil {
		return nil, err
	}

	return NewGorm(db)
}
