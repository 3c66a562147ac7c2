// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package posixsignal fires a shutdown on process signals.
package posixsignal

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/shutdown"
)

// Name defines shutdown manager name.
const Name = "PosixSignalTrigger"

type trigger struct {
	signals []os.Signal
	ch      chan os.Signal
	exit    func(code int)
}

// GetName returns name of this trigger.
func (t *trigger) GetName() string {
	return Name
}

// Start fires the shutdown on the first signal. A second signal received
// while the shutdown is running exits the process at once.
func (t *trigger) Start(executor shutdown.Executor) error {
	signal.Notify(t.ch, t.signals...)

	go func() {
		sig := <-t.ch
		log.Infow("Received signal", "signal", sig.String())

		go func() {
			if sig, ok := <-t.ch; ok {
				log.Warn("Received second signal, exiting", "signal", sig.String())
				t.exit(1)
			}
		}()
		executor.Execute(t)
	}()

	return nil
}

// After stops listening.
func (t *trigger) After() {
	signal.Stop(t.ch)
}

// New initializes the PosixSignalTrigger.
// You can provide os.Signal-s as arguments, if none given,
// it will use SIGINT and SIGTERM default.
func New(sig ...os.Signal) shutdown.Trigger {
	if len(sig) == 0 {
		sig = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	return &trigger{
		signals: sig,
		ch:      make(chan os.Signal, 2),
		exit:    os.Exit,
	}
}
