// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// shopsim runs the shopdesk backend simulator: the admin websocket and the
// mobile rest api over a seeded store.
package main

import (
	"context"

	"github.com/wangtaoking1/shopdesk/app"
	"github.com/wangtaoking1/shopdesk/backend"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/server"
	"github.com/wangtaoking1/shopdesk/shutdown"
	"github.com/wangtaoking1/shopdesk/shutdown/trigger/posixsignal"
)

func main() {
	opts := NewOptions()
	application := app.NewApp("shopsim",
		"shopdesk backend simulator",
		app.WithDescription("shopsim serves the admin websocket and the mobile rest api "+
			"the shopdesk clients talk to, backed by a seeded store."),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	)

	application.Run()
}

func run(opts *Options) app.RunFunc {
	return func(name string) error {
		defer log.Flush()

		b, err := backend.New(context.Background(), opts.Backend)
		if err != nil {
			return err
		}
		srv, err := server.New(opts.Server)
		if err != nil {
			b.Close()
			return err
		}
		if err := srv.Setup(b.Setup); err != nil {
			b.Close()
			return err
		}

		// callbacks run in reverse: stop accepting requests, then release the backend
		gs := shutdown.New(posixsignal.New())
		gs.AddCallback(shutdown.CallbackFunc(func(string) error {
			b.Close()
			return nil
		}))
		gs.AddCallback(shutdown.CallbackFunc(func(string) error {
			srv.Close()
			return nil
		}))
		if err := gs.Start(); err != nil {
			b.Close()
			return err
		}

		if err := srv.Run(); err != nil {
			b.Close()
			return err
		}
		<-gs.Done()
		log.Infof("%s stopped", name)

		return nil
	}
}
