// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/wangtaoking1/shopdesk/app"
	"github.com/wangtaoking1/shopdesk/backend/events"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/shutdown"
	"github.com/wangtaoking1/shopdesk/shutdown/trigger/posixsignal"
)

func eventsCommand(opts *Options) app.Command {
	return app.NewCommand("events", "Print domain events as the backend publishes them",
		app.WithCmdDescription("events consumes the kafka event topic until interrupted. "+
			"It needs --kafka.brokers and --kafka.group-id."),
		app.WithCmdRunFunc(tailEvents(opts)),
	)
}

func tailEvents(opts *Options) app.CommandRunFunc {
	return func(string, []string) error {
		if !opts.Kafka.Enabled() {
			return errors.New("no kafka brokers configured")
		}
		if opts.Kafka.GroupID == "" {
			return errors.New("--kafka.group-id is required to consume events")
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		gs := shutdown.New(posixsignal.New())
		gs.AddCallback(shutdown.CallbackFunc(func(string) error {
			cancel()
			return nil
		}))
		if err := gs.Start(); err != nil {
			return err
		}

		return events.Subscribe(ctx, opts.Kafka, printEvent)
	}
}

func printEvent(_ context.Context, e *events.Event) error {
	fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
		e.At.Local().Format("15:04:05"), color.CyanString(e.Type), e.Subject, string(e.Payload))

	return nil
}
