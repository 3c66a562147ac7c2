// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// shopctl drives a shopdesk backend from the terminal: the admin pages over
// the websocket, the mobile api over rest, and the domain event stream.
package main

import (
	"github.com/wangtaoking1/shopdesk/app"
)

func main() {
	opts := NewOptions()
	application := app.NewApp("shopctl",
		"shopdesk command line client",
		app.WithDescription("shopctl opens the shopdesk admin pages against a running backend, "+
			"calls the mobile api and tails the domain events."),
		app.WithOptions(opts),
		app.WithSilence(),
		app.WithCommands(pageCommands(opts)...),
		app.WithCommands(mutationCommands(opts)...),
		app.WithCommands(mobileCommands(opts)...),
		app.WithCommands(eventsCommand(opts)),
	)

	application.Run()
}
