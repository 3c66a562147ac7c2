// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/wangtaoking1/shopdesk/console"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/notify"
	"github.com/wangtaoking1/shopdesk/utils/retry"
	"github.com/wangtaoking1/shopdesk/websocket"
)

const pollInterval = 50 * time.Millisecond

// toastFeed prints every toast and hands it to whoever waits for the
// answer of a mutation.
type toastFeed struct {
	out notify.Notifier
	ch  chan notify.Toast
}

func newToastFeed() *toastFeed {
	return &toastFeed{
		out: notify.NewTerminal(os.Stderr),
		ch:  make(chan notify.Toast, 16),
	}
}

func (f *toastFeed) Notify(toast notify.Toast) {
	f.out.Notify(toast)
	select {
	case f.ch <- toast:
	default:
	}
}

// failure returns the first destructive toast already received.
func (f *toastFeed) failure() error {
	for {
		select {
		case toast := <-f.ch:
			if toast.Variant == notify.Destructive {
				return errors.New(toast.Description)
			}
		default:
			return nil
		}
	}
}

// adminConsole is one websocket connection with the admin pages on top.
type adminConsole struct {
	service   *websocket.Service
	workspace *console.Workspace
	toasts    *toastFeed
	timeout   time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// dialConsole connects to the backend and returns once the socket is open.
func dialConsole(ctx context.Context, opts *Options) (*adminConsole, error) {
	service, err := websocket.NewService(opts.WebSocket)
	if err != nil {
		return nil, err
	}

	c := &adminConsole{
		service: service,
		toasts:  newToastFeed(),
		timeout: opts.Timeout,
	}
	c.workspace = console.NewWorkspace(service, c.toasts)

	connected := make(chan struct{})
	var once sync.Once
	service.OnConnect(func(ctx context.Context) {
		once.Do(func() { close(connected) })
		c.workspace.Reload(ctx)
	})

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := service.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("Websocket connection stopped", "error", err)
		}
	}()

	select {
	case <-connected:
		return c, nil
	case <-time.After(opts.Timeout):
		c.Close()
		return nil, errors.Errorf("connect %s timed out after %v", opts.WebSocket.URL, opts.Timeout)
	case <-ctx.Done():
		c.Close()
		return nil, ctx.Err()
	}
}

// open mounts the page called name and waits for its data.
func (c *adminConsole) open(ctx context.Context, name string) (console.Page, error) {
	p, err := c.workspace.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := c.waitLoaded(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// waitLoaded waits until the page has its answer. An error frame received
// meanwhile is returned.
func (c *adminConsole) waitLoaded(ctx context.Context, p console.Page) error {
	err := retry.RetryWithTimeout(ctx, pollInterval, c.timeout, func() error {
		if p.Loading() {
			return retry.RetryableErr
		}

		return nil
	})
	if errors.Is(err, retry.TimeoutErr) {
		return errors.Errorf("page %s got no answer within %v", p.Name(), c.timeout)
	}
	if err != nil {
		return err
	}

	return c.toasts.failure()
}

// await runs a mutation and waits for the toast reporting its outcome.
func (c *adminConsole) await(ctx context.Context, mutate func(ctx context.Context) error) error {
	_ = c.toasts.failure()
	if err := mutate(ctx); err != nil {
		return err
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case toast := <-c.toasts.ch:
		if toast.Variant == notify.Destructive {
			return errors.New(toast.Description)
		}

		return nil
	case <-timer.C:
		return errors.Errorf("no answer within %v", c.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close unmounts the page and drops the connection.
func (c *adminConsole) Close() {
	c.workspace.Close()
	c.cancel()
	c.wg.Wait()
}

// withConsole runs fn against a connected console.
func withConsole(opts *Options, fn func(ctx context.Context, c *adminConsole) error) error {
	ctx := context.Background()
	c, err := dialConsole(ctx, opts)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c)
}
