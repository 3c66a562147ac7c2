// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package shutdown stops a process in stages when a trigger fires.
package shutdown

import (
	"sync"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
)

// Callback is one stage of a shutdown.
type Callback interface {
	// OnShutdown is called with the name of the trigger that fired.
	OnShutdown(string) error
}

// CallbackFunc is a helper type, so you can easily provide anonymous functions
// as shutdown Callbacks.
type CallbackFunc func(string) error

func (f CallbackFunc) OnShutdown(trigger string) error {
	return f(trigger)
}

// ErrorHandler receives the errors of failed stages.
type ErrorHandler interface {
	OnError(error)
}

// ErrorFunc is a helper type, so you can easily provide anonymous functions
// as ErrorHandlers.
type ErrorFunc func(err error)

// OnError defines the action needed to run when error occurred.
func (f ErrorFunc) OnError(err error) {
	f(err)
}

// Executor runs the shutdown for a trigger.
type Executor interface {
	Execute(Trigger)
}

// ExecuteFunc defines the execute func.
type ExecuteFunc func(Trigger)

func (f ExecuteFunc) Execute(trigger Trigger) {
	f(trigger)
}

// Trigger fires a shutdown.
type Trigger interface {
	// GetName returns the name of the trigger.
	GetName() string
	// Start starts listening for shutdown requests.
	Start(Executor) error
	// After runs once every stage is done.
	After()
}

// Shutdown runs registered stages once, when the first trigger fires.
type Shutdown interface {
	// Start starts every trigger.
	Start() error
	// AddCallback adds a stage. Stages run one after another in reverse
	// order of registration, so a component registered after its
	// dependencies is stopped before them.
	AddCallback(Callback)
	// SetErrorHandler sets the handler of failed stages. Without one the
	// failures are logged.
	SetErrorHandler(ErrorHandler)
	// Done is closed once every stage has run.
	Done() <-chan struct{}
}

type shutdownController struct {
	triggers []Trigger

	mtx          sync.Mutex
	callbacks    []Callback
	errorHandler ErrorHandler

	once sync.Once
	done chan struct{}
}

// New returns a new graceful shutdown instance with the specified triggers.
func New(triggers ...Trigger) Shutdown {
	return &shutdownController{
		triggers: triggers,
		done:     make(chan struct{}),
	}
}

func (g *shutdownController) AddCallback(cb Callback) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	g.callbacks = append(g.callbacks, cb)
}

func (g *shutdownController) SetErrorHandler(h ErrorHandler) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	g.errorHandler = h
}

func (g *shutdownController) Done() <-chan struct{} {
	return g.done
}

func (g *shutdownController) Start() error {
	for _, t := range g.triggers {
		if err := t.Start(g.executeFunc()); err != nil {
			return errors.WithMessagef(err, "start shutdown trigger %s error", t.GetName())
		}
	}

	return nil
}

func (g *shutdownController) executeFunc() Executor {
	return ExecuteFunc(func(trigger Trigger) {
		g.once.Do(func() {
			log.Infow("Shutdown triggered", "trigger", trigger.GetName())

			g.mtx.Lock()
			callbacks := append([]Callback(nil), g.callbacks...)
			g.mtx.Unlock()

			for i := len(callbacks) - 1; i >= 0; i-- {
				g.handleError(callbacks[i].OnShutdown(trigger.GetName()))
			}
			close(g.done)

			trigger.After()
		})
	})
}

func (g *shutdownController) handleError(err error) {
	if err == nil {
		return
	}

	g.mtx.Lock()
	h := g.errorHandler
	g.mtx.Unlock()

	if h == nil {
		log.Errorw("Shutdown stage failed", "error", err)
		return
	}
	h.OnError(err)
}
