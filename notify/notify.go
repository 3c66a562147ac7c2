// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package notify surfaces toasts to the operator. Every failure in the admin
// console ends up here, network and validation failures alike.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/wangtaoking1/shopdesk/log"
)

// Variant is the visual flavour of a toast.
type Variant string

const (
	Default     Variant = "default"
	Destructive Variant = "destructive"
)

// Toast is one transient notification.
type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant"`
}

func (t Toast) String() string {
	if t.Description == "" {
		return t.Title
	}
	return t.Title + ": " + t.Description
}

// Notifier shows toasts.
type Notifier interface {
	Notify(toast Toast)
}

// NotifierFunc adapts a func to Notifier.
type NotifierFunc func(toast Toast)

func (f NotifierFunc) Notify(toast Toast) {
	f(toast)
}

// Success builds a default toast.
func Success(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: Default}
}

// Failure builds a destructive toast.
func Failure(title, description string) Toast {
	return Toast{Title: title, Description: description, Variant: Destructive}
}

type terminal struct {
	mtx sync.Mutex
	w   io.Writer
}

// NewTerminal returns a notifier printing one line per toast, destructive
// toasts in red.
func NewTerminal(w io.Writer) Notifier {
	return &terminal{w: w}
}

func (n *terminal) Notify(toast Toast) {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	prefix := color.GreenString("✔")
	if toast.Variant == Destructive {
		prefix = color.RedString("✘")
	}
	_, _ = fmt.Fprintf(n.w, "%s %s\n", prefix, toast)
}

type logNotifier struct{}

// NewLog returns a notifier writing toasts to the log.
func NewLog() Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(toast Toast) {
	if toast.Variant == Destructive {
		log.Warn(toast.Title, "description", toast.Description)
		return
	}
	log.Info(toast.Title, "description", toast.Description)
}

// Recorder keeps every toast in memory.
type Recorder struct {
	mtx    sync.Mutex
	toasts []Toast
}

var _ Notifier = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(toast Toast) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.toasts = append(r.toasts, toast)
}

// Toasts returns a copy of the recorded toasts.
func (r *Recorder) Toasts() []Toast {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return append([]Toast(nil), r.toasts...)
}

// Last returns the most recent toast.
func (r *Recorder) Last() (Toast, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}

// Reset drops all recorded toasts.
func (r *Recorder) Reset() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.toasts = nil
}
