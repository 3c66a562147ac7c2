// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package debounce delays a call until no newer call arrived for a while.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs only the last function passed to Do once wait has elapsed
// without another Do.
type Debouncer struct {
	wait time.Duration

	mtx   sync.Mutex
	timer *time.Timer
	seq   uint64
}

// New returns a debouncer with the given quiet period.
func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Do schedules f, cancelling any call scheduled before.
func (d *Debouncer) Do(f func()) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.wait, func() {
		d.mtx.Lock()
		current := seq == d.seq
		d.mtx.Unlock()
		// A timer that already fired when Stop was called must not run.
		if current {
			f()
		}
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}
