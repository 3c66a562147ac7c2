// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package shutdown

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTrigger struct {
	fires int
	after int
}

var _ Trigger = (*fakeTrigger)(nil)

func (f *fakeTrigger) GetName() string {
	return "fake"
}

func (f *fakeTrigger) Start(executor Executor) error {
	for i := 0; i < f.fires; i++ {
		executor.Execute(f)
	}

	return nil
}

func (f *fakeTrigger) After() {
	f.after++
}

func TestShutdown_ReverseOrder(t *testing.T) {
	var order []int
	gs := New(&fakeTrigger{fires: 1})
	for i := 0; i < 3; i++ {
		i := i
		gs.AddCallback(CallbackFunc(func(name string) error {
			assert.Equal(t, "fake", name)
			order = append(order, i)

			return nil
		}))
	}

	assert.NoError(t, gs.Start())
	assert.Equal(t, []int{2, 1, 0}, order)

	select {
	case <-gs.Done():
	default:
		assert.Fail(t, "done not closed")
	}
}

func TestShutdown_RunsOnce(t *testing.T) {
	trigger := &fakeTrigger{fires: 3}
	calls := 0
	gs := New(trigger)
	gs.AddCallback(CallbackFunc(func(string) error {
		calls++
		return nil
	}))

	_ = gs.Start()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, trigger.after)
}

func TestShutdown_HandleError(t *testing.T) {
	var errs []error
	gs := New(&fakeTrigger{fires: 1})
	gs.SetErrorHandler(ErrorFunc(func(err error) {
		errs = append(errs, err)
	}))
	gs.AddCallback(CallbackFunc(func(string) error {
		return nil
	}))
	gs.AddCallback(CallbackFunc(func(string) error {
		return errors.New("close store")
	}))

	_ = gs.Start()
	assert.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "close store")
}

func TestShutdown_NotTriggered(t *testing.T) {
	gs := New(&fakeTrigger{})
	_ = gs.Start()

	select {
	case <-gs.Done():
		assert.Fail(t, "done closed without trigger")
	default:
	}
}
