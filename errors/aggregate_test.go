// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAggregate(t *testing.T) {
	assert.Nil(t, NewAggregate(nil))
	assert.Nil(t, NewAggregate([]error{nil, nil}))

	single := NewAggregate([]error{New("port invalid")})
	assert.EqualError(t, single, "port invalid")

	errA := New("a")
	agg := NewAggregate([]error{errA, New("b"), New("a")})
	assert.EqualError(t, agg, "[a, b]")
	assert.Len(t, agg.Errors(), 3)
	assert.True(t, Is(agg, errA))
}

func TestWrap(t *testing.T) {
	base := New("closed")
	err := Wrap(base, "write frame")
	assert.EqualError(t, err, "write frame: closed")
	assert.True(t, Is(err, base))
	assert.Equal(t, base, Cause(err))
	assert.Nil(t, Wrap(nil, "nothing"))
}
