// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtrDeref(t *testing.T) {
	p := Ptr("active")
	assert.Equal(t, "active", *p)
	assert.Equal(t, "active", Deref(p, "inactive"))

	var missing *int
	assert.Equal(t, 5, Deref(missing, 5))
}
