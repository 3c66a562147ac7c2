// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_FixKey(t *testing.T) {
	s := NewStore(nil, WithKeyPrefix("shopdesk:")).(*store)
	assert.Equal(t, "shopdesk:token", s.fixKey("token"))
	assert.Equal(t, "token", s.cleanKey(s.fixKey("token")))
	assert.Equal(t, "shopdesk:", s.GetKeyPrefix())

	hashed := NewStore(nil, WithKeyPrefix("p:"), WithKeyHash()).(*store)
	assert.Equal(t, "p:"+HashStr("token"), hashed.fixKey("token"))
	assert.Len(t, HashStr("token"), 64)
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())

	opts.Enabled = true
	assert.Empty(t, opts.Validate())

	opts.Addrs = nil
	opts.DialTimeout = 0
	opts.TLS.Enabled = true
	assert.Len(t, opts.Validate(), 3)
}
