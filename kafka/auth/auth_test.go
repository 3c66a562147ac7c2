// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package auth

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, err := New(AuthTypeRaw, "", "")
	require.NoError(t, err)
	assert.Nil(t, a.Dialer().SASLMechanism)

	a, err = New(AuthTypeSASL, "user", "secret")
	require.NoError(t, err)
	assert.Equal(t, "PLAIN", a.Dialer().SASLMechanism.Name())
	assert.NotNil(t, a.Transport().(*kafka.Transport).SASL)

	a, err = New(AuthTypeSCRAM, "user", "secret")
	require.NoError(t, err)
	assert.Equal(t, "SCRAM-SHA-512", a.Dialer().SASLMechanism.Name())

	_, err = New("aws", "", "")
	assert.Error(t, err)
}
