// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrame(t *testing.T) {
	frame, err := NewFrame("create_brand", map[string]interface{}{
		"name": "Acme",
		"type": "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "create_brand", frame.Type)
	assert.False(t, frame.Payload.Has("type"))

	data, err := json.Marshal(frame)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"create_brand","name":"Acme"}`, string(data))
}

func TestNewFrame_EmptyBody(t *testing.T) {
	data, err := json.Marshal(MustFrame("get_brands", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"get_brands"}`, string(data))

	data, err = json.Marshal(MustFrame("get_orders", struct{}{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"get_orders"}`, string(data))
}

func TestFrame_ControlCharactersInType(t *testing.T) {
	typ := "odd\x00type\a\u2028"
	data, err := json.Marshal(MustFrame(typ, map[string]int{"n": 1}))
	require.NoError(t, err)
	require.True(t, json.Valid(data))

	frame, err := ParseFrame(data)
	require.NoError(t, err)
	assert.Equal(t, typ, frame.Type)
	assert.Equal(t, int64(1), frame.Payload.Int("n", 0))
}

func TestNewFrame_NotObject(t *testing.T) {
	_, err := NewFrame("get_brands", []string{"a"})
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestParseFrame(t *testing.T) {
	frame, err := ParseFrame([]byte(` {"type":"brands_data","brands":[{"id":"b1"},{"id":"b2"}]} `))
	require.NoError(t, err)
	assert.Equal(t, "brands_data", frame.Type)
	assert.Equal(t, []string{"brands"}, frame.Payload.Keys())

	var brands []struct {
		ID string `json:"id"`
	}
	require.NoError(t, frame.Payload.Decode("brands", &brands))
	assert.Equal(t, "b1", brands[0].ID)
	assert.Equal(t, "b2", brands[1].ID)
}

func TestParseFrame_Invalid(t *testing.T) {
	_, err := ParseFrame([]byte(`["type"]`))
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = ParseFrame([]byte(`{"message":"no type"}`))
	assert.ErrorIs(t, err, ErrMissingType)

	_, err = ParseFrame([]byte(`{"type":""}`))
	assert.ErrorIs(t, err, ErrMissingType)
}

func TestPayload_Defaults(t *testing.T) {
	p := Payload(`{"message":"","count":3,"ratio":1.5,"active":true,"name":"Acme \"Inc\"","nested":{"a":1}}`)

	assert.Equal(t, "An error occurred", p.Message("An error occurred"))
	assert.Equal(t, "fallback", p.String("missing", "fallback"))
	assert.Equal(t, "fallback", p.String("count", "fallback"))
	assert.Equal(t, `Acme "Inc"`, p.String("name", ""))
	assert.Equal(t, int64(3), p.Int("count", 0))
	assert.Equal(t, int64(7), p.Int("name", 7))
	assert.Equal(t, 1.5, p.Float("ratio", 0))
	assert.True(t, p.Bool("active", false))
	assert.True(t, p.Bool("missing", true))
	assert.True(t, p.Has("nested"))
	assert.False(t, p.Has("missing"))

	var name string
	require.NoError(t, p.Decode("name", &name))
	assert.Equal(t, `Acme "Inc"`, name)
	assert.Error(t, p.Decode("missing", &name))
}
