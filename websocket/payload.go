// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"encoding/json"

	"github.com/buger/jsonparser"

	"github.com/wangtaoking1/shopdesk/errors"
)

// Payload is the body of a decoded frame. Payloads carry no declared schema,
// so every getter falls back to a default when the field is absent, empty or
// of another kind.
type Payload []byte

// Has reports whether the payload has the given top level field.
func (p Payload) Has(key string) bool {
	_, dataType, _, err := jsonparser.Get(p, key)
	return err == nil && dataType != jsonparser.NotExist
}

// String returns a string field, or def when it is missing or empty.
func (p Payload) String(key string, def string) string {
	v, err := jsonparser.GetString(p, key)
	if err != nil || v == "" {
		return def
	}

	return v
}

// Int returns an integer field, or def.
func (p Payload) Int(key string, def int64) int64 {
	v, err := jsonparser.GetInt(p, key)
	if err != nil {
		return def
	}

	return v
}

// Float returns a number field, or def.
func (p Payload) Float(key string, def float64) float64 {
	v, err := jsonparser.GetFloat(p, key)
	if err != nil {
		return def
	}

	return v
}

// Bool returns a boolean field, or def.
func (p Payload) Bool(key string, def bool) bool {
	v, err := jsonparser.GetBoolean(p, key)
	if err != nil {
		return def
	}

	return v
}

// Message returns the conventional "message" field.
func (p Payload) Message(def string) string {
	return p.String("message", def)
}

// Keys returns the top level field names in payload order.
func (p Payload) Keys() []string {
	var keys []string
	_ = jsonparser.ObjectEach(p, func(key []byte, _ []byte, _ jsonparser.ValueType, _ int) error {
		keys = append(keys, string(key))
		return nil
	})

	return keys
}

// Decode unmarshals the field named key into v. An empty key decodes the
// whole payload.
func (p Payload) Decode(key string, v interface{}) error {
	if key == "" {
		return json.Unmarshal(p, v)
	}

	value, dataType, _, err := jsonparser.Get(p, key)
	if err != nil {
		return errors.Wrapf(err, "field %q", key)
	}
	if dataType == jsonparser.String {
		quoted := make([]byte, 0, len(value)+2)
		quoted = append(quoted, '"')
		quoted = append(quoted, value...)
		value = append(quoted, '"')
	}

	return errors.Wrapf(json.Unmarshal(value, v), "decode field %q", key)
}
