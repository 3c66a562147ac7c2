// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"bytes"
	"encoding/json"

	"github.com/buger/jsonparser"

	"github.com/wangtaoking1/shopdesk/errors"
)

const typeKey = "type"

var (
	// ErrNotObject is returned when a frame body is not a JSON object.
	ErrNotObject = errors.New("frame is not a json object")
	// ErrMissingType is returned when an inbound frame carries no type.
	ErrMissingType = errors.New("frame has no type")
)

// Frame is one JSON message exchanged over the connection. On the wire the
// type is a top level "type" key next to the payload fields.
type Frame struct {
	Type    string
	Payload Payload
}

// NewFrame builds a frame of the given type. The body must encode to a JSON
// object; nil means an empty payload. A "type" key inside the body is dropped.
func NewFrame(typ string, body interface{}) (*Frame, error) {
	if body == nil {
		return &Frame{Type: typ, Payload: Payload("{}")}, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s frame", typ)
	}
	if !isObject(data) {
		return nil, errors.Wrapf(ErrNotObject, "encode %s frame", typ)
	}

	return &Frame{Type: typ, Payload: jsonparser.Delete(data, typeKey)}, nil
}

// MustFrame is like NewFrame but panics on encoding errors. It is meant for
// frames built from static bodies.
func MustFrame(typ string, body interface{}) *Frame {
	f, err := NewFrame(typ, body)
	if err != nil {
		panic(err)
	}

	return f
}

// ParseFrame decodes one inbound frame.
func ParseFrame(data []byte) (*Frame, error) {
	f := &Frame{}
	if err := f.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	return f, nil
}

// MarshalJSON encodes the frame as a flat object with the type injected.
func (f *Frame) MarshalJSON() ([]byte, error) {
	payload := bytes.TrimSpace(f.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	if !isObject(payload) {
		return nil, ErrNotObject
	}

	typ, err := json.Marshal(f.Type)
	if err != nil {
		return nil, errors.Wrap(err, "encode frame type")
	}

	var buf bytes.Buffer
	buf.Grow(len(payload) + len(typ) + 10)
	buf.WriteString(`{"type":`)
	buf.Write(typ)
	rest := bytes.TrimSpace(payload[1:])
	if len(rest) > 0 && rest[0] != '}' {
		buf.WriteByte(',')
	}
	buf.Write(rest)

	return buf.Bytes(), nil
}

// UnmarshalJSON reads the type and keeps the remaining fields as payload.
func (f *Frame) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if !isObject(data) {
		return ErrNotObject
	}
	typ, err := jsonparser.GetString(data, typeKey)
	if err != nil || typ == "" {
		return ErrMissingType
	}

	raw := make([]byte, len(data))
	copy(raw, data)
	f.Type = typ
	f.Payload = jsonparser.Delete(raw, typeKey)

	return nil
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) >= 2 && data[0] == '{' && data[len(data)-1] == '}'
}
