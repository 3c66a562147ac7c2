// Copyright 2023 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package flag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamedFlagSets(t *testing.T) {
	var fss NamedFlagSets
	fss.FlagSet("websocket").String("websocket.url", "ws://127.0.0.1:6060/ws", "Admin websocket url.")
	fss.FlagSet("log").String("log.level", "info", "Minimum log level.")
	fss.FlagSet("websocket").Bool("websocket.compression", true, "Enable compression.")

	assert.Equal(t, []string{"websocket", "log"}, fss.Order)
	assert.NotNil(t, fss.FlagSets["websocket"].Lookup("websocket.compression"))

	var buf bytes.Buffer
	PrintSections(&buf, fss, 0)
	out := buf.String()
	assert.Contains(t, out, "Websocket flags:")
	assert.Contains(t, out, "--websocket.url")
	assert.Contains(t, out, "Log flags:")
}
