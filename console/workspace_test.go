// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package console

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/notify"
)

func TestWorkspace_Open(t *testing.T) {
	transport := newFakeTransport()
	recorder := &notify.Recorder{}
	ws := NewWorkspace(transport, recorder)
	ctx := context.Background()

	assert.Equal(t, []string{"brands", "categories", "coupons", "orders", "pricing", "tickets"}, ws.Names())
	assert.Nil(t, ws.Current())

	_, err := ws.Open(ctx, "nope")
	assert.Error(t, err)

	p, err := ws.Open(ctx, "brands")
	require.NoError(t, err)
	assert.Same(t, ws.Brands, p)

	_, err = ws.Open(ctx, "orders")
	require.NoError(t, err)
	assert.Equal(t, "orders", ws.Current().Name())

	// the brands page no longer reacts
	transport.deliver(TypeBrandsData, map[string]interface{}{"brands": []model.Brand{{ID: "b1"}}})
	assert.Empty(t, ws.Brands.Brands())

	// the shared error frame is now handled by the orders page
	transport.deliver("error", map[string]string{"message": "boom"})
	assert.False(t, ws.Orders.Loading())
	assert.Equal(t, "boom", lastToast(t, recorder).Description)

	ws.Reload(ctx)
	assert.Equal(t, []string{TypeGetBrands, TypeGetOrders, TypeGetOrders}, transport.sentTypes())

	ws.Close()
	assert.Nil(t, ws.Current())
	transport.deliver(TypeOrdersData, map[string]interface{}{"orders": []model.Order{{ID: "o1"}}})
	assert.Empty(t, ws.Orders.Orders())
}

func TestEncodeImage(t *testing.T) {
	png := []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	}

	uri, err := EncodeImage(bytes.NewReader(png))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.Equal(t, base64.StdEncoding.EncodeToString(png), strings.TrimPrefix(uri, "data:image/png;base64,"))

	_, err = EncodeImage(strings.NewReader("plain text, not a picture"))
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = EncodeImage(bytes.NewReader(make([]byte, MaxImageSize+1)))
	assert.Error(t, err)
}
