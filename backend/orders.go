// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"math"

	"github.com/wangtaoking1/shopdesk/backend/events"
	"github.com/wangtaoking1/shopdesk/backend/store"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/model"
)

var (
	errInvalidStatus = errors.New("invalid order status")
	errOrderClosed   = errors.New("order is already delivered or cancelled")
)

// changeOrderStatus moves an order to status and publishes the change.
// Delivered and cancelled orders are final.
func changeOrderStatus(ctx context.Context, s store.Store, pub events.Publisher,
	id string, status model.OrderStatus,
) (*model.Order, error) {
	if !status.Valid() {
		return nil, errInvalidStatus
	}
	order, err := s.Order(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if order.Status.Final() {
		return nil, errOrderClosed
	}

	previous := order.Status
	order.Status = status
	if err := s.SaveOrder(ctx, order); err != nil {
		return nil, err
	}
	pub.Publish(ctx, events.OrderStatusChanged, order.ID, map[string]interface{}{
		"from":        previous,
		"to":          status,
		"customer_id": order.CustomerID,
		"partner_id":  order.PartnerID,
	})

	return order, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
