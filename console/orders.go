// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package console

import (
	"context"

	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/notify"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// Frame types of the orders page.
const (
	TypeGetOrders          = "get_orders"
	TypeOrdersData         = "orders_data"
	TypeUpdateOrderStatus  = "update_order_status"
	TypeOrderStatusUpdated = "order_status_updated"
)

type orderStatusUpdate struct {
	ID     string            `json:"id"     validate:"required"`
	Status model.OrderStatus `json:"status" validate:"required,oneof=pending confirmed preparing ready out_for_delivery delivered cancelled"`
}

// OrdersPage follows customer orders and moves them through their lifecycle.
type OrdersPage struct {
	page
	orders listState[model.Order]
}

var _ Page = (*OrdersPage)(nil)

// NewOrdersPage creates the orders page.
func NewOrdersPage(transport Transport, notifier notify.Notifier) *OrdersPage {
	return &OrdersPage{page: newPage("orders", transport, notifier)}
}

func (p *OrdersPage) Mount(ctx context.Context) error {
	p.on(TypeOrdersData, p.onOrders)
	p.on(TypeOrderStatusUpdated, p.acknowledge("Order status updated", p.Refresh))
	p.on(typeError, p.handleError)

	return p.Refresh(ctx)
}

func (p *OrdersPage) Refresh(ctx context.Context) error {
	return p.request(ctx, TypeGetOrders, nil)
}

func (p *OrdersPage) onOrders(ctx context.Context, payload websocket.Payload) {
	p.orders.set(decodeList[model.Order](ctx, payload, "orders"))
	p.loading.Store(false)
}

// Orders returns the orders in the order the server sent them.
func (p *OrdersPage) Orders() []model.Order {
	return p.orders.snapshot()
}

// WithStatus returns the orders currently in status.
func (p *OrdersPage) WithStatus(status model.OrderStatus) []model.Order {
	return p.orders.filter(func(o model.Order) bool {
		return o.Status == status
	})
}

// UpdateStatus asks the server to move order id to status.
func (p *OrdersPage) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	body := orderStatusUpdate{ID: id, Status: status}
	if err := p.validateForm(body); err != nil {
		return err
	}
	return p.request(ctx, TypeUpdateOrderStatus, body)
}
