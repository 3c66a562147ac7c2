// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package model

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderReady          OrderStatus = "ready"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
	OrderOutForDelivery, OrderDelivered, OrderCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Final reports whether no further transition is possible.
func (s OrderStatus) Final() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// OrderItem is one line of an order or cart.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is a placed customer order. Deliveries are orders seen by a delivery
// partner: an order in status ready without a partner is available.
type Order struct {
	ID            string      `json:"id"                   gorm:"primaryKey;size:64"`
	CustomerID    string      `json:"customer_id"          gorm:"size:64;index"`
	CustomerName  string      `json:"customer_name"        gorm:"size:128"`
	Items         []OrderItem `json:"items"                gorm:"serializer:json"`
	Subtotal      float64     `json:"subtotal"`
	Discount      float64     `json:"discount"`
	DeliveryFee   float64     `json:"delivery_fee"`
	ServiceFee    float64     `json:"service_fee"`
	Total         float64     `json:"total"`
	CouponCode    string      `json:"coupon_code,omitempty" gorm:"size:32"`
	Address       string      `json:"address"              gorm:"size:512"`
	PaymentMethod string      `json:"payment_method"       gorm:"size:32"`
	Status        OrderStatus `json:"status"               gorm:"size:32;index"`
	PartnerID     string      `json:"partner_id,omitempty" gorm:"size:64;index"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Available reports whether a delivery partner may accept the order.
func (o *Order) Available() bool {
	return o.Status == OrderReady && o.PartnerID == ""
}

// CartItem is one line of a cart.
type CartItem = OrderItem

// Cart is the pending basket of one customer.
type Cart struct {
	UserID   string     `json:"user_id"  gorm:"primaryKey;size:64"`
	Items    []CartItem `json:"items"    gorm:"serializer:json"`
	Subtotal float64    `json:"subtotal"`
}

// Recalculate refreshes the subtotal from the items.
func (c *Cart) Recalculate() {
	var subtotal float64
	for _, item := range c.Items {
		subtotal += item.Price * float64(item.Quantity)
	}
	c.Subtotal = round2(subtotal)
}
