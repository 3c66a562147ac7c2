// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package store persists the resources served by the simulator.
package store

import (
	"context"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/model"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique field is already taken.
	ErrConflict = errors.New("record already exists")
)

// Store is the persistence of the simulator. List operations return records
// in a stable order: catalog entries by name, orders and tickets newest first.
type Store interface {
	Brands(ctx context.Context) ([]model.Brand, error)
	SaveBrand(ctx context.Context, brand *model.Brand) error
	DeleteBrand(ctx context.Context, id string) error

	Categories(ctx context.Context) ([]model.Category, error)
	SaveCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error

	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id string) (*model.Product, error)
	SaveProduct(ctx context.Context, product *model.Product) error

	Coupons(ctx context.Context) ([]model.Coupon, error)
	Coupon(ctx context.Context, id string) (*model.Coupon, error)
	CouponByCode(ctx context.Context, code string) (*model.Coupon, error)
	SaveCoupon(ctx context.Context, coupon *model.Coupon) error
	DeleteCoupon(ctx context.Context, id string) error

	Orders(ctx context.Context, filter OrderFilter) ([]model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	SaveOrder(ctx context.Context, order *model.Order) error

	Pricing(ctx context.Context) (*model.PricingConfig, error)
	SavePricing(ctx context.Context, cfg *model.PricingConfig) error

	Tickets(ctx context.Context, userID string) ([]model.HelpTicket, error)
	Ticket(ctx context.Context, id string) (*model.HelpTicket, error)
	SaveTicket(ctx context.Context, ticket *model.HelpTicket) error

	Cart(ctx context.Context, userID string) (*model.Cart, error)
	SaveCart(ctx context.Context, cart *model.Cart) error

	User(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	SaveUser(ctx context.Context, user *model.User) error

	Close() error
}

// OrderFilter narrows an order listing. Zero fields match everything.
type OrderFilter struct {
	CustomerID string
	PartnerID  string
	Status     model.OrderStatus
	// Available selects orders a partner may accept.
	Available bool
}

func (f OrderFilter) match(o *model.Order) bool {
	if f.CustomerID != "" && o.CustomerID != f.CustomerID {
		return false
	}
	if f.PartnerID != "" && o.PartnerID != f.PartnerID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Available && !o.Available() {
		return false
	}
	return true
}
