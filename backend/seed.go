// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"time"

	"github.com/wangtaoking1/shopdesk/backend/store"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/model"
)

// Accounts created by Seed. They all share the seed password.
const (
	SeedAdminEmail    = "admin@shopdesk.local"
	SeedCustomerEmail = "customer@shopdesk.local"
	SeedPartnerEmail  = "partner@shopdesk.local"
)

// DefaultAddresses are the addresses the simulator geocodes.
var DefaultAddresses = []model.Address{
	{Label: "Central Station", Line: "1 Station Square", Latitude: 52.3791, Longitude: 4.9003},
	{Label: "Harbour Market", Line: "14 Dock Street", Latitude: 52.3766, Longitude: 4.9120},
	{Label: "Museum Quarter", Line: "2 Museum Square", Latitude: 52.3580, Longitude: 4.8811},
	{Label: "University Campus", Line: "100 Science Park", Latitude: 52.3546, Longitude: 4.9559},
	{Label: "Old Town Bakery", Line: "7 Market Street", Latitude: 52.3720, Longitude: 4.8936},
	{Label: "Riverside Flats", Line: "23 River Road", Latitude: 52.3622, Longitude: 4.9071},
}

// Seed fills an empty store with a small catalog, accounts and orders.
// Stores that already hold users are left alone.
func Seed(ctx context.Context, s store.Store, password string) error {
	if _, err := s.UserByEmail(ctx, SeedAdminEmail); err == nil {
		log.Info("Store already seeded")
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	users := []model.User{
		{ID: "u-admin", Name: "Ada Admin", Email: SeedAdminEmail, Role: model.RoleAdmin, PasswordHash: hash},
		{ID: "u-customer", Name: "Carl Customer", Email: SeedCustomerEmail, Role: model.RoleCustomer, PasswordHash: hash},
		{ID: "u-partner", Name: "Pia Partner", Email: SeedPartnerEmail, Role: model.RolePartner, PasswordHash: hash},
	}
	for i := range users {
		if err := s.SaveUser(ctx, &users[i]); err != nil {
			return errors.Wrapf(err, "seed user %s", users[i].Email)
		}
	}

	brands := []model.Brand{
		{ID: "b-fresh", Name: "Fresh Farms", Description: "Fruit and vegetables", Active: true},
		{ID: "b-daily", Name: "Daily Dairy", Description: "Milk, cheese and yogurt", Active: true},
	}
	for i := range brands {
		if err := s.SaveBrand(ctx, &brands[i]); err != nil {
			return errors.Wrapf(err, "seed brand %s", brands[i].Name)
		}
	}

	categories := []model.Category{
		{ID: "c-produce", Name: "Produce", Active: true},
		{ID: "c-fruit", Name: "Fruit", ParentID: "c-produce", Active: true},
		{ID: "c-dairy", Name: "Dairy", Active: true},
	}
	for i := range categories {
		if err := s.SaveCategory(ctx, &categories[i]); err != nil {
			return errors.Wrapf(err, "seed category %s", categories[i].Name)
		}
	}

	products := []model.Product{
		{ID: "p-apple", Name: "Apples 1kg", BrandID: "b-fresh", CategoryID: "c-fruit", Price: 3.2, Stock: 100},
		{ID: "p-banana", Name: "Bananas", BrandID: "b-fresh", CategoryID: "c-fruit", Price: 1.9, Stock: 80},
		{ID: "p-milk", Name: "Whole Milk 1l", BrandID: "b-daily", CategoryID: "c-dairy", Price: 1.4, Stock: 60},
		{ID: "p-cheese", Name: "Aged Cheese", BrandID: "b-daily", CategoryID: "c-dairy", Price: 12.5, Stock: 20},
	}
	for i := range products {
		if err := s.SaveProduct(ctx, &products[i]); err != nil {
			return errors.Wrapf(err, "seed product %s", products[i].Name)
		}
	}

	coupons := []model.Coupon{
		{ID: "k-welcome", Code: "WELCOME10", DiscountType: model.DiscountPercent, Value: 10, MaxDiscount: 5, Active: true},
		{ID: "k-flat", Code: "FLAT3", DiscountType: model.DiscountFlat, Value: 3, MinOrder: 20, UsageLimit: 100, Active: true},
	}
	for i := range coupons {
		if err := s.SaveCoupon(ctx, &coupons[i]); err != nil {
			return errors.Wrapf(err, "seed coupon %s", coupons[i].Code)
		}
	}

	cfg := model.DefaultPricing()
	if err := s.SavePricing(ctx, &cfg); err != nil {
		return errors.Wrap(err, "seed pricing")
	}

	orders := []model.Order{
		seedOrder("o-1001", model.OrderReady, cfg, model.OrderItem{
			ProductID: "p-apple", Name: "Apples 1kg", Quantity: 4, Price: 3.2,
		}),
		seedOrder("o-1002", model.OrderPreparing, cfg, model.OrderItem{
			ProductID: "p-cheese", Name: "Aged Cheese", Quantity: 2, Price: 12.5,
		}),
	}
	for i := range orders {
		if err := s.SaveOrder(ctx, &orders[i]); err != nil {
			return errors.Wrapf(err, "seed order %s", orders[i].ID)
		}
	}

	ticket := model.HelpTicket{
		ID:      "t-1",
		UserID:  "u-customer",
		OrderID: "o-1002",
		Subject: "Where is my cheese?",
		Message: "The order has been preparing for an hour.",
		Status:  model.TicketOpen,
	}
	if err := s.SaveTicket(ctx, &ticket); err != nil {
		return errors.Wrap(err, "seed ticket")
	}

	log.Infow("Store seeded", "users", len(users), "products", len(products), "orders", len(orders))

	return nil
}

func seedOrder(id string, status model.OrderStatus, cfg model.PricingConfig, items ...model.OrderItem) model.Order {
	cart := model.Cart{Items: items}
	cart.Recalculate()
	quote := cfg.Quote(2.5, cart.Subtotal)

	return model.Order{
		ID:            id,
		CustomerID:    "u-customer",
		CustomerName:  "Carl Customer",
		Items:         items,
		Subtotal:      quote.Subtotal,
		DeliveryFee:   quote.DeliveryFee,
		ServiceFee:    quote.ServiceFee,
		Total:         quote.Total,
		Address:       DefaultAddresses[0].Line,
		PaymentMethod: "card",
		Status:        status,
		CreatedAt:     time.Now().Add(-time.Hour),
	}
}
