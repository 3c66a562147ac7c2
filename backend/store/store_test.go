// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/storage/sqlite"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	all := map[string]Store{DriverMemory: NewMemory()}

	opts := sqlite.NewOptions()
	opts.Path = sqlite.Memory
	db, err := sqlite.New(opts)
	if err != nil {
		t.Logf("sqlite unavailable, only testing memory store: %v", err)
		return all
	}
	s, err := NewGorm(db)
	require.NoError(t, err)
	all[DriverSQLite] = s

	return all
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	for name, s := range stores(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			fn(t, s)
		})
	}
}

func TestStore_Brands(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		require.NoError(t, s.SaveBrand(ctx, &model.Brand{ID: "b2", Name: "Zeta", Active: true}))
		require.NoError(t, s.SaveBrand(ctx, &model.Brand{ID: "b1", Name: "Alpha"}))
		assert.ErrorIs(t, s.SaveBrand(ctx, &model.Brand{ID: "b3", Name: "alpha"}), ErrConflict)

		brands, err := s.Brands(ctx)
		require.NoError(t, err)
		require.Len(t, brands, 2)
		assert.Equal(t, "Alpha", brands[0].Name)
		assert.False(t, brands[0].CreatedAt.IsZero())

		created := brands[0].CreatedAt
		brands[0].Description = "first"
		require.NoError(t, s.SaveBrand(ctx, &brands[0]))
		brands, err = s.Brands(ctx)
		require.NoError(t, err)
		assert.Equal(t, "first", brands[0].Description)
		assert.WithinDuration(t, created, brands[0].CreatedAt, time.Second)

		require.NoError(t, s.DeleteBrand(ctx, "b1"))
		assert.ErrorIs(t, s.DeleteBrand(ctx, "b1"), ErrNotFound)
	})
}

func TestStore_Coupons(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		coupon := &model.Coupon{ID: "c1", Code: "SAVE10", DiscountType: model.DiscountPercent, Value: 10, Active: true}
		require.NoError(t, s.SaveCoupon(ctx, coupon))
		assert.ErrorIs(t, s.SaveCoupon(ctx, &model.Coupon{ID: "c2", Code: "save10"}), ErrConflict)

		got, err := s.CouponByCode(ctx, "save10")
		require.NoError(t, err)
		assert.Equal(t, "c1", got.ID)

		got.Active = false
		require.NoError(t, s.SaveCoupon(ctx, got))
		got, err = s.Coupon(ctx, "c1")
		require.NoError(t, err)
		assert.False(t, got.Active)

		_, err = s.Coupon(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_Orders(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		base := time.Now().Add(-time.Hour)

		orders := []model.Order{
			{ID: "o1", CustomerID: "u1", Status: model.OrderReady, CreatedAt: base},
			{ID: "o2", CustomerID: "u2", Status: model.OrderReady, PartnerID: "p1", CreatedAt: base.Add(time.Minute)},
			{ID: "o3", CustomerID: "u1", Status: model.OrderPending, CreatedAt: base.Add(2 * time.Minute),
				Items: []model.OrderItem{{ProductID: "p1", Quantity: 2, Price: 1.5}}},
		}
		for i := range orders {
			require.NoError(t, s.SaveOrder(ctx, &orders[i]))
		}

		all, err := s.Orders(ctx, OrderFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "o3", all[0].ID)
		assert.Len(t, all[0].Items, 1)

		mine, err := s.Orders(ctx, OrderFilter{CustomerID: "u1"})
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		available, err := s.Orders(ctx, OrderFilter{Available: true})
		require.NoError(t, err)
		require.Len(t, available, 1)
		assert.Equal(t, "o1", available[0].ID)

		pending, err := s.Orders(ctx, OrderFilter{Status: model.OrderPending})
		require.NoError(t, err)
		assert.Len(t, pending, 1)
	})
}

func TestStore_PricingCartUsers(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		cfg, err := s.Pricing(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultPricing().BaseDeliveryFee, cfg.BaseDeliveryFee)

		cfg.BaseDeliveryFee = 3.5
		require.NoError(t, s.SavePricing(ctx, cfg))
		cfg.BaseDeliveryFee = 4
		require.NoError(t, s.SavePricing(ctx, cfg))
		cfg, err = s.Pricing(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4.0, cfg.BaseDeliveryFee)

		cart, err := s.Cart(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		cart.Items = append(cart.Items, model.CartItem{ProductID: "p1", Quantity: 1, Price: 2})
		cart.Recalculate()
		require.NoError(t, s.SaveCart(ctx, cart))
		cart, err = s.Cart(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 2.0, cart.Subtotal)

		require.NoError(t, s.SaveUser(ctx, &model.User{ID: "u1", Email: "a@b.c", Role: model.RoleCustomer}))
		assert.ErrorIs(t, s.SaveUser(ctx, &model.User{ID: "u2", Email: "A@B.C"}), ErrConflict)
		user, err := s.UserByEmail(ctx, "A@b.c")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
	})
}

func TestStore_Tickets(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		ticket := &model.HelpTicket{ID: "t1", UserID: "u1", Subject: "late", Status: model.TicketOpen}
		require.NoError(t, s.SaveTicket(ctx, ticket))
		require.NoError(t, s.SaveTicket(ctx, &model.HelpTicket{ID: "t2", UserID: "u2", Status: model.TicketOpen}))

		ticket.Responses = append(ticket.Responses, model.TicketResponse{Author: "admin", Message: "on its way"})
		ticket.Status = model.TicketResolved
		require.NoError(t, s.SaveTicket(ctx, ticket))

		got, err := s.Ticket(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, model.TicketResolved, got.Status)
		require.Len(t, got.Responses, 1)

		mine, err := s.Tickets(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, mine, 1)
		all, err := s.Tickets(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestOptions(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())

	s, err := New(opts)
	require.NoError(t, err)
	assert.IsType(t, &memory{}, s)

	opts.Driver = "oracle"
	assert.Len(t, opts.Validate(), 1)
	_, err = New(opts)
	assert.Error(t, err)
}
