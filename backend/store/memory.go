// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/maps"

	"github.com/wangtaoking1/shopdesk/model"
)

type memory struct {
	mtx sync.RWMutex

	brands     map[string]model.Brand
	categories map[string]model.Category
	products   map[string]model.Product
	coupons    map[string]model.Coupon
	orders     map[string]model.Order
	tickets    map[string]model.HelpTicket
	carts      map[string]model.Cart
	users      map[string]model.User
	pricing    *model.PricingConfig
}

var _ Store = (*memory)(nil)

// NewMemory returns an empty in-process store.
func NewMemory() Store {
	return &memory{
		brands:     make(map[string]model.Brand),
		categories: make(map[string]model.Category),
		products:   make(map[string]model.Product),
		coupons:    make(map[string]model.Coupon),
		orders:     make(map[string]model.Order),
		tickets:    make(map[string]model.HelpTicket),
		carts:      make(map[string]model.Cart),
		users:      make(map[string]model.User),
	}
}

// touch stamps the create and update times the way gorm does.
func touch(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func (m *memory) Brands(context.Context) ([]model.Brand, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	brands := maps.Values(m.brands)
	sort.Slice(brands, func(i, j int) bool { return brands[i].Name < brands[j].Name })

	return brands, nil
}

func (m *memory) SaveBrand(_ context.Context, brand *model.Brand) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for id, b := range m.brands {
		if id != brand.ID && strings.EqualFold(b.Name, brand.Name) {
			return ErrConflict
		}
	}
	touch(&brand.CreatedAt, &brand.UpdatedAt)
	m.brands[brand.ID] = *brand

	return nil
}

func (m *memory) DeleteBrand(_ context.Context, id string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if _, ok := m.brands[id]; !ok {
		return ErrNotFound
	}
	delete(m.brands, id)

	return nil
}

func (m *memory) Categories(context.Context) ([]model.Category, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	categories := maps.Values(m.categories)
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })

	return categories, nil
}

func (m *memory) SaveCategory(_ context.Context, category *model.Category) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for id, c := range m.categories {
		if id != category.ID && strings.EqualFold(c.Name, category.Name) {
			return ErrConflict
		}
	}
	touch(&category.CreatedAt, &category.UpdatedAt)
	m.categories[category.ID] = *category

	return nil
}

func (m *memory) DeleteCategory(_ context.Context, id string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if _, ok := m.categories[id]; !ok {
		return ErrNotFound
	}
	delete(m.categories, id)

	return nil
}

func (m *memory) Products(context.Context) ([]model.Product, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	products := maps.Values(m.products)
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })

	return products, nil
}

func (m *memory) Product(_ context.Context, id string) (*model.Product, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &p, nil
}

func (m *memory) SaveProduct(_ context.Context, product *model.Product) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.products[product.ID] = *product

	return nil
}

func (m *memory) Coupons(context.Context) ([]model.Coupon, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	coupons := maps.Values(m.coupons)
	sort.Slice(coupons, func(i, j int) bool { return coupons[i].Code < coupons[j].Code })

	return coupons, nil
}

func (m *memory) Coupon(_ context.Context, id string) (*model.Coupon, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	c, ok := m.coupons[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &c, nil
}

func (m *memory) CouponByCode(_ context.Context, code string) (*model.Coupon, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	for _, c := range m.coupons {
		if strings.EqualFold(c.Code, code) {
			return &c, nil
		}
	}

	return nil, ErrNotFound
}

func (m *memory) SaveCoupon(_ context.Context, coupon *model.Coupon) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for id, c := range m.coupons {
		if id != coupon.ID && strings.EqualFold(c.Code, coupon.Code) {
			return ErrConflict
		}
	}
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now()
	}
	m.coupons[coupon.ID] = *coupon

	return nil
}

func (m *memory) DeleteCoupon(_ context.Context, id string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if _, ok := m.coupons[id]; !ok {
		return ErrNotFound
	}
	delete(m.coupons, id)

	return nil
}

func (m *memory) Orders(_ context.Context, filter OrderFilter) ([]model.Order, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	orders := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if filter.match(&o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

func (m *memory) Order(_ context.Context, id string) (*model.Order, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &o, nil
}

func (m *memory) SaveOrder(_ context.Context, order *model.Order) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	touch(&order.CreatedAt, &order.UpdatedAt)
	m.orders[order.ID] = *order

	return nil
}

func (m *memory) Pricing(context.Context) (*model.PricingConfig, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	if m.pricing == nil {
		cfg := model.DefaultPricing()
		return &cfg, nil
	}
	cfg := *m.pricing

	return &cfg, nil
}

func (m *memory) SavePricing(_ context.Context, cfg *model.PricingConfig) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	cfg.UpdatedAt = time.Now()
	saved := *cfg
	m.pricing = &saved

	return nil
}

func (m *memory) Tickets(_ context.Context, userID string) ([]model.HelpTicket, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	tickets := make([]model.HelpTicket, 0, len(m.tickets))
	for _, t := range m.tickets {
		if userID == "" || t.UserID == userID {
			tickets = append(tickets, t)
		}
	}
	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].ID > tickets[j].ID
		}
		return tickets[i].CreatedAt.After(tickets[j].CreatedAt)
	})

	return tickets, nil
}

func (m *memory) Ticket(_ context.Context, id string) (*model.HelpTicket, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	t, ok := m.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &t, nil
}

func (m *memory) SaveTicket(_ context.Context, ticket *model.HelpTicket) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	touch(&ticket.CreatedAt, &ticket.UpdatedAt)
	m.tickets[ticket.ID] = *ticket

	return nil
}

func (m *memory) Cart(_ context.Context, userID string) (*model.Cart, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	cart, ok := m.carts[userID]
	if !ok {
		return &model.Cart{UserID: userID, Items: []model.CartItem{}}, nil
	}
	cart.Items = append([]model.CartItem(nil), cart.Items...)

	return &cart, nil
}

func (m *memory) SaveCart(_ context.Context, cart *model.Cart) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	saved := *cart
	saved.Items = append([]model.CartItem(nil), cart.Items...)
	m.carts[cart.UserID] = saved

	return nil
}

func (m *memory) User(_ context.Context, id string) (*model.User, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &u, nil
}

func (m *memory) UserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}

	return nil, ErrNotFound
}

func (m *memory) SaveUser(_ context.Context, user *model.User) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for id, u := range m.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return ErrConflict
		}
	}
	m.users[user.ID] = *user

	return nil
}

func (m *memory) Close() error {
	return nil
}
