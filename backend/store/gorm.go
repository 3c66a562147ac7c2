// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/model"
)

// pricingRowID is the id of the single pricing row.
const pricingRowID = 1

type gormStore struct {
	db *gorm.DB
}

var _ Store = (*gormStore)(nil)

// NewGorm returns a store over db, migrating the schema first.
func NewGorm(db *gorm.DB) (Store, error) {
	err := db.AutoMigrate(
		&model.Brand{},
		&model.Category{},
		&model.Product{},
		&model.Coupon{},
		&model.Order{},
		&model.PricingConfig{},
		&model.HelpTicket{},
		&model.Cart{},
		&model.User{},
	)
	if err != nil {
		return nil, errors.Wrap(err, "migrate schema")
	}

	return &gormStore{db: db}, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// upsert inserts v or overwrites every column but the primary key and the
// creation time.
func (s *gormStore) upsert(ctx context.Context, v interface{}) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(v).Error
}

// taken reports whether another row of the table has column equal to value,
// ignoring case.
func (s *gormStore) taken(ctx context.Context, m interface{}, column, value, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(m).
		Where("LOWER("+column+") = LOWER(?) AND id <> ?", value, id).
		Count(&count).Error

	return count > 0, err
}

func (s *gormStore) remove(ctx context.Context, m interface{}, id string) error {
	tx := s.db.WithContext(ctx).Where("id = ?", id).Delete(m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *gormStore) Brands(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	err := s.db.WithContext(ctx).Order("name").Find(&brands).Error

	return brands, err
}

func (s *gormStore) SaveBrand(ctx context.Context, brand *model.Brand) error {
	taken, err := s.taken(ctx, &model.Brand{}, "name", brand.Name, brand.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrConflict
	}

	return s.upsert(ctx, brand)
}

func (s *gormStore) DeleteBrand(ctx context.Context, id string) error {
	return s.remove(ctx, &model.Brand{}, id)
}

func (s *gormStore) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error

	return categories, err
}

func (s *gormStore) SaveCategory(ctx context.Context, category *model.Category) error {
	taken, err := s.taken(ctx, &model.Category{}, "name", category.Name, category.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrConflict
	}

	return s.upsert(ctx, category)
}

func (s *gormStore) DeleteCategory(ctx context.Context, id string) error {
	return s.remove(ctx, &model.Category{}, id)
}

func (s *gormStore) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Order("name").Find(&products).Error

	return products, err
}

func (s *gormStore) Product(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	return &product, nil
}

func (s *gormStore) SaveProduct(ctx context.Context, product *model.Product) error {
	return s.upsert(ctx, product)
}

func (s *gormStore) Coupons(ctx context.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := s.db.WithContext(ctx).Order("code").Find(&coupons).Error

	return coupons, err
}

func (s *gormStore) Coupon(ctx context.Context, id string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := s.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	return &coupon, nil
}

func (s *gormStore) CouponByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := s.db.WithContext(ctx).First(&coupon, "LOWER(code) = LOWER(?)", code).Error; err != nil {
		return nil, translate(err)
	}

	return &coupon, nil
}

func (s *gormStore) SaveCoupon(ctx context.Context, coupon *model.Coupon) error {
	taken, err := s.taken(ctx, &model.Coupon{}, "code", coupon.Code, coupon.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrConflict
	}

	return s.upsert(ctx, coupon)
}

func (s *gormStore) DeleteCoupon(ctx context.Context, id string) error {
	return s.remove(ctx, &model.Coupon{}, id)
}

func (s *gormStore) Orders(ctx context.Context, filter OrderFilter) ([]model.Order, error) {
	tx := s.db.WithContext(ctx)
	if filter.CustomerID != "" {
		tx = tx.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.PartnerID != "" {
		tx = tx.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", filter.Status)
	}
	if filter.Available {
		tx = tx.Where("status = ? AND partner_id = ?", model.OrderReady, "")
	}

	var orders []model.Order
	err := tx.Order("created_at DESC").Order("id DESC").Find(&orders).Error

	return orders, err
}

func (s *gormStore) Order(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	return &order, nil
}

func (s *gormStore) SaveOrder(ctx context.Context, order *model.Order) error {
	return s.upsert(ctx, order)
}

func (s *gormStore) Pricing(ctx context.Context) (*model.PricingConfig, error) {
	var cfg model.PricingConfig
	err := s.db.WithContext(ctx).First(&cfg, pricingRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cfg = model.DefaultPricing()
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (s *gormStore) SavePricing(ctx context.Context, cfg *model.PricingConfig) error {
	cfg.ID = pricingRowID
	return s.upsert(ctx, cfg)
}

func (s *gormStore) Tickets(ctx context.Context, userID string) ([]model.HelpTicket, error) {
	tx := s.db.WithContext(ctx)
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}

	var tickets []model.HelpTicket
	err := tx.Order("created_at DESC").Order("id DESC").Find(&tickets).Error

	return tickets, err
}

func (s *gormStore) Ticket(ctx context.Context, id string) (*model.HelpTicket, error) {
	var ticket model.HelpTicket
	if err := s.db.WithContext(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	return &ticket, nil
}

func (s *gormStore) SaveTicket(ctx context.Context, ticket *model.HelpTicket) error {
	return s.upsert(ctx, ticket)
}

func (s *gormStore) Cart(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Cart{UserID: userID, Items: []model.CartItem{}}, nil
	}
	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (s *gormStore) SaveCart(ctx context.Context, cart *model.Cart) error {
	return s.upsert(ctx, cart)
}

func (s *gormStore) User(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

func (s *gormStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

func (s *gormStore) SaveUser(ctx context.Context, user *model.User) error {
	taken, err := s.taken(ctx, &model.User{}, "email", user.Email, user.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrConflict
	}

	return s.upsert(ctx, user)
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
