// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package console

import (
	"context"
	"strings"
	"time"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/notify"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// Frame types of the coupons page.
const (
	TypeGetCoupons    = "get_coupons"
	TypeCouponsData   = "coupons_data"
	TypeCreateCoupon  = "create_coupon"
	TypeCouponCreated = "coupon_created"
	TypeToggleCoupon  = "toggle_coupon"
	TypeCouponUpdated = "coupon_updated"
	TypeDeleteCoupon  = "delete_coupon"
	TypeCouponDeleted = "coupon_deleted"
)

var errInvalidPercent = errors.New("value must be at most 100 for percent coupons")

// CouponForm describes a new coupon.
type CouponForm struct {
	Code         string             `json:"code"                 validate:"required,alphanum,max=32"`
	DiscountType model.DiscountType `json:"discount_type"        validate:"required,oneof=percent flat"`
	Value        float64            `json:"value"                validate:"gt=0"`
	MinOrder     float64            `json:"min_order"            validate:"gte=0"`
	MaxDiscount  float64            `json:"max_discount"         validate:"gte=0"`
	UsageLimit   int                `json:"usage_limit"          validate:"gte=0"`
	ExpiresAt    *time.Time         `json:"expires_at,omitempty"`
	Active       bool               `json:"active"`
}

type couponToggle struct {
	ID     string `json:"id" validate:"required"`
	Active bool   `json:"active"`
}

// CouponsPage manages discount codes.
type CouponsPage struct {
	page
	coupons listState[model.Coupon]
}

var _ Page = (*CouponsPage)(nil)

// NewCouponsPage creates the coupons page.
func NewCouponsPage(transport Transport, notifier notify.Notifier) *CouponsPage {
	return &CouponsPage{page: newPage("coupons", transport, notifier)}
}

func (p *CouponsPage) Mount(ctx context.Context) error {
	p.on(TypeCouponsData, p.onCoupons)
	p.on(TypeCouponCreated, p.acknowledge("Coupon created", p.Refresh))
	p.on(TypeCouponUpdated, p.acknowledge("Coupon updated", p.Refresh))
	p.on(TypeCouponDeleted, p.acknowledge("Coupon deleted", p.Refresh))
	p.on(typeError, p.handleError)

	return p.Refresh(ctx)
}

func (p *CouponsPage) Refresh(ctx context.Context) error {
	return p.request(ctx, TypeGetCoupons, nil)
}

func (p *CouponsPage) onCoupons(ctx context.Context, payload websocket.Payload) {
	p.coupons.set(decodeList[model.Coupon](ctx, payload, "coupons"))
	p.loading.Store(false)
}

// Coupons returns the coupons in the order the server sent them.
func (p *CouponsPage) Coupons() []model.Coupon {
	return p.coupons.snapshot()
}

// Create asks the server to add a coupon. Codes are sent upper case.
func (p *CouponsPage) Create(ctx context.Context, form CouponForm) error {
	form.Code = strings.ToUpper(strings.TrimSpace(form.Code))
	if err := p.validateForm(form); err != nil {
		return err
	}
	if form.DiscountType == model.DiscountPercent && form.Value > 100 {
		p.notifier.Notify(notify.Failure("Validation failed", errInvalidPercent.Error()))
		return errInvalidPercent
	}
	return p.request(ctx, TypeCreateCoupon, form)
}

// SetActive enables or disables coupon id.
func (p *CouponsPage) SetActive(ctx context.Context, id string, active bool) error {
	body := couponToggle{ID: id, Active: active}
	if err := p.validateForm(body); err != nil {
		return err
	}
	return p.request(ctx, TypeToggleCoupon, body)
}

// Delete asks the server to remove coupon id.
func (p *CouponsPage) Delete(ctx context.Context, id string) error {
	body := byID{ID: id}
	if err := p.validateForm(body); err != nil {
		return err
	}
	return p.request(ctx, TypeDeleteCoupon, body)
}
