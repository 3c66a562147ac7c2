// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package model

import (
	"math"
	"time"
)

// DiscountType tells how a coupon value is applied.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFlat    DiscountType = "flat"
)

// Coupon is a discount code.
type Coupon struct {
	ID           string       `json:"id"                   gorm:"primaryKey;size:64"`
	Code         string       `json:"code"                 gorm:"size:32;uniqueIndex"`
	DiscountType DiscountType `json:"discount_type"        gorm:"size:16"`
	Value        float64      `json:"value"`
	MinOrder     float64      `json:"min_order"`
	MaxDiscount  float64      `json:"max_discount"`
	UsageLimit   int          `json:"usage_limit"`
	Used         int          `json:"used"`
	Active       bool         `json:"active"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Usable reports whether the coupon can be redeemed at now.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	return c.UsageLimit == 0 || c.Used < c.UsageLimit
}

// Discount returns the amount taken off subtotal. Zero when the coupon is not
// usable or the order is below the minimum.
func (c *Coupon) Discount(subtotal float64, now time.Time) float64 {
	if !c.Usable(now) || subtotal < c.MinOrder {
		return 0
	}

	var discount float64
	switch c.DiscountType {
	case DiscountPercent:
		discount = subtotal * c.Value / 100
	case DiscountFlat:
		discount = c.Value
	}
	if c.MaxDiscount > 0 {
		discount = math.Min(discount, c.MaxDiscount)
	}

	return round2(math.Min(discount, subtotal))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
