// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package model

import (
	"math"
	"time"
)

// PricingConfig holds the fees charged on top of an order subtotal.
type PricingConfig struct {
	ID                    uint      `json:"-"                       gorm:"primaryKey"`
	BaseDeliveryFee       float64   `json:"base_delivery_fee"       validate:"gte=0"`
	PerKmFee              float64   `json:"per_km_fee"              validate:"gte=0"`
	ServiceFeePercent     float64   `json:"service_fee_percent"     validate:"gte=0,lte=100"`
	SurgeMultiplier       float64   `json:"surge_multiplier"        validate:"gte=0"`
	FreeDeliveryThreshold float64   `json:"free_delivery_threshold" validate:"gte=0"`
	MinOrderAmount        float64   `json:"min_order_amount"        validate:"gte=0"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// DefaultPricing is the configuration served before an admin saved one.
func DefaultPricing() PricingConfig {
	return PricingConfig{
		BaseDeliveryFee:       2.5,
		PerKmFee:              0.8,
		ServiceFeePercent:     5,
		SurgeMultiplier:       1,
		FreeDeliveryThreshold: 50,
		MinOrderAmount:        10,
	}
}

// Quote is the price breakdown of a hypothetical order.
type Quote struct {
	DistanceKm   float64 `json:"distance_km"`
	Subtotal     float64 `json:"subtotal"`
	DeliveryFee  float64 `json:"delivery_fee"`
	ServiceFee   float64 `json:"service_fee"`
	Total        float64 `json:"total"`
	BelowMinimum bool    `json:"below_minimum"`
}

// Quote prices an order of subtotal delivered over distanceKm. A surge
// multiplier below 1 is treated as 1.
func (c PricingConfig) Quote(distanceKm, subtotal float64) Quote {
	distanceKm = math.Max(distanceKm, 0)
	surge := math.Max(c.SurgeMultiplier, 1)

	delivery := (c.BaseDeliveryFee + c.PerKmFee*distanceKm) * surge
	if c.FreeDeliveryThreshold > 0 && subtotal >= c.FreeDeliveryThreshold {
		delivery = 0
	}
	service := subtotal * c.ServiceFeePercent / 100

	return Quote{
		DistanceKm:   distanceKm,
		Subtotal:     round2(subtotal),
		DeliveryFee:  round2(delivery),
		ServiceFee:   round2(service),
		Total:        round2(subtotal + delivery + service),
		BelowMinimum: subtotal < c.MinOrderAmount,
	}
}
