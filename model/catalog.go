// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package model holds the resources exchanged between the admin console, the
// mobile app and the backend.
package model

import "time"

// Brand is a product brand shown in the catalog.
type Brand struct {
	ID          string    `json:"id"                    gorm:"primaryKey;size:64"`
	Name        string    `json:"name"                  gorm:"size:128;not null"`
	Description string    `json:"description,omitempty" gorm:"size:512"`
	Logo        string    `json:"logo,omitempty"        gorm:"type:mediumtext"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category groups products. ParentID is empty for top level categories.
type Category struct {
	ID          string    `json:"id"                    gorm:"primaryKey;size:64"`
	Name        string    `json:"name"                  gorm:"size:128;not null"`
	Description string    `json:"description,omitempty" gorm:"size:512"`
	Image       string    `json:"image,omitempty"       gorm:"type:mediumtext"`
	ParentID    string    `json:"parent_id,omitempty"   gorm:"size:64;index"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a sellable item, referenced by carts and orders.
type Product struct {
	ID         string  `json:"id"          gorm:"primaryKey;size:64"`
	Name       string  `json:"name"        gorm:"size:128;not null"`
	BrandID    string  `json:"brand_id"    gorm:"size:64;index"`
	CategoryID string  `json:"category_id" gorm:"size:64;index"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
}
