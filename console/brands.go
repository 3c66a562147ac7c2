// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package console

import (
	"context"

	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/notify"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// Frame types of the brands page.
const (
	TypeGetBrands    = "get_brands"
	TypeBrandsData   = "brands_data"
	TypeCreateBrand  = "create_brand"
	TypeBrandCreated = "brand_created"
	TypeUpdateBrand  = "update_brand"
	TypeBrandUpdated = "brand_updated"
	TypeDeleteBrand  = "delete_brand"
	TypeBrandDeleted = "brand_deleted"
)

// BrandForm is the editable part of a brand.
type BrandForm struct {
	Name        string `json:"name"                  validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Logo        string `json:"logo,omitempty"        validate:"omitempty,datauri"`
	Active      bool   `json:"active"`
}

type brandUpdate struct {
	ID string `json:"id" validate:"required"`
	BrandForm
}

type byID struct {
	ID string `json:"id" validate:"required"`
}

// BrandsPage manages product brands.
type BrandsPage struct {
	page
	brands listState[model.Brand]
}

var _ Page = (*BrandsPage)(nil)

// NewBrandsPage creates the brands page.
func NewBrandsPage(transport Transport, notifier notify.Notifier) *BrandsPage {
	return &BrandsPage{page: newPage("brands", transport, notifier)}
}

func (p *BrandsPage) Mount(ctx context.Context) error {
	p.on(TypeBrandsData, p.onBrands)
	p.on(TypeBrandCreated, p.acknowledge("Brand created", p.Refresh))
	p.on(TypeBrandUpdated, p.acknowledge("Brand updated", p.Refresh))
	p.on(TypeBrandDeleted, p.acknowledge("Brand deleted", p.Refresh))
	p.on(typeError, p.handleError)

	return p.Refresh(ctx)
}

func (p *BrandsPage) Refresh(ctx context.Context) error {
	return p.request(ctx, TypeGetBrands, nil)
}

func (p *BrandsPage) onBrands(ctx context.Context, payload websocket.Payload) {
	p.brands.set(decodeList[model.Brand](ctx, payload, "brands"))
	p.loading.Store(false)
}

// Brands returns the brands in the order the server sent them.
func (p *BrandsPage) Brands() []model.Brand {
	return p.brands.snapshot()
}

// Create asks the server to add a brand.
func (p *BrandsPage) Create(ctx context.Context, form BrandForm) error {
	if err := p.validateForm(form); err != nil {
		return err
	}
	return p.request(ctx, TypeCreateBrand, form)
}

// Update asks the server to overwrite brand id with form.
func (p *BrandsPage) Update(ctx context.Context, id string, form BrandForm) error {
	body := brandUpdate{ID: id, BrandForm: form}
	if err := p.validateForm(body); err != nil {
		return err
	}
	return p.request(ctx, TypeUpdateBrand, body)
}

// Delete asks the server to remove brand id.
func (p *BrandsPage) Delete(ctx context.Context, id string) error {
	body := byID{ID: id}
	if err := p.validateForm(body); err != nil {
		return err
	}
	return p.request(ctx, TypeDeleteBrand, body)
}
