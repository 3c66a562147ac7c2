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

// Frame types of the categories page.
const (
	TypeGetCategories   = "get_categories"
	TypeCategoriesData  = "categories_data"
	TypeCreateCategory  = "create_category"
	TypeCategoryCreated = "category_created"
	TypeUpdateCategory  = "update_category"
	TypeCategoryUpdated = "category_updated"
	TypeDeleteCategory  = "delete_category"
	TypeCategoryDeleted = "category_deleted"

	// TypeCategoryUpdatedLegacy is the spelling older servers answer
	// update_category with.
	TypeCategoryUpdatedLegacy = "category Updated"
)

// CategoryForm is the editable part of a category.
type CategoryForm struct {
	Name        string `json:"name"                  validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Image       string `json:"image,omitempty"       validate:"omitempty,datauri"`
	ParentID    string `json:"parent_id,omitempty"`
	Active      bool   `json:"active"`
}

type categoryUpdate struct {
	ID string `json:"id" validate:"required"`
	CategoryForm
}

// CategoriesPage manages product categories.
type CategoriesPage struct {
	page
	categories listState[model.Category]
}

var _ Page = (*CategoriesPage)(nil)

// NewCategoriesPage creates the categories page.
func NewCategoriesPage(transport Transport, notifier notify.Notifier) *CategoriesPage {
	return &CategoriesPage{page: newPage("categories", transport, notifier)}
}

func (p *CategoriesPage) Mount(ctx context.Context) error {
	p.on(TypeCategoriesData, p.onCategories)
	p.on(TypeCategoryCreated, p.acknowledge("Category created", p.Refresh))
	p.on(TypeCategoryUpdated, p.acknowledge("Category updated", p.Refresh))
	p.on(TypeCategoryUpdatedLegacy, p.acknowledge("Category updated", p.Refresh))
	p.on(TypeCategoryDeleted, p.acknowledge("Category deleted", p.Refresh))
	p.on(typeError, p.handleError)

	return p.Refresh(ctx)
}

func (p *CategoriesPage) Refresh(ctx context.Context) error {
	return p.request(ctx, TypeGetCategories, nil)
}

func (p *CategoriesPage) onCategories(ctx context.Context, payload websocket.Payload) {
	p.categories.set(decodeList[model.Category](ctx, payload, "categories"))
	p.loading.Store(false)
}

// Categories returns the categories in the order the server sent them.
func (p *CategoriesPage) Categories() []model.Category {
	return p.categories.snapshot()
}

// Children returns the direct children of parentID; an empty parentID
// selects top level categories.
func (p *CategoriesPage) Children(parentID string) []model.Category {
	return p.categories.filter(func(c model.Category) bool {
		return c.ParentID == parentID
	})
}

// Create asks the server to add a category.
func (p *CategoriesPage) Create(ctx context.Context, form CategoryForm) error {
	if err := p.validateForm(form); err != nil {
		return err
	}
	return p.request(ctx, TypeCreateCategory, form)
}

// Update asks the server to overwrite category id with form.
func (p *CategoriesPage) Update(ctx context.Context, id string, form CategoryForm) error {
	body := categoryUpdate{ID: id, CategoryForm: form}
	if err := p.validateForm(body); err != nil {
		return err
	}
	return p.request(ctx, TypeUpdateCategory, body)
}

// Delete asks the server to remove category id.
func (p *CategoriesPage) Delete(ctx context.Context, id string) error {
	body := byID{ID: id}
	if err := p.validateForm(body); err != nil {
		return err
	}
	return p.request(ctx, TypeDeleteCategory, body)
}
