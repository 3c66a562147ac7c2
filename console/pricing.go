// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package console

import (
	"context"
	"sync"

	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/notify"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// Frame types of the pricing page.
const (
	TypeGetPricingConfig  = "get_pricing_config"
	TypePricingConfig     = "pricing_config"
	TypeSavePricingConfig = "save_pricing_config"
	TypePricingUpdated    = "pricing_updated"
)

type pricingBody struct {
	Config model.PricingConfig `json:"config"`
}

// PricingPage edits the fee configuration and simulates quotes against it.
type PricingPage struct {
	page

	mtx    sync.RWMutex
	config *model.PricingConfig
}

var _ Page = (*PricingPage)(nil)

// NewPricingPage creates the pricing page.
func NewPricingPage(transport Transport, notifier notify.Notifier) *PricingPage {
	return &PricingPage{page: newPage("pricing", transport, notifier)}
}

func (p *PricingPage) Mount(ctx context.Context) error {
	p.on(TypePricingConfig, p.onConfig)
	p.on(TypePricingUpdated, p.acknowledge("Pricing updated", p.Refresh))
	p.on(typeError, p.handleError)

	return p.Refresh(ctx)
}

func (p *PricingPage) Refresh(ctx context.Context) error {
	return p.request(ctx, TypeGetPricingConfig, nil)
}

func (p *PricingPage) onConfig(ctx context.Context, payload websocket.Payload) {
	defer p.loading.Store(false)

	cfg := model.DefaultPricing()
	if err := payload.Decode("config", &cfg); err != nil {
		log.From(ctx).Errorw("Decode pricing config failed", "error", err)
		return
	}

	p.mtx.Lock()
	p.config = &cfg
	p.mtx.Unlock()
}

// Config returns the last configuration received, if any.
func (p *PricingPage) Config() (model.PricingConfig, bool) {
	p.mtx.RLock()
	defer p.mtx.RUnlock()

	if p.config == nil {
		return model.PricingConfig{}, false
	}
	return *p.config, true
}

// Save asks the server to store cfg.
func (p *PricingPage) Save(ctx context.Context, cfg model.PricingConfig) error {
	body := pricingBody{Config: cfg}
	if err := p.validateForm(body); err != nil {
		return err
	}
	return p.request(ctx, TypeSavePricingConfig, body)
}

// Simulate quotes an order against the current configuration, falling back
// to the default configuration before any was received.
func (p *PricingPage) Simulate(distanceKm, subtotal float64) model.Quote {
	cfg, ok := p.Config()
	if !ok {
		cfg = model.DefaultPricing()
	}
	return cfg.Quote(distanceKm, subtotal)
}
