// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package console

import (
	"context"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/notify"
)

// Workspace holds every page over one transport and keeps at most one of
// them mounted, the way the dashboard shows one screen at a time.
type Workspace struct {
	Brands     *BrandsPage
	Categories *CategoriesPage
	Orders     *OrdersPage
	Pricing    *PricingPage
	Tickets    *HelpTicketsPage
	Coupons    *CouponsPage

	pages map[string]Page

	mtx     sync.Mutex
	current Page
}

// NewWorkspace creates all pages. Nothing is mounted yet.
func NewWorkspace(transport Transport, notifier notify.Notifier) *Workspace {
	w := &Workspace{
		Brands:     NewBrandsPage(transport, notifier),
		Categories: NewCategoriesPage(transport, notifier),
		Orders:     NewOrdersPage(transport, notifier),
		Pricing:    NewPricingPage(transport, notifier),
		Tickets:    NewHelpTicketsPage(transport, notifier),
		Coupons:    NewCouponsPage(transport, notifier),
	}
	w.pages = make(map[string]Page)
	for _, p := range []Page{w.Brands, w.Categories, w.Orders, w.Pricing, w.Tickets, w.Coupons} {
		w.pages[p.Name()] = p
	}

	return w
}

// Names lists the page names, sorted.
func (w *Workspace) Names() []string {
	names := maps.Keys(w.pages)
	slices.Sort(names)

	return names
}

// Page returns the page called name.
func (w *Workspace) Page(name string) (Page, bool) {
	p, ok := w.pages[name]
	return p, ok
}

// Open unmounts the current page and mounts the page called name. The page
// stays current even when its initial request fails.
func (w *Workspace) Open(ctx context.Context, name string) (Page, error) {
	p, ok := w.pages[name]
	if !ok {
		return nil, errors.Errorf("unknown page %q", name)
	}

	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.current != nil {
		w.current.Unmount()
	}
	w.current = p
	log.From(ctx).Infow("Open page", "page", name)

	return p, p.Mount(ctx)
}

// Current returns the mounted page, nil when none is.
func (w *Workspace) Current() Page {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	return w.current
}

// Reload re-requests the data of the mounted page. It is meant for the
// transport's connect callback so a page recovers after a reconnect.
func (w *Workspace) Reload(ctx context.Context) {
	p := w.Current()
	if p == nil {
		return
	}
	if err := p.Refresh(ctx); err != nil {
		log.From(ctx).Errorw("Reload page failed", "page", p.Name(), "error", err)
	}
}

// Close unmounts the current page.
func (w *Workspace) Close() {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.current != nil {
		w.current.Unmount()
		w.current = nil
	}
}
