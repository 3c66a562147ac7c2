// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package mobile

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/model"
)

// Credentials are what a user signs in with.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the answer of a successful login.
type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// PlaceOrderRequest turns the cart into an order.
type PlaceOrderRequest struct {
	Address       string  `json:"address"`
	PaymentMethod string  `json:"payment_method"`
	CouponCode    string  `json:"coupon_code,omitempty"`
	DistanceKm    float64 `json:"distance_km"`
}

// TicketRequest opens a help ticket.
type TicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	OrderID string `json:"order_id,omitempty"`
}

type statusBody struct {
	Status model.OrderStatus `json:"status"`
}

// Login signs in and keeps the issued token for later calls.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if c.opts.LoginTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.LoginTimeout)
		defer cancel()
	}

	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, creds, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, errors.New("login answer carries no token")
	}
	if err := c.tokens.SetToken(ctx, result.Token); err != nil {
		return nil, err
	}

	return &result, nil
}

// Logout revokes the token on the server and forgets it. A failed
// revocation is logged; the local token is dropped either way.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "auth/logout", nil, nil, nil); err != nil {
		log.From(ctx).Infow("Revoke token failed", "error", err)
	}

	return c.tokens.Clear(ctx)
}

// AvailableDeliveries lists the orders a partner may accept.
func (c *Client) AvailableDeliveries(ctx context.Context) ([]model.Order, error) {
	var out struct {
		Deliveries []model.Order `json:"deliveries"`
	}
	if err := c.do(ctx, http.MethodGet, "delivery/available", nil, nil, &out); err != nil {
		return nil, err
	}

	return out.Deliveries, nil
}

// AcceptDelivery assigns order id to the signed in partner.
func (c *Client) AcceptDelivery(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "delivery/"+url.PathEscape(id)+"/accept", nil, nil, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateDeliveryStatus moves an accepted delivery to status.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	var order model.Order
	path := "delivery/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPut, path, nil, statusBody{Status: status}, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// Cart returns the basket of the signed in customer.
func (c *Client) Cart(ctx context.Context) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodGet, "cart", nil, nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// AddToCart adds item to the basket, merging quantities of the same product.
func (c *Client) AddToCart(ctx context.Context, item model.CartItem) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodPost, "cart/items", nil, item, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// RemoveFromCart drops a product from the basket.
func (c *Client) RemoveFromCart(ctx context.Context, productID string) (*model.Cart, error) {
	var cart model.Cart
	if err := c.do(ctx, http.MethodDelete, "cart/items/"+url.PathEscape(productID), nil, nil, &cart); err != nil {
		return nil, err
	}

	return &cart, nil
}

// Orders lists the orders of the signed in customer.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var out struct {
		Orders []model.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "orders", nil, nil, &out); err != nil {
		return nil, err
	}

	return out.Orders, nil
}

// PlaceOrder checks the cart out.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*model.Order, error) {
	var order model.Order
	if err := c.do(ctx, http.MethodPost, "orders", nil, req, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// Tickets lists the help tickets of the signed in user.
func (c *Client) Tickets(ctx context.Context) ([]model.HelpTicket, error) {
	var out struct {
		Tickets []model.HelpTicket `json:"tickets"`
	}
	if err := c.do(ctx, http.MethodGet, "support/tickets", nil, nil, &out); err != nil {
		return nil, err
	}

	return out.Tickets, nil
}

// CreateTicket opens a help ticket.
func (c *Client) CreateTicket(ctx context.Context, req TicketRequest) (*model.HelpTicket, error) {
	var ticket model.HelpTicket
	if err := c.do(ctx, http.MethodPost, "support/tickets", nil, req, &ticket); err != nil {
		return nil, err
	}

	return &ticket, nil
}

// SearchAddress geocodes a free text query.
func (c *Client) SearchAddress(ctx context.Context, query string) ([]model.Address, error) {
	var out struct {
		Results []model.Address `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "geocode/search", url.Values{"q": {query}}, nil, &out); err != nil {
		return nil, err
	}

	return out.Results, nil
}
