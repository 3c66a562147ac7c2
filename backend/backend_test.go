// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/shopdesk/backend/events"
	"github.com/wangtaoking1/shopdesk/console"
	"github.com/wangtaoking1/shopdesk/mobile"
	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/notify"
	"github.com/wangtaoking1/shopdesk/session"
	"github.com/wangtaoking1/shopdesk/websocket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestBackend(t *testing.T, pub events.Publisher) *httptest.Server {
	t.Helper()

	return newTestBackendWithTokens(t, pub, newMemoryTokens(time.Hour))
}

func newTestBackendWithTokens(t *testing.T, pub events.Publisher, tokens TokenStore) *httptest.Server {
	t.Helper()

	opts := NewOptions()
	b, err := newBackend(opts, newSeededStore(t), pub, tokens)
	require.NoError(t, err)

	g := gin.New()
	require.NoError(t, b.Setup(g))
	srv := httptest.NewServer(g)
	t.Cleanup(func() {
		srv.Close()
		b.Close()
	})

	return srv
}

func newMobileClient(t *testing.T, srv *httptest.Server, email string) *mobile.Client {
	t.Helper()

	opts := mobile.NewOptions()
	opts.BaseURL = srv.URL + "/api"
	c, err := mobile.NewClient(opts, session.NewMemory())
	require.NoError(t, err)

	if email != "" {
		_, err = c.Login(context.Background(), mobile.Credentials{Email: email, Password: "shopdesk"})
		require.NoError(t, err)
	}

	return c
}

func TestAPI_Login(t *testing.T) {
	srv := newTestBackend(t, &fakePublisher{})
	ctx := context.Background()
	c := newMobileClient(t, srv, "")

	_, err := c.Login(ctx, mobile.Credentials{Email: SeedCustomerEmail, Password: "wrong"})
	var apiErr *mobile.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid email or password", apiErr.Message)

	_, err = c.Orders(ctx)
	assert.True(t, mobile.IsUnauthorized(err))

	res, err := c.Login(ctx, mobile.Credentials{Email: SeedCustomerEmail, Password: "shopdesk"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, res.User.Role)
	assert.Empty(t, res.User.PasswordHash)

	orders, err := c.Orders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestAPI_CheckoutWithCoupon(t *testing.T) {
	pub := &fakePublisher{}
	srv := newTestBackend(t, pub)
	ctx := context.Background()
	c := newMobileClient(t, srv, SeedCustomerEmail)

	_, err := c.PlaceOrder(ctx, mobile.PlaceOrderRequest{Address: "x", PaymentMethod: "card"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart is empty")

	_, err = c.AddToCart(ctx, model.CartItem{ProductID: "p-cheese", Quantity: 1})
	require.NoError(t, err)
	cart, err := c.AddToCart(ctx, model.CartItem{ProductID: "p-cheese", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 25.0, cart.Subtotal)

	_, err = c.AddToCart(ctx, model.CartItem{ProductID: "p-missing", Quantity: 1})
	var apiErr *mobile.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, err = c.PlaceOrder(ctx, mobile.PlaceOrderRequest{
		Address: "1 Station Square", PaymentMethod: "card", CouponCode: "NOPE",
	})
	assert.Error(t, err)

	order, err := c.PlaceOrder(ctx, mobile.PlaceOrderRequest{
		Address: "1 Station Square", PaymentMethod: "card", CouponCode: "flat3", DistanceKm: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Equal(t, "FLAT3", order.CouponCode)
	assert.Equal(t, 3.0, order.Discount)
	quote := model.DefaultPricing().Quote(5, 25)
	assert.Equal(t, roundCents(quote.Total-3), order.Total)

	cart, err = c.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Contains(t, pub.all(), published{typ: events.OrderPlaced, subject: order.ID})

	cart, err = c.AddToCart(ctx, model.CartItem{ProductID: "p-milk", Quantity: 1})
	require.NoError(t, err)
	_, err = c.PlaceOrder(ctx, mobile.PlaceOrderRequest{Address: "x", PaymentMethod: "card"})
	assert.ErrorContains(t, err, "minimum order amount")

	cart, err = c.RemoveFromCart(ctx, "p-milk")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Subtotal)
}

func TestAPI_Delivery(t *testing.T) {
	pub := &fakePublisher{}
	srv := newTestBackend(t, pub)
	ctx := context.Background()
	partner := newMobileClient(t, srv, SeedPartnerEmail)
	customer := newMobileClient(t, srv, SeedCustomerEmail)

	_, err := customer.AvailableDeliveries(ctx)
	var apiErr *mobile.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)

	available, err := partner.AvailableDeliveries(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "o-1001", available[0].ID)

	order, err := partner.AcceptDelivery(ctx, "o-1001")
	require.NoError(t, err)
	assert.Equal(t, "u-partner", order.PartnerID)

	_, err = partner.AcceptDelivery(ctx, "o-1001")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)

	available, err = partner.AvailableDeliveries(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)

	_, err = partner.UpdateDeliveryStatus(ctx, "o-1001", model.OrderPending)
	assert.Error(t, err)

	order, err = partner.UpdateDeliveryStatus(ctx, "o-1001", model.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.OrderDelivered, order.Status)

	assert.Equal(t, []published{
		{typ: events.DeliveryAccepted, subject: "o-1001"},
		{typ: events.OrderStatusChanged, subject: "o-1001"},
	}, pub.all())
}

func TestAPI_SupportAndGeocode(t *testing.T) {
	srv := newTestBackend(t, &fakePublisher{})
	ctx := context.Background()
	c := newMobileClient(t, srv, SeedCustomerEmail)

	ticket, err := c.CreateTicket(ctx, mobile.TicketRequest{Subject: "Late", Message: "Still waiting", OrderID: "o-1001"})
	require.NoError(t, err)
	assert.Equal(t, model.TicketOpen, ticket.Status)

	_, err = c.CreateTicket(ctx, mobile.TicketRequest{Subject: "Late"})
	assert.Error(t, err)

	tickets, err := c.Tickets(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	results, err := c.SearchAddress(ctx, "market")
	require.NoError(t, err)
	require.Len(t, results, 2)

	results, err = c.SearchAddress(ctx, "dock market")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Harbour Market", results[0].Label)

	require.NoError(t, c.Logout(ctx))
	_, err = c.Tickets(ctx)
	assert.True(t, mobile.IsUnauthorized(err))
}

func TestConsole_EndToEnd(t *testing.T) {
	srv := newTestBackend(t, &fakePublisher{})

	wsOpts := websocket.NewClientOptions()
	wsOpts.URL = "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	wsOpts.ReconnectInterval = 20 * time.Millisecond
	svc, err := websocket.NewService(wsOpts)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Run(ctx) }()
	require.Eventually(t, svc.IsConnected, 2*time.Second, 10*time.Millisecond)

	toasts := notify.NewRecorder()
	ws := console.NewWorkspace(svc, toasts)
	_, err = ws.Open(ctx, "brands")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(ws.Brands.Brands()) == 2 }, 2*time.Second, 10*time.Millisecond)
	assert.False(t, ws.Brands.Loading())

	require.NoError(t, ws.Brands.Create(ctx, console.BrandForm{Name: "Acme", Active: true}))
	require.Eventually(t, func() bool { return len(ws.Brands.Brands()) == 3 }, 2*time.Second, 10*time.Millisecond)
	toast, ok := toasts.Last()
	require.True(t, ok)
	assert.Equal(t, notify.Default, toast.Variant)

	require.NoError(t, ws.Brands.Create(ctx, console.BrandForm{Name: "ACME"}))
	require.Eventually(t, func() bool {
		toast, ok := toasts.Last()
		return ok && toast.Variant == notify.Destructive && toast.Description == "Already exists"
	}, 2*time.Second, 10*time.Millisecond)

	_, err = ws.Open(ctx, "orders")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(ws.Orders.Orders()) == 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, ws.Orders.UpdateStatus(ctx, "o-1002", model.OrderReady))
	require.Eventually(t, func() bool {
		return len(ws.Orders.WithStatus(model.OrderReady)) == 2
	}, 2*time.Second, 10*time.Millisecond)
}
