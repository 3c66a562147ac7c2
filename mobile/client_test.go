// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package mobile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/session"
)

func newTestClient(t *testing.T, handler http.Handler, mutate ...func(*Options)) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := NewOptions()
	opts.BaseURL = srv.URL + "/api"
	for _, m := range mutate {
		m(opts)
	}
	c, err := NewClient(opts, session.NewMemory())
	require.NoError(t, err)

	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_LoginStoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Empty(t, r.Header.Get("Authorization"))

		var creds Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, LoginResult{Token: "tok-1", User: model.User{ID: "u1", Email: creds.Email}})
	})
	mux.HandleFunc("/api/delivery/available", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "missing token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"deliveries": []model.Order{{ID: "o1"}}})
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	_, err := c.AvailableDeliveries(ctx)
	assert.True(t, IsUnauthorized(err))
	assert.EqualError(t, err, "api error 401: missing token")

	_, err = c.Login(ctx, Credentials{Email: "a@b.c", Password: "wrong"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "invalid credentials", apiErr.Message)

	result, err := c.Login(ctx, Credentials{Email: "a@b.c", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "u1", result.User.ID)

	deliveries, err := c.AvailableDeliveries(ctx)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, "o1", deliveries[0].ID)

	require.NoError(t, c.Logout(ctx))
	token, _ := c.Tokens().Token(ctx)
	assert.Empty(t, token)
}

func TestClient_ErrorMessageFallback(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))

	_, err := c.Orders(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_NoRetry(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "try later"})
	}))

	_, err := c.Cart(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_LoginTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	c := newTestClient(t, handler, func(o *Options) { o.LoginTimeout = 50 * time.Millisecond })

	start := time.Now()
	_, err := c.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestClient_Endpoints(t *testing.T) {
	type call struct{ method, path, query string }
	var (
		mtx   sync.Mutex
		calls []call
	)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mtx.Lock()
		calls = append(calls, call{r.Method, r.URL.EscapedPath(), r.URL.RawQuery})
		mtx.Unlock()
		switch r.URL.Path {
		case "/api/delivery/o 1/accept", "/api/delivery/o1/status":
			writeJSON(w, http.StatusOK, model.Order{ID: "o1", Status: model.OrderOutForDelivery})
		case "/api/cart", "/api/cart/items", "/api/cart/items/p1":
			writeJSON(w, http.StatusOK, model.Cart{UserID: "u1", Subtotal: 3})
		case "/api/orders":
			if r.Method == http.MethodPost {
				writeJSON(w, http.StatusCreated, model.Order{ID: "o2"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"orders": []model.Order{{ID: "o2"}}})
		case "/api/support/tickets":
			if r.Method == http.MethodPost {
				writeJSON(w, http.StatusCreated, model.HelpTicket{ID: "t1"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"tickets": []model.HelpTicket{{ID: "t1"}}})
		case "/api/geocode/search":
			writeJSON(w, http.StatusOK, map[string]interface{}{"results": []model.Address{{Label: r.URL.Query().Get("q")}}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()

	order, err := c.AcceptDelivery(ctx, "o 1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	_, err = c.UpdateDeliveryStatus(ctx, "o1", model.OrderDelivered)
	require.NoError(t, err)

	cart, err := c.Cart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cart.Subtotal)
	_, err = c.AddToCart(ctx, model.CartItem{ProductID: "p1", Quantity: 1})
	require.NoError(t, err)
	_, err = c.RemoveFromCart(ctx, "p1")
	require.NoError(t, err)

	orders, err := c.Orders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	placed, err := c.PlaceOrder(ctx, PlaceOrderRequest{Address: "1 Main St", PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, "o2", placed.ID)

	tickets, err := c.Tickets(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	_, err = c.CreateTicket(ctx, TicketRequest{Subject: "late", Message: "where is it"})
	require.NoError(t, err)

	results, err := c.SearchAddress(ctx, "main street")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "main street", results[0].Label)

	mtx.Lock()
	defer mtx.Unlock()
	assert.Equal(t, []call{
		{http.MethodPost, "/api/delivery/o%201/accept", ""},
		{http.MethodPut, "/api/delivery/o1/status", ""},
		{http.MethodGet, "/api/cart", ""},
		{http.MethodPost, "/api/cart/items", ""},
		{http.MethodDelete, "/api/cart/items/p1", ""},
		{http.MethodGet, "/api/orders", ""},
		{http.MethodPost, "/api/orders", ""},
		{http.MethodGet, "/api/support/tickets", ""},
		{http.MethodPost, "/api/support/tickets", ""},
		{http.MethodGet, "/api/geocode/search", "q=main+street"},
	}, calls)
}

func TestOptions_Validate(t *testing.T) {
	opts := NewOptions()
	assert.Empty(t, opts.Validate())
	assert.Zero(t, opts.LoginTimeout)

	opts.BaseURL = "ftp://example.com"
	opts.LoginTimeout = -1
	assert.Len(t, opts.Validate(), 2)

	_, err := NewClient(opts, nil)
	assert.Error(t, err)
}
