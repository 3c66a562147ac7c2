// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"sync"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangtaoking1/shopdesk/backend/events"
	"github.com/wangtaoking1/shopdesk/backend/store"
	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/websocket"
)

type published struct {
	typ     string
	subject string
}

type fakePublisher struct {
	mtx    sync.Mutex
	events []published
}

func (p *fakePublisher) Publish(_ context.Context, typ, subject string, _ interface{}) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.events = append(p.events, published{typ: typ, subject: subject})
}

func (p *fakePublisher) Close() {}

func (p *fakePublisher) all() []published {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return append([]published(nil), p.events...)
}

type frameRecorder struct {
	frames []*websocket.Frame
}

func (r *frameRecorder) Write(_ context.Context, f *websocket.Frame) error {
	r.frames = append(r.frames, f)
	return nil
}

func newSeededStore(t *testing.T) store.Store {
	t.Helper()

	s := store.NewMemory()
	require.NoError(t, Seed(context.Background(), s, "shopdesk"))
	return s
}

// call dispatches one request and returns the single answer.
func call(t *testing.T, a *Admin, typ string, body interface{}) *websocket.Frame {
	t.Helper()

	rec := &frameRecorder{}
	a.Dispatch(context.Background(), rec, websocket.MustFrame(typ, body))
	require.Len(t, rec.frames, 1)
	return rec.frames[0]
}

func nestedString(f *websocket.Frame, keys ...string) string {
	v, _ := jsonparser.GetString(f.Payload, keys...)
	return v
}

func nestedFloat(f *websocket.Frame, keys ...string) float64 {
	v, _ := jsonparser.GetFloat(f.Payload, keys...)
	return v
}

func nestedBool(f *websocket.Frame, keys ...string) bool {
	v, _ := jsonparser.GetBoolean(f.Payload, keys...)
	return v
}

func TestAdmin_UnknownType(t *testing.T) {
	a := NewAdmin(store.NewMemory(), &fakePublisher{})

	answer := call(t, a, "get_everything", nil)
	assert.Equal(t, TypeError, answer.Type)
	assert.Equal(t, "unknown message type: get_everything", answer.Payload.Message(""))
}

func TestAdmin_Brands(t *testing.T) {
	a := NewAdmin(newSeededStore(t), &fakePublisher{})

	answer := call(t, a, "get_brands", nil)
	require.Equal(t, "brands_data", answer.Type)
	var brands []model.Brand
	require.NoError(t, answer.Payload.Decode("brands", &brands))
	require.Len(t, brands, 2)
	assert.Equal(t, "Daily Dairy", brands[0].Name)

	answer = call(t, a, "create_brand", map[string]interface{}{"name": " Acme ", "active": true})
	require.Equal(t, "brand_created", answer.Type)
	var created model.Brand
	require.NoError(t, answer.Payload.Decode("brand", &created))
	assert.Equal(t, "Acme", created.Name)
	assert.NotEmpty(t, created.ID)

	answer = call(t, a, "create_brand", map[string]interface{}{"name": "acme"})
	assert.Equal(t, TypeError, answer.Type)
	assert.Equal(t, "Already exists", answer.Payload.Message(""))

	answer = call(t, a, "update_brand", map[string]interface{}{"id": created.ID, "name": "Acme Foods"})
	require.Equal(t, "brand_updated", answer.Type)
	assert.Equal(t, "Acme Foods", nestedString(answer, "brand", "name"))

	answer = call(t, a, "delete_brand", map[string]string{"id": created.ID})
	require.Equal(t, "brand_deleted", answer.Type)
	assert.Equal(t, created.ID, answer.Payload.String("id", ""))

	answer = call(t, a, "delete_brand", map[string]string{"id": created.ID})
	assert.Equal(t, "Not found", answer.Payload.Message(""))
}

func TestAdmin_Validation(t *testing.T) {
	a := NewAdmin(store.NewMemory(), &fakePublisher{})

	answer := call(t, a, "create_brand", map[string]string{"description": "no name"})
	assert.Equal(t, TypeError, answer.Type)
	assert.Equal(t, "Invalid name", answer.Payload.Message(""))

	answer = call(t, a, "create_coupon", map[string]interface{}{
		"code": "HALF", "discount_type": "percent", "value": 150,
	})
	assert.Equal(t, "percent discount can not exceed 100", answer.Payload.Message(""))

	answer = call(t, a, "save_pricing_config", nil)
	assert.Equal(t, "config is required", answer.Payload.Message(""))
}

func TestAdmin_Categories(t *testing.T) {
	a := NewAdmin(newSeededStore(t), &fakePublisher{})

	answer := call(t, a, "create_category", map[string]string{"name": "Cheese", "parent_id": "missing"})
	assert.Equal(t, "parent category does not exist", answer.Payload.Message(""))

	answer = call(t, a, "create_category", map[string]string{"name": "Cheese", "parent_id": "c-dairy"})
	require.Equal(t, "category_created", answer.Type)

	answer = call(t, a, "update_category", map[string]string{"id": "c-dairy", "name": "Dairy", "parent_id": "c-dairy"})
	assert.Equal(t, "a category can not be its own parent", answer.Payload.Message(""))

	answer = call(t, a, "update_category", map[string]string{"id": "c-dairy", "name": "Milk products"})
	require.Equal(t, "category_updated", answer.Type)

	answer = call(t, a, "get_categories", nil)
	var categories []model.Category
	require.NoError(t, answer.Payload.Decode("categories", &categories))
	assert.Len(t, categories, 4)
}

func TestAdmin_OrderStatus(t *testing.T) {
	pub := &fakePublisher{}
	a := NewAdmin(newSeededStore(t), pub)

	answer := call(t, a, "update_order_status", map[string]string{"id": "o-1002", "status": "ready"})
	require.Equal(t, "order_status_updated", answer.Type)
	assert.Equal(t, "ready", nestedString(answer, "order", "status"))
	assert.Equal(t, []published{{typ: events.OrderStatusChanged, subject: "o-1002"}}, pub.all())

	answer = call(t, a, "update_order_status", map[string]string{"id": "o-1002", "status": "lost"})
	assert.Equal(t, "invalid order status", answer.Payload.Message(""))

	call(t, a, "update_order_status", map[string]string{"id": "o-1002", "status": "cancelled"})
	answer = call(t, a, "update_order_status", map[string]string{"id": "o-1002", "status": "ready"})
	assert.Equal(t, "order is already delivered or cancelled", answer.Payload.Message(""))

	answer = call(t, a, "get_orders", nil)
	var orders []model.Order
	require.NoError(t, answer.Payload.Decode("orders", &orders))
	assert.Len(t, orders, 2)
}

func TestAdmin_Pricing(t *testing.T) {
	a := NewAdmin(store.NewMemory(), &fakePublisher{})

	answer := call(t, a, "get_pricing_config", nil)
	require.Equal(t, "pricing_config", answer.Type)
	assert.Equal(t, model.DefaultPricing().BaseDeliveryFee, nestedFloat(answer, "config", "base_delivery_fee"))

	cfg := model.DefaultPricing()
	cfg.SurgeMultiplier = 1.5
	answer = call(t, a, "save_pricing_config", map[string]interface{}{"config": cfg})
	require.Equal(t, "pricing_updated", answer.Type)

	answer = call(t, a, "get_pricing_config", nil)
	assert.Equal(t, 1.5, nestedFloat(answer, "config", "surge_multiplier"))
}

func TestAdmin_RespondToTicket(t *testing.T) {
	pub := &fakePublisher{}
	a := NewAdmin(newSeededStore(t), pub)

	answer := call(t, a, "respond_to_ticket", map[string]string{"id": "t-1", "response": "On its way"})
	require.Equal(t, "ticket_updated", answer.Type)
	var ticket model.HelpTicket
	require.NoError(t, answer.Payload.Decode("ticket", &ticket))
	assert.Equal(t, model.TicketInProgress, ticket.Status)
	require.Len(t, ticket.Responses, 1)
	assert.Equal(t, "On its way", ticket.Responses[0].Message)

	answer = call(t, a, "respond_to_ticket", map[string]string{"id": "t-1", "response": "Done", "status": "resolved"})
	require.NoError(t, answer.Payload.Decode("ticket", &ticket))
	assert.Equal(t, model.TicketResolved, ticket.Status)
	assert.Len(t, ticket.Responses, 2)
	assert.Len(t, pub.all(), 2)

	answer = call(t, a, "get_help_tickets", nil)
	var tickets []model.HelpTicket
	require.NoError(t, answer.Payload.Decode("tickets", &tickets))
	assert.Len(t, tickets, 1)
}

func TestAdmin_Coupons(t *testing.T) {
	a := NewAdmin(newSeededStore(t), &fakePublisher{})

	answer := call(t, a, "create_coupon", map[string]interface{}{
		"code": "spring5", "discount_type": "flat", "value": 5, "active": true,
	})
	require.Equal(t, "coupon_created", answer.Type)
	assert.Equal(t, "SPRING5", nestedString(answer, "coupon", "code"))
	id := nestedString(answer, "coupon", "id")

	answer = call(t, a, "toggle_coupon", map[string]interface{}{"id": id, "active": false})
	require.Equal(t, "coupon_updated", answer.Type)
	assert.False(t, nestedBool(answer, "coupon", "active"))

	answer = call(t, a, "delete_coupon", map[string]string{"id": id})
	require.Equal(t, "coupon_deleted", answer.Type)

	answer = call(t, a, "get_coupons", nil)
	var coupons []model.Coupon
	require.NoError(t, answer.Payload.Decode("coupons", &coupons))
	assert.Len(t, coupons, 2)
}

func TestAdmin_EmptyListsAreArrays(t *testing.T) {
	a := NewAdmin(store.NewMemory(), &fakePublisher{})

	answer := call(t, a, "get_brands", nil)
	assert.JSONEq(t, `{"brands":[]}`, string(answer.Payload))
}
