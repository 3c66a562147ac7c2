// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/wangtaoking1/shopdesk/backend/events"
	"github.com/wangtaoking1/shopdesk/backend/store"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/model"
	"github.com/wangtaoking1/shopdesk/websocket"
)

// TypeError is the frame type failures are answered with.
const TypeError = "error"

// adminHandler serves one request type and returns the answer frame.
type adminHandler func(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error)

// Admin answers the frames of the admin console. Every request is answered
// on the connection it came from; failures and unknown types are answered
// with an error frame.
type Admin struct {
	store     store.Store
	publisher events.Publisher
	validate  *validator.Validate
	handlers  map[string]adminHandler
}

var _ websocket.Dispatcher = (*Admin)(nil)

// NewAdmin creates the admin frame handler.
func NewAdmin(s store.Store, publisher events.Publisher) *Admin {
	a := &Admin{
		store:     s,
		publisher: publisher,
		validate:  newValidator(),
	}
	a.handlers = map[string]adminHandler{
		"get_brands":   a.getBrands,
		"create_brand": a.createBrand,
		"update_brand": a.updateBrand,
		"delete_brand": a.deleteBrand,

		"get_categories":  a.getCategories,
		"create_category": a.createCategory,
		"update_category": a.updateCategory,
		"delete_category": a.deleteCategory,

		"get_orders":          a.getOrders,
		"update_order_status": a.updateOrderStatus,

		"get_pricing_config":  a.getPricing,
		"save_pricing_config": a.savePricing,

		"get_help_tickets":  a.getTickets,
		"respond_to_ticket": a.respondToTicket,

		"get_coupons":   a.getCoupons,
		"create_coupon": a.createCoupon,
		"toggle_coupon": a.toggleCoupon,
		"delete_coupon": a.deleteCoupon,
	}

	return a
}

// Types lists the request types served.
func (a *Admin) Types() []string {
	types := make([]string, 0, len(a.handlers))
	for typ := range a.handlers {
		types = append(types, typ)
	}
	slices.Sort(types)

	return types
}

// Dispatch serves one request frame.
func (a *Admin) Dispatch(ctx context.Context, writer websocket.Writer, frame *websocket.Frame) {
	logger := log.From(ctx).With("type", frame.Type)

	answer, err := a.serve(ctx, frame)
	if err != nil {
		logger.Infow("Admin request failed", "error", err)
		answer = errorFrame(err)
	}
	if err := writer.Write(ctx, answer); err != nil {
		logger.Warnw("Failed to answer admin request", "error", err)
	}
}

func (a *Admin) serve(ctx context.Context, frame *websocket.Frame) (answer *websocket.Frame, err error) {
	handler, ok := a.handlers[frame.Type]
	if !ok {
		return nil, errors.Errorf("unknown message type: %s", frame.Type)
	}

	defer func() {
		if r := recover(); r != nil {
			log.From(ctx).Errorw("Admin handler panic", "error", r, "stack", string(debug.Stack()))
			answer, err = nil, errors.New("internal error")
		}
	}()

	return handler(ctx, frame.Payload)
}

func errorFrame(err error) *websocket.Frame {
	return websocket.MustFrame(TypeError, map[string]string{"message": publicMessage(err)})
}

// publicMessage turns store errors into messages fit for an operator.
func publicMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Not found"
	case errors.Is(err, store.ErrConflict):
		return "Already exists"
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s", fe.Field())
	}

	return err.Error()
}

// decode reads the whole payload into v and validates it.
func (a *Admin) decode(payload websocket.Payload, v interface{}) error {
	if err := payload.Decode("", v); err != nil {
		return errors.Wrap(err, "malformed request")
	}

	return a.validate.Struct(v)
}

type idRequest struct {
	ID string `json:"id" validate:"required"`
}

type brandRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Logo        string `json:"logo"        validate:"omitempty,datauri"`
	Active      bool   `json:"active"`
}

func (a *Admin) getBrands(ctx context.Context, _ websocket.Payload) (*websocket.Frame, error) {
	brands, err := a.store.Brands(ctx)
	if err != nil {
		return nil, err
	}

	return websocket.NewFrame("brands_data", map[string]interface{}{"brands": nonNil(brands)})
}

func (a *Admin) createBrand(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req brandRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	brand := &model.Brand{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Logo:        req.Logo,
		Active:      req.Active,
	}
	if err := a.store.SaveBrand(ctx, brand); err != nil {
		return nil, err
	}

	return websocket.NewFrame("brand_created", map[string]interface{}{"brand": brand})
}

func (a *Admin) updateBrand(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req brandRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, errors.New("id is required")
	}

	brands, err := a.store.Brands(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(brands, func(b model.Brand) bool { return b.ID == req.ID })
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	brand := brands[idx]
	brand.Name = strings.TrimSpace(req.Name)
	brand.Description = req.Description
	brand.Logo = req.Logo
	brand.Active = req.Active
	if err := a.store.SaveBrand(ctx, &brand); err != nil {
		return nil, err
	}

	return websocket.NewFrame("brand_updated", map[string]interface{}{"brand": brand})
}

func (a *Admin) deleteBrand(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req idRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	if err := a.store.DeleteBrand(ctx, req.ID); err != nil {
		return nil, err
	}

	return websocket.NewFrame("brand_deleted", req)
}

type categoryRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Image       string `json:"image"       validate:"omitempty,datauri"`
	ParentID    string `json:"parent_id"`
	Active      bool   `json:"active"`
}

func (a *Admin) getCategories(ctx context.Context, _ websocket.Payload) (*websocket.Frame, error) {
	categories, err := a.store.Categories(ctx)
	if err != nil {
		return nil, err
	}

	return websocket.NewFrame("categories_data", map[string]interface{}{"categories": nonNil(categories)})
}

func (a *Admin) checkParent(ctx context.Context, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	if parentID == id {
		return errors.New("a category can not be its own parent")
	}
	categories, err := a.store.Categories(ctx)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(categories, func(c model.Category) bool { return c.ID == parentID }) {
		return errors.New("parent category does not exist")
	}

	return nil
}

func (a *Admin) createCategory(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req categoryRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	if err := a.checkParent(ctx, "", req.ParentID); err != nil {
		return nil, err
	}
	category := &model.Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Image:       req.Image,
		ParentID:    req.ParentID,
		Active:      req.Active,
	}
	if err := a.store.SaveCategory(ctx, category); err != nil {
		return nil, err
	}

	return websocket.NewFrame("category_created", map[string]interface{}{"category": category})
}

func (a *Admin) updateCategory(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req categoryRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, errors.New("id is required")
	}
	if err := a.checkParent(ctx, req.ID, req.ParentID); err != nil {
		return nil, err
	}

	categories, err := a.store.Categories(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(categories, func(c model.Category) bool { return c.ID == req.ID })
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	category := categories[idx]
	category.Name = strings.TrimSpace(req.Name)
	category.Description = req.Description
	category.Image = req.Image
	category.ParentID = req.ParentID
	category.Active = req.Active
	if err := a.store.SaveCategory(ctx, &category); err != nil {
		return nil, err
	}

	return websocket.NewFrame("category_updated", map[string]interface{}{"category": category})
}

func (a *Admin) deleteCategory(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req idRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	if err := a.store.DeleteCategory(ctx, req.ID); err != nil {
		return nil, err
	}

	return websocket.NewFrame("category_deleted", req)
}

type orderStatusRequest struct {
	ID     string            `json:"id"     validate:"required"`
	Status model.OrderStatus `json:"status" validate:"required"`
}

func (a *Admin) getOrders(ctx context.Context, _ websocket.Payload) (*websocket.Frame, error) {
	orders, err := a.store.Orders(ctx, store.OrderFilter{})
	if err != nil {
		return nil, err
	}

	return websocket.NewFrame("orders_data", map[string]interface{}{"orders": nonNil(orders)})
}

func (a *Admin) updateOrderStatus(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req orderStatusRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	order, err := changeOrderStatus(ctx, a.store, a.publisher, req.ID, req.Status)
	if err != nil {
		return nil, err
	}

	return websocket.NewFrame("order_status_updated", map[string]interface{}{"order": order})
}

type pricingRequest struct {
	Config model.PricingConfig `json:"config"`
}

func (a *Admin) getPricing(ctx context.Context, _ websocket.Payload) (*websocket.Frame, error) {
	cfg, err := a.store.Pricing(ctx)
	if err != nil {
		return nil, err
	}

	return websocket.NewFrame("pricing_config", map[string]interface{}{"config": cfg})
}

func (a *Admin) savePricing(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	if !payload.Has("config") {
		return nil, errors.New("config is required")
	}
	var req pricingRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	if err := a.store.SavePricing(ctx, &req.Config); err != nil {
		return nil, err
	}

	return websocket.NewFrame("pricing_updated", map[string]interface{}{"config": req.Config})
}

type ticketResponseRequest struct {
	ID       string             `json:"id"       validate:"required"`
	Response string             `json:"response" validate:"required,max=2000"`
	Status   model.TicketStatus `json:"status"   validate:"omitempty,oneof=open in_progress resolved closed"`
}

func (a *Admin) getTickets(ctx context.Context, _ websocket.Payload) (*websocket.Frame, error) {
	tickets, err := a.store.Tickets(ctx, "")
	if err != nil {
		return nil, err
	}

	return websocket.NewFrame("help_tickets_data", map[string]interface{}{"tickets": nonNil(tickets)})
}

func (a *Admin) respondToTicket(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req ticketResponseRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	ticket, err := a.store.Ticket(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ticket.Responses = append(ticket.Responses, model.TicketResponse{
		Author:    string(model.RoleAdmin),
		Message:   req.Response,
		CreatedAt: time.Now(),
	})
	switch {
	case req.Status != "":
		ticket.Status = req.Status
	case ticket.Status == model.TicketOpen:
		ticket.Status = model.TicketInProgress
	}
	if err := a.store.SaveTicket(ctx, ticket); err != nil {
		return nil, err
	}
	a.publisher.Publish(ctx, events.TicketResponded, ticket.ID, map[string]interface{}{
		"user_id": ticket.UserID,
		"status":  ticket.Status,
	})

	return websocket.NewFrame("ticket_updated", map[string]interface{}{"ticket": ticket})
}

type couponRequest struct {
	Code         string             `json:"code"          validate:"required,alphanum,max=32"`
	DiscountType model.DiscountType `json:"discount_type" validate:"required,oneof=percent flat"`
	Value        float64            `json:"value"         validate:"gt=0"`
	MinOrder     float64            `json:"min_order"     validate:"gte=0"`
	MaxDiscount  float64            `json:"max_discount"  validate:"gte=0"`
	UsageLimit   int                `json:"usage_limit"   validate:"gte=0"`
	ExpiresAt    *time.Time         `json:"expires_at"`
	Active       bool               `json:"active"`
}

type toggleRequest struct {
	ID     string `json:"id" validate:"required"`
	Active bool   `json:"active"`
}

func (a *Admin) getCoupons(ctx context.Context, _ websocket.Payload) (*websocket.Frame, error) {
	coupons, err := a.store.Coupons(ctx)
	if err != nil {
		return nil, err
	}

	return websocket.NewFrame("coupons_data", map[string]interface{}{"coupons": nonNil(coupons)})
}

func (a *Admin) createCoupon(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req couponRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	if req.DiscountType == model.DiscountPercent && req.Value > 100 {
		return nil, errors.New("percent discount can not exceed 100")
	}
	coupon := &model.Coupon{
		ID:           uuid.NewString(),
		Code:         strings.ToUpper(req.Code),
		DiscountType: req.DiscountType,
		Value:        req.Value,
		MinOrder:     req.MinOrder,
		MaxDiscount:  req.MaxDiscount,
		UsageLimit:   req.UsageLimit,
		ExpiresAt:    req.ExpiresAt,
		Active:       req.Active,
	}
	if err := a.store.SaveCoupon(ctx, coupon); err != nil {
		return nil, err
	}

	return websocket.NewFrame("coupon_created", map[string]interface{}{"coupon": coupon})
}

func (a *Admin) toggleCoupon(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req toggleRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	coupon, err := a.store.Coupon(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	coupon.Active = req.Active
	if err := a.store.SaveCoupon(ctx, coupon); err != nil {
		return nil, err
	}

	return websocket.NewFrame("coupon_updated", map[string]interface{}{"coupon": coupon})
}

func (a *Admin) deleteCoupon(ctx context.Context, payload websocket.Payload) (*websocket.Frame, error) {
	var req idRequest
	if err := a.decode(payload, &req); err != nil {
		return nil, err
	}
	if err := a.store.DeleteCoupon(ctx, req.ID); err != nil {
		return nil, err
	}

	return websocket.NewFrame("coupon_deleted", req)
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
