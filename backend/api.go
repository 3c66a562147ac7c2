// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/wangtaoking1/shopdesk/backend/events"
	"github.com/wangtaoking1/shopdesk/backend/store"
	"github.com/wangtaoking1/shopdesk/errors"
	"github.com/wangtaoking1/shopdesk/log"
	"github.com/wangtaoking1/shopdesk/model"
)

const userKey = "shopdesk.user"

var (
	errForbidden  = errors.New("not allowed for this account")
	errEmptyCart  = errors.New("cart is empty")
	errBadCoupon  = errors.New("coupon is not valid")
	errNotPartner = errors.New("delivery is assigned to another partner")
)

type api struct {
	store     store.Store
	publisher events.Publisher
	tokens    TokenStore
	geocoder  *AddressBook
}

func (a *api) register(g *gin.RouterGroup) {
	g.POST("/auth/login", a.login)

	authed := g.Group("", a.authenticate)
	authed.POST("/auth/logout", a.logout)
	authed.GET("/geocode/search", a.searchAddress)

	partner := authed.Group("/delivery", requireRole(model.RolePartner))
	partner.GET("/available", a.availableDeliveries)
	partner.POST("/:id/accept", a.acceptDelivery)
	partner.PUT("/:id/status", a.updateDeliveryStatus)

	customer := authed.Group("", requireRole(model.RoleCustomer))
	customer.GET("/cart", a.getCart)
	customer.POST("/cart/items", a.addCartItem)
	customer.DELETE("/cart/items/:pid", a.removeCartItem)
	customer.GET("/orders", a.listOrders)
	customer.POST("/orders", a.placeOrder)

	authed.GET("/support/tickets", a.listTickets)
	authed.POST("/support/tickets", a.createTicket)
}

// writeError answers with a status derived from err and a message body.
func writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrConflict), errors.Is(err, errOrderClosed), errors.Is(err, errNotPartner):
		status = http.StatusConflict
	case errors.Is(err, errBadCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		status = http.StatusForbidden
	}
	if status == http.StatusNotFound {
		c.AbortWithStatusJSON(status, gin.H{"message": "Not found"})
		return
	}

	log.From(c.Request.Context()).Infow("API request rejected", "path", c.FullPath(), "error", err)
	c.AbortWithStatusJSON(status, gin.H{"message": err.Error()})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func (a *api) authenticate(c *gin.Context) {
	userID, err := a.tokens.Lookup(c.Request.Context(), bearerToken(c))
	if err != nil {
		if !errors.Is(err, errUnknownToken) {
			log.From(c.Request.Context()).Errorw("Token lookup failed", "error", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	user, err := a.store.User(c.Request.Context(), userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}

	c.Set(userKey, user)
	c.Next()
}

func requireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != role {
			writeError(c, errForbidden)
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *model.User {
	return c.MustGet(userKey).(*model.User)
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *api) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	user, err := authenticate(c.Request.Context(), a.store, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := a.tokens.Issue(c.Request.Context(), user.ID)
	if err != nil {
		log.From(c.Request.Context()).Errorw("Issue token failed", "error", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"message": "Can not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (a *api) logout(c *gin.Context) {
	if err := a.tokens.Revoke(c.Request.Context(), bearerToken(c)); err != nil {
		log.From(c.Request.Context()).Errorw("Revoke token failed", "error", err)
	}
	c.Status(http.StatusNoContent)
}

func (a *api) searchAddress(c *gin.Context) {
	results, err := a.geocoder.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (a *api) availableDeliveries(c *gin.Context) {
	orders, err := a.store.Orders(c.Request.Context(), store.OrderFilter{Available: true})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deliveries": nonNil(orders)})
}

func (a *api) acceptDelivery(c *gin.Context) {
	ctx := c.Request.Context()
	partner := currentUser(c)

	order, err := a.store.Order(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !order.Available() {
		writeError(c, errors.WithMessage(errNotPartner, "delivery is not available"))
		return
	}
	order.PartnerID = partner.ID
	if err := a.store.SaveOrder(ctx, order); err != nil {
		writeError(c, err)
		return
	}
	a.publisher.Publish(ctx, events.DeliveryAccepted, order.ID, gin.H{"partner_id": partner.ID})

	c.JSON(http.StatusOK, order)
}

type deliveryStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required,oneof=out_for_delivery delivered"`
}

func (a *api) updateDeliveryStatus(c *gin.Context) {
	ctx := c.Request.Context()

	var req deliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	order, err := a.store.Order(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if order.PartnerID != currentUser(c).ID {
		writeError(c, errNotPartner)
		return
	}
	order, err = changeOrderStatus(ctx, a.store, a.publisher, order.ID, req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (a *api) getCart(c *gin.Context) {
	cart, err := a.store.Cart(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"   binding:"required,gt=0"`
}

func (a *api) addCartItem(c *gin.Context) {
	ctx := c.Request.Context()

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	product, err := a.store.Product(ctx, req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	cart, err := a.store.Cart(ctx, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}

	idx := slices.IndexFunc(cart.Items, func(it model.CartItem) bool { return it.ProductID == product.ID })
	if idx >= 0 {
		cart.Items[idx].Quantity += req.Quantity
	} else {
		cart.Items = append(cart.Items, model.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  req.Quantity,
			Price:     product.Price,
		})
	}
	cart.Recalculate()
	if err := a.store.SaveCart(ctx, cart); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (a *api) removeCartItem(c *gin.Context) {
	ctx := c.Request.Context()

	cart, err := a.store.Cart(ctx, currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	cart.Items = slices.DeleteFunc(cart.Items, func(it model.CartItem) bool {
		return it.ProductID == c.Param("pid")
	})
	cart.Recalculate()
	if err := a.store.SaveCart(ctx, cart); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, cart)
}

func (a *api) listOrders(c *gin.Context) {
	orders, err := a.store.Orders(c.Request.Context(), store.OrderFilter{CustomerID: currentUser(c).ID})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": nonNil(orders)})
}

type placeOrderRequest struct {
	Address       string  `json:"address"        binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
	CouponCode    string  `json:"coupon_code"`
	DistanceKm    float64 `json:"distance_km"    binding:"gte=0"`
}

func (a *api) placeOrder(c *gin.Context) {
	ctx := c.Request.Context()
	customer := currentUser(c)

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	cart, err := a.store.Cart(ctx, customer.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	if len(cart.Items) == 0 {
		writeError(c, errEmptyCart)
		return
	}
	pricing, err := a.store.Pricing(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	quote := pricing.Quote(req.DistanceKm, cart.Subtotal)
	if quote.BelowMinimum {
		writeError(c, errors.Errorf("minimum order amount is %.2f", pricing.MinOrderAmount))
		return
	}

	order := &model.Order{
		ID:            uuid.NewString(),
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		Items:         cart.Items,
		Subtotal:      quote.Subtotal,
		DeliveryFee:   quote.DeliveryFee,
		ServiceFee:    quote.ServiceFee,
		Total:         quote.Total,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		Status:        model.OrderPending,
	}
	if req.CouponCode != "" {
		coupon, discount, err := a.redeem(ctx, req.CouponCode, cart.Subtotal)
		if err != nil {
			writeError(c, err)
			return
		}
		order.CouponCode = coupon.Code
		order.Discount = discount
		order.Total = roundCents(order.Total - discount)
	}
	if err := a.store.SaveOrder(ctx, order); err != nil {
		writeError(c, err)
		return
	}

	cart.Items = []model.CartItem{}
	cart.Recalculate()
	if err := a.store.SaveCart(ctx, cart); err != nil {
		log.From(ctx).Errorw("Failed to empty cart", "user_id", customer.ID, "error", err)
	}
	a.publisher.Publish(ctx, events.OrderPlaced, order.ID, gin.H{
		"customer_id": customer.ID,
		"total":       order.Total,
	})

	c.JSON(http.StatusCreated, order)
}

// redeem prices code against subtotal and counts one use.
func (a *api) redeem(ctx context.Context, code string, subtotal float64) (*model.Coupon, float64, error) {
	coupon, err := a.store.CouponByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if errors.Is(err, store.ErrNotFound) {
		return nil, 0, errBadCoupon
	}
	if err != nil {
		return nil, 0, err
	}
	discount := coupon.Discount(subtotal, time.Now())
	if discount == 0 {
		return nil, 0, errBadCoupon
	}
	coupon.Used++
	if err := a.store.SaveCoupon(ctx, coupon); err != nil {
		return nil, 0, err
	}

	return coupon, discount, nil
}

func (a *api) listTickets(c *gin.Context) {
	tickets, err := a.store.Tickets(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": nonNil(tickets)})
}

type ticketRequest struct {
	Subject string `json:"subject"  binding:"required,max=200"`
	Message string `json:"message"  binding:"required,max=2000"`
	OrderID string `json:"order_id"`
}

func (a *api) createTicket(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, err)
		return
	}
	if req.OrderID != "" {
		if _, err := a.store.Order(ctx, req.OrderID); err != nil {
			writeError(c, err)
			return
		}
	}
	ticket := &model.HelpTicket{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		OrderID: req.OrderID,
		Subject: req.Subject,
		Message: req.Message,
		Status:  model.TicketOpen,
	}
	if err := a.store.SaveTicket(ctx, ticket); err != nil {
		writeError(c, err)
		return
	}
	a.publisher.Publish(ctx, events.TicketOpened, ticket.ID, gin.H{"user_id": user.ID})

	c.JSON(http.StatusCreated, ticket)
}
