// Package http exposes order placement and revision over gin.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	catalogports "github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	"github.com/ifan/go-mall-api/internal/domains/orders/adapters/http/mapper"
	"github.com/ifan/go-mall-api/internal/domains/orders/application"
	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
	"github.com/ifan/go-mall-api/internal/domains/orders/ports"
	userhttp "github.com/ifan/go-mall-api/internal/domains/users/adapters/http"
	apierrors "github.com/ifan/go-mall-api/internal/shared/errors"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// Handler wires HTTP transport with the order engine. Placement goes through
// the workflow orchestrator when one is configured.
type Handler struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	logger    *slog.Logger
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func NewHandler(service ports.Service, workflows ports.WorkflowOrchestrator, opts ...Option) *Handler {
	h := &Handler{service: service, workflows: workflows}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// RegisterRoutes mounts the order endpoints. All of them require a session.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders", h.CreateOrder)
	rg.GET("/orders", h.ListOrders)
	rg.GET("/orders/my", h.MyOrders)
	rg.GET("/orders/:orderId", h.GetOrder)
	rg.GET("/orders/:orderId/items", h.GetOrderItems)
	rg.PUT("/orders/:orderId", h.UpdateOrder)
	rg.DELETE("/orders/:orderId", h.DeleteOrder)
}

// Post /api/v1/orders
// Places an order for the authenticated user.
func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := userhttp.CurrentUserID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	var payload mapper.OrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	items := mapper.ToDraftItems(payload)
	order, err := h.placeOrder(c.Request.Context(), &domain.Order{UserID: userID}, items)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomainWithItems(order, h.refreshedItems(c.Request.Context(), order.ID, items)))
}

func (h *Handler) placeOrder(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if h.workflows != nil {
		return h.workflows.PlaceOrder(ctx, order, items)
	}
	return h.service.CreateOrder(ctx, order, items)
}

// Put /api/v1/orders/:orderId
// Replaces the item set of an owned order.
func (h *Handler) UpdateOrder(c *gin.Context) {
	orderID, order, ok := h.ownedOrder(c)
	if !ok {
		return
	}
	var payload mapper.OrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	items := mapper.ToDraftItems(payload)
	updated, err := h.service.UpdateOrder(c.Request.Context(), orderID, &domain.Order{UserID: order.UserID}, items)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainWithItems(updated, h.refreshedItems(c.Request.Context(), orderID, items)))
}

// refreshedItems reloads the persisted lines after a successful write. The
// fallback drafts are already ID-stamped by the repository, so a failed
// reload degrades to them and is only logged.
func (h *Handler) refreshedItems(ctx context.Context, orderID int64, fallback []*domain.OrderItem) []*domain.OrderItem {
	saved, err := h.service.FindOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		if h.logger != nil {
			h.logger.LogAttrs(ctx, slog.LevelWarn, "failed to reload order items after write",
				slog.Int64("orderId", orderID), slog.String("error", err.Error()))
		}
		return fallback
	}
	return saved
}

// Delete /api/v1/orders/:orderId
func (h *Handler) DeleteOrder(c *gin.Context) {
	orderID, _, ok := h.ownedOrder(c)
	if !ok {
		return
	}
	if err := h.service.DeleteOrder(c.Request.Context(), orderID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/v1/orders/:orderId
func (h *Handler) GetOrder(c *gin.Context) {
	orderID, order, ok := h.ownedOrder(c)
	if !ok {
		return
	}
	items, err := h.service.FindOrderItemsByOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainWithItems(order, items))
}

// Get /api/v1/orders/:orderId/items
func (h *Handler) GetOrderItems(c *gin.Context) {
	orderID, _, ok := h.ownedOrder(c)
	if !ok {
		return
	}
	items, err := h.service.FindOrderItemsByOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomainItems(items))
}

// Get /api/v1/orders/my
// Lists the authenticated user's orders, newest first.
func (h *Handler) MyOrders(c *gin.Context) {
	userID, ok := userhttp.CurrentUserID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	req := pagination.NewRequest(queryInt(c, "page", 0), queryInt(c, "size", pagination.DefaultSize)).
		WithSort("createdDate", pagination.Descending)
	page, err := h.service.FindOrdersByUserID(c.Request.Context(), userID, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromPage(page))
}

// Get /api/v1/orders
// Back-office listing of every order.
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.service.FindAllOrders(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	results := make([]mapper.OrderResponse, 0, len(orders))
	for _, order := range orders {
		results = append(results, mapper.FromDomain(order))
	}
	c.JSON(http.StatusOK, results)
}

// ownedOrder loads the order named by the path and verifies the caller owns
// it. A foreign order reads as absent rather than forbidden.
func (h *Handler) ownedOrder(c *gin.Context) (int64, *domain.Order, bool) {
	userID, ok := userhttp.CurrentUserID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return 0, nil, false
	}
	orderID, ok := parseIDParam(c, "orderId")
	if !ok {
		return 0, nil, false
	}
	order, err := h.service.FindOrderByID(c.Request.Context(), orderID)
	if err != nil {
		h.respondServiceError(c, err)
		return 0, nil, false
	}
	if order.UserID != userID {
		apierrors.Respond(c, apierrors.NewNotFoundProblem("order", orderID))
		return 0, nil, false
	}
	return orderID, order, true
}

func (h *Handler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalogports.ErrInsufficientStock):
		apierrors.Respond(c, apierrors.NewInsufficientStockProblem(err.Error()))
	case errors.Is(err, catalogports.ErrNotFound):
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, ports.ErrNotFound):
		apierrors.Respond(c, apierrors.NewNotFoundProblem("order", c.Param("orderId")))
	case errors.Is(err, application.ErrInvalidInput):
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
	default:
		apierrors.Respond(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
