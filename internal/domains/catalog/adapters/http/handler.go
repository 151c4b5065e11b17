// Package http exposes the catalog bounded context over gin.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ifan/go-mall-api/internal/domains/catalog/adapters/http/mapper"
	"github.com/ifan/go-mall-api/internal/domains/catalog/application"
	"github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	"github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	apierrors "github.com/ifan/go-mall-api/internal/shared/errors"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// Handler wires HTTP transport with the catalog service.
type Handler struct {
	service ports.Service
}

func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the product endpoints on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:productId", h.GetProduct)
	rg.POST("/products", h.CreateProduct)
	rg.PUT("/products/:productId", h.UpdateProduct)
	rg.DELETE("/products/:productId", h.DeleteProduct)
}

// Get /api/v1/products
// Lists products with optional category filter, sorting, and paging.
func (h *Handler) ListProducts(c *gin.Context) {
	var filter ports.ListFilter
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		category, err := domain.ParseCategory(raw)
		if err != nil {
			apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
			return
		}
		filter.Category = &category
	}
	if c.Query("inStock") == "true" {
		var zero int32
		filter.StockGreater = &zero
	}

	req := pagination.NewRequest(queryInt(c, "page", 0), queryInt(c, "size", pagination.DefaultSize))
	direction := pagination.Descending
	if strings.EqualFold(c.Query("sort"), "asc") {
		direction = pagination.Ascending
	}
	req = req.WithSort(c.DefaultQuery("orderBy", "createdDate"), direction)

	page, err := h.service.List(c.Request.Context(), filter, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromPage(page))
}

// Get /api/v1/products/:productId
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomain(product))
}

// Post /api/v1/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var payload mapper.ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := mapper.ToDomain(payload)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	saved, err := h.service.CreateProduct(c.Request.Context(), product)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomain(saved))
}

// Put /api/v1/products/:productId
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload mapper.ProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	product, err := mapper.ToDomain(payload)
	if err != nil {
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
		return
	}
	updated, err := h.service.UpdateProduct(c.Request.Context(), id, product)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomain(updated))
}

// Delete /api/v1/products/:productId
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		apierrors.Respond(c, apierrors.NewNotFoundProblem("product", c.Param("productId")))
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
