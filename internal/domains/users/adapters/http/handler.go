// Package http exposes account registration and session endpoints over gin.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ifan/go-mall-api/internal/domains/users/adapters/http/mapper"
	"github.com/ifan/go-mall-api/internal/domains/users/application"
	"github.com/ifan/go-mall-api/internal/domains/users/ports"
	apierrors "github.com/ifan/go-mall-api/internal/shared/errors"
)

// Handler wires HTTP transport with the account service.
type Handler struct {
	service ports.Service
}

func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public auth endpoints on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
}

// RegisterProtectedRoutes mounts the endpoints that require a session.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/me", h.Me)
}

// Post /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var payload mapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	user, err := h.service.Register(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mapper.FromDomain(user))
}

// Post /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var payload mapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apierrors.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	token, user, err := h.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.LoginResponse{Token: token, User: mapper.FromDomain(user)})
}

// Post /api/v1/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/v1/auth/me
func (h *Handler) Me(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized)
		return
	}
	user, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapper.FromDomain(user))
}

func (h *Handler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrAuthentication):
		apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("invalid email or password"))
	case errors.Is(err, application.ErrInvalidInput):
		apierrors.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, ports.ErrNotFound):
		apierrors.Respond(c, apierrors.NewNotFoundProblem("user", c.Param("userId")))
	default:
		apierrors.Respond(c, apierrors.ErrInternal.WithDetail(err.Error()))
	}
}
