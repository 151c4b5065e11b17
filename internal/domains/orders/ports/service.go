package ports

import (
	"context"

	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// Service exposes the order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error)
	UpdateOrder(ctx context.Context, orderID int64, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error)
	DeleteOrder(ctx context.Context, orderID int64) error

	FindOrderByID(ctx context.Context, orderID int64) (*domain.Order, error)
	FindOrdersByUserID(ctx context.Context, userID int64, req pagination.Request) (pagination.Page[*domain.Order], error)
	FindOrderItemsByOrderID(ctx context.Context, orderID int64) ([]*domain.OrderItem, error)
	FindAllOrders(ctx context.Context) ([]*domain.Order, error)
}
