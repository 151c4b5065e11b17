package ports

import (
	"context"
	"errors"

	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// ErrNotFound signals the referenced order has no row.
var ErrNotFound = errors.New("order not found")

// Repository persists order headers together with their item lines. An
// order's item set is only ever replaced wholesale, never patched in place.
//
// Create and Replace commit the header and the item rows as one unit: a
// postgres adapter wraps them in a transaction, so a failed call leaves no
// partial rows behind. DeleteWithItems is idempotent at this layer.
type Repository interface {
	Create(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error)
	Replace(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error)
	DeleteWithItems(ctx context.Context, orderID int64) error

	GetByID(ctx context.Context, orderID int64) (*domain.Order, error)
	FindByUserID(ctx context.Context, userID int64, req pagination.Request) (pagination.Page[*domain.Order], error)
	ItemsByOrderID(ctx context.Context, orderID int64) ([]*domain.OrderItem, error)
	List(ctx context.Context) ([]*domain.Order, error)
}
