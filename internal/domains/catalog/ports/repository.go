package ports

import (
	"context"
	"errors"

	"github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

var (
	// ErrNotFound signals the referenced product has no row.
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock signals a decrement would drive stock below zero.
	ErrInsufficientStock = errors.New("not enough stock")
)

// ListFilter narrows the paginated product listing.
type ListFilter struct {
	Category     *domain.Category
	StockGreater *int32
}

// Repository persists products and owns the stock counters.
//
// DecrementStock must be a single atomic conditional mutation: it succeeds
// only when the current stock covers the quantity, and its outcome is the
// sole source of truth for ErrInsufficientStock. IncrementStock has no upper
// bound; it compensates a prior decrement.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter, req pagination.Request) (pagination.Page[*domain.Product], error)
	DecrementStock(ctx context.Context, id int64, quantity int32) error
	IncrementStock(ctx context.Context, id int64, quantity int32) error
}
