package ports

import (
	"context"

	"github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	StockService

	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ListFilter, req pagination.Request) (pagination.Page[*domain.Product], error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// StockService is the stock-mutation contract the order engine depends on.
// Decrease and restore are keyed by product; a decrease fails with
// ErrInsufficientStock when the quantity cannot be covered at mutation time,
// and either call fails with ErrNotFound for an unknown product.
type StockService interface {
	GetPrice(ctx context.Context, productID int64) (int64, error)
	HasEnoughStock(ctx context.Context, productID int64, quantity int32) (bool, error)
	DecreaseStock(ctx context.Context, productID int64, quantity int32) error
	RestoreStock(ctx context.Context, productID int64, quantity int32) error
}
