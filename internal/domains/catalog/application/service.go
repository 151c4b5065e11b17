package application

import (
	"context"

	"github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	"github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// Service orchestrates catalog use cases and implements the stock-mutation
// contract consumed by the order engine.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ports.ListFilter, req pagination.Request) (pagination.Page[*domain.Product], error) {
	return s.repo.List(ctx, filter, req)
}

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, mapError(domain.ErrNilProduct)
	}
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, mapError(domain.ErrNilProduct)
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.ID = existing.ID
	product.CreatedDate = existing.CreatedDate
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, product)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// GetPrice returns the current unit price for a product.
func (s *Service) GetPrice(ctx context.Context, productID int64) (int64, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	return product.Price, nil
}

// HasEnoughStock reads current stock and reports whether it covers quantity.
// This is advisory only; DecreaseStock remains the authority on shortage.
func (s *Service) HasEnoughStock(ctx context.Context, productID int64, quantity int32) (bool, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	return product.HasStock(quantity), nil
}

// DecreaseStock reserves quantity units via the repository's atomic
// conditional decrement.
func (s *Service) DecreaseStock(ctx context.Context, productID int64, quantity int32) error {
	if err := validQuantity(quantity); err != nil {
		return err
	}
	return s.repo.DecrementStock(ctx, productID, quantity)
}

// RestoreStock returns previously reserved units to the available pool.
func (s *Service) RestoreStock(ctx context.Context, productID int64, quantity int32) error {
	if err := validQuantity(quantity); err != nil {
		return err
	}
	return s.repo.IncrementStock(ctx, productID, quantity)
}

func validQuantity(quantity int32) error {
	if quantity <= 0 {
		return mapError(domain.ErrInvalidQuantity)
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
