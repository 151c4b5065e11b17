package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	"github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, domain.ErrNilProduct
	}
	clone := *product
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
		clone.CreatedDate = now
	} else {
		if clone.ID > r.nextID {
			r.nextID = clone.ID
		}
		if existing, ok := r.products[clone.ID]; ok {
			clone.CreatedDate = existing.CreatedDate
		} else if clone.CreatedDate.IsZero() {
			clone.CreatedDate = now
		}
	}
	clone.LastModifiedDate = now
	r.products[clone.ID] = &clone
	result := clone
	return &result, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter, req pagination.Request) (pagination.Page[*domain.Product], error) {
	r.mu.RLock()
	matched := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		if filter.Category != nil && product.Category != *filter.Category {
			continue
		}
		if filter.StockGreater != nil && product.Stock <= *filter.StockGreater {
			continue
		}
		clone := *product
		matched = append(matched, &clone)
	}
	r.mu.RUnlock()

	sortProducts(matched, req)
	total := int64(len(matched))
	start := req.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + req.Size
	if end > len(matched) {
		end = len(matched)
	}
	return pagination.NewPage(matched[start:end], total, req), nil
}

// DecrementStock applies a check-and-decrement under the write lock so two
// concurrent reservations cannot jointly overdraw the counter.
func (r *Repository) DecrementStock(_ context.Context, id int64, quantity int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	if product.Stock < quantity {
		return ports.ErrInsufficientStock
	}
	product.Stock -= quantity
	product.LastModifiedDate = time.Now()
	return nil
}

func (r *Repository) IncrementStock(_ context.Context, id int64, quantity int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return ports.ErrNotFound
	}
	product.Stock += quantity
	product.LastModifiedDate = time.Now()
	return nil
}

func sortProducts(products []*domain.Product, req pagination.Request) {
	less := func(a, b *domain.Product) bool { return a.ID < b.ID }
	switch req.SortBy {
	case "price":
		less = func(a, b *domain.Product) bool { return a.Price < b.Price }
	case "stock":
		less = func(a, b *domain.Product) bool { return a.Stock < b.Stock }
	case "createdDate":
		less = func(a, b *domain.Product) bool { return a.CreatedDate.Before(b.CreatedDate) }
	}
	sort.SliceStable(products, func(i, j int) bool {
		if req.Direction == pagination.Descending {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}
