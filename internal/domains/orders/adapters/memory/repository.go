package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
	"github.com/ifan/go-mall-api/internal/domains/orders/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu         sync.RWMutex
	orders     map[int64]*domain.Order
	items      map[int64][]*domain.OrderItem
	nextID     int64
	nextItemID int64
}

func NewRepository() *Repository {
	return &Repository{
		orders: map[int64]*domain.Order{},
		items:  map[int64][]*domain.OrderItem{},
	}
}

func (r *Repository) Create(_ context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if order == nil {
		return nil, domain.ErrNilOrder
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *order
	now := time.Now()
	r.nextID++
	clone.ID = r.nextID
	clone.CreatedDate = now
	clone.LastModifiedDate = now
	r.orders[clone.ID] = &clone
	r.storeItems(clone.ID, items)
	result := clone
	return &result, nil
}

func (r *Repository) Replace(_ context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if order == nil {
		return nil, domain.ErrNilOrder
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	clone.CreatedDate = existing.CreatedDate
	clone.LastModifiedDate = time.Now()
	r.orders[clone.ID] = &clone
	delete(r.items, clone.ID)
	r.storeItems(clone.ID, items)
	result := clone
	return &result, nil
}

// DeleteWithItems removes the item rows then the header. Deleting an absent
// order is not an error at this layer.
func (r *Repository) DeleteWithItems(_ context.Context, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, orderID)
	delete(r.orders, orderID)
	return nil
}

func (r *Repository) GetByID(_ context.Context, orderID int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *Repository) FindByUserID(_ context.Context, userID int64, req pagination.Request) (pagination.Page[*domain.Order], error) {
	r.mu.RLock()
	matched := make([]*domain.Order, 0)
	for _, order := range r.orders {
		if order.UserID != userID {
			continue
		}
		clone := *order
		matched = append(matched, &clone)
	}
	r.mu.RUnlock()

	sortOrders(matched, req)
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

func (r *Repository) ItemsByOrderID(_ context.Context, orderID int64) ([]*domain.OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.items[orderID]
	items := make([]*domain.OrderItem, 0, len(stored))
	for _, item := range stored {
		clone := *item
		items = append(items, &clone)
	}
	return items, nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		clone := *order
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func sortOrders(orders []*domain.Order, req pagination.Request) {
	less := func(a, b *domain.Order) bool { return a.ID < b.ID }
	switch req.SortBy {
	case "createdDate":
		less = func(a, b *domain.Order) bool { return a.CreatedDate.Before(b.CreatedDate) }
	case "totalAmount":
		less = func(a, b *domain.Order) bool { return a.TotalAmount < b.TotalAmount }
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if req.Direction == pagination.Descending {
			return less(orders[j], orders[i])
		}
		return less(orders[i], orders[j])
	})
}

// storeItems stamps the lines with the owning order and fresh identifiers.
// Caller holds the write lock.
func (r *Repository) storeItems(orderID int64, items []*domain.OrderItem) {
	stored := make([]*domain.OrderItem, 0, len(items))
	for _, item := range items {
		clone := *item
		r.nextItemID++
		clone.ID = r.nextItemID
		clone.OrderID = orderID
		stored = append(stored, &clone)
		item.ID = clone.ID
		item.OrderID = orderID
	}
	r.items[orderID] = stored
}
