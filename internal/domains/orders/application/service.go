package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
	"github.com/ifan/go-mall-api/internal/domains/orders/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// Service is the order engine: it coordinates the catalog stock counters and
// the order repository so that creating, revising, and deleting an order is
// observable as a single all-or-nothing unit.
//
// Stock is reserved per line with an atomic conditional decrement. Every
// decrement applied inside a call is tracked, and on any later failure the
// tracked mutations are reversed before the error returns, so a failed call
// leaves stock levels and order rows untouched.
type Service struct {
	repo            ports.Repository
	stock           ports.Stock
	restockOnDelete bool
}

type Option func(*Service)

// WithStockRestoreOnDelete controls whether DeleteOrder returns the consumed
// stock to the pool. Off by default: a deleted order is treated as fulfilled,
// so its stock consumption is final.
func WithStockRestoreOnDelete(enabled bool) Option {
	return func(s *Service) {
		s.restockOnDelete = enabled
	}
}

func NewService(repo ports.Repository, stock ports.Stock, opts ...Option) *Service {
	s := &Service{repo: repo, stock: stock}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// stockMutation records one applied stock change so it can be compensated.
type stockMutation struct {
	productID int64
	quantity  int32
}

// CreateOrder validates the draft, reserves stock line by line in input
// order, computes the total from prices captured at reservation time, and
// persists the header with its items in one repository transaction.
func (s *Service) CreateOrder(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if err := domain.ValidateDraft(order, items); err != nil {
		return nil, mapError(err)
	}
	total, reserved, err := s.reserve(ctx, items)
	if err != nil {
		return nil, mapError(err)
	}
	order.TotalAmount = total
	saved, err := s.repo.Create(ctx, order, items)
	if err != nil {
		return nil, mapError(errors.Join(err, s.releaseAll(ctx, reserved)))
	}
	return saved, nil
}

// UpdateOrder replaces an order's item set wholesale: the stock consumed by
// the superseded items is restored, the new items are reserved exactly like a
// create, and the header plus item swap commits in one repository
// transaction. Any failure after the release phase re-reserves the old items
// so the revision is all-or-nothing.
func (s *Service) UpdateOrder(ctx context.Context, orderID int64, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	existing, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if order == nil {
		return nil, mapError(domain.ErrNilOrder)
	}
	order.ID = existing.ID
	order.UserID = existing.UserID
	order.CreatedDate = existing.CreatedDate
	if err := domain.ValidateDraft(order, items); err != nil {
		return nil, mapError(err)
	}

	current, err := s.repo.ItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	released, err := s.release(ctx, current)
	if err != nil {
		return nil, mapError(err)
	}

	total, reserved, err := s.reserve(ctx, items)
	if err != nil {
		return nil, mapError(errors.Join(err, s.reapply(ctx, released)))
	}
	order.TotalAmount = total
	updated, err := s.repo.Replace(ctx, order, items)
	if err != nil {
		return nil, mapError(errors.Join(err, s.releaseAll(ctx, reserved), s.reapply(ctx, released)))
	}
	return updated, nil
}

// DeleteOrder removes the order and its items. The storage layer treats a
// missing order as already deleted; ownership checks belong to the caller.
// Stock restoration is governed by the construction-time policy.
func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	if !s.restockOnDelete {
		return mapError(s.repo.DeleteWithItems(ctx, orderID))
	}
	items, err := s.repo.ItemsByOrderID(ctx, orderID)
	if err != nil {
		return mapError(err)
	}
	released, err := s.release(ctx, items)
	if err != nil {
		return mapError(err)
	}
	if err := s.repo.DeleteWithItems(ctx, orderID); err != nil {
		return mapError(errors.Join(err, s.reapply(ctx, released)))
	}
	return nil
}

func (s *Service) FindOrderByID(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *Service) FindOrdersByUserID(ctx context.Context, userID int64, req pagination.Request) (pagination.Page[*domain.Order], error) {
	return s.repo.FindByUserID(ctx, userID, req)
}

func (s *Service) FindOrderItemsByOrderID(ctx context.Context, orderID int64) ([]*domain.OrderItem, error) {
	return s.repo.ItemsByOrderID(ctx, orderID)
}

func (s *Service) FindAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.repo.List(ctx)
}

// reserve walks the items in input order, capturing the current unit price
// and decrementing stock per line. On failure it releases everything it
// already reserved, in reverse order, and reports which product failed.
func (s *Service) reserve(ctx context.Context, items []*domain.OrderItem) (int64, []stockMutation, error) {
	var total int64
	reserved := make([]stockMutation, 0, len(items))
	for _, item := range items {
		price, err := s.stock.GetPrice(ctx, item.ProductID)
		if err != nil {
			return 0, nil, errors.Join(wrapProduct(item.ProductID, err), s.releaseAll(ctx, reserved))
		}
		if err := s.stock.DecreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
			return 0, nil, errors.Join(wrapProduct(item.ProductID, err), s.releaseAll(ctx, reserved))
		}
		reserved = append(reserved, stockMutation{productID: item.ProductID, quantity: item.Quantity})
		item.Capture(price)
		total += item.Amount
	}
	return total, reserved, nil
}

// release restores the stock held by the given items, line by line. On
// failure it re-reserves what it already restored, in reverse order.
func (s *Service) release(ctx context.Context, items []*domain.OrderItem) ([]stockMutation, error) {
	released := make([]stockMutation, 0, len(items))
	for _, item := range items {
		if err := s.stock.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, errors.Join(wrapProduct(item.ProductID, err), s.reapply(ctx, released))
		}
		released = append(released, stockMutation{productID: item.ProductID, quantity: item.Quantity})
	}
	return released, nil
}

// releaseAll compensates applied decrements in reverse order. It runs on a
// context detached from cancellation: a caller abort must not strand the
// stock it already reserved.
func (s *Service) releaseAll(ctx context.Context, reserved []stockMutation) error {
	ctx = context.WithoutCancel(ctx)
	var errs error
	for i := len(reserved) - 1; i >= 0; i-- {
		m := reserved[i]
		if err := s.stock.RestoreStock(ctx, m.productID, m.quantity); err != nil {
			errs = errors.Join(errs, wrapProduct(m.productID, err))
		}
	}
	return errs
}

// reapply compensates applied restores in reverse order, also detached from
// cancellation.
func (s *Service) reapply(ctx context.Context, released []stockMutation) error {
	ctx = context.WithoutCancel(ctx)
	var errs error
	for i := len(released) - 1; i >= 0; i-- {
		m := released[i]
		if err := s.stock.DecreaseStock(ctx, m.productID, m.quantity); err != nil {
			errs = errors.Join(errs, wrapProduct(m.productID, err))
		}
	}
	return errs
}

func wrapProduct(productID int64, err error) error {
	return fmt.Errorf("product %d: %w", productID, err)
}

var _ ports.Service = (*Service)(nil)
