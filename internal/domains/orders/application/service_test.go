package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	catalogports "github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
	"github.com/ifan/go-mall-api/internal/domains/orders/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

type fakeStock struct {
	prices     map[int64]int64
	stock      map[int64]int32
	restoreErr map[int64]error
}

func newFakeStock() *fakeStock {
	return &fakeStock{
		prices:     map[int64]int64{},
		stock:      map[int64]int32{},
		restoreErr: map[int64]error{},
	}
}

func (f *fakeStock) add(productID, price int64, stock int32) {
	f.prices[productID] = price
	f.stock[productID] = stock
}

func (f *fakeStock) GetPrice(_ context.Context, productID int64) (int64, error) {
	price, ok := f.prices[productID]
	if !ok {
		return 0, catalogports.ErrNotFound
	}
	return price, nil
}

func (f *fakeStock) HasEnoughStock(_ context.Context, productID int64, quantity int32) (bool, error) {
	stock, ok := f.stock[productID]
	if !ok {
		return false, catalogports.ErrNotFound
	}
	return stock >= quantity, nil
}

func (f *fakeStock) DecreaseStock(_ context.Context, productID int64, quantity int32) error {
	stock, ok := f.stock[productID]
	if !ok {
		return catalogports.ErrNotFound
	}
	if stock < quantity {
		return catalogports.ErrInsufficientStock
	}
	f.stock[productID] = stock - quantity
	return nil
}

func (f *fakeStock) RestoreStock(_ context.Context, productID int64, quantity int32) error {
	if err := f.restoreErr[productID]; err != nil {
		return err
	}
	if _, ok := f.stock[productID]; !ok {
		return catalogports.ErrNotFound
	}
	f.stock[productID] += quantity
	return nil
}

type fakeOrderRepo struct {
	orders      map[int64]*domain.Order
	items       map[int64][]*domain.OrderItem
	nextID      int64
	failCreate  error
	failReplace error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}, items: map[int64][]*domain.OrderItem{}}
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.nextID++
	clone := *order
	clone.ID = f.nextID
	f.orders[clone.ID] = &clone
	f.storeItems(clone.ID, items)
	return &clone, nil
}

func (f *fakeOrderRepo) Replace(_ context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if f.failReplace != nil {
		return nil, f.failReplace
	}
	if _, ok := f.orders[order.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	f.orders[clone.ID] = &clone
	f.storeItems(clone.ID, items)
	return &clone, nil
}

func (f *fakeOrderRepo) DeleteWithItems(_ context.Context, orderID int64) error {
	delete(f.orders, orderID)
	delete(f.items, orderID)
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, orderID int64) (*domain.Order, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (f *fakeOrderRepo) FindByUserID(_ context.Context, userID int64, req pagination.Request) (pagination.Page[*domain.Order], error) {
	var matched []*domain.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			clone := *order
			matched = append(matched, &clone)
		}
	}
	return pagination.NewPage(matched, int64(len(matched)), req), nil
}

func (f *fakeOrderRepo) ItemsByOrderID(_ context.Context, orderID int64) ([]*domain.OrderItem, error) {
	var items []*domain.OrderItem
	for _, item := range f.items[orderID] {
		clone := *item
		items = append(items, &clone)
	}
	return items, nil
}

func (f *fakeOrderRepo) List(_ context.Context) ([]*domain.Order, error) {
	var list []*domain.Order
	for _, order := range f.orders {
		clone := *order
		list = append(list, &clone)
	}
	return list, nil
}

func (f *fakeOrderRepo) storeItems(orderID int64, items []*domain.OrderItem) {
	stored := make([]*domain.OrderItem, 0, len(items))
	for _, item := range items {
		clone := *item
		clone.OrderID = orderID
		stored = append(stored, &clone)
	}
	f.items[orderID] = stored
}

func draftItem(productID int64, quantity int32) *domain.OrderItem {
	return &domain.OrderItem{ProductID: productID, Quantity: quantity}
}

func TestCreateOrder_ComputesTotalAndDecrementsStock(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	stock.add(2, 50, 5)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	saved, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2), draftItem(2, 3)})
	require.NoError(t, err)

	require.Equal(t, int64(350), saved.TotalAmount)
	require.EqualValues(t, 8, stock.stock[1])
	require.EqualValues(t, 2, stock.stock[2])

	items, err := svc.FindOrderItemsByOrderID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, int64(100), items[0].UnitPrice)
	require.Equal(t, int64(200), items[0].Amount)
	require.Equal(t, int64(50), items[1].UnitPrice)
	require.Equal(t, int64(150), items[1].Amount)
}

func TestCreateOrder_OverwritesClientSuppliedAmounts(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	item := draftItem(1, 2)
	item.Amount = 1
	saved, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7, TotalAmount: 99999},
		[]*domain.OrderItem{item})
	require.NoError(t, err)
	require.Equal(t, int64(200), saved.TotalAmount)
	require.Equal(t, int64(200), item.Amount)
}

func TestCreateOrder_NilOrder(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), newFakeStock())

	_, err := svc.CreateOrder(context.Background(), nil, []*domain.OrderItem{draftItem(1, 1)})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNilOrder)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), newFakeStock())

	_, err := svc.CreateOrder(context.Background(), &domain.Order{UserID: 7}, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNoItems)

	_, err = svc.CreateOrder(context.Background(), &domain.Order{UserID: 7}, []*domain.OrderItem{})
	require.ErrorIs(t, err, domain.ErrNoItems)
}

func TestCreateOrder_NonPositiveQuantity(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	svc := NewService(newFakeOrderRepo(), stock)

	_, err := svc.CreateOrder(context.Background(), &domain.Order{UserID: 7}, []*domain.OrderItem{draftItem(1, 0)})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	require.EqualValues(t, 10, stock.stock[1])
}

func TestCreateOrder_InsufficientStockRollsBackEarlierLines(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	stock.add(2, 50, 5)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	_, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2), draftItem(2, 100)})
	require.ErrorIs(t, err, catalogports.ErrInsufficientStock)

	require.EqualValues(t, 10, stock.stock[1])
	require.EqualValues(t, 5, stock.stock[2])
	require.Empty(t, repo.orders)
	require.Empty(t, repo.items)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	_, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2), draftItem(42, 1)})
	require.ErrorIs(t, err, catalogports.ErrNotFound)
	require.EqualValues(t, 10, stock.stock[1])
	require.Empty(t, repo.orders)
}

func TestCreateOrder_PersistFailureRestoresStock(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	repo := newFakeOrderRepo()
	repo.failCreate = errors.New("insert failed")
	svc := NewService(repo, stock)

	_, err := svc.CreateOrder(context.Background(), &domain.Order{UserID: 7}, []*domain.OrderItem{draftItem(1, 4)})
	require.Error(t, err)
	require.EqualValues(t, 10, stock.stock[1])
	require.Empty(t, repo.orders)
}

func TestCreateOrder_DuplicateProductLinesCheckedPerLine(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 5)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	// Two lines against the same product: the second line alone exceeds what
	// remains after the first, so the whole call fails and both roll back.
	_, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 3), draftItem(1, 3)})
	require.ErrorIs(t, err, catalogports.ErrInsufficientStock)
	require.EqualValues(t, 5, stock.stock[1])
}

func TestUpdateOrder_UnknownOrder(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	svc := NewService(newFakeOrderRepo(), stock)

	_, err := svc.UpdateOrder(context.Background(), 404,
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 1)})
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.EqualValues(t, 10, stock.stock[1])
}

func TestUpdateOrder_SwapsItemsAndRestoresStock(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	stock.add(2, 50, 5)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	created, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2)})
	require.NoError(t, err)
	require.EqualValues(t, 8, stock.stock[1])

	updated, err := svc.UpdateOrder(context.Background(), created.ID,
		&domain.Order{},
		[]*domain.OrderItem{draftItem(2, 1)})
	require.NoError(t, err)

	require.EqualValues(t, 10, stock.stock[1])
	require.EqualValues(t, 4, stock.stock[2])
	require.Equal(t, int64(50), updated.TotalAmount)
	require.Equal(t, created.UserID, updated.UserID)

	items, err := svc.FindOrderItemsByOrderID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(2), items[0].ProductID)
}

func TestUpdateOrder_IdenticalItemsIsIdempotent(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	stock.add(2, 50, 5)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	created, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2), draftItem(2, 3)})
	require.NoError(t, err)

	first, err := svc.UpdateOrder(context.Background(), created.ID,
		&domain.Order{}, []*domain.OrderItem{draftItem(1, 2), draftItem(2, 3)})
	require.NoError(t, err)
	stockAfterFirst := map[int64]int32{1: stock.stock[1], 2: stock.stock[2]}

	second, err := svc.UpdateOrder(context.Background(), created.ID,
		&domain.Order{}, []*domain.OrderItem{draftItem(1, 2), draftItem(2, 3)})
	require.NoError(t, err)

	require.Equal(t, first.TotalAmount, second.TotalAmount)
	require.Equal(t, stockAfterFirst[1], stock.stock[1])
	require.Equal(t, stockAfterFirst[2], stock.stock[2])
}

func TestUpdateOrder_ReserveFailureReinstatesOldReservation(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	stock.add(2, 50, 5)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	created, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2)})
	require.NoError(t, err)

	_, err = svc.UpdateOrder(context.Background(), created.ID,
		&domain.Order{},
		[]*domain.OrderItem{draftItem(2, 100)})
	require.ErrorIs(t, err, catalogports.ErrInsufficientStock)

	// The failed revision must leave the world as it was: old reservation
	// still applied, old item set still attached, total unchanged.
	require.EqualValues(t, 8, stock.stock[1])
	require.EqualValues(t, 5, stock.stock[2])

	reloaded, err := svc.FindOrderByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.TotalAmount, reloaded.TotalAmount)

	items, err := svc.FindOrderItemsByOrderID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].ProductID)
}

func TestUpdateOrder_RestoreFailureAbortsBeforeRewrite(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	stock.add(2, 50, 5)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	created, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2)})
	require.NoError(t, err)

	// The ordered product vanished from the catalog after the order was
	// placed; restoring its stock fails and the revision aborts.
	stock.restoreErr[1] = catalogports.ErrNotFound

	_, err = svc.UpdateOrder(context.Background(), created.ID,
		&domain.Order{},
		[]*domain.OrderItem{draftItem(2, 1)})
	require.ErrorIs(t, err, catalogports.ErrNotFound)

	require.EqualValues(t, 5, stock.stock[2])
	items, err := svc.FindOrderItemsByOrderID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, int64(1), items[0].ProductID)
}

func TestDeleteOrder_RemovesOrderAndItems(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	created, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), created.ID))

	_, err = svc.FindOrderByID(context.Background(), created.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	items, err := svc.FindOrderItemsByOrderID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestDeleteOrder_DefaultKeepsStockConsumed(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock)

	created, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), created.ID))
	require.EqualValues(t, 8, stock.stock[1])
}

func TestDeleteOrder_RestorePolicyReturnsStock(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	repo := newFakeOrderRepo()
	svc := NewService(repo, stock, WithStockRestoreOnDelete(true))

	created, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(context.Background(), created.ID))
	require.EqualValues(t, 10, stock.stock[1])
}

func TestDeleteOrder_MissingOrderIsIdempotent(t *testing.T) {
	svc := NewService(newFakeOrderRepo(), newFakeStock())
	require.NoError(t, svc.DeleteOrder(context.Background(), 404))
}

func TestCreateOrder_CancelledContextRollsBack(t *testing.T) {
	stock := newFakeStock()
	stock.add(1, 100, 10)
	stock.add(2, 50, 5)
	repo := newFakeOrderRepo()
	repo.failCreate = context.Canceled
	svc := NewService(repo, stock)

	// The persist step observes the cancellation; the already-applied
	// decrements must still be compensated on the detached context.
	_, err := svc.CreateOrder(context.Background(),
		&domain.Order{UserID: 7},
		[]*domain.OrderItem{draftItem(1, 2), draftItem(2, 3)})
	require.ErrorIs(t, err, context.Canceled)
	require.EqualValues(t, 10, stock.stock[1])
	require.EqualValues(t, 5, stock.stock[2])
}
