package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ifan/go-mall-api/internal/domains/catalog/adapters/memory"
	"github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	"github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

func newTestService() *Service {
	return NewService(memory.NewRepository())
}

func seedProduct(t *testing.T, svc *Service, name string, price int64, stock int32) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(0, name, domain.CategoryFoods, price, stock)
	require.NoError(t, err)
	saved, err := svc.CreateProduct(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func TestCreateProduct(t *testing.T) {
	svc := newTestService()

	saved := seedProduct(t, svc, "Apple", 30, 10)
	require.NotZero(t, saved.ID)
	require.False(t, saved.CreatedDate.IsZero())

	got, err := svc.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Apple", got.Name)
	require.Equal(t, int64(30), got.Price)
	require.EqualValues(t, 10, got.Stock)
}

func TestCreateProduct_Invalid(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateProduct(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNilProduct)

	_, err = svc.CreateProduct(context.Background(), &domain.Product{Name: "", Category: domain.CategoryFoods, Price: 1, Stock: 1})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = svc.CreateProduct(context.Background(), &domain.Product{Name: "Apple", Category: "FRUIT", Price: 1, Stock: 1})
	require.ErrorIs(t, err, domain.ErrInvalidCategory)

	_, err = svc.CreateProduct(context.Background(), &domain.Product{Name: "Apple", Category: domain.CategoryFoods, Price: -1, Stock: 1})
	require.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestUpdateProduct_PreservesIdentity(t *testing.T) {
	svc := newTestService()
	saved := seedProduct(t, svc, "Apple", 30, 10)

	updated, err := svc.UpdateProduct(context.Background(), saved.ID, &domain.Product{
		Name:     "Green Apple",
		Category: domain.CategoryFoods,
		Price:    25,
		Stock:    12,
	})
	require.NoError(t, err)
	require.Equal(t, saved.ID, updated.ID)
	require.Equal(t, saved.CreatedDate, updated.CreatedDate)
	require.Equal(t, "Green Apple", updated.Name)
	require.Equal(t, int64(25), updated.Price)
}

func TestUpdateProduct_Unknown(t *testing.T) {
	svc := newTestService()

	_, err := svc.UpdateProduct(context.Background(), 404, &domain.Product{
		Name:     "Ghost",
		Category: domain.CategoryFoods,
		Price:    1,
		Stock:    1,
	})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDeleteProduct_Idempotent(t *testing.T) {
	svc := newTestService()
	saved := seedProduct(t, svc, "Apple", 30, 10)

	require.NoError(t, svc.DeleteProduct(context.Background(), saved.ID))
	require.NoError(t, svc.DeleteProduct(context.Background(), saved.ID))

	_, err := svc.GetByID(context.Background(), saved.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestListProducts_FilterAndSort(t *testing.T) {
	svc := newTestService()
	seedProduct(t, svc, "Apple", 30, 10)
	seedProduct(t, svc, "Banana", 10, 0)
	book, err := domain.NewProduct(0, "Novel", domain.CategoryBooks, 500, 3)
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), book)
	require.NoError(t, err)

	foods := domain.CategoryFoods
	page, err := svc.List(context.Background(),
		ports.ListFilter{Category: &foods},
		pagination.NewRequest(0, 10).WithSort("price", pagination.Ascending))
	require.NoError(t, err)
	require.EqualValues(t, 2, page.TotalItems)
	require.Equal(t, "Banana", page.Items[0].Name)
	require.Equal(t, "Apple", page.Items[1].Name)

	var inStock int32
	page, err = svc.List(context.Background(),
		ports.ListFilter{StockGreater: &inStock},
		pagination.NewRequest(0, 10))
	require.NoError(t, err)
	require.EqualValues(t, 2, page.TotalItems)
}

func TestDecreaseStock(t *testing.T) {
	svc := newTestService()
	saved := seedProduct(t, svc, "Apple", 30, 10)

	require.NoError(t, svc.DecreaseStock(context.Background(), saved.ID, 4))
	got, err := svc.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.EqualValues(t, 6, got.Stock)

	err = svc.DecreaseStock(context.Background(), saved.ID, 7)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)
	got, err = svc.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.EqualValues(t, 6, got.Stock)
}

func TestDecreaseStock_Validation(t *testing.T) {
	svc := newTestService()
	saved := seedProduct(t, svc, "Apple", 30, 10)

	err := svc.DecreaseStock(context.Background(), saved.ID, 0)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = svc.DecreaseStock(context.Background(), 404, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRestoreStock(t *testing.T) {
	svc := newTestService()
	saved := seedProduct(t, svc, "Apple", 30, 10)

	require.NoError(t, svc.DecreaseStock(context.Background(), saved.ID, 10))
	require.NoError(t, svc.RestoreStock(context.Background(), saved.ID, 10))

	got, err := svc.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.EqualValues(t, 10, got.Stock)
}

func TestGetPriceAndHasEnoughStock(t *testing.T) {
	svc := newTestService()
	saved := seedProduct(t, svc, "Apple", 30, 10)

	price, err := svc.GetPrice(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, int64(30), price)

	ok, err := svc.HasEnoughStock(context.Background(), saved.ID, 10)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.HasEnoughStock(context.Background(), saved.ID, 11)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = svc.GetPrice(context.Background(), 404)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
