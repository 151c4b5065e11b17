package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	"github.com/ifan/go-mall-api/internal/domains/catalog/ports"
)

func seed(t *testing.T, repo *Repository, stock int32) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(0, "Apple", domain.CategoryFoods, 30, stock)
	require.NoError(t, err)
	saved, err := repo.Save(context.Background(), product)
	require.NoError(t, err)
	return saved
}

func TestSave_AssignsIDAndTimestamps(t *testing.T) {
	repo := NewRepository()
	saved := seed(t, repo, 10)

	require.NotZero(t, saved.ID)
	require.False(t, saved.CreatedDate.IsZero())
	require.False(t, saved.LastModifiedDate.IsZero())

	saved.Name = "Green Apple"
	updated, err := repo.Save(context.Background(), saved)
	require.NoError(t, err)
	require.Equal(t, saved.ID, updated.ID)
	require.Equal(t, saved.CreatedDate, updated.CreatedDate)
}

func TestGetByID_ReturnsClone(t *testing.T) {
	repo := NewRepository()
	saved := seed(t, repo, 10)

	got, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.Equal(t, "Apple", again.Name)
}

func TestDecrementStock_NeverOverdrawsUnderContention(t *testing.T) {
	repo := NewRepository()
	saved := seed(t, repo, 100)

	const workers = 50
	var granted atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			// Each worker asks for 3 units; only 33 requests can fit in 100.
			err := repo.DecrementStock(context.Background(), saved.ID, 3)
			if err == nil {
				granted.Add(1)
				return
			}
			if !errors.Is(err, ports.ErrInsufficientStock) {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, got.Stock, int32(0))
	require.EqualValues(t, 100-granted.Load()*3, got.Stock)
	require.EqualValues(t, 33, granted.Load())
}

func TestDecrementStock_UnknownProduct(t *testing.T) {
	repo := NewRepository()
	err := repo.DecrementStock(context.Background(), 404, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestIncrementStock(t *testing.T) {
	repo := NewRepository()
	saved := seed(t, repo, 10)

	require.NoError(t, repo.DecrementStock(context.Background(), saved.ID, 10))
	require.NoError(t, repo.IncrementStock(context.Background(), saved.ID, 4))

	got, err := repo.GetByID(context.Background(), saved.ID)
	require.NoError(t, err)
	require.EqualValues(t, 4, got.Stock)

	err = repo.IncrementStock(context.Background(), 404, 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
