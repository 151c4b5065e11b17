package ports

import "context"

// Stock is the contract the order engine requires of the catalog. DecreaseStock
// must be atomic check-and-decrement: its outcome, not a prior read, decides
// whether stock covered the quantity. RestoreStock compensates a decrease and
// has no upper bound.
type Stock interface {
	GetPrice(ctx context.Context, productID int64) (int64, error)
	HasEnoughStock(ctx context.Context, productID int64, quantity int32) (bool, error)
	DecreaseStock(ctx context.Context, productID int64, quantity int32) error
	RestoreStock(ctx context.Context, productID int64, quantity int32) error
}
