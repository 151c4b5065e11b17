package application

import (
	"errors"
	"fmt"

	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated an order invariant. It is
	// detected before any mutation, so retrying with fixed input is safe.
	ErrInvalidInput = errors.New("invalid order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNilOrder) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrMissingUser) ||
		errors.Is(err, domain.ErrMissingProduct) ||
		errors.Is(err, domain.ErrInvalidQuantity) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
