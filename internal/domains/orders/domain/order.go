package domain

import (
	"errors"
	"time"
)

var (
	// ErrNilOrder is returned when an operation receives no order draft.
	ErrNilOrder = errors.New("order is required")
	// ErrNoItems is returned when the item list is absent or empty.
	ErrNoItems = errors.New("order items are required")
	// ErrMissingUser is returned when the draft carries no owner.
	ErrMissingUser = errors.New("order user id is required")
	// ErrInvalidQuantity is returned for a non-positive line quantity.
	ErrInvalidQuantity = errors.New("order item quantity must be greater than zero")
	// ErrMissingProduct is returned for a line without a product reference.
	ErrMissingProduct = errors.New("order item product id is required")
)

// Order is the purchase header. TotalAmount is always engine-computed from
// the item lines at reservation time, never taken from the caller.
type Order struct {
	ID               int64
	UserID           int64
	TotalAmount      int64
	CreatedDate      time.Time
	LastModifiedDate time.Time
}

// OrderItem is one line of an order. UnitPrice is the product price captured
// when stock was reserved; Amount is Quantity × UnitPrice. A client-supplied
// amount is only a hint and is overwritten during reservation.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
	UnitPrice int64
	Amount    int64
}

// ValidateDraft checks the order draft and item lines before any stock is
// touched. It enforces the caller-input part of the contract; product
// existence and stock coverage are storage-time concerns.
func ValidateDraft(order *Order, items []*OrderItem) error {
	if order == nil {
		return ErrNilOrder
	}
	if order.UserID == 0 {
		return ErrMissingUser
	}
	if len(items) == 0 {
		return ErrNoItems
	}
	for _, item := range items {
		if item == nil {
			return ErrNoItems
		}
		if item.ProductID == 0 {
			return ErrMissingProduct
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// Capture stamps the line with the unit price observed at reservation time
// and derives the authoritative line amount from it.
func (i *OrderItem) Capture(unitPrice int64) {
	i.UnitPrice = unitPrice
	i.Amount = unitPrice * int64(i.Quantity)
}
