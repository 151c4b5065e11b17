package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	catalogports "github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	ordersapp "github.com/ifan/go-mall-api/internal/domains/orders/application"
	ordersdomain "github.com/ifan/go-mall-api/internal/domains/orders/domain"
	ordersports "github.com/ifan/go-mall-api/internal/domains/orders/ports"
)

// PlaceOrderActivityName runs the order engine's all-or-nothing placement.
const PlaceOrderActivityName = "orders.activities.PlaceOrder"

// Error types surfaced to the workflow retry policy. Business rejections are
// deterministic, so retrying them only burns attempts.
const (
	InvalidOrderErrorType      = "InvalidOrderError"
	InsufficientStockErrorType = "InsufficientStockError"
)

// PlaceOrderInput carries the draft header and its requested lines.
type PlaceOrderInput struct {
	Order *ordersdomain.Order
	Items []*ordersdomain.OrderItem
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the order engine into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// PlaceOrder reserves stock and persists the order. The engine compensates
// its own stock mutations on failure, so a retried activity never observes
// half-applied state from the previous attempt.
func (a *Activities) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order placement activity not initialized")
		return nil, errors.New("order placement activity not initialized")
	}
	userID := int64(0)
	if input.Order != nil {
		userID = input.Order.UserID
	}
	logger.Info("PlaceOrder activity started", "userId", userID, "lines", len(input.Items))
	order, err := a.service.CreateOrder(ctx, input.Order, input.Items)
	if err != nil {
		logger.Error("PlaceOrder activity failed", "userId", userID, "error", err)
		return nil, classifyError(err)
	}
	logger.Info("PlaceOrder activity completed", "orderId", order.ID, "totalAmount", order.TotalAmount)
	return order, nil
}

// classifyError tags deterministic business rejections so the workflow retry
// policy can skip retrying them.
func classifyError(err error) error {
	switch {
	case errors.Is(err, catalogports.ErrInsufficientStock):
		return temporal.NewNonRetryableApplicationError(err.Error(), InsufficientStockErrorType, err)
	case errors.Is(err, ordersapp.ErrInvalidInput), errors.Is(err, catalogports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), InvalidOrderErrorType, err)
	default:
		return err
	}
}
