package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/ifan/go-mall-api/internal/domains/orders/domain"
	orderactivities "github.com/ifan/go-mall-api/internal/durable/temporal/activities/orders"
)

// RunOrderPlacementSequence executes the activity that reserves stock and
// persists the order. Insufficient stock and validation failures are not
// retried; only infrastructure errors are.
func RunOrderPlacementSequence(ctx workflow.Context, input orderactivities.PlaceOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				orderactivities.InvalidOrderErrorType,
				orderactivities.InsufficientStockErrorType,
			},
		},
	}
	var order ordersdomain.Order
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.PlaceOrderActivityName, input).Get(ctx, &order)
	if err != nil {
		logger.Error("order placement sequence failed", "error", err)
		return nil, err
	}
	logger.Info("order placement sequence completed", "orderId", order.ID)
	return &order, nil
}
