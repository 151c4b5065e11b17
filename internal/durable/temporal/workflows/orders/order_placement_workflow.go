package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/ifan/go-mall-api/internal/domains/orders/domain"
	orderactivities "github.com/ifan/go-mall-api/internal/durable/temporal/activities/orders"
	"github.com/ifan/go-mall-api/internal/durable/temporal/sequences"
)

const (
	// OrderPlacementWorkflowName is the public identifier for registering the workflow.
	OrderPlacementWorkflowName = "orders.workflows.Placement"
	// OrderPlacementTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPlacementTaskQueue = "ORDER_PLACEMENT"
)

// OrderPlacementWorkflowInput captures the draft order to place durably.
type OrderPlacementWorkflowInput struct {
	Command orderactivities.PlaceOrderInput
	TraceID string
}

// OrderPlacementWorkflow drives the placement activity to completion across
// worker restarts. The activity itself is the atomicity boundary; the
// workflow adds durability and bounded retries around it.
func OrderPlacementWorkflow(ctx workflow.Context, input OrderPlacementWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	userID := int64(0)
	if input.Command.Order != nil {
		userID = input.Command.Order.UserID
	}
	logger.Info("OrderPlacementWorkflow started", withTraceID(input.TraceID, "userId", userID)...)
	order, err := sequences.RunOrderPlacementSequence(ctx, input.Command)
	if err != nil {
		logger.Error("OrderPlacementWorkflow failed", withTraceID(input.TraceID, "userId", userID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderPlacementWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID)...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
