// Package workflows bridges order placement to its durable or inline runner.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	catalogports "github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	ordersapp "github.com/ifan/go-mall-api/internal/domains/orders/application"
	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
	"github.com/ifan/go-mall-api/internal/domains/orders/ports"
	orderactivities "github.com/ifan/go-mall-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/ifan/go-mall-api/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalOrderWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineOrderWorkflows)(nil)
)

// TemporalOrderWorkflows starts order placement workflows on a Temporal cluster.
type TemporalOrderWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalOrderWorkflows wires a Temporal client into the orchestrator.
func NewTemporalOrderWorkflows(c client.Client) *TemporalOrderWorkflows {
	return &TemporalOrderWorkflows{client: c, taskQueue: orderworkflows.OrderPlacementTaskQueue}
}

// PlaceOrder runs the durable placement workflow and waits for its result.
func (o *TemporalOrderWorkflows) PlaceOrder(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal order workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	userID := int64(0)
	if order != nil {
		userID = order.UserID
	}
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-placement-%d-%s", userID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	// Dispatch by registered name so the worker's registration alias stays
	// authoritative.
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderPlacementWorkflowName,
		orderworkflows.OrderPlacementWorkflowInput{
			Command: orderactivities.PlaceOrderInput{Order: order, Items: items},
			TraceID: traceComponent,
		},
	)
	if err != nil {
		// A retried request carries the same trace ID, so attach to the
		// run it already started instead of failing.
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			run = o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId)
		} else {
			return nil, err
		}
	}
	var placed domain.Order
	if err := run.Get(ctx, &placed); err != nil {
		return nil, translateWorkflowError(err)
	}
	return &placed, nil
}

// translateWorkflowError restores the engine's sentinel errors from the typed
// application errors that crossed the Temporal boundary, so transport-level
// error mapping behaves the same on both placement paths.
func translateWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr.Type() {
	case orderactivities.InsufficientStockErrorType:
		return fmt.Errorf("%w: %s", catalogports.ErrInsufficientStock, appErr.Message())
	case orderactivities.InvalidOrderErrorType:
		return fmt.Errorf("%w: %s", ordersapp.ErrInvalidInput, appErr.Message())
	default:
		return err
	}
}

// InlineOrderWorkflows executes the engine directly without Temporal, useful
// for tests or dev fallbacks.
type InlineOrderWorkflows struct {
	service ports.Service
}

// NewInlineOrderWorkflows wraps the order engine for synchronous execution.
func NewInlineOrderWorkflows(service ports.Service) *InlineOrderWorkflows {
	return &InlineOrderWorkflows{service: service}
}

// PlaceOrder delegates to the engine without durable orchestration.
func (o *InlineOrderWorkflows) PlaceOrder(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline order workflows not configured")
	}
	return o.service.CreateOrder(ctx, order, items)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
