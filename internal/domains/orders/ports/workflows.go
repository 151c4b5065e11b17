package ports

import (
	"context"

	"github.com/ifan/go-mall-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator starts the durable order-placement path. Implementations
// either hand the call to a Temporal workflow or run the service inline.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, order *domain.Order, items []*domain.OrderItem) (*domain.Order, error)
}
