package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	catalogports "github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	ordersdomain "github.com/ifan/go-mall-api/internal/domains/orders/domain"
	orderactivities "github.com/ifan/go-mall-api/internal/durable/temporal/activities/orders"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

// placementService stubs the order engine behind the activity.
type placementService struct {
	attempts int
	fail     error
}

func (s *placementService) CreateOrder(_ context.Context, order *ordersdomain.Order, items []*ordersdomain.OrderItem) (*ordersdomain.Order, error) {
	s.attempts++
	if s.fail != nil {
		return nil, s.fail
	}
	placed := *order
	placed.ID = 42
	for _, item := range items {
		placed.TotalAmount += item.Amount
	}
	return &placed, nil
}

func (s *placementService) UpdateOrder(context.Context, int64, *ordersdomain.Order, []*ordersdomain.OrderItem) (*ordersdomain.Order, error) {
	return nil, errors.New("not implemented")
}
func (s *placementService) DeleteOrder(context.Context, int64) error { return nil }
func (s *placementService) FindOrderByID(context.Context, int64) (*ordersdomain.Order, error) {
	return nil, errors.New("not implemented")
}
func (s *placementService) FindOrdersByUserID(context.Context, int64, pagination.Request) (pagination.Page[*ordersdomain.Order], error) {
	return pagination.Page[*ordersdomain.Order]{}, errors.New("not implemented")
}
func (s *placementService) FindOrderItemsByOrderID(context.Context, int64) ([]*ordersdomain.OrderItem, error) {
	return nil, errors.New("not implemented")
}
func (s *placementService) FindAllOrders(context.Context) ([]*ordersdomain.Order, error) {
	return nil, errors.New("not implemented")
}

func newPlacementEnv(t *testing.T, service *placementService) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(OrderPlacementWorkflow, workflow.RegisterOptions{Name: OrderPlacementWorkflowName})
	env.RegisterActivityWithOptions(
		orderactivities.NewActivities(service).PlaceOrder,
		activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName},
	)
	return env
}

func TestOrderPlacementWorkflow_DispatchesByRegisteredName(t *testing.T) {
	service := &placementService{}
	env := newPlacementEnv(t, service)

	input := OrderPlacementWorkflowInput{
		Command: orderactivities.PlaceOrderInput{
			Order: &ordersdomain.Order{UserID: 7},
			Items: []*ordersdomain.OrderItem{{ProductID: 1, Quantity: 2, UnitPrice: 30, Amount: 60}},
		},
		TraceID: "trace-1",
	}
	// Started under the alias the worker registers, not the function name.
	env.ExecuteWorkflow(OrderPlacementWorkflowName, input)

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var placed ordersdomain.Order
	require.NoError(t, env.GetWorkflowResult(&placed))
	require.EqualValues(t, 42, placed.ID)
	require.EqualValues(t, 60, placed.TotalAmount)
	require.Equal(t, 1, service.attempts)
}

func TestOrderPlacementWorkflow_ShortageIsNotRetried(t *testing.T) {
	service := &placementService{
		fail: fmt.Errorf("%w: product 1 cannot cover quantity 2", catalogports.ErrInsufficientStock),
	}
	env := newPlacementEnv(t, service)

	input := OrderPlacementWorkflowInput{
		Command: orderactivities.PlaceOrderInput{
			Order: &ordersdomain.Order{UserID: 7},
			Items: []*ordersdomain.OrderItem{{ProductID: 1, Quantity: 2}},
		},
	}
	env.ExecuteWorkflow(OrderPlacementWorkflowName, input)

	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, orderactivities.InsufficientStockErrorType, appErr.Type())
	require.Equal(t, 1, service.attempts)
}
