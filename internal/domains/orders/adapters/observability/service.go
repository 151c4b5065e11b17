package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersdomain "github.com/ifan/go-mall-api/internal/domains/orders/domain"
	ordersports "github.com/ifan/go-mall-api/internal/domains/orders/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

const tracerName = "github.com/ifan/go-mall-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order engine with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order engine.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, order *ordersdomain.Order, items []*ordersdomain.OrderItem) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int("order.items", len(items))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int("order.items", len(items)))
	result, err := s.inner.CreateOrder(ctx, order, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	s.metrics.recordPlaced(ctx, result.TotalAmount)
	s.logInfo(ctx, "order created",
		slog.Int64("order.id", result.ID),
		slog.Int64("order.user_id", result.UserID),
		slog.Int64("order.total_amount", result.TotalAmount))
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, orderID int64, order *ordersdomain.Order, items []*ordersdomain.OrderItem) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.Int("order.items", len(items))))
	defer span.End()

	s.logInfo(ctx, "revising order", slog.Int64("order.id", orderID), slog.Int("order.items", len(items)))
	result, err := s.inner.UpdateOrder(ctx, orderID, order, items)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to revise order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordRevised(ctx)
	s.logInfo(ctx, "order revised",
		slog.Int64("order.id", result.ID),
		slog.Int64("order.total_amount", result.TotalAmount))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, orderID int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", orderID))
	if err := s.inner.DeleteOrder(ctx, orderID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", orderID))
	return nil
}

func (s *Service) FindOrderByID(ctx context.Context, orderID int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.FindOrderByID", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := s.inner.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) FindOrdersByUserID(ctx context.Context, userID int64, req pagination.Request) (pagination.Page[*ordersdomain.Order], error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.FindOrdersByUserID", trace.WithAttributes(attribute.Int64("order.user_id", userID)))
	defer span.End()

	page, err := s.inner.FindOrdersByUserID(ctx, userID, req)
	if err != nil {
		return page, s.handleError(ctx, span, err, "failed to load user orders", slog.Int64("order.user_id", userID))
	}
	span.SetAttributes(attribute.Int("orders.page.count", len(page.Items)))
	return page, nil
}

func (s *Service) FindOrderItemsByOrderID(ctx context.Context, orderID int64) ([]*ordersdomain.OrderItem, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.FindOrderItemsByOrderID", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	items, err := s.inner.FindOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order items", slog.Int64("order.id", orderID))
	}
	return items, nil
}

func (s *Service) FindAllOrders(ctx context.Context) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.FindAllOrders")
	defer span.End()

	orders, err := s.inner.FindAllOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	return orders, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced  metric.Int64Counter
	ordersRevised metric.Int64Counter
	ordersDeleted metric.Int64Counter
	orderRevenue  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	revised, _ := m.Int64Counter("orders.service.orders_revised", metric.WithDescription("Number of orders revised"))
	deleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	revenue, _ := m.Int64Counter("orders.service.order_revenue", metric.WithDescription("Total amount of placed orders, minor units"))
	return serviceMetrics{ordersPlaced: placed, ordersRevised: revised, ordersDeleted: deleted, orderRevenue: revenue}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, totalAmount int64) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
	if m.orderRevenue != nil {
		m.orderRevenue.Add(ctx, totalAmount)
	}
}

func (m serviceMetrics) recordRevised(ctx context.Context) {
	if m.ordersRevised != nil {
		m.ordersRevised.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
