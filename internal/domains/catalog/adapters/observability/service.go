package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/ifan/go-mall-api/internal/domains/catalog/domain"
	catalogports "github.com/ifan/go-mall-api/internal/domains/catalog/ports"
	"github.com/ifan/go-mall-api/internal/shared/pagination"
)

const tracerName = "github.com/ifan/go-mall-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) GetByID(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetByID", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.Int64("product.id", id))
	}
	return product, nil
}

func (s *Service) List(ctx context.Context, filter catalogports.ListFilter, req pagination.Request) (pagination.Page[*catalogdomain.Product], error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.List")
	defer span.End()

	page, err := s.inner.List(ctx, filter, req)
	if err != nil {
		return page, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("products.page.count", len(page.Items)))
	return page, nil
}

func (s *Service) CreateProduct(ctx context.Context, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	saved, err := s.inner.CreateProduct(ctx, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product")
	}
	s.metrics.recordCreated(ctx, saved.Category)
	s.logInfo(ctx, "product created", slog.Int64("product.id", saved.ID), slog.String("category", string(saved.Category)))
	return saved, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id int64, product *catalogdomain.Product) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	updated, err := s.inner.UpdateProduct(ctx, id, product)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product updated", slog.Int64("product.id", updated.ID))
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.Int64("product.id", id))
	}
	s.logInfo(ctx, "product deleted", slog.Int64("product.id", id))
	return nil
}

func (s *Service) GetPrice(ctx context.Context, productID int64) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetPrice", trace.WithAttributes(attribute.Int64("product.id", productID)))
	defer span.End()

	price, err := s.inner.GetPrice(ctx, productID)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to read product price", slog.Int64("product.id", productID))
	}
	return price, nil
}

func (s *Service) HasEnoughStock(ctx context.Context, productID int64, quantity int32) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.HasEnoughStock",
		trace.WithAttributes(attribute.Int64("product.id", productID), attribute.Int("quantity", int(quantity))))
	defer span.End()

	ok, err := s.inner.HasEnoughStock(ctx, productID, quantity)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check stock", slog.Int64("product.id", productID))
	}
	return ok, nil
}

func (s *Service) DecreaseStock(ctx context.Context, productID int64, quantity int32) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DecreaseStock",
		trace.WithAttributes(attribute.Int64("product.id", productID), attribute.Int("quantity", int(quantity))))
	defer span.End()

	if err := s.inner.DecreaseStock(ctx, productID, quantity); err != nil {
		if errors.Is(err, catalogports.ErrInsufficientStock) {
			s.metrics.recordRejection(ctx)
		}
		return s.handleError(ctx, span, err, "failed to decrease stock",
			slog.Int64("product.id", productID), slog.Int("quantity", int(quantity)))
	}
	s.metrics.recordDecrease(ctx, quantity)
	return nil
}

func (s *Service) RestoreStock(ctx context.Context, productID int64, quantity int32) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.RestoreStock",
		trace.WithAttributes(attribute.Int64("product.id", productID), attribute.Int("quantity", int(quantity))))
	defer span.End()

	if err := s.inner.RestoreStock(ctx, productID, quantity); err != nil {
		return s.handleError(ctx, span, err, "failed to restore stock",
			slog.Int64("product.id", productID), slog.Int("quantity", int(quantity)))
	}
	s.metrics.recordRestore(ctx, quantity)
	return nil
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
	productsCreated metric.Int64Counter
	stockDecreased  metric.Int64Counter
	stockRestored   metric.Int64Counter
	stockRejections metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	decreased, _ := m.Int64Counter("catalog.service.stock_decreased", metric.WithDescription("Units of stock reserved"))
	restored, _ := m.Int64Counter("catalog.service.stock_restored", metric.WithDescription("Units of stock restored"))
	rejections, _ := m.Int64Counter("catalog.service.stock_rejections", metric.WithDescription("Reservations rejected for insufficient stock"))
	return serviceMetrics{productsCreated: created, stockDecreased: decreased, stockRestored: restored, stockRejections: rejections}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category catalogdomain.Category) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category", string(category))))
	}
}

func (m serviceMetrics) recordDecrease(ctx context.Context, quantity int32) {
	if m.stockDecreased != nil {
		m.stockDecreased.Add(ctx, int64(quantity))
	}
}

func (m serviceMetrics) recordRestore(ctx context.Context, quantity int32) {
	if m.stockRestored != nil {
		m.stockRestored.Add(ctx, int64(quantity))
	}
}

func (m serviceMetrics) recordRejection(ctx context.Context) {
	if m.stockRejections != nil {
		m.stockRejections.Add(ctx, 1)
	}
}

var _ catalogports.Service = (*Service)(nil)
