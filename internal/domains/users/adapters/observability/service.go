package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	userdomain "github.com/ifan/go-mall-api/internal/domains/users/domain"
	userports "github.com/ifan/go-mall-api/internal/domains/users/ports"
)

const tracerName = "github.com/ifan/go-mall-api/internal/domains/users/adapters/observability/service"

// Service decorates the account service with tracing, logging, and metrics.
// Raw credentials and tokens never reach span attributes or log records.
type Service struct {
	inner   userports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core account service.
func New(inner userports.Service, opts ...Option) userports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Register(ctx context.Context, email, password string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	s.logInfo(ctx, "registering account", slog.String("email", email))
	result, err := s.inner.Register(ctx, email, password)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register account", slog.String("email", email))
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "account registered", slog.Int64("user_id", result.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, *userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	token, user, err := s.inner.Login(ctx, email, password)
	if err != nil {
		s.metrics.recordLoginRejected(ctx)
		return "", nil, s.handleError(ctx, span, err, "login failed", slog.String("email", email))
	}
	s.metrics.recordLogin(ctx)
	s.logInfo(ctx, "session opened", slog.Int64("user_id", user.ID))
	return token, user, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Authenticate")
	defer span.End()
	user, err := s.inner.Authenticate(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user.id", user.ID))
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetByID", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	return s.inner.GetByID(ctx, userID)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	registered   metric.Int64Counter
	logins       metric.Int64Counter
	loginRejects metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of accounts registered"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	rejects, _ := m.Int64Counter("users.service.login_rejections", metric.WithDescription("Number of rejected login attempts"))
	return serviceMetrics{registered: registered, logins: logins, loginRejects: rejects}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.registered != nil {
		m.registered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLoginRejected(ctx context.Context) {
	if m.loginRejects != nil {
		m.loginRejects.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
