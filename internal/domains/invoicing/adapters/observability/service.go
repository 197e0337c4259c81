package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	invoicedomain "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	invoiceports "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
)

const tracerName = "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/observability/service"

// Service decorates the fulfillment service with tracing, logging, and metrics.
type Service struct {
	inner   invoiceports.Service
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

// New wraps the core fulfillment service.
func New(inner invoiceports.Service, opts ...Option) invoiceports.Service {
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

func (s *Service) Fulfill(ctx context.Context, customerID string, items []invoiceports.LineRequest) (*invoicedomain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoicingService.Fulfill",
		trace.WithAttributes(attribute.String("invoice.customer_id", customerID), attribute.Int("invoice.item_count", len(items))))
	defer span.End()

	s.logInfo(ctx, "fulfilling order", slog.String("customer.id", customerID), slog.Int("items", len(items)))
	result, err := s.inner.Fulfill(ctx, customerID, items)
	if err != nil {
		s.metrics.recordFailed(ctx, "fulfill")
		return nil, s.handleError(ctx, span, err, "failed to fulfill order", slog.String("customer.id", customerID))
	}
	s.metrics.recordFulfilled(ctx)
	span.SetAttributes(attribute.String("invoice.id", result.ID), attribute.String("invoice.total", result.Total.String()))
	s.logInfo(ctx, "order fulfilled",
		slog.String("invoice.id", result.ID), slog.String("invoice.total", result.Total.String()))
	return result, nil
}

func (s *Service) Reconcile(ctx context.Context, invoiceID string, items []invoiceports.LineRequest) (*invoicedomain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoicingService.Reconcile",
		trace.WithAttributes(attribute.String("invoice.id", invoiceID), attribute.Int("invoice.item_count", len(items))))
	defer span.End()

	s.logInfo(ctx, "reconciling invoice", slog.String("invoice.id", invoiceID), slog.Int("items", len(items)))
	result, err := s.inner.Reconcile(ctx, invoiceID, items)
	if err != nil {
		s.metrics.recordFailed(ctx, "reconcile")
		return nil, s.handleError(ctx, span, err, "failed to reconcile invoice", slog.String("invoice.id", invoiceID))
	}
	s.metrics.recordReconciled(ctx)
	span.SetAttributes(attribute.String("invoice.total", result.Total.String()))
	s.logInfo(ctx, "invoice reconciled",
		slog.String("invoice.id", result.ID), slog.String("invoice.total", result.Total.String()))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoicingService.GetByID", trace.WithAttributes(attribute.String("invoice.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load invoice", slog.String("invoice.id", id))
	}
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "InvoicingService.Delete", trace.WithAttributes(attribute.String("invoice.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting invoice", slog.String("invoice.id", id))
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete invoice", slog.String("invoice.id", id))
	}
	s.logInfo(ctx, "invoice deleted", slog.String("invoice.id", id))
	return nil
}

func (s *Service) List(ctx context.Context) ([]*invoicedomain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoicingService.List")
	defer span.End()

	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list invoices")
	}
	span.SetAttributes(attribute.Int("invoice.count", len(result)))
	return result, nil
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
	fulfilled  metric.Int64Counter
	reconciled metric.Int64Counter
	failed     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	fulfilled, _ := m.Int64Counter("invoicing.service.orders_fulfilled", metric.WithDescription("Number of orders fulfilled"))
	reconciled, _ := m.Int64Counter("invoicing.service.invoices_reconciled", metric.WithDescription("Number of invoices reconciled"))
	failed, _ := m.Int64Counter("invoicing.service.operations_failed", metric.WithDescription("Number of failed fulfillment operations"))
	return serviceMetrics{fulfilled: fulfilled, reconciled: reconciled, failed: failed}
}

func (m serviceMetrics) recordFulfilled(ctx context.Context) {
	if m.fulfilled != nil {
		m.fulfilled.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordReconciled(ctx context.Context) {
	if m.reconciled != nil {
		m.reconciled.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context, operation string) {
	if m.failed != nil {
		m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
	}
}

var _ invoiceports.Service = (*Service)(nil)
