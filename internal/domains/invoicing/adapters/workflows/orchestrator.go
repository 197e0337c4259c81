package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"

	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
	fulfillmentactivities "github.com/warelane/go-fulfillment-server/internal/platform/temporal/activities/fulfillment"
	fulfillmentworkflows "github.com/warelane/go-fulfillment-server/internal/platform/temporal/workflows/fulfillment"
)

var (
	_ ports.FulfillmentOrchestrator = (*TemporalFulfillmentOrchestrator)(nil)
	_ ports.FulfillmentOrchestrator = (*InlineFulfillmentOrchestrator)(nil)
)

// TemporalFulfillmentOrchestrator starts fulfillment workflows on a Temporal cluster.
type TemporalFulfillmentOrchestrator struct {
	client    client.Client
	taskQueue string
}

// NewTemporalFulfillmentOrchestrator wires a Temporal client into the orchestrator.
func NewTemporalFulfillmentOrchestrator(c client.Client) *TemporalFulfillmentOrchestrator {
	return &TemporalFulfillmentOrchestrator{client: c, taskQueue: fulfillmentworkflows.FulfillmentTaskQueue}
}

// FulfillOrder starts the Temporal workflow that fulfills an order and blocks
// until the invoice is available.
func (o *TemporalFulfillmentOrchestrator) FulfillOrder(ctx context.Context, input ports.FulfillOrderInput) (*domain.Invoice, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal fulfillment orchestrator not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("order-fulfillment-%s-%s", input.CustomerID, traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		fulfillmentworkflows.FulfillmentWorkflow,
		fulfillmentworkflows.FulfillmentWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		return nil, err
	}
	var invoice domain.Invoice
	if err := run.Get(ctx, &invoice); err != nil {
		// Restore the engine sentinel the activity encoded, so the HTTP
		// error mapping behaves the same with and without Temporal.
		return nil, fulfillmentactivities.FromWorkflowError(err)
	}
	return &invoice, nil
}

// InlineFulfillmentOrchestrator executes the service directly without Temporal,
// useful for tests or dev fallbacks.
type InlineFulfillmentOrchestrator struct {
	service ports.Service
}

// NewInlineFulfillmentOrchestrator wraps the fulfillment service for synchronous execution.
func NewInlineFulfillmentOrchestrator(service ports.Service) *InlineFulfillmentOrchestrator {
	return &InlineFulfillmentOrchestrator{service: service}
}

// FulfillOrder delegates to the application service without durable orchestration.
func (o *InlineFulfillmentOrchestrator) FulfillOrder(ctx context.Context, input ports.FulfillOrderInput) (*domain.Invoice, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline fulfillment orchestrator not configured")
	}
	return o.service.Fulfill(ctx, input.CustomerID, input.Items)
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
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
