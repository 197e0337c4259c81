package fulfillment

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	invoicedomain "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	invoiceports "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
	fulfillmentactivities "github.com/warelane/go-fulfillment-server/internal/platform/temporal/activities/fulfillment"
)

const (
	// FulfillmentWorkflowName is the public identifier for registering the workflow.
	FulfillmentWorkflowName = "invoicing.workflows.Fulfillment"
	// FulfillmentTaskQueue is the queue consumed by the worker processing fulfillment workflows.
	FulfillmentTaskQueue = "ORDER_FULFILLMENT"
)

// FulfillmentWorkflowInput captures the payload required to fulfill an order.
type FulfillmentWorkflowInput struct {
	Command invoiceports.FulfillOrderInput
	TraceID string
}

// FulfillmentWorkflow runs the fulfillment activity exactly once. The engine
// compensates its own stock mutations on failure, so the activity must not be
// retried: a retry would re-decrement stock for an order that already failed
// or, worse, already succeeded.
func FulfillmentWorkflow(ctx workflow.Context, input FulfillmentWorkflowInput) (*invoicedomain.Invoice, error) {
	logger := workflow.GetLogger(ctx)
	customerID := input.Command.CustomerID
	logger.Info("FulfillmentWorkflow started", withTraceID(input.TraceID, "customerId", customerID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	var invoice invoicedomain.Invoice
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, options),
		fulfillmentactivities.FulfillOrderActivityName,
		input.Command,
	).Get(ctx, &invoice)
	if err != nil {
		logger.Error("FulfillmentWorkflow failed", withTraceID(input.TraceID, "customerId", customerID, "error", err)...)
		return nil, err
	}
	logger.Info("FulfillmentWorkflow completed", withTraceID(input.TraceID, "invoiceId", invoice.ID)...)
	return &invoice, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
