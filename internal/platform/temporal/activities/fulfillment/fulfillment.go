package fulfillment

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	invoicedomain "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	invoiceports "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
)

const (
	// FulfillOrderActivityName runs the whole fulfillment use case as one
	// activity: the engine already compensates internally, so Temporal never
	// observes a partially applied order.
	FulfillOrderActivityName = "invoicing.activities.FulfillOrder"
)

// Activities groups activities that operate on the invoicing bounded context.
type Activities struct {
	service invoiceports.Service
}

// NewActivities wires the fulfillment service into the Temporal activities bundle.
func NewActivities(service invoiceports.Service) *Activities {
	return &Activities{service: service}
}

// FulfillOrder delegates to the fulfillment engine and returns the persisted invoice.
func (a *Activities) FulfillOrder(ctx context.Context, input invoiceports.FulfillOrderInput) (*invoicedomain.Invoice, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("fulfill order activity not initialized", "customerId", input.CustomerID)
		return nil, errors.New("fulfill order activity not initialized")
	}
	logger.Info("FulfillOrder activity started", "customerId", input.CustomerID, "items", len(input.Items))
	invoice, err := a.service.Fulfill(ctx, input.CustomerID, input.Items)
	if err != nil {
		logger.Error("FulfillOrder activity failed", "customerId", input.CustomerID, "error", err)
		return nil, toWorkflowError(err)
	}
	logger.Info("FulfillOrder activity completed", "invoiceId", invoice.ID, "total", invoice.Total.String())
	return invoice, nil
}
