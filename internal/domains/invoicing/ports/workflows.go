package ports

import (
	"context"

	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
)

// FulfillOrderInput is the command handed to the fulfillment orchestrator.
type FulfillOrderInput struct {
	CustomerID string
	Items      []LineRequest
}

// FulfillmentOrchestrator runs the fulfillment use case either inline or as a
// durable workflow, depending on deployment.
type FulfillmentOrchestrator interface {
	FulfillOrder(ctx context.Context, input FulfillOrderInput) (*domain.Invoice, error)
}
