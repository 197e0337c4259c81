package ports

import (
	"context"

	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
)

// LineRequest is one (product, quantity) pair of an inbound order, processed
// strictly in caller-supplied order.
type LineRequest struct {
	ProductID string
	Quantity  int64
}

// Service exposes invoicing use cases. Fulfill and Reconcile are the only
// operations allowed to mutate inventory and invoices together.
type Service interface {
	// Fulfill validates the order, captures prices, conditionally decrements
	// stock per line, and persists the invoice — all-or-nothing. Any failure
	// after the first decrement compensates every applied decrement in
	// reverse order before returning.
	Fulfill(ctx context.Context, customerID string, items []LineRequest) (*domain.Invoice, error)
	// Reconcile edits an existing invoice's items by applying only the net
	// per-product stock deltas between old and new, under the same
	// compensation rules.
	Reconcile(ctx context.Context, invoiceID string, items []LineRequest) (*domain.Invoice, error)
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Invoice, error)
}
