package ports

import (
	"context"
	"errors"

	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
)

var ErrNotFound = errors.New("invoice not found")

// Repository persists invoice aggregates. Create and Replace must write the
// header and every line item as one atomic unit: all visible or none.
type Repository interface {
	Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	// Replace swaps an existing invoice's header and items in one unit,
	// keeping the original identifier. Used by reconciliation.
	Replace(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Invoice, error)
}
