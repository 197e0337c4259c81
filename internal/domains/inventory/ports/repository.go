package ports

import (
	"context"
	"errors"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/domain"
)

var (
	ErrNotFound        = errors.New("inventory record not found")
	ErrProductTracked  = errors.New("inventory already tracks this product")
	ErrVersionConflict = errors.New("inventory record was modified concurrently")
)

// Repository persists inventory records. AdjustQuantity is the conditional
// write the ledger is built on: it applies a delta only when the stored
// version still matches, so concurrent writers are detected, never lost.
type Repository interface {
	Save(ctx context.Context, record *domain.Record) (*domain.Record, error)
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	GetByProductID(ctx context.Context, productID string) (*domain.Record, error)
	// AdjustQuantity adds delta to the quantity of the record tracking
	// productID, guarded by expectedVersion. Returns ErrVersionConflict when
	// another writer got there first and ErrNotFound when no record tracks
	// the product.
	AdjustQuantity(ctx context.Context, productID string, delta int64, expectedVersion int64) (*domain.Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Record, error)
}
