package ports

import (
	"context"
	"errors"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/domain"
)

var (
	// ErrInsufficientStock rejects a decrement that would drive quantity below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict surfaces after the bounded retry budget for concurrent
	// modifications is exhausted.
	ErrConflict = errors.New("inventory contention")
)

// CreateRecordInput carries the fields accepted when tracking a product.
type CreateRecordInput struct {
	ID        string
	ProductID string
	Quantity  int64
}

// Service exposes inventory use cases. TryDecrement and Increment form the
// stock ledger consumed by the fulfillment engine: TryDecrement behaves as if
// linearizable per product, and Increment is its compensating inverse.
type Service interface {
	Create(ctx context.Context, input CreateRecordInput) (*domain.Record, error)
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	GetByProductID(ctx context.Context, productID string) (*domain.Record, error)
	// SetQuantity overwrites the absolute quantity (administrative path).
	SetQuantity(ctx context.Context, id string, quantity int64) (*domain.Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Record, error)

	// TryDecrement conditionally removes amount units from the product's
	// stock and returns the new quantity. Concurrent decrements on the same
	// product never jointly drive the quantity below zero.
	TryDecrement(ctx context.Context, productID string, amount int64) (int64, error)
	// Increment restores amount units, compensating an earlier decrement.
	Increment(ctx context.Context, productID string, amount int64) error
}
