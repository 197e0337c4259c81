package domain

import (
	"errors"
	"time"
)

var (
	ErrEmptyProductID   = errors.New("inventory product id is required")
	ErrNegativeQuantity = errors.New("inventory quantity must not be negative")
)

// Record tracks the available quantity for exactly one product. Quantity is
// the only shared mutable state in the system; every mutation funnels through
// the ledger's conditional operations. Version backs optimistic locking.
type Record struct {
	ID        string
	ProductID string
	Quantity  int64
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord validates and constructs an inventory record.
func NewRecord(id, productID string, quantity int64) (*Record, error) {
	record := &Record{ID: id, ProductID: productID, Quantity: quantity}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

// Validate enforces invariants on the record.
func (r *Record) Validate() error {
	if r.ProductID == "" {
		return ErrEmptyProductID
	}
	if r.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}
