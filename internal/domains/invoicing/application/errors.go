package application

import "errors"

// Closed failure taxonomy of the fulfillment engine. Callers match these with
// errors.Is; apart from the caller's own context errors, nothing else escapes
// the engine undeclared.
var (
	// ErrEmptyOrder rejects an order with no line items, before any I/O.
	ErrEmptyOrder = errors.New("order has no line items")
	// ErrInvalidQuantity rejects a non-positive line quantity, before any I/O.
	ErrInvalidQuantity = errors.New("line item quantity must be positive")
	// ErrEmptyCustomer rejects a missing customer id, before any I/O.
	ErrEmptyCustomer = errors.New("customer id is required")
	// ErrProductNotFound fails the whole order when any referenced product is
	// unknown to the catalog or untracked by inventory.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock fails the order when a line cannot be covered.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrConflict surfaces when ledger contention outlasted its retry budget.
	ErrConflict = errors.New("inventory contention")
	// ErrPersistence wraps infrastructure failures; all applied stock deltas
	// are compensated before it is returned.
	ErrPersistence = errors.New("invoice persistence failed")
)
