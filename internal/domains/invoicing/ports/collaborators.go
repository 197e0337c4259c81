package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// PricingLookup resolves the unit price in effect at call time. Missing
// products surface the catalog's not-found sentinel. No reservation
// semantics: the engine captures the returned price itself.
type PricingLookup interface {
	PriceOf(ctx context.Context, productID string) (decimal.Decimal, error)
}

// StockLedger is the conditional stock mutation surface the engine drives.
// TryDecrement behaves as if linearizable per product; Increment is the
// compensating inverse used to unwind partial fulfillment.
type StockLedger interface {
	TryDecrement(ctx context.Context, productID string, amount int64) (int64, error)
	Increment(ctx context.Context, productID string, amount int64) error
}
