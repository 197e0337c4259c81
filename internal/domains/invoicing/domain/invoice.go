package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCustomerID    = errors.New("customer id is required")
	ErrNoLineItems        = errors.New("invoice requires at least one line item")
	ErrNonPositiveQty     = errors.New("line item quantity must be positive")
	ErrNegativeUnitPrice  = errors.New("line item unit price must not be negative")
	ErrEmptyLineProductID = errors.New("line item product id is required")
)

// LineItem references a product and captures the unit price in effect when
// the invoice was fulfilled. The captured price never changes afterwards.
type LineItem struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Subtotal is quantity times captured unit price, exact decimal arithmetic.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(li.Quantity))
}

// Invoice is the persisted outcome of a fulfilled order: header plus an
// ordered sequence of line items, written as one atomic unit.
type Invoice struct {
	ID         string
	CustomerID string
	Total      decimal.Decimal
	CreatedAt  time.Time
	Items      []LineItem
}

// NewInvoice validates the line items and computes the total from the
// captured prices. Item order is preserved as supplied.
func NewInvoice(id, customerID string, createdAt time.Time, items []LineItem) (*Invoice, error) {
	invoice := &Invoice{
		ID:         id,
		CustomerID: strings.TrimSpace(customerID),
		CreatedAt:  createdAt,
		Items:      append([]LineItem{}, items...),
	}
	if err := invoice.Validate(); err != nil {
		return nil, err
	}
	invoice.Total = invoice.computeTotal()
	return invoice, nil
}

// Validate enforces invariants on the aggregate.
func (inv *Invoice) Validate() error {
	if inv.CustomerID == "" {
		return ErrEmptyCustomerID
	}
	if len(inv.Items) == 0 {
		return ErrNoLineItems
	}
	for _, item := range inv.Items {
		if item.ProductID == "" {
			return ErrEmptyLineProductID
		}
		if item.Quantity <= 0 {
			return ErrNonPositiveQty
		}
		if item.UnitPrice.IsNegative() {
			return ErrNegativeUnitPrice
		}
	}
	return nil
}

func (inv *Invoice) computeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// QuantityByProduct aggregates line quantities per product, used when
// reconciling an edited invoice against current stock.
func (inv *Invoice) QuantityByProduct() map[string]int64 {
	result := make(map[string]int64, len(inv.Items))
	for _, item := range inv.Items {
		result[item.ProductID] += item.Quantity
	}
	return result
}
