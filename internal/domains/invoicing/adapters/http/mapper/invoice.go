package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
)

// LineItem is the HTTP representation of one invoice line. UnitPrice is the
// price captured at fulfillment time, not the current catalog price.
type LineItem struct {
	ProductID string          `json:"productId"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Invoice is the HTTP representation of a persisted invoice.
type Invoice struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"createdAt"`
	Items      []LineItem      `json:"items"`
}

// OrderLine is one requested line of an order or reconciliation.
type OrderLine struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// OrderRequest captures the inbound payload driving fulfillment.
type OrderRequest struct {
	CustomerID string      `json:"customerId"`
	Items      []OrderLine `json:"items"`
}

// ReconcileRequest captures the inbound payload replacing an invoice's items.
type ReconcileRequest struct {
	Items []OrderLine `json:"items"`
}

// ToLineRequests maps transport lines into the application command.
func ToLineRequests(lines []OrderLine) []ports.LineRequest {
	result := make([]ports.LineRequest, 0, len(lines))
	for _, line := range lines {
		result = append(result, ports.LineRequest{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return result
}

// FromDomain maps the invoice aggregate to its HTTP representation.
func FromDomain(invoice *domain.Invoice) Invoice {
	if invoice == nil {
		return Invoice{}
	}
	items := make([]LineItem, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return Invoice{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Total:      invoice.Total,
		CreatedAt:  invoice.CreatedAt,
		Items:      items,
	}
}

// FromDomainList maps a slice of invoices.
func FromDomainList(invoices []*domain.Invoice) []Invoice {
	result := make([]Invoice, 0, len(invoices))
	for _, invoice := range invoices {
		result = append(result, FromDomain(invoice))
	}
	return result
}
