package mapper

import (
	"time"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
)

// Record is the HTTP representation of an inventory record.
type Record struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int64     `json:"quantity"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// CreateRecord captures the inbound payload for tracking a product.
type CreateRecord struct {
	ID        string `json:"id,omitempty"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

// SetQuantity captures the administrative quantity overwrite payload.
type SetQuantity struct {
	Quantity int64 `json:"quantity"`
}

// ToCreateInput maps a transport payload into the application command.
func ToCreateInput(payload CreateRecord) ports.CreateRecordInput {
	return ports.CreateRecordInput{
		ID:        payload.ID,
		ProductID: payload.ProductID,
		Quantity:  payload.Quantity,
	}
}

// FromDomain maps the inventory record to its HTTP representation.
func FromDomain(record *domain.Record) Record {
	if record == nil {
		return Record{}
	}
	return Record{
		ID:        record.ID,
		ProductID: record.ProductID,
		Quantity:  record.Quantity,
		Version:   record.Version,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// FromDomainList maps a slice of records.
func FromDomainList(records []*domain.Record) []Record {
	result := make([]Record, 0, len(records))
	for _, record := range records {
		result = append(result, FromDomain(record))
	}
	return result
}
