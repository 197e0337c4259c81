package mapper

import (
	"github.com/shopspring/decimal"

	"github.com/warelane/go-fulfillment-server/internal/domains/catalog/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
)

// Product is the HTTP representation of a catalog product.
type Product struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images,omitempty"`
	QRCode      string          `json:"qrCode"`
}

// CreateProduct captures the inbound payload for product registration.
type CreateProduct struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Images      []string        `json:"images,omitempty"`
	QRCode      string          `json:"qrCode"`
}

// UpdateProduct captures partial mutations while preserving field presence.
type UpdateProduct struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Images      *[]string        `json:"images,omitempty"`
	QRCode      *string          `json:"qrCode,omitempty"`
}

// ToCreateInput maps a transport payload into the application command.
func ToCreateInput(payload CreateProduct) ports.CreateProductInput {
	return ports.CreateProductInput{
		ID:          payload.ID,
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		Images:      payload.Images,
		QRCode:      payload.QRCode,
	}
}

// ToUpdateInput maps a transport payload into the partial-update command.
func ToUpdateInput(payload UpdateProduct) ports.UpdateProductInput {
	return ports.UpdateProductInput{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Category:    payload.Category,
		Images:      payload.Images,
		QRCode:      payload.QRCode,
	}
}

// FromDomain maps the product aggregate to its HTTP representation.
func FromDomain(product *domain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Images:      product.Images,
		QRCode:      product.QRCode,
	}
}

// FromDomainList maps a slice of products.
func FromDomainList(products []*domain.Product) []Product {
	result := make([]Product, 0, len(products))
	for _, product := range products {
		result = append(result, FromDomain(product))
	}
	return result
}
