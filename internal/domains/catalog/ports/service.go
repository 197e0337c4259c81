package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warelane/go-fulfillment-server/internal/domains/catalog/domain"
)

// CreateProductInput carries the fields accepted when registering a product.
type CreateProductInput struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Images      []string
	QRCode      string
}

// UpdateProductInput applies a partial mutation; nil fields stay untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Images      *[]string
	QRCode      *string
}

// Service exposes catalog use cases to adapters. PriceOf is the read-only
// pricing lookup consumed by the fulfillment engine.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Product, error)
	PriceOf(ctx context.Context, productID string) (decimal.Decimal, error)
}
