package ports

import (
	"context"
	"errors"

	"github.com/warelane/go-fulfillment-server/internal/domains/catalog/domain"
)

var (
	ErrNotFound    = errors.New("product not found")
	ErrQRCodeTaken = errors.New("product qr code already exists")
)

// Repository persists product aggregates.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Product, error)
}
