package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warelane/go-fulfillment-server/internal/domains/catalog/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new product, minting an identifier when none is supplied.
func (s *Service) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	product, err := domain.NewProduct(id, input.Name, input.Description, input.Price, input.Category, input.QRCode, input.Images)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

// Update applies a partial mutation to an existing product.
func (s *Service) Update(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := applyPartialMutation(product, input); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// PriceOf resolves the unit price in effect right now. It carries no
// reservation semantics; callers capture the returned value themselves.
func (s *Service) PriceOf(ctx context.Context, productID string) (decimal.Decimal, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, mapError(err)
	}
	return product.Price, nil
}

func applyPartialMutation(target *domain.Product, input ports.UpdateProductInput) error {
	if input.Name != nil {
		if err := target.Rename(*input.Name); err != nil {
			return err
		}
	}
	if input.Description != nil {
		target.Description = *input.Description
	}
	if input.Price != nil {
		if err := target.ChangePrice(*input.Price); err != nil {
			return err
		}
	}
	if input.Category != nil {
		target.Category = *input.Category
		if err := target.Validate(); err != nil {
			return err
		}
	}
	if input.Images != nil {
		target.ReplaceImages(*input.Images)
	}
	if input.QRCode != nil {
		target.QRCode = *input.QRCode
		if err := target.Validate(); err != nil {
			return err
		}
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
