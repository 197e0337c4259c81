package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
)

// maxAdjustAttempts bounds the internal retry loop around version conflicts
// before ErrConflict is surfaced to the caller.
const maxAdjustAttempts = 3

// Service orchestrates inventory use cases and implements the stock ledger.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Create starts tracking stock for a product.
func (s *Service) Create(ctx context.Context, input ports.CreateRecordInput) (*domain.Record, error) {
	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	record, err := domain.NewRecord(id, input.ProductID, input.Quantity)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByProductID(ctx context.Context, productID string) (*domain.Record, error) {
	return s.repo.GetByProductID(ctx, productID)
}

// SetQuantity overwrites the absolute quantity. This is the administrative
// correction path; fulfillment never calls it.
func (s *Service) SetQuantity(ctx context.Context, id string, quantity int64) (*domain.Record, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Quantity = quantity
	if err := record.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, record)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Record, error) {
	return s.repo.List(ctx)
}

// TryDecrement removes amount units from the product's stock. The read,
// sufficiency check, and conditional write run in a bounded retry loop; a
// version conflict means another writer committed between our read and write,
// so the loop re-reads and re-checks rather than blindly retrying the write.
func (s *Service) TryDecrement(ctx context.Context, productID string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: decrement amount must be positive", ErrInvalidInput)
	}
	for attempt := 0; attempt < maxAdjustAttempts; attempt++ {
		record, err := s.repo.GetByProductID(ctx, productID)
		if err != nil {
			return 0, err
		}
		if record.Quantity < amount {
			return 0, fmt.Errorf("%w: product %s has %d, requested %d",
				ports.ErrInsufficientStock, productID, record.Quantity, amount)
		}
		updated, err := s.repo.AdjustQuantity(ctx, productID, -amount, record.Version)
		if err == nil {
			return updated.Quantity, nil
		}
		if !errors.Is(err, ports.ErrVersionConflict) {
			return 0, err
		}
	}
	return 0, fmt.Errorf("%w: product %s", ports.ErrConflict, productID)
}

// Increment restores amount units. Used as the compensating operation when a
// later fulfillment step fails, so it must tolerate the same contention the
// decrement does.
func (s *Service) Increment(ctx context.Context, productID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: increment amount must be positive", ErrInvalidInput)
	}
	for attempt := 0; attempt < maxAdjustAttempts; attempt++ {
		record, err := s.repo.GetByProductID(ctx, productID)
		if err != nil {
			return err
		}
		if _, err := s.repo.AdjustQuantity(ctx, productID, amount, record.Version); err == nil {
			return nil
		} else if !errors.Is(err, ports.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: product %s", ports.ErrConflict, productID)
}

var _ ports.Service = (*Service)(nil)
