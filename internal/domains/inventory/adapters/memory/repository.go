package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory inventory persistence adapter. The mutex gives
// each operation the same atomicity the conditional UPDATE gives the postgres
// adapter, so the version discipline is exercised identically in tests.
type Repository struct {
	mu        sync.RWMutex
	records   map[string]*domain.Record // keyed by record ID
	byProduct map[string]string         // product ID -> record ID
}

func NewRepository() *Repository {
	return &Repository{
		records:   map[string]*domain.Record{},
		byProduct: map[string]string{},
	}
}

func (r *Repository) Save(_ context.Context, record *domain.Record) (*domain.Record, error) {
	if record == nil {
		return nil, errors.New("inventory record is nil")
	}
	clone := *record
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, ok := r.byProduct[clone.ProductID]; ok && existingID != clone.ID {
		return nil, ports.ErrProductTracked
	}
	now := time.Now()
	if existing, ok := r.records[clone.ID]; ok {
		clone.Version = existing.Version + 1
		clone.CreatedAt = existing.CreatedAt
	} else {
		clone.Version = 1
		clone.CreatedAt = now
	}
	clone.UpdatedAt = now
	r.records[clone.ID] = &clone
	r.byProduct[clone.ProductID] = clone.ID
	out := clone
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

func (r *Repository) GetByProductID(_ context.Context, productID string) (*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byProduct[productID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *r.records[id]
	return &clone, nil
}

func (r *Repository) AdjustQuantity(_ context.Context, productID string, delta int64, expectedVersion int64) (*domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byProduct[productID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	record := r.records[id]
	if record.Version != expectedVersion {
		return nil, ports.ErrVersionConflict
	}
	if record.Quantity+delta < 0 {
		// The application layer checks sufficiency before writing; this guard
		// keeps the non-negative invariant even for misbehaving callers.
		return nil, ports.ErrVersionConflict
	}
	record.Quantity += delta
	record.Version++
	record.UpdatedAt = time.Now()
	clone := *record
	return &clone, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return ports.ErrNotFound
	}
	delete(r.byProduct, record.ProductID)
	delete(r.records, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Record, 0, len(r.records))
	for _, record := range r.records {
		clone := *record
		list = append(list, &clone)
	}
	return list, nil
}
