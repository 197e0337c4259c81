package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory invoice persistence adapter. Header and items
// live in one value under one lock, so writes are naturally atomic.
type Repository struct {
	mu       sync.RWMutex
	invoices map[string]*domain.Invoice
}

func NewRepository() *Repository {
	return &Repository{invoices: map[string]*domain.Invoice{}}
}

func (r *Repository) Create(_ context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice == nil {
		return nil, errors.New("invoice is nil")
	}
	clone := cloneInvoice(invoice)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.invoices[clone.ID]; exists {
		return nil, errors.New("invoice id already exists")
	}
	r.invoices[clone.ID] = clone
	return cloneInvoice(clone), nil
}

func (r *Repository) Replace(_ context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if invoice == nil {
		return nil, errors.New("invoice is nil")
	}
	clone := cloneInvoice(invoice)
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.invoices[clone.ID]; !exists {
		return nil, ports.ErrNotFound
	}
	r.invoices[clone.ID] = clone
	return cloneInvoice(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneInvoice(invoice), nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Invoice, 0, len(r.invoices))
	for _, invoice := range r.invoices {
		list = append(list, cloneInvoice(invoice))
	}
	return list, nil
}

func cloneInvoice(inv *domain.Invoice) *domain.Invoice {
	clone := *inv
	clone.Items = append([]domain.LineItem{}, inv.Items...)
	return &clone
}
