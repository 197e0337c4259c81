package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogports "github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
	inventoryports "github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
)

// Service is the order fulfillment engine: the sole component permitted to
// mutate inventory and create invoices together. All-or-nothing semantics are
// realized with a compensation list unwound in reverse on any failure.
type Service struct {
	repo    ports.Repository
	pricing ports.PricingLookup
	ledger  ports.StockLedger
}

func NewService(repo ports.Repository, pricing ports.PricingLookup, ledger ports.StockLedger) *Service {
	return &Service{repo: repo, pricing: pricing, ledger: ledger}
}

// ledgerDelta records one applied stock mutation. A positive amount was a
// decrement; compensation inverts the sign.
type ledgerDelta struct {
	productID string
	amount    int64
}

// Fulfill validates the order, captures prices, decrements stock per line in
// caller-supplied order, and persists the invoice. On any failure every
// decrement already applied in this call is compensated, in reverse order,
// before the error returns.
func (s *Service) Fulfill(ctx context.Context, customerID string, items []ports.LineRequest) (*domain.Invoice, error) {
	if err := validateOrder(customerID, items); err != nil {
		return nil, err
	}

	lines := make([]domain.LineItem, 0, len(items))
	for _, item := range items {
		price, err := s.pricing.PriceOf(ctx, item.ProductID)
		if err != nil {
			return nil, mapPricingError(err, item.ProductID)
		}
		lines = append(lines, domain.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}

	var applied []ledgerDelta
	for _, line := range lines {
		if _, err := s.ledger.TryDecrement(ctx, line.ProductID, line.Quantity); err != nil {
			return nil, s.failCompensating(ctx, applied, mapLedgerError(err, line.ProductID))
		}
		applied = append(applied, ledgerDelta{productID: line.ProductID, amount: line.Quantity})
	}

	invoice, err := domain.NewInvoice(uuid.NewString(), customerID, time.Now().UTC(), lines)
	if err != nil {
		return nil, s.failCompensating(ctx, applied, err)
	}
	saved, err := s.repo.Create(ctx, invoice)
	if err != nil {
		return nil, s.failCompensating(ctx, applied, fmt.Errorf("%w: %v", ErrPersistence, err))
	}
	return saved, nil
}

// Reconcile edits an existing invoice's items. Stock moves only by the net
// per-product difference between the old and new item sets: added or grown
// lines decrement, shrunk or removed lines increment. Changed lines are
// repriced at current prices; untouched lines keep their captured price.
func (s *Service) Reconcile(ctx context.Context, invoiceID string, items []ports.LineRequest) (*domain.Invoice, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: product %s", ErrInvalidQuantity, item.ProductID)
		}
	}

	existing, err := s.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	oldQty := existing.QuantityByProduct()
	oldPrice := make(map[string]decimal.Decimal, len(existing.Items))
	for _, item := range existing.Items {
		if _, ok := oldPrice[item.ProductID]; !ok {
			oldPrice[item.ProductID] = item.UnitPrice
		}
	}

	// Aggregate the requested items per product, keeping first-seen order.
	order := make([]string, 0, len(items))
	newQty := make(map[string]int64, len(items))
	for _, item := range items {
		if _, seen := newQty[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		newQty[item.ProductID] += item.Quantity
	}

	// Price pass before any stock mutation: unchanged lines keep the captured
	// price, changed or added lines take the current one.
	lines := make([]domain.LineItem, 0, len(order))
	for _, productID := range order {
		quantity := newQty[productID]
		price, ok := oldPrice[productID]
		if !ok || oldQty[productID] != quantity {
			price, err = s.pricing.PriceOf(ctx, productID)
			if err != nil {
				return nil, mapPricingError(err, productID)
			}
		}
		lines = append(lines, domain.LineItem{ProductID: productID, Quantity: quantity, UnitPrice: price})
	}

	// Delta plan: decrements in caller order, then increments for shrunk
	// lines (caller order) and removed lines (original invoice order).
	var decrements, increments []ledgerDelta
	for _, productID := range order {
		switch delta := newQty[productID] - oldQty[productID]; {
		case delta > 0:
			decrements = append(decrements, ledgerDelta{productID: productID, amount: delta})
		case delta < 0:
			increments = append(increments, ledgerDelta{productID: productID, amount: -delta})
		}
	}
	removed := map[string]bool{}
	for _, item := range existing.Items {
		if _, kept := newQty[item.ProductID]; !kept && !removed[item.ProductID] {
			removed[item.ProductID] = true
			increments = append(increments, ledgerDelta{productID: item.ProductID, amount: oldQty[item.ProductID]})
		}
	}

	var applied []ledgerDelta
	for _, d := range decrements {
		if _, err := s.ledger.TryDecrement(ctx, d.productID, d.amount); err != nil {
			return nil, s.failCompensating(ctx, applied, mapLedgerError(err, d.productID))
		}
		applied = append(applied, d)
	}
	for _, d := range increments {
		if err := s.ledger.Increment(ctx, d.productID, d.amount); err != nil {
			return nil, s.failCompensating(ctx, applied, mapLedgerError(err, d.productID))
		}
		applied = append(applied, ledgerDelta{productID: d.productID, amount: -d.amount})
	}

	updated, err := domain.NewInvoice(existing.ID, existing.CustomerID, existing.CreatedAt, lines)
	if err != nil {
		return nil, s.failCompensating(ctx, applied, err)
	}
	saved, err := s.repo.Replace(ctx, updated)
	if err != nil {
		return nil, s.failCompensating(ctx, applied, fmt.Errorf("%w: %v", ErrPersistence, err))
	}
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*domain.Invoice, error) {
	return s.repo.List(ctx)
}

// failCompensating unwinds every applied delta, then returns the original
// cause. Compensation failures are joined onto it, never swallowed.
func (s *Service) failCompensating(ctx context.Context, applied []ledgerDelta, cause error) error {
	if err := s.compensate(ctx, applied); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// compensate inverts applied deltas in reverse order. It runs on a context
// detached from cancellation: a cancelled caller must still observe either a
// completed order or fully restored stock, never a stranded decrement.
func (s *Service) compensate(ctx context.Context, applied []ledgerDelta) error {
	ctx = context.WithoutCancel(ctx)
	var errs error
	for i := len(applied) - 1; i >= 0; i-- {
		op := applied[i]
		var err error
		if op.amount > 0 {
			err = s.ledger.Increment(ctx, op.productID, op.amount)
		} else {
			_, err = s.ledger.TryDecrement(ctx, op.productID, -op.amount)
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("compensate product %s: %w", op.productID, err))
		}
	}
	return errs
}

func validateOrder(customerID string, items []ports.LineRequest) error {
	if strings.TrimSpace(customerID) == "" {
		return ErrEmptyCustomer
	}
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: product %s", ErrInvalidQuantity, item.ProductID)
		}
	}
	return nil
}

func mapPricingError(err error, productID string) error {
	if errors.Is(err, catalogports.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	if isContextError(err) {
		return err
	}
	return fmt.Errorf("%w: pricing lookup for %s: %v", ErrPersistence, productID, err)
}

func mapLedgerError(err error, productID string) error {
	switch {
	case isContextError(err):
		// Caller cancellation is not a ledger failure; it passes through so
		// callers can match context.Canceled directly.
		return err
	case errors.Is(err, inventoryports.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	case errors.Is(err, inventoryports.ErrInsufficientStock):
		return fmt.Errorf("%w: product %s", ErrInsufficientStock, productID)
	case errors.Is(err, inventoryports.ErrConflict):
		return fmt.Errorf("%w: product %s", ErrConflict, productID)
	default:
		return fmt.Errorf("%w: ledger write for %s: %v", ErrPersistence, productID, err)
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

var _ ports.Service = (*Service)(nil)
