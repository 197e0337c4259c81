package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/adapters/memory"
	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
)

func seedRecord(t *testing.T, svc *Service, productID string, quantity int64) *domain.Record {
	t.Helper()
	record, err := svc.Create(context.Background(), ports.CreateRecordInput{ProductID: productID, Quantity: quantity})
	require.NoError(t, err)
	return record
}

func TestTryDecrement_Succeeds(t *testing.T) {
	svc := NewService(memory.NewRepository())
	seedRecord(t, svc, "product1", 50)

	remaining, err := svc.TryDecrement(context.Background(), "product1", 10)
	require.NoError(t, err)
	require.Equal(t, int64(40), remaining)
}

func TestTryDecrement_InsufficientStock(t *testing.T) {
	svc := NewService(memory.NewRepository())
	seedRecord(t, svc, "product1", 5)

	_, err := svc.TryDecrement(context.Background(), "product1", 10)
	require.ErrorIs(t, err, ports.ErrInsufficientStock)

	record, err := svc.GetByProductID(context.Background(), "product1")
	require.NoError(t, err)
	require.Equal(t, int64(5), record.Quantity)
}

func TestTryDecrement_UnknownProduct(t *testing.T) {
	svc := NewService(memory.NewRepository())

	_, err := svc.TryDecrement(context.Background(), "ghost", 1)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestTryDecrement_NeverOversellsUnderContention(t *testing.T) {
	svc := NewService(memory.NewRepository())
	seedRecord(t, svc, "product1", 10)

	const callers = 10
	var wg sync.WaitGroup
	results := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.TryDecrement(context.Background(), "product1", 10)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			require.True(t,
				errorIsAny(err, ports.ErrInsufficientStock, ports.ErrConflict),
				"unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, succeeded)

	record, err := svc.GetByProductID(context.Background(), "product1")
	require.NoError(t, err)
	require.Equal(t, int64(0), record.Quantity)
}

func TestTryDecrement_RetriesVersionConflicts(t *testing.T) {
	repo := &conflictingRepo{Repository: memory.NewRepository(), conflicts: 2}
	svc := NewService(repo)
	_, err := svc.Create(context.Background(), ports.CreateRecordInput{ProductID: "product1", Quantity: 50})
	require.NoError(t, err)

	remaining, err := svc.TryDecrement(context.Background(), "product1", 10)
	require.NoError(t, err)
	require.Equal(t, int64(40), remaining)
	require.Equal(t, 3, repo.adjustCalls)
}

func TestTryDecrement_SurfacesConflictAfterRetryBudget(t *testing.T) {
	repo := &conflictingRepo{Repository: memory.NewRepository(), conflicts: maxAdjustAttempts}
	svc := NewService(repo)
	_, err := svc.Create(context.Background(), ports.CreateRecordInput{ProductID: "product1", Quantity: 50})
	require.NoError(t, err)

	_, err = svc.TryDecrement(context.Background(), "product1", 10)
	require.ErrorIs(t, err, ports.ErrConflict)
}

func TestIncrement_RestoresStock(t *testing.T) {
	svc := NewService(memory.NewRepository())
	seedRecord(t, svc, "product1", 40)

	require.NoError(t, svc.Increment(context.Background(), "product1", 10))

	record, err := svc.GetByProductID(context.Background(), "product1")
	require.NoError(t, err)
	require.Equal(t, int64(50), record.Quantity)
}

func TestSetQuantity_RejectsNegative(t *testing.T) {
	svc := NewService(memory.NewRepository())
	record := seedRecord(t, svc, "product1", 10)

	_, err := svc.SetQuantity(context.Background(), record.ID, -1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_RejectsSecondRecordForProduct(t *testing.T) {
	svc := NewService(memory.NewRepository())
	seedRecord(t, svc, "product1", 10)

	_, err := svc.Create(context.Background(), ports.CreateRecordInput{ProductID: "product1", Quantity: 5})
	require.ErrorIs(t, err, ports.ErrProductTracked)
}

// conflictingRepo forces the first N AdjustQuantity calls to report a version
// conflict, mimicking a concurrent writer landing between read and write.
type conflictingRepo struct {
	*memory.Repository
	conflicts   int
	adjustCalls int
}

func (c *conflictingRepo) AdjustQuantity(ctx context.Context, productID string, delta int64, expectedVersion int64) (*domain.Record, error) {
	c.adjustCalls++
	if c.adjustCalls <= c.conflicts {
		return nil, ports.ErrVersionConflict
	}
	return c.Repository.AdjustQuantity(ctx, productID, delta, expectedVersion)
}

func errorIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
