package redis

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
)

func getRedisClient(t *testing.T) *goredis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}
	return client
}

func TestLedger_TryDecrement(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	ledger := NewLedger(client)

	client.Del(ctx, "stock:test-item")
	require.NoError(t, ledger.SetStock(ctx, "test-item", 10))

	remaining, err := ledger.TryDecrement(ctx, "test-item", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), remaining)
}

func TestLedger_TryDecrementInsufficient(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	ledger := NewLedger(client)

	client.Del(ctx, "stock:test-item")
	require.NoError(t, ledger.SetStock(ctx, "test-item", 5))

	_, err := ledger.TryDecrement(ctx, "test-item", 10)
	assert.ErrorIs(t, err, ports.ErrInsufficientStock)

	stock, err := client.Get(ctx, "stock:test-item").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(5), stock)
}

func TestLedger_TryDecrementUnknownProduct(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	ledger := NewLedger(client)

	client.Del(ctx, "stock:nonexistent")

	_, err := ledger.TryDecrement(ctx, "nonexistent", 1)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestLedger_Increment(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	ledger := NewLedger(client)

	client.Del(ctx, "stock:test-item")
	require.NoError(t, ledger.SetStock(ctx, "test-item", 5))

	require.NoError(t, ledger.Increment(ctx, "test-item", 3))

	stock, err := client.Get(ctx, "stock:test-item").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(8), stock)
}

func TestLedger_ConcurrentDecrementsNeverOversell(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	ledger := NewLedger(client)

	const initialStock = 20
	const totalRequests = 50

	client.Del(ctx, "stock:concurrent-test")
	require.NoError(t, ledger.SetStock(ctx, "concurrent-test", initialStock))

	var succeeded atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.TryDecrement(ctx, "concurrent-test", 1); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(initialStock), succeeded.Load())
	stock, err := client.Get(ctx, "stock:concurrent-test").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock)
}

// fakeStore stands in for the relational inventory behind the gate.
type fakeStore struct {
	mu  sync.Mutex
	qty map[string]int64
	err error
}

func newFakeStore(qty map[string]int64) *fakeStore {
	return &fakeStore{qty: qty}
}

func (s *fakeStore) TryDecrement(_ context.Context, productID string, amount int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	current, ok := s.qty[productID]
	if !ok {
		return 0, ports.ErrNotFound
	}
	if current < amount {
		return 0, ports.ErrInsufficientStock
	}
	s.qty[productID] = current - amount
	return s.qty[productID], nil
}

func (s *fakeStore) Increment(_ context.Context, productID string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.qty[productID] += amount
	return nil
}

func (s *fakeStore) quantityOf(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.qty[productID]
}

func TestWriteThrough_DecrementCommitsToStore(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	gate := NewLedger(client)
	store := newFakeStore(map[string]int64{"test-item": 10})
	ledger := NewWriteThrough(gate, store)

	client.Del(ctx, "stock:test-item")
	require.NoError(t, gate.SetStock(ctx, "test-item", 10))

	remaining, err := ledger.TryDecrement(ctx, "test-item", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), remaining)
	// Both sides observe the sale.
	assert.Equal(t, int64(7), store.quantityOf("test-item"))
	gated, err := client.Get(ctx, "stock:test-item").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(7), gated)
}

func TestWriteThrough_StoreFailureRestoresGate(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	gate := NewLedger(client)
	store := newFakeStore(nil)
	store.err = errors.New("database down")
	ledger := NewWriteThrough(gate, store)

	client.Del(ctx, "stock:test-item")
	require.NoError(t, gate.SetStock(ctx, "test-item", 10))

	_, err := ledger.TryDecrement(ctx, "test-item", 3)
	require.Error(t, err)

	gated, err := client.Get(ctx, "stock:test-item").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(10), gated)
}

func TestWriteThrough_UntrackedProductFallsBackToStore(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	gate := NewLedger(client)
	store := newFakeStore(map[string]int64{"late-arrival": 5})
	ledger := NewWriteThrough(gate, store)

	client.Del(ctx, "stock:late-arrival")

	remaining, err := ledger.TryDecrement(ctx, "late-arrival", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), remaining)
	assert.Equal(t, int64(3), store.quantityOf("late-arrival"))
}

func TestWriteThrough_IncrementSkipsUntrackedGate(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	gate := NewLedger(client)
	store := newFakeStore(map[string]int64{"late-arrival": 3})
	ledger := NewWriteThrough(gate, store)

	client.Del(ctx, "stock:late-arrival")

	require.NoError(t, ledger.Increment(ctx, "late-arrival", 2))
	assert.Equal(t, int64(5), store.quantityOf("late-arrival"))
	// No gate key existed, so none may be conjured with a partial quantity.
	exists, err := client.Exists(ctx, "stock:late-arrival").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}

func TestWriteThrough_IncrementWritesThroughWhenTracked(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	gate := NewLedger(client)
	store := newFakeStore(map[string]int64{"test-item": 5})
	ledger := NewWriteThrough(gate, store)

	client.Del(ctx, "stock:test-item")
	require.NoError(t, gate.SetStock(ctx, "test-item", 5))

	require.NoError(t, ledger.Increment(ctx, "test-item", 3))
	assert.Equal(t, int64(8), store.quantityOf("test-item"))
	gated, err := client.Get(ctx, "stock:test-item").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(8), gated)
}
