package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
)

const stockKeyPrefix = "stock:"

// decrementScript performs the conditional decrement atomically inside Redis:
// it only commits when the remaining stock covers the requested amount.
// Returns the new quantity, -1 for insufficient stock, -2 for unknown product.
var decrementScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	return -2
end
current = tonumber(current)
local amount = tonumber(ARGV[1])
if current < amount then
	return -1
end
return redis.call('DECRBY', KEYS[1], amount)
`)

// Ledger is a Redis-backed stock ledger. It is primed from the relational
// inventory at boot and serves the hot decrement path without touching the
// database; the Lua script makes each decrement linearizable per product.
type Ledger struct {
	client *redis.Client
}

func NewLedger(client *redis.Client) *Ledger {
	return &Ledger{client: client}
}

// TryDecrement conditionally removes amount units and returns the new quantity.
func (l *Ledger) TryDecrement(ctx context.Context, productID string, amount int64) (int64, error) {
	key := stockKeyPrefix + productID
	result, err := decrementScript.Run(ctx, l.client, []string{key}, amount).Int64()
	if err != nil {
		return 0, fmt.Errorf("redis stock decrement: %w", err)
	}
	switch result {
	case -2:
		return 0, ports.ErrNotFound
	case -1:
		return 0, fmt.Errorf("%w: product %s", ports.ErrInsufficientStock, productID)
	default:
		return result, nil
	}
}

// Increment restores amount units, compensating an earlier decrement.
func (l *Ledger) Increment(ctx context.Context, productID string, amount int64) error {
	key := stockKeyPrefix + productID
	if err := l.client.IncrBy(ctx, key, amount).Err(); err != nil {
		return fmt.Errorf("redis stock increment: %w", err)
	}
	return nil
}

// SetStock overwrites the tracked quantity for a product. Used when priming
// the ledger from the relational inventory.
func (l *Ledger) SetStock(ctx context.Context, productID string, quantity int64) error {
	key := stockKeyPrefix + productID
	if err := l.client.Set(ctx, key, quantity, 0).Err(); err != nil {
		return fmt.Errorf("redis stock set: %w", err)
	}
	return nil
}

// incrementIfTrackedScript restores units only for keys the gate already
// tracks. Compensating a movement that bypassed the gate must not materialize
// a key holding a bogus absolute quantity.
var incrementIfTrackedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
return redis.call('INCRBY', KEYS[1], ARGV[1])
`)

// quantityStore is the authoritative stock surface behind the gate, satisfied
// by the inventory application service.
type quantityStore interface {
	TryDecrement(ctx context.Context, productID string, amount int64) (int64, error)
	Increment(ctx context.Context, productID string, amount int64) error
}

// WriteThrough chains the Redis gate in front of the authoritative store.
// Redis absorbs contention and rejects oversells cheaply, but every movement
// that passes the gate is committed to the store as well, so relational reads
// and boot-time re-priming always observe sold stock. The store's conditional
// write remains the final arbiter: a stale gate can only cost an extra round
// trip, never an oversell.
type WriteThrough struct {
	gate  *Ledger
	store quantityStore
}

func NewWriteThrough(gate *Ledger, store quantityStore) *WriteThrough {
	return &WriteThrough{gate: gate, store: store}
}

// TryDecrement passes the gate first, then commits the same movement to the
// store and returns the store's quantity. A store failure puts the gated
// units back before the error surfaces. Products the gate does not track yet
// (created after priming) go straight to the store.
func (w *WriteThrough) TryDecrement(ctx context.Context, productID string, amount int64) (int64, error) {
	if _, err := w.gate.TryDecrement(ctx, productID, amount); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return w.store.TryDecrement(ctx, productID, amount)
		}
		return 0, err
	}
	remaining, err := w.store.TryDecrement(ctx, productID, amount)
	if err != nil {
		if restoreErr := w.gate.Increment(context.WithoutCancel(ctx), productID, amount); restoreErr != nil {
			return 0, errors.Join(err, restoreErr)
		}
		return 0, err
	}
	return remaining, nil
}

// Increment restores units in the store first, then in the gate when it
// tracks the product. Store first: a failed Redis write leaves the gate
// underestimating stock, which can only reject orders, never oversell.
func (w *WriteThrough) Increment(ctx context.Context, productID string, amount int64) error {
	if err := w.store.Increment(ctx, productID, amount); err != nil {
		return err
	}
	key := stockKeyPrefix + productID
	if err := incrementIfTrackedScript.Run(ctx, w.gate.client, []string{key}, amount).Err(); err != nil {
		return fmt.Errorf("redis stock increment: %w", err)
	}
	return nil
}
