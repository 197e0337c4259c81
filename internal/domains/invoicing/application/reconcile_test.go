package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogports "github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
)

func fulfillOne(t *testing.T, env *engineEnv, items ...ports.LineRequest) *domain.Invoice {
	t.Helper()
	invoice, err := env.svc.Fulfill(context.Background(), "customer1", items)
	require.NoError(t, err)
	return invoice
}

func repriceProduct(t *testing.T, env *engineEnv, productID, price string) {
	t.Helper()
	p := decimal.RequireFromString(price)
	_, err := env.catalog.Update(context.Background(), productID, catalogports.UpdateProductInput{Price: &p})
	require.NoError(t, err)
}

func TestReconcile_GrownLineDecrementsOnlyTheDelta(t *testing.T) {
	env := newEngineEnv(t)
	env.addProduct(t, "product1", "10.00")
	env.addStock(t, "product1", 50)
	invoice := fulfillOne(t, env, ports.LineRequest{ProductID: "product1", Quantity: 10})
	require.Equal(t, int64(40), env.stockOf(t, "product1"))

	updated, err := env.svc.Reconcile(context.Background(), invoice.ID,
		[]ports.LineRequest{{ProductID: "product1", Quantity: 15}})
	require.NoError(t, err)
	require.Equal(t, int64(35), env.stockOf(t, "product1"))
	require.True(t, updated.Total.Equal(decimal.RequireFromString("150.00")))
	require.Equal(t, invoice.ID, updated.ID)
	require.Equal(t, invoice.CustomerID, updated.CustomerID)
}

func TestReconcile_ShrunkLineReturnsTheDelta(t *testing.T) {
	env := newEngineEnv(t)
	env.addProduct(t, "product1", "10.00")
	env.addStock(t, "product1", 50)
	invoice := fulfillOne(t, env, ports.LineRequest{ProductID: "product1", Quantity: 10})

	updated, err := env.svc.Reconcile(context.Background(), invoice.ID,
		[]ports.LineRequest{{ProductID: "product1", Quantity: 4}})
	require.NoError(t, err)
	require.Equal(t, int64(46), env.stockOf(t, "product1"))
	require.True(t, updated.Total.Equal(decimal.RequireFromString("40.00")))
}

func TestReconcile_UnchangedLineKeepsCapturedPrice(t *testing.T) {
	env := newEngineEnv(t)
	env.addProduct(t, "product1", "10.00")
	env.addProduct(t, "product2", "5.00")
	env.addStock(t, "product1", 50)
	env.addStock(t, "product2", 50)
	invoice := fulfillOne(t, env,
		ports.LineRequest{ProductID: "product1", Quantity: 10},
		ports.LineRequest{ProductID: "product2", Quantity: 2})

	repriceProduct(t, env, "product1", "99.00")
	repriceProduct(t, env, "product2", "7.00")

	// product1 untouched, product2 grown: only product2 is repriced.
	updated, err := env.svc.Reconcile(context.Background(), invoice.ID, []ports.LineRequest{
		{ProductID: "product1", Quantity: 10},
		{ProductID: "product2", Quantity: 3},
	})
	require.NoError(t, err)
	require.True(t, updated.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	require.True(t, updated.Items[1].UnitPrice.Equal(decimal.RequireFromString("7.00")))
	require.True(t, updated.Total.Equal(decimal.RequireFromString("121.00")))
	require.Equal(t, int64(40), env.stockOf(t, "product1"))
	require.Equal(t, int64(47), env.stockOf(t, "product2"))
}

func TestReconcile_RemovedLineReturnsAllStock(t *testing.T) {
	env := newEngineEnv(t)
	env.addProduct(t, "product1", "10.00")
	env.addProduct(t, "product2", "5.00")
	env.addStock(t, "product1", 50)
	env.addStock(t, "product2", 50)
	invoice := fulfillOne(t, env,
		ports.LineRequest{ProductID: "product1", Quantity: 10},
		ports.LineRequest{ProductID: "product2", Quantity: 5})

	updated, err := env.svc.Reconcile(context.Background(), invoice.ID,
		[]ports.LineRequest{{ProductID: "product2", Quantity: 5}})
	require.NoError(t, err)
	require.Equal(t, int64(50), env.stockOf(t, "product1"))
	require.Equal(t, int64(45), env.stockOf(t, "product2"))
	require.Len(t, updated.Items, 1)
	require.True(t, updated.Total.Equal(decimal.RequireFromString("25.00")))
}

func TestReconcile_AddedLineFailureRestoresEverything(t *testing.T) {
	env := newEngineEnv(t)
	env.addProduct(t, "product1", "10.00")
	env.addProduct(t, "product2", "5.00")
	env.addStock(t, "product1", 50)
	env.addStock(t, "product2", 1)
	invoice := fulfillOne(t, env, ports.LineRequest{ProductID: "product1", Quantity: 10})

	_, err := env.svc.Reconcile(context.Background(), invoice.ID, []ports.LineRequest{
		{ProductID: "product1", Quantity: 20},
		{ProductID: "product2", Quantity: 5},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	// Failed halfway: product1's extra 10 must have been put back.
	require.Equal(t, int64(40), env.stockOf(t, "product1"))
	require.Equal(t, int64(1), env.stockOf(t, "product2"))

	reloaded, err := env.svc.GetByID(context.Background(), invoice.ID)
	require.NoError(t, err)
	require.True(t, reloaded.Total.Equal(invoice.Total))
	require.Equal(t, invoice.Items, reloaded.Items)
}

func TestReconcile_DuplicateProductLinesAggregate(t *testing.T) {
	env := newEngineEnv(t)
	env.addProduct(t, "product1", "10.00")
	env.addStock(t, "product1", 50)
	invoice := fulfillOne(t, env, ports.LineRequest{ProductID: "product1", Quantity: 10})

	updated, err := env.svc.Reconcile(context.Background(), invoice.ID, []ports.LineRequest{
		{ProductID: "product1", Quantity: 6},
		{ProductID: "product1", Quantity: 4},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	require.Equal(t, int64(10), updated.Items[0].Quantity)
	// Net quantity is unchanged, so stock and captured price are too.
	require.Equal(t, int64(40), env.stockOf(t, "product1"))
	require.True(t, updated.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func TestReconcile_UnknownInvoice(t *testing.T) {
	env := newEngineEnv(t)
	_, err := env.svc.Reconcile(context.Background(), "no-such-invoice",
		[]ports.LineRequest{{ProductID: "product1", Quantity: 1}})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestReconcile_EmptyItemsRejected(t *testing.T) {
	env := newEngineEnv(t)
	env.addProduct(t, "product1", "10.00")
	env.addStock(t, "product1", 50)
	invoice := fulfillOne(t, env, ports.LineRequest{ProductID: "product1", Quantity: 1})

	_, err := env.svc.Reconcile(context.Background(), invoice.ID, nil)
	require.ErrorIs(t, err, ErrEmptyOrder)
	require.Equal(t, int64(49), env.stockOf(t, "product1"))
}

func TestReconcile_NonPositiveQuantityRejected(t *testing.T) {
	env := newEngineEnv(t)
	env.addProduct(t, "product1", "10.00")
	env.addStock(t, "product1", 50)
	invoice := fulfillOne(t, env, ports.LineRequest{ProductID: "product1", Quantity: 1})

	_, err := env.svc.Reconcile(context.Background(), invoice.ID,
		[]ports.LineRequest{{ProductID: "product1", Quantity: -2}})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}
