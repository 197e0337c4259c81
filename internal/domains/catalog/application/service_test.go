package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/warelane/go-fulfillment-server/internal/domains/catalog/domain"
	"github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
)

type fakeCatalogRepo struct {
	products map[string]*domain.Product
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{products: map[string]*domain.Product{}}
}

func (f *fakeCatalogRepo) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	for id, existing := range f.products {
		if id != product.ID && existing.QRCode == product.QRCode {
			return nil, ports.ErrQRCodeTaken
		}
	}
	clone := *product
	f.products[product.ID] = &clone
	return &clone, nil
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := f.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeCatalogRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeCatalogRepo) List(_ context.Context) ([]*domain.Product, error) {
	var list []*domain.Product
	for _, p := range f.products {
		clone := *p
		list = append(list, &clone)
	}
	return list, nil
}

func TestCreate_MintsIDAndPersists(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewService(repo)

	saved, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name:     "Product 1",
		Price:    decimal.RequireFromString("10.99"),
		Category: "Category 1",
		QRCode:   "qrcode1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	require.True(t, saved.Price.Equal(decimal.RequireFromString("10.99")))
}

func TestCreate_RejectsNegativePrice(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())

	_, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name:     "Product 1",
		Price:    decimal.RequireFromString("-1"),
		Category: "Category 1",
		QRCode:   "qrcode1",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNegativePrice)
}

func TestCreate_DuplicateQRCode(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())

	_, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name: "Product 1", Price: decimal.NewFromInt(5), Category: "c", QRCode: "qrcode1",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), ports.CreateProductInput{
		Name: "Product 2", Price: decimal.NewFromInt(7), Category: "c", QRCode: "qrcode1",
	})
	require.ErrorIs(t, err, ports.ErrQRCodeTaken)
}

func TestPriceOf_ReturnsCurrentPrice(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := NewService(repo)

	saved, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name: "Product 1", Price: decimal.RequireFromString("10.99"), Category: "c", QRCode: "qrcode1",
	})
	require.NoError(t, err)

	price, err := svc.PriceOf(context.Background(), saved.ID)
	require.NoError(t, err)
	require.True(t, price.Equal(decimal.RequireFromString("10.99")))

	newPrice := decimal.RequireFromString("12.50")
	_, err = svc.Update(context.Background(), saved.ID, ports.UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)

	price, err = svc.PriceOf(context.Background(), saved.ID)
	require.NoError(t, err)
	require.True(t, price.Equal(newPrice))
}

func TestPriceOf_UnknownProduct(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())

	_, err := svc.PriceOf(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdate_PartialMutation(t *testing.T) {
	svc := NewService(newFakeCatalogRepo())

	saved, err := svc.Create(context.Background(), ports.CreateProductInput{
		Name: "Product 1", Price: decimal.NewFromInt(5), Category: "c", QRCode: "qrcode1",
	})
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.Update(context.Background(), saved.ID, ports.UpdateProductInput{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "qrcode1", updated.QRCode)
	require.True(t, updated.Price.Equal(decimal.NewFromInt(5)))
}
