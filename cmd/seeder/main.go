package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogpostgres "github.com/warelane/go-fulfillment-server/internal/domains/catalog/adapters/persistence/postgres"
	catalogdomain "github.com/warelane/go-fulfillment-server/internal/domains/catalog/domain"
	catalogports "github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
	inventorypostgres "github.com/warelane/go-fulfillment-server/internal/domains/inventory/adapters/persistence/postgres"
	inventorydomain "github.com/warelane/go-fulfillment-server/internal/domains/inventory/domain"
	inventoryports "github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
	invoicepostgres "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/persistence/postgres"
	invoicedomain "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	"github.com/warelane/go-fulfillment-server/internal/platform/migrations"
	platformpostgres "github.com/warelane/go-fulfillment-server/internal/platform/postgres"
)

// Seeds a development database with a small, coherent data set: two tracked
// products and one fulfilled invoice whose captured prices match the catalog.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot seed")
	}
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	productRepo := catalogpostgres.NewRepository(db)
	inventoryRepo := inventorypostgres.NewRepository(db)
	invoiceRepo := invoicepostgres.NewRepository(db)

	products := []*catalogdomain.Product{
		{
			ID:          "product1",
			Name:        "Product 1",
			Description: "Description for product 1",
			Price:       decimal.RequireFromString("10.99"),
			Category:    "Category 1",
			QRCode:      "qrcode1",
		},
		{
			ID:          "product2",
			Name:        "Product 2",
			Description: "Description for product 2",
			Price:       decimal.RequireFromString("20.99"),
			Category:    "Category 2",
			QRCode:      "qrcode2",
		},
	}
	for _, product := range products {
		if _, err := productRepo.Save(ctx, product); err != nil {
			if errors.Is(err, catalogports.ErrQRCodeTaken) {
				log.Printf("product %s already seeded", product.ID)
				continue
			}
			log.Fatalf("failed to seed product %s: %v", product.ID, err)
		}
	}

	inventories := []*inventorydomain.Record{
		{ID: "inventory1", ProductID: "product1", Quantity: 50},
		{ID: "inventory2", ProductID: "product2", Quantity: 150},
	}
	for _, record := range inventories {
		if _, err := inventoryRepo.Save(ctx, record); err != nil {
			if errors.Is(err, inventoryports.ErrProductTracked) {
				log.Printf("inventory %s already seeded", record.ID)
				continue
			}
			log.Fatalf("failed to seed inventory %s: %v", record.ID, err)
		}
	}

	invoice, err := invoicedomain.NewInvoice("invoice1", "customer1", time.Now().UTC(), []invoicedomain.LineItem{
		{ProductID: "product1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.99")},
		{ProductID: "product2", Quantity: 1, UnitPrice: decimal.RequireFromString("20.99")},
	})
	if err != nil {
		log.Fatalf("failed to build seed invoice: %v", err)
	}
	if _, err := invoiceRepo.Create(ctx, invoice); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Printf("invoice %s already seeded", invoice.ID)
		} else {
			log.Fatalf("failed to seed invoice %s: %v", invoice.ID, err)
		}
	}

	log.Printf("seed completed")
}
