//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "fulfillment-api"
	ConsumerName = "storefront-portal"

	StateProductsBaseline = "products baseline"
	StateProductExists    = "product product1 exists"
	StateProductMissing   = "no product with id ghost"
	StateOrderFulfillable = "product1 is in stock"
	StateStockExhausted   = "product1 stock is nearly exhausted"
)

const (
	ExistingProductID = "product1"
	MissingProductID  = "ghost"
	CustomerID        = "customer1"
)

const (
	exampleProductName  = "Product 1"
	exampleProductPrice = 10.99
	exampleQRCode       = "qrcode1"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload provides stable test data for product interactions.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":       ExistingProductID,
		"name":     exampleProductName,
		"price":    exampleProductPrice,
		"category": "Category 1",
		"qrCode":   exampleQRCode,
	}
}

// ExampleOrderPayload provides stable test data for fulfillment interactions.
func ExampleOrderPayload(quantity int64) map[string]any {
	return map[string]any{
		"customerId": CustomerID,
		"items": []map[string]any{
			{"productId": ExistingProductID, "quantity": quantity},
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
