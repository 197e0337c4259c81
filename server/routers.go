package fulfillmentserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// Routes is the list of the generated Route.
type Routes []Route

// ApiHandleFunctions bundles the per-resource handler sets mounted by NewRouter.
type ApiHandleFunctions struct {
	ProductAPI   ProductAPI
	InventoryAPI InventoryAPI
	InvoiceAPI   InvoiceAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine. Middleware
// passed here guards every mutating route (POST, PUT, DELETE); reads stay open.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandleFunc
		}
		handlers := make([]gin.HandlerFunc, 0, len(middleware)+1)
		if route.Method != http.MethodGet {
			handlers = append(handlers, middleware...)
		}
		handlers = append(handlers, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// defaultHandleFunc is used when a handler is not yet implemented.
func defaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			Name:        "CreateProduct",
			Method:      http.MethodPost,
			Pattern:     "/v1/products",
			HandlerFunc: handleFunctions.ProductAPI.CreateProduct,
		},
		{
			Name:        "ListProducts",
			Method:      http.MethodGet,
			Pattern:     "/v1/products",
			HandlerFunc: handleFunctions.ProductAPI.ListProducts,
		},
		{
			Name:        "GetProductById",
			Method:      http.MethodGet,
			Pattern:     "/v1/products/:productId",
			HandlerFunc: handleFunctions.ProductAPI.GetProductById,
		},
		{
			Name:        "UpdateProduct",
			Method:      http.MethodPut,
			Pattern:     "/v1/products/:productId",
			HandlerFunc: handleFunctions.ProductAPI.UpdateProduct,
		},
		{
			// UpdateProduct is a partial update, so PATCH shares the handler.
			Name:        "PatchProduct",
			Method:      http.MethodPatch,
			Pattern:     "/v1/products/:productId",
			HandlerFunc: handleFunctions.ProductAPI.UpdateProduct,
		},
		{
			Name:        "DeleteProduct",
			Method:      http.MethodDelete,
			Pattern:     "/v1/products/:productId",
			HandlerFunc: handleFunctions.ProductAPI.DeleteProduct,
		},
		{
			Name:        "CreateInventory",
			Method:      http.MethodPost,
			Pattern:     "/v1/inventory",
			HandlerFunc: handleFunctions.InventoryAPI.CreateInventory,
		},
		{
			Name:        "ListInventory",
			Method:      http.MethodGet,
			Pattern:     "/v1/inventory",
			HandlerFunc: handleFunctions.InventoryAPI.ListInventory,
		},
		{
			Name:        "GetInventoryById",
			Method:      http.MethodGet,
			Pattern:     "/v1/inventory/:inventoryId",
			HandlerFunc: handleFunctions.InventoryAPI.GetInventoryById,
		},
		{
			Name:        "GetInventoryByProduct",
			Method:      http.MethodGet,
			Pattern:     "/v1/inventory/product/:productId",
			HandlerFunc: handleFunctions.InventoryAPI.GetInventoryByProduct,
		},
		{
			Name:        "SetInventoryQuantity",
			Method:      http.MethodPut,
			Pattern:     "/v1/inventory/:inventoryId",
			HandlerFunc: handleFunctions.InventoryAPI.SetInventoryQuantity,
		},
		{
			Name:        "PatchInventoryQuantity",
			Method:      http.MethodPatch,
			Pattern:     "/v1/inventory/:inventoryId",
			HandlerFunc: handleFunctions.InventoryAPI.SetInventoryQuantity,
		},
		{
			Name:        "DeleteInventory",
			Method:      http.MethodDelete,
			Pattern:     "/v1/inventory/:inventoryId",
			HandlerFunc: handleFunctions.InventoryAPI.DeleteInventory,
		},
		{
			Name:        "FulfillOrder",
			Method:      http.MethodPost,
			Pattern:     "/v1/invoices",
			HandlerFunc: handleFunctions.InvoiceAPI.FulfillOrder,
		},
		{
			Name:        "ListInvoices",
			Method:      http.MethodGet,
			Pattern:     "/v1/invoices",
			HandlerFunc: handleFunctions.InvoiceAPI.ListInvoices,
		},
		{
			Name:        "GetInvoiceById",
			Method:      http.MethodGet,
			Pattern:     "/v1/invoices/:invoiceId",
			HandlerFunc: handleFunctions.InvoiceAPI.GetInvoiceById,
		},
		{
			Name:        "ReconcileInvoice",
			Method:      http.MethodPut,
			Pattern:     "/v1/invoices/:invoiceId",
			HandlerFunc: handleFunctions.InvoiceAPI.ReconcileInvoice,
		},
		{
			Name:        "PatchInvoice",
			Method:      http.MethodPatch,
			Pattern:     "/v1/invoices/:invoiceId",
			HandlerFunc: handleFunctions.InvoiceAPI.ReconcileInvoice,
		},
		{
			Name:        "DeleteInvoice",
			Method:      http.MethodDelete,
			Pattern:     "/v1/invoices/:invoiceId",
			HandlerFunc: handleFunctions.InvoiceAPI.DeleteInvoice,
		},
	}
}
