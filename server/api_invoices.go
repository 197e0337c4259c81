package fulfillmentserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	invoicemapper "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/adapters/http/mapper"
	"github.com/warelane/go-fulfillment-server/internal/domains/invoicing/domain"
	invoiceports "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
)

// InvoiceAPI wires HTTP transport with the fulfillment service and workflows.
type InvoiceAPI struct {
	service   invoiceports.Service
	workflows invoiceports.FulfillmentOrchestrator
}

// NewInvoiceAPI creates an InvoiceAPI backed by the provided service.
func NewInvoiceAPI(service invoiceports.Service, workflows invoiceports.FulfillmentOrchestrator) InvoiceAPI {
	return InvoiceAPI{service: service, workflows: workflows}
}

// Post /v1/invoices
// Fulfill an order: decrement stock and persist the invoice atomically
func (api *InvoiceAPI) FulfillOrder(c *gin.Context) {
	var payload invoicemapper.OrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := invoiceports.FulfillOrderInput{
		CustomerID: payload.CustomerID,
		Items:      invoicemapper.ToLineRequests(payload.Items),
	}
	invoice, err := api.fulfill(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoicemapper.FromDomain(invoice))
}

func (api *InvoiceAPI) fulfill(ctx context.Context, input invoiceports.FulfillOrderInput) (*domain.Invoice, error) {
	if api.workflows != nil {
		return api.workflows.FulfillOrder(ctx, input)
	}
	return api.service.Fulfill(ctx, input.CustomerID, input.Items)
}

// Get /v1/invoices
// List all invoices
func (api *InvoiceAPI) ListInvoices(c *gin.Context) {
	invoices, err := api.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoicemapper.FromDomainList(invoices))
}

// Get /v1/invoices/:invoiceId
// Find invoice by ID
func (api *InvoiceAPI) GetInvoiceById(c *gin.Context) {
	invoice, err := api.service.GetByID(c.Request.Context(), c.Param("invoiceId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoicemapper.FromDomain(invoice))
}

// Put /v1/invoices/:invoiceId
// Replace an invoice's items, moving stock only by the net difference
func (api *InvoiceAPI) ReconcileInvoice(c *gin.Context) {
	var payload invoicemapper.ReconcileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	invoice, err := api.service.Reconcile(c.Request.Context(), c.Param("invoiceId"), invoicemapper.ToLineRequests(payload.Items))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoicemapper.FromDomain(invoice))
}

// Delete /v1/invoices/:invoiceId
// Remove an invoice; stock is not returned
func (api *InvoiceAPI) DeleteInvoice(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("invoiceId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
