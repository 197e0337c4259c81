package fulfillmentserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/warelane/go-fulfillment-server/internal/domains/catalog/application"
	catalogports "github.com/warelane/go-fulfillment-server/internal/domains/catalog/ports"
	inventoryapp "github.com/warelane/go-fulfillment-server/internal/domains/inventory/application"
	inventoryports "github.com/warelane/go-fulfillment-server/internal/domains/inventory/ports"
	invoicingapp "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/application"
	invoicingports "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/ports"
	apierrors "github.com/warelane/go-fulfillment-server/internal/shared/errors"
)

// responder maps application errors onto RFC 7807 problems. The chain covers
// the closed taxonomies of all three bounded contexts; anything unmatched
// falls back to a 500.
var responder = apierrors.NewChainedResponder("", mapFulfillmentError, mapCatalogError, mapInventoryError)

func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func mapFulfillmentError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, invoicingapp.ErrEmptyOrder),
		errors.Is(err, invoicingapp.ErrInvalidQuantity),
		errors.Is(err, invoicingapp.ErrEmptyCustomer):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, invoicingapp.ErrProductNotFound),
		errors.Is(err, invoicingports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, invoicingapp.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, invoicingapp.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, invoicingapp.ErrPersistence):
		return apierrors.ErrInternal.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapCatalogError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrQRCodeTaken):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInventoryError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, inventoryapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, inventoryports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, inventoryports.ErrProductTracked):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, inventoryports.ErrInsufficientStock):
		return apierrors.ErrInsufficientStock.WithDetail(err.Error()), true
	case errors.Is(err, inventoryports.ErrConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func respondProblem(c *gin.Context, status int, detail string) {
	switch status {
	case http.StatusBadRequest:
		responder.Respond(c, apierrors.ErrBadRequest.WithDetail(detail))
	case http.StatusUnauthorized:
		responder.Respond(c, apierrors.ErrUnauthorized.WithDetail(detail))
	case http.StatusForbidden:
		responder.Respond(c, apierrors.ErrForbidden.WithDetail(detail))
	default:
		responder.Respond(c, apierrors.ErrInternal.WithDetail(detail))
	}
}
