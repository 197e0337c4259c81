package fulfillment

import (
	"errors"
	"fmt"
	"strings"

	"go.temporal.io/sdk/temporal"

	invoiceapp "github.com/warelane/go-fulfillment-server/internal/domains/invoicing/application"
)

// Temporal serializes activity errors across the workflow boundary, so
// wrapped sentinel chains do not survive a round trip. The activity encodes
// the engine sentinel as the application error type; the starter decodes it
// back so errors.Is keeps working on the caller's side.
var errorTypes = []struct {
	name     string
	sentinel error
}{
	{"EmptyOrder", invoiceapp.ErrEmptyOrder},
	{"InvalidQuantity", invoiceapp.ErrInvalidQuantity},
	{"EmptyCustomer", invoiceapp.ErrEmptyCustomer},
	{"ProductNotFound", invoiceapp.ErrProductNotFound},
	{"InsufficientStock", invoiceapp.ErrInsufficientStock},
	{"Conflict", invoiceapp.ErrConflict},
	{"Persistence", invoiceapp.ErrPersistence},
}

// toWorkflowError tags an engine failure with its sentinel's type name.
// Unrecognized errors pass through for Temporal's default handling.
func toWorkflowError(err error) error {
	for _, entry := range errorTypes {
		if errors.Is(err, entry.sentinel) {
			return temporal.NewApplicationErrorWithCause(err.Error(), entry.name, err)
		}
	}
	return err
}

// FromWorkflowError restores the engine sentinel encoded by the activity.
// Errors without a recognized application error type return unchanged.
func FromWorkflowError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	for _, entry := range errorTypes {
		if appErr.Type() != entry.name {
			continue
		}
		// The message already starts with the sentinel text; avoid doubling it.
		if rest, ok := strings.CutPrefix(appErr.Message(), entry.sentinel.Error()); ok {
			return fmt.Errorf("%w%s", entry.sentinel, rest)
		}
		return fmt.Errorf("%w: %s", entry.sentinel, appErr.Message())
	}
	return err
}
