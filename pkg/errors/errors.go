package errors

import (
	"fmt"
	"strings"

	"github.com/adeemgetnoor/customer-profile-manager/internal/shopify"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when a request is missing required fields
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrShopifyUserErrors carries the userErrors list reported by an Admin API
// mutation. The upstream messages are passed through to the caller verbatim.
type ErrShopifyUserErrors struct {
	Operation string
	Errors    []shopify.UserError
}

func (e *ErrShopifyUserErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ue := range e.Errors {
		msgs[i] = ue.Message
	}
	if e.Operation != "" {
		return fmt.Sprintf("%s: %s", e.Operation, strings.Join(msgs, "; "))
	}
	return strings.Join(msgs, "; ")
}
