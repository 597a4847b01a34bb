package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a single-document query yields null.
	ErrNotFound = errors.New("document not found")
	// ErrUnauthorized covers rejected or missing credentials.
	ErrUnauthorized = errors.New("content store rejected credentials")
)

// APIError is a non-success response from the content store.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("content store responded %d: %s", e.Status, e.Message)
}
