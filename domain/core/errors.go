package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	ErrEmptyResult = errors.New("prediction result is empty")
)

// NewNotFoundError builds a not-found error for a resource.
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// IsNotFoundError reports whether err is any not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
