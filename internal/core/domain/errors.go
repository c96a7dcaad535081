package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Adapters translate a kind, not a message, into a status code
// or tool error.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrMalformedDocument = errors.New("malformed document")
	ErrUpstream          = errors.New("upstream failure")
	ErrResponseFormat    = errors.New("unrecognized engine response")
	ErrTemporary         = errors.New("temporary failure")
)

// kinds is ordered by precedence: a caller fault wins over an outage, and a
// temporary outage wins over a hard upstream failure.
var kinds = []error{
	ErrInvalidInput,
	ErrMalformedDocument,
	ErrNotFound,
	ErrTemporary,
	ErrUpstream,
	ErrResponseFormat,
}

// WrapError tags err with kind and the operation that failed.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// KindOf returns the highest-precedence kind in err's chain, or nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
