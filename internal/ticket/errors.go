package ticket

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, e.Fields[key]))
	}
	return "invalid ticket: " + strings.Join(parts, "; ")
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("ticket %q not found", e.ID)
}

// PersistenceError reports a failed read or write of the stored collection.
// The collection is left as it was before the operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ticket %s: persistence failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// DecodeError is returned by Decode when the stored bytes are not a valid
// ticket collection.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode tickets: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
