package store

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every not-found error returned by the store.
var ErrNotFound = errors.New("not found")

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

// Kind is the kind of entity that was missing (board, card, column).
func (e notFoundError) Kind() string { return e.kind }

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}
