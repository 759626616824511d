package cli

import (
	"errors"
	"fmt"

	"valentine/internal/store"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func (e notFoundError) Is(target error) bool { return target == store.ErrNotFound }

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// isNotFound reports whether err is a missing board, card, column or field.
func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
