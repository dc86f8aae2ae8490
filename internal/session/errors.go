package session

import (
	"errors"
	"fmt"
)

// ValidationError is a locally detected input problem. It is raised before
// any gateway call and surfaces to the user as a transient notice; the
// triggering action is aborted with no side effects.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DuplicateError reports that an item with the same canonical name already
// exists in the loaded list.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("item %q já existe na lista", e.Name)
}

// ErrEditInFlight guards a commit that is already saving the same field of
// the same item.
var ErrEditInFlight = errors.New("edit already saving")

// ErrNotFound reports that the targeted item is no longer in local state.
var ErrNotFound = errors.New("item not found")

// ErrNoPeriod reports an operation attempted before a period was loaded.
var ErrNoPeriod = errors.New("no period loaded")
