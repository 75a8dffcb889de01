package tracker

import (
	"errors"
	"fmt"

	"github.com/rpggio/knitcount/internal/repository"
)

var (
	// ErrBlankName indicates an empty or whitespace-only name.
	ErrBlankName = errors.New("blank name")
	// ErrAlreadyExists indicates a caller-supplied id or singleton counter is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDoesNotExist indicates a missing or non-positive id or owner id.
	ErrDoesNotExist = errors.New("does not exist")
	// ErrNoChangeDetected indicates an update identical to the stored row.
	ErrNoChangeDetected = errors.New("no change detected")
	// ErrPersistence indicates the store failed unexpectedly.
	ErrPersistence = errors.New("persistence failure")
	// ErrInvalidInput indicates a field failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotUserDeletable indicates an attempt to delete a Global or Stitch counter.
	ErrNotUserDeletable = errors.New("not user deletable")
	// ErrConflict indicates the row was changed by another session.
	ErrConflict = errors.New("conflict")
)

// BlankNamePlaceholder replaces a blank name in failure messages.
const BlankNamePlaceholder = "Blank name"

const (
	msgCounterAlreadyExists  = "counter id is not unique"
	msgCounterDoesNotExist   = "no counter with the given id"
	msgCounterIDInvalid      = "counter id must be positive"
	msgCounterNameBlank      = "counter name cannot be blank"
	msgCounterNotDeletable   = "global and stitch counters cannot be deleted"
	msgCounterPartIDInvalid  = "counter must belong to a part, part id must be positive"
	msgCounterPartMissing    = "counter must belong to a part, part does not exist"
	msgCounterSingletonTaken = "part already has a %s counter"
	msgCounterStale          = "counter changed since it was read (version %d, stored %d)"
	msgCounterUnchanged      = "counter is identical to the stored version"

	msgPartAlreadyExists  = "part id is not unique"
	msgPartDoesNotExist   = "no part with the given id"
	msgPartIDInvalid      = "part id must be positive"
	msgPartNameBlank      = "part name cannot be blank"
	msgPartProjectInvalid = "part must belong to a project, project id must be positive"
	msgPartProjectMissing = "part must belong to a project, project does not exist"

	msgProjectAlreadyExists = "project id is not unique"
	msgProjectDoesNotExist  = "no project with the given id"
	msgProjectIDInvalid     = "project id must be positive"
	msgProjectNameBlank     = "project name cannot be blank"
)

func kindErr(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

var kinds = []error{
	ErrBlankName,
	ErrAlreadyExists,
	ErrDoesNotExist,
	ErrNoChangeDetected,
	ErrPersistence,
	ErrInvalidInput,
	ErrNotUserDeletable,
	ErrConflict,
}

// Kind returns the taxonomy sentinel err wraps, or nil.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// storeErr classifies an error returned by a store. Errors that already
// carry a kind pass through unchanged.
func storeErr(action string, err error) error {
	if Kind(err) != nil {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %s: %w", ErrConflict, action, err)
	case errors.Is(err, repository.ErrUniqueViolation):
		return fmt.Errorf("%w: %s: %w", ErrAlreadyExists, action, err)
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return fmt.Errorf("%w: %s: %w: the parent record is missing or child records still reference it",
			ErrPersistence, action, repository.ErrForeignKeyViolation)
	default:
		return fmt.Errorf("%w: %s: %w", ErrPersistence, action, err)
	}
}
