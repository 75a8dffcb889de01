package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/knitcount/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// wrapErr attaches the matching repository sentinel to constraint failures.
func wrapErr(action string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return fmt.Errorf("failed to %s: %w: %w", action, repository.ErrForeignKeyViolation, err)
	case isUniqueViolation(err):
		return fmt.Errorf("failed to %s: %w: %w", action, repository.ErrUniqueViolation, err)
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

func affected(action string, res interface{ RowsAffected() (int64, error) }) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected for %s: %w", action, err)
	}
	return n, nil
}
