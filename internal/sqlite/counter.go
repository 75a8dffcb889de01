package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/repository"
)

const counterColumns = `id, name, value, increment_by, type, is_globally_linked,
	reset_row, max_resets, num_resets, owning_part_id, version`

// CounterStore implements repository.CounterStore for SQLite
type CounterStore struct {
	q querier
}

// NewCounterStore creates a new CounterStore
func NewCounterStore(db *DB) *CounterStore {
	return &CounterStore{q: db.DB}
}

// Insert stores a counter and returns its id. The stored version starts at 0.
func (s *CounterStore) Insert(ctx context.Context, c counter.Counter) (int64, error) {
	query := `
		INSERT INTO counters (id, name, value, increment_by, type, is_globally_linked,
			reset_row, max_resets, num_resets, owning_part_id, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
	`

	res, err := s.q.ExecContext(ctx, query,
		nullableID(c.ID),
		c.Name,
		c.Value,
		c.IncrementBy,
		string(c.Type),
		c.IsGloballyLinked,
		c.ResetRow,
		c.MaxResets,
		c.NumResets,
		c.OwningPartID,
	)
	if err != nil {
		return 0, wrapErr("insert counter", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get counter id: %w", err)
	}
	return id, nil
}

// GetAllForPart returns the counters of a part in creation order
func (s *CounterStore) GetAllForPart(ctx context.Context, partID int64) ([]counter.Counter, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+counterColumns+` FROM counters WHERE owning_part_id = ? ORDER BY id`, partID)
	if err != nil {
		return nil, fmt.Errorf("failed to list counters: %w", err)
	}
	return scanCounters(rows)
}

// GetByID retrieves a counter by ID
func (s *CounterStore) GetByID(ctx context.Context, id int64) (*counter.Counter, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+counterColumns+` FROM counters WHERE id = ?`, id)

	c, err := scanCounter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get counter: %w", err)
	}
	return &c, nil
}

// Exists reports whether a counter with the id is stored
func (s *CounterStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.q, "counters", id)
}

// FindByType returns the counters of one type owned by a part
func (s *CounterStore) FindByType(ctx context.Context, partID int64, typ counter.CounterType) ([]counter.Counter, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+counterColumns+` FROM counters WHERE owning_part_id = ? AND type = ? ORDER BY id`,
		partID, string(typ))
	if err != nil {
		return nil, fmt.Errorf("failed to find counters by type: %w", err)
	}
	return scanCounters(rows)
}

// Update writes the editable fields of a counter when the stored version
// matches c.Version, and bumps the version.
func (s *CounterStore) Update(ctx context.Context, c counter.Counter) (int64, error) {
	query := `
		UPDATE counters
		SET name = ?, value = ?, increment_by = ?, is_globally_linked = ?,
			reset_row = ?, max_resets = ?, num_resets = ?, version = version + 1
		WHERE id = ? AND version = ?
	`

	res, err := s.q.ExecContext(ctx, query,
		c.Name,
		c.Value,
		c.IncrementBy,
		c.IsGloballyLinked,
		c.ResetRow,
		c.MaxResets,
		c.NumResets,
		c.ID,
		c.Version,
	)
	if err != nil {
		return 0, wrapErr("update counter", err)
	}

	n, err := affected("update counter", res)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return n, nil
	}

	found, err := s.Exists(ctx, c.ID)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, repository.ErrNotFound
	}
	return 0, fmt.Errorf("counter %d is no longer at version %d: %w", c.ID, c.Version, repository.ErrConflict)
}

// DeleteByID removes a counter
func (s *CounterStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM counters WHERE id = ?`, id)
	if err != nil {
		return 0, wrapErr("delete counter", err)
	}
	return affected("delete counter", res)
}

// DeleteAll removes every counter
func (s *CounterStore) DeleteAll(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM counters`); err != nil {
		return wrapErr("delete counters", err)
	}
	return nil
}

func scanCounter(row interface{ Scan(...any) error }) (counter.Counter, error) {
	var (
		c   counter.Counter
		typ string
	)
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Value,
		&c.IncrementBy,
		&typ,
		&c.IsGloballyLinked,
		&c.ResetRow,
		&c.MaxResets,
		&c.NumResets,
		&c.OwningPartID,
		&c.Version,
	)
	c.Type = counter.CounterType(typ)
	return c, err
}

func scanCounters(rows *sql.Rows) ([]counter.Counter, error) {
	defer rows.Close()

	var counters []counter.Counter
	for rows.Next() {
		c, err := scanCounter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan counter: %w", err)
		}
		counters = append(counters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counter rows: %w", err)
	}
	return counters, nil
}
