package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/repository"
)

const partColumns = `id, name, description, owning_project_id, is_current`

// PartStore implements repository.PartStore for SQLite
type PartStore struct {
	q querier
}

// NewPartStore creates a new PartStore
func NewPartStore(db *DB) *PartStore {
	return &PartStore{q: db.DB}
}

// Insert stores a part and returns its id
func (s *PartStore) Insert(ctx context.Context, p part.Part) (int64, error) {
	query := `
		INSERT INTO parts (id, name, description, owning_project_id, is_current)
		VALUES (?, ?, ?, ?, ?)
	`

	res, err := s.q.ExecContext(ctx, query,
		nullableID(p.ID),
		p.Name,
		p.Description,
		p.OwningProjectID,
		p.IsCurrent,
	)
	if err != nil {
		return 0, wrapErr("insert part", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get part id: %w", err)
	}
	return id, nil
}

// GetAllForProject returns the parts of a project in creation order
func (s *PartStore) GetAllForProject(ctx context.Context, projectID int64) ([]part.Part, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+partColumns+` FROM parts WHERE owning_project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}
	defer rows.Close()

	var parts []part.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan part: %w", err)
		}
		parts = append(parts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating part rows: %w", err)
	}
	return parts, nil
}

// GetByID retrieves a part by ID
func (s *PartStore) GetByID(ctx context.Context, id int64) (*part.Part, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+partColumns+` FROM parts WHERE id = ?`, id)

	p, err := scanPart(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	return &p, nil
}

// Exists reports whether a part with the id is stored
func (s *PartStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.q, "parts", id)
}

// ClearCurrent unmarks the current part of a project
func (s *PartStore) ClearCurrent(ctx context.Context, projectID int64) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE parts SET is_current = 0 WHERE owning_project_id = ? AND is_current = 1`, projectID)
	if err != nil {
		return fmt.Errorf("failed to clear current part: %w", err)
	}
	return nil
}

// Update writes the name, description and current flag of a part
func (s *PartStore) Update(ctx context.Context, p part.Part) (int64, error) {
	query := `
		UPDATE parts
		SET name = ?, description = ?, is_current = ?
		WHERE id = ?
	`

	res, err := s.q.ExecContext(ctx, query, p.Name, p.Description, p.IsCurrent, p.ID)
	if err != nil {
		return 0, wrapErr("update part", err)
	}

	n, err := affected("update part", res)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, repository.ErrNotFound
	}
	return n, nil
}

// DeleteByID removes a part row. Its counters must be removed first.
func (s *PartStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id)
	if err != nil {
		return 0, wrapErr("delete part", err)
	}
	return affected("delete part", res)
}

// DeleteAll removes every part. Counters must be removed first.
func (s *PartStore) DeleteAll(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM parts`); err != nil {
		return wrapErr("delete parts", err)
	}
	return nil
}

func scanPart(row interface{ Scan(...any) error }) (part.Part, error) {
	var p part.Part
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.OwningProjectID,
		&p.IsCurrent,
	)
	return p, err
}
