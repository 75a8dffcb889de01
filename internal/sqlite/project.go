package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/rpggio/knitcount/internal/repository"
)

const projectColumns = `id, name, description, completed, type, rows_completed`

// ProjectStore implements repository.ProjectStore for SQLite
type ProjectStore struct {
	q querier
}

// NewProjectStore creates a new ProjectStore
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{q: db.DB}
}

// Insert stores a project and returns its id. A non-zero ID is kept.
func (s *ProjectStore) Insert(ctx context.Context, proj project.Project) (int64, error) {
	query := `
		INSERT INTO projects (id, name, description, completed, type, rows_completed)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	res, err := s.q.ExecContext(ctx, query,
		nullableID(proj.ID),
		proj.Name,
		proj.Description,
		proj.Completed,
		string(proj.Type),
		proj.RowsCompleted,
	)
	if err != nil {
		return 0, wrapErr("insert project", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get project id: %w", err)
	}
	return id, nil
}

// GetAll returns every project in creation order
func (s *ProjectStore) GetAll(ctx context.Context) ([]project.Project, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return scanProjects(rows)
}

// GetByID retrieves a project by ID
func (s *ProjectStore) GetByID(ctx context.Context, id int64) (*project.Project, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	proj, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &proj, nil
}

// Exists reports whether a project with the id is stored
func (s *ProjectStore) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.q, "projects", id)
}

// Count returns the number of stored projects
func (s *ProjectStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return n, nil
}

// DeleteByID removes a project row. Parts must be removed first.
func (s *ProjectStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res, err := s.q.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return 0, wrapErr("delete project", err)
	}
	return affected("delete project", res)
}

// DeleteAll removes every project. Parts must be removed first.
func (s *ProjectStore) DeleteAll(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return wrapErr("delete projects", err)
	}
	return nil
}

func scanProject(row interface{ Scan(...any) error }) (project.Project, error) {
	var (
		proj project.Project
		typ  string
	)
	err := row.Scan(
		&proj.ID,
		&proj.Name,
		&proj.Description,
		&proj.Completed,
		&typ,
		&proj.RowsCompleted,
	)
	proj.Type = project.CraftType(typ)
	return proj, err
}

func scanProjects(rows *sql.Rows) ([]project.Project, error) {
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// nullableID lets SQLite assign the id when none is given.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func exists(ctx context.Context, q querier, table string, id int64) (bool, error) {
	var found bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = ?)`, id).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check %s id: %w", table, err)
	}
	return found, nil
}
