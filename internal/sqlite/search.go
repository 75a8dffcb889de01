package sqlite

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/rpggio/knitcount/internal/domain/project"
)

// Search performs a full-text search over project names and descriptions.
// Every word of query must prefix-match.
func (s *ProjectStore) Search(ctx context.Context, query string, limit int) ([]project.Project, error) {
	match := ftsQuery(query)
	if match == "" {
		return []project.Project{}, nil
	}

	sqlQuery := `
		SELECT p.id, p.name, p.description, p.completed, p.type, p.rows_completed
		FROM projects_fts
		JOIN projects p ON p.id = projects_fts.rowid
		WHERE projects_fts MATCH ?
		ORDER BY rank
	`
	args := []any{match}
	if limit > 0 {
		sqlQuery += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search projects: %w", err)
	}
	return scanProjects(rows)
}

// ftsQuery turns free text into an FTS5 expression of quoted prefix terms.
// Only letters and digits survive, so user input never reaches the query
// syntax.
func ftsQuery(query string) string {
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(words))
	for _, w := range words {
		terms = append(terms, `"`+w+`"*`)
	}
	return strings.Join(terms, " ")
}
