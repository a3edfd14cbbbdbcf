package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sakif/codespark/internal/apperror"
	"github.com/sakif/codespark/internal/model"
	"github.com/sakif/codespark/internal/repository"
)

// Compile-time interface checks: catch a missing method at build time,
// not when the store is first passed to a service.
var (
	_ repository.SnippetRepository     = (*DB)(nil)
	_ repository.LibraryRepository     = (*DB)(nil)
	_ repository.PreferencesRepository = (*DB)(nil)
)

const snippetColumns = `id, title, body, shortcut, description, tags, language,
	is_favorite, usage_count, last_used_at, library_id, created_at, updated_at`

// GetAll returns every snippet in the store.
// The search service re-reads this on every call — ordering here is just a
// stable default, the ranking layer imposes its own.
func (db *DB) GetAll(ctx context.Context) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	var snippets []model.Snippet
	for rows.Next() {
		snippet, err := scanSnippet(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, snippet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	return snippets, nil
}

// GetByID returns a single snippet, or apperror.NotFound if it doesn't exist.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+snippetColumns+` FROM snippets WHERE id = ?`, id)

	snippet, err := scanSnippet(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	return &snippet, nil
}

// Save upserts a snippet by id. The service layer owns timestamps and
// validation; this method writes exactly what it is handed.
func (db *DB) Save(ctx context.Context, snippet model.Snippet) error {
	tags, err := json.Marshal(snippet.Tags)
	if err != nil {
		return fmt.Errorf("sqlite: encoding tags for snippet %s: %w", snippet.ID, err)
	}

	var lastUsedAt sql.NullTime
	if snippet.LastUsedAt != nil {
		lastUsedAt = sql.NullTime{Time: *snippet.LastUsedAt, Valid: true}
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snippets (`+snippetColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			shortcut = excluded.shortcut,
			description = excluded.description,
			tags = excluded.tags,
			language = excluded.language,
			is_favorite = excluded.is_favorite,
			usage_count = excluded.usage_count,
			last_used_at = excluded.last_used_at,
			library_id = excluded.library_id,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		snippet.ID,
		snippet.Title,
		snippet.Body,
		snippet.Shortcut,
		snippet.Description,
		string(tags),
		snippet.Language,
		snippet.IsFavorite,
		snippet.UsageCount,
		lastUsedAt,
		snippet.LibraryID,
		snippet.CreatedAt,
		snippet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving snippet %s: %w", snippet.ID, err)
	}

	return nil
}

// Delete removes a snippet by id. Deleting an absent id is a no-op —
// the port contract leaves "was it there" to the use-case layer.
func (db *DB) Delete(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}
	return nil
}

// scanSnippet reads one row into a model.Snippet. Works for both sql.Row
// and sql.Rows by taking the Scan function itself.
func scanSnippet(scan func(dest ...any) error) (model.Snippet, error) {
	var (
		snippet    model.Snippet
		tags       string
		lastUsedAt sql.NullTime
	)

	err := scan(
		&snippet.ID,
		&snippet.Title,
		&snippet.Body,
		&snippet.Shortcut,
		&snippet.Description,
		&tags,
		&snippet.Language,
		&snippet.IsFavorite,
		&snippet.UsageCount,
		&lastUsedAt,
		&snippet.LibraryID,
		&snippet.CreatedAt,
		&snippet.UpdatedAt,
	)
	if err != nil {
		return model.Snippet{}, err
	}

	if err := json.Unmarshal([]byte(tags), &snippet.Tags); err != nil {
		return model.Snippet{}, fmt.Errorf("decoding tags: %w", err)
	}
	if lastUsedAt.Valid {
		t := lastUsedAt.Time
		snippet.LastUsedAt = &t
	}

	return snippet, nil
}
