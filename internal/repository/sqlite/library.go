package sqlite

import (
	"context"
	"fmt"

	"github.com/sakif/codespark/internal/model"
)

// GetLibraries returns every library, defaults included.
func (db *DB) GetLibraries(ctx context.Context) ([]model.SnippetLibrary, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, category, is_read_only
		 FROM libraries
		 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing libraries: %w", err)
	}
	defer rows.Close()

	var libraries []model.SnippetLibrary
	for rows.Next() {
		var lib model.SnippetLibrary
		var category string
		if err := rows.Scan(&lib.ID, &lib.Name, &lib.Description, &category, &lib.IsReadOnly); err != nil {
			return nil, fmt.Errorf("sqlite: scanning library row: %w", err)
		}
		lib.Category = model.LibraryCategory(category)
		libraries = append(libraries, lib)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating libraries: %w", err)
	}

	return libraries, nil
}
