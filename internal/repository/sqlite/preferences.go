package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/codespark/internal/model"
)

// GetPreferences returns the saved preferences, or (nil, nil) if the user
// has never saved any. Callers fall back to model.DefaultPreferences.
func (db *DB) GetPreferences(ctx context.Context) (*model.UserPreferences, error) {
	var prefs model.UserPreferences
	err := db.conn.QueryRowContext(ctx,
		`SELECT default_library_id, theme, global_shortcut, command_palette_shortcut, data_directory
		 FROM preferences
		 WHERE id = 1`,
	).Scan(
		&prefs.DefaultLibraryID,
		&prefs.Theme,
		&prefs.GlobalShortcut,
		&prefs.CommandPaletteShortcut,
		&prefs.DataDirectory,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite: getting preferences: %w", err)
	}

	return &prefs, nil
}

// SavePreferences replaces the single preferences row.
func (db *DB) SavePreferences(ctx context.Context, prefs model.UserPreferences) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO preferences (id, default_library_id, theme, global_shortcut, command_palette_shortcut, data_directory)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			default_library_id = excluded.default_library_id,
			theme = excluded.theme,
			global_shortcut = excluded.global_shortcut,
			command_palette_shortcut = excluded.command_palette_shortcut,
			data_directory = excluded.data_directory`,
		prefs.DefaultLibraryID,
		prefs.Theme,
		prefs.GlobalShortcut,
		prefs.CommandPaletteShortcut,
		prefs.DataDirectory,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving preferences: %w", err)
	}

	return nil
}
