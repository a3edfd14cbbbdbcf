package model

import "runtime"

// UserPreferences is the persisted per-user settings blob.
// It is loaded once at startup through the preferences gateway and only
// changes via explicit save calls — there is no implicit sync.
//
// DefaultLibraryID of "" means "all libraries" (no default selected).
type UserPreferences struct {
	DefaultLibraryID       string `json:"defaultLibraryId,omitempty"`
	Theme                  string `json:"theme"`
	GlobalShortcut         string `json:"globalShortcut,omitempty"`
	CommandPaletteShortcut string `json:"commandPaletteShortcut"`
	DataDirectory          string `json:"dataDirectory,omitempty"`
}

// DefaultPreferences returns the preferences used before the user has
// saved any. The command palette shortcut follows platform convention.
func DefaultPreferences() UserPreferences {
	shortcut := "Ctrl+Enter"
	if runtime.GOOS == "darwin" {
		shortcut = "Cmd+Enter"
	}
	return UserPreferences{
		Theme:                  "system",
		CommandPaletteShortcut: shortcut,
	}
}
