// Package model defines the domain types shared by every layer:
// snippets, libraries, preferences, and the validation rules on them.
package model

import "time"

// Snippet represents a stored reusable text fragment with its metadata.
// JSON field names follow the store's camelCase convention.
//
// A few fields carry invariants the service layer enforces:
//   - UsageCount never decreases during a snippet's life (only Copy bumps it)
//   - LastUsedAt is nil until the snippet is copied for the first time
//   - UpdatedAt is always >= CreatedAt, and CreatedAt never changes after creation
type Snippet struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Shortcut    string     `json:"shortcut,omitempty"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags"`
	Language    string     `json:"language,omitempty"`
	IsFavorite  bool       `json:"isFavorite"`
	UsageCount  int        `json:"usageCount"`
	LastUsedAt  *time.Time `json:"lastUsedAt"`
	LibraryID   string     `json:"libraryId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy of the snippet.
// Tags is the only reference-typed field, so it gets its own backing array;
// LastUsedAt is copied by value into a fresh pointer.
func (s Snippet) Clone() Snippet {
	out := s
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	if s.LastUsedAt != nil {
		t := *s.LastUsedAt
		out.LastUsedAt = &t
	}
	return out
}
