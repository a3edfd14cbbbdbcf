package model

// LibraryCategory classifies who a library is shared with.
type LibraryCategory string

const (
	CategoryPersonal LibraryCategory = "PERSONAL"
	CategoryTeam     LibraryCategory = "TEAM"
	CategoryProject  LibraryCategory = "PROJECT"
)

// SnippetLibrary is a named collection snippets belong to.
//
// IsReadOnly blocks every mutation targeting snippets in the library:
// creating into it, editing snippets inside it, moving snippets into it,
// and deleting from it. Copy is not a mutation in this sense — copying a
// snippet from a read-only library still updates its usage bookkeeping.
type SnippetLibrary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Category    LibraryCategory `json:"category"`
	IsReadOnly  bool            `json:"isReadOnly"`
}

// DefaultLibraries returns the libraries seeded into a fresh store:
// a writable personal library and a read-only team library.
func DefaultLibraries() []SnippetLibrary {
	return []SnippetLibrary{
		{
			ID:          "personal",
			Name:        "Personal",
			Description: "Your personal snippet library",
			Category:    CategoryPersonal,
			IsReadOnly:  false,
		},
		{
			ID:          "team",
			Name:        "Team",
			Description: "Shared team library",
			Category:    CategoryTeam,
			IsReadOnly:  true,
		},
	}
}
