package model

import (
	"testing"
	"time"

	"github.com/sakif/codespark/internal/apperror"
)

func validSnippet() Snippet {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return Snippet{
		ID:        "s1",
		Title:     "Hello",
		Body:      "echo hello",
		Tags:      []string{"shell", "greeting"},
		LibraryID: "personal",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func issueCodes(issues []apperror.ValidationIssue) []string {
	codes := make([]string, len(issues))
	for i, issue := range issues {
		codes[i] = issue.Code
	}
	return codes
}

func TestValidate_AcceptsWellFormedSnippet(t *testing.T) {
	if issues := Validate(validSnippet()); len(issues) != 0 {
		t.Errorf("Validate() = %v, want no issues", issues)
	}
}

func TestValidate_SingleViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snippet)
		want   string
	}{
		{"empty title", func(s *Snippet) { s.Title = "" }, apperror.IssueTitleEmpty},
		{"whitespace title", func(s *Snippet) { s.Title = "   " }, apperror.IssueTitleEmpty},
		{"empty body", func(s *Snippet) { s.Body = "\n\t" }, apperror.IssueBodyEmpty},
		{"duplicate tags", func(s *Snippet) { s.Tags = []string{"go", "cli", "go"} }, apperror.IssueTagsDuplicated},
		{"zero createdAt", func(s *Snippet) { s.CreatedAt = time.Time{} }, apperror.IssueInvalidTimestamp},
		{"zero updatedAt", func(s *Snippet) { s.UpdatedAt = time.Time{} }, apperror.IssueInvalidTimestamp},
		{"updatedAt before createdAt", func(s *Snippet) { s.UpdatedAt = s.CreatedAt.Add(-time.Second) }, apperror.IssueUpdatedBeforeCreat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSnippet()
			tt.mutate(&s)

			issues := Validate(s)
			if len(issues) != 1 {
				t.Fatalf("got %d issues %v, want exactly 1", len(issues), issueCodes(issues))
			}
			if issues[0].Code != tt.want {
				t.Errorf("Code = %s, want %s", issues[0].Code, tt.want)
			}
		})
	}
}

func TestValidate_TagComparisonIsExact(t *testing.T) {
	s := validSnippet()
	// Different case and surrounding whitespace are distinct tags here;
	// normalization is a search concern, not a storage rule.
	s.Tags = []string{"Go", "go", " go"}

	if issues := Validate(s); len(issues) != 0 {
		t.Errorf("Validate() = %v, want no issues for case-distinct tags", issues)
	}
}

func TestValidate_EnumeratesEveryViolationAtOnce(t *testing.T) {
	s := validSnippet()
	s.Title = "  "
	s.Body = ""
	s.Tags = []string{"a", "a", "b", "b"}
	s.UpdatedAt = s.CreatedAt.Add(-time.Hour)

	issues := Validate(s)
	if len(issues) != 4 {
		t.Fatalf("got %d issues %v, want 4", len(issues), issueCodes(issues))
	}

	found := map[string]bool{}
	for _, issue := range issues {
		found[issue.Code] = true
	}
	for _, want := range []string{
		apperror.IssueTitleEmpty,
		apperror.IssueBodyEmpty,
		apperror.IssueTagsDuplicated,
		apperror.IssueUpdatedBeforeCreat,
	} {
		if !found[want] {
			t.Errorf("missing issue %s in %v", want, issueCodes(issues))
		}
	}
}

func TestValidate_DuplicateTagsReportedOnceInFirstSeenOrder(t *testing.T) {
	s := validSnippet()
	s.Tags = []string{"b", "a", "b", "a", "b"}

	issues := Validate(s)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	want := "tags contain duplicates: b, a"
	if issues[0].Message != want {
		t.Errorf("Message = %q, want %q", issues[0].Message, want)
	}
}

func TestClone_IsADeepCopy(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	original := validSnippet()
	original.LastUsedAt = &now

	clone := original.Clone()
	clone.Tags[0] = "mutated"
	*clone.LastUsedAt = now.Add(time.Hour)

	if original.Tags[0] != "shell" {
		t.Errorf("Tags shared between clone and original: %v", original.Tags)
	}
	if !original.LastUsedAt.Equal(now) {
		t.Errorf("LastUsedAt shared between clone and original: %v", original.LastUsedAt)
	}
}
