package model

import (
	"fmt"
	"strings"

	"github.com/sakif/codespark/internal/apperror"
)

// Validate checks the domain invariants a snippet must satisfy before it
// may be persisted, and returns EVERY violated rule — callers get the full
// list at once instead of fixing violations one at a time.
//
// Rules:
//   - title, trimmed, must be non-empty
//   - body, trimmed, must be non-empty
//   - tags must not contain duplicates (exact string equality)
//   - createdAt/updatedAt must be set, with updatedAt >= createdAt
func Validate(s Snippet) []apperror.ValidationIssue {
	var issues []apperror.ValidationIssue

	if strings.TrimSpace(s.Title) == "" {
		issues = append(issues, apperror.ValidationIssue{
			Code:    apperror.IssueTitleEmpty,
			Field:   "title",
			Message: "title must not be empty",
		})
	}

	if strings.TrimSpace(s.Body) == "" {
		issues = append(issues, apperror.ValidationIssue{
			Code:    apperror.IssueBodyEmpty,
			Field:   "body",
			Message: "body must not be empty",
		})
	}

	if dups := duplicateTags(s.Tags); len(dups) > 0 {
		issues = append(issues, apperror.ValidationIssue{
			Code:    apperror.IssueTagsDuplicated,
			Field:   "tags",
			Message: fmt.Sprintf("tags contain duplicates: %s", strings.Join(dups, ", ")),
		})
	}

	switch {
	case s.CreatedAt.IsZero() || s.UpdatedAt.IsZero():
		issues = append(issues, apperror.ValidationIssue{
			Code:    apperror.IssueInvalidTimestamp,
			Field:   "timestamps",
			Message: "createdAt and updatedAt must be valid timestamps",
		})
	case s.UpdatedAt.Before(s.CreatedAt):
		issues = append(issues, apperror.ValidationIssue{
			Code:    apperror.IssueUpdatedBeforeCreat,
			Field:   "timestamps",
			Message: "updatedAt must be greater than or equal to createdAt",
		})
	}

	return issues
}

// duplicateTags returns each tag that appears more than once, in first-seen order.
func duplicateTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	reported := make(map[string]bool)
	var dups []string
	for _, tag := range tags {
		if seen[tag] && !reported[tag] {
			dups = append(dups, tag)
			reported[tag] = true
		}
		seen[tag] = true
	}
	return dups
}
