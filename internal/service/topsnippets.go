package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sakif/codespark/internal/repository"
)

// TopSnippetsInput are the parameters for one suggestions call.
// Same filters as search, minus the query.
type TopSnippetsInput struct {
	LibraryIDs []string
	Tags       []string
	Limit      int
}

// TopSnippetsService surfaces the snippets worth showing before the user
// has typed anything: favorites, frequently used, recently used.
//
// It exists as its own use-case so the picker can render a "Top Snippets"
// view directly, and so it can be plugged into SearchService as the
// empty-query strategy — both paths rank identically by construction.
type TopSnippetsService struct {
	repo repository.SnippetRepository
	now  func() time.Time
}

// NewTopSnippetsService creates a TopSnippetsService. A nil clock means time.Now.
func NewTopSnippetsService(repo repository.SnippetRepository, now func() time.Time) *TopSnippetsService {
	if now == nil {
		now = time.Now
	}
	return &TopSnippetsService{repo: repo, now: now}
}

// Execute ranks the filtered set by favorite, usage, and recency.
func (s *TopSnippetsService) Execute(ctx context.Context, input TopSnippetsInput) ([]SearchResult, error) {
	snippets, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading top snippets: %w", err)
	}

	filtered := filterSnippets(snippets, input.LibraryIDs, input.Tags)
	return rankDefaults(filtered, input.Limit, s.now()), nil
}

// Strategy adapts the service into a SearchService empty-query strategy.
func (s *TopSnippetsService) Strategy() EmptyQueryStrategy {
	return func(ctx context.Context, input SearchInput) ([]SearchResult, error) {
		return s.Execute(ctx, TopSnippetsInput{
			LibraryIDs: input.LibraryIDs,
			Tags:       input.Tags,
			Limit:      input.Limit,
		})
	}
}
