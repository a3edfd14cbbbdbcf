// Package service contains the business logic layer: the search/ranking
// engine and the use-cases that enforce domain rules around snippet
// mutation. Services receive their collaborators (repositories, clipboard,
// clock, id generator) through constructors and hold no other state, so
// every operation reads a fresh snapshot from the store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sakif/codespark/internal/model"
	"github.com/sakif/codespark/internal/repository"
)

// Score weights. All additive; a snippet scoring zero is dropped from
// search results entirely.
const (
	scoreShortcutExact     = 100.0 // query equals the shortcut, case-insensitive
	scoreTitlePrefix       = 60.0  // title starts with the query
	scoreTitlePartial      = 30.0  // title contains the query (prefix wins, never both)
	scoreTagMatch          = 20.0  // any tag contains the query
	scoreBodyMatch         = 10.0  // body contains the query
	scoreFavoriteBonus     = 15.0
	scoreUsageNormalized   = 10.0 // ceiling of the usage bonus
	scoreRecencyNormalized = 15.0 // ceiling of the recency bonus
)

// recencyWindow is how far back a copy still earns a recency bonus.
// The bonus decays linearly from full to zero across this window.
const recencyWindow = 30 * 24 * time.Hour

// SearchInput are the parameters for one search call.
// LibraryIDs and Tags are optional filters; Tags must ALL be present on a
// snippet for it to pass. A non-positive Limit means unlimited.
type SearchInput struct {
	Query      string
	LibraryIDs []string
	Tags       []string
	Limit      int
}

// SearchResult pairs a snippet with the score it earned.
type SearchResult struct {
	Snippet model.Snippet `json:"snippet"`
	Score   float64       `json:"score"`
}

// EmptyQueryStrategy produces results when the query is blank.
// SearchService has a built-in default; callers may inject their own
// (TopSnippetsService.Strategy produces an identical one).
type EmptyQueryStrategy func(ctx context.Context, input SearchInput) ([]SearchResult, error)

// SearchService scores and orders snippets against a free-text query.
//
// It is a pure read path: given a fixed clock, the same store contents and
// input always produce the same output, and nothing is written.
type SearchService struct {
	repo       repository.SnippetRepository
	logger     *slog.Logger
	now        func() time.Time
	emptyQuery EmptyQueryStrategy
}

// SearchOption configures optional SearchService collaborators.
type SearchOption func(*SearchService)

// WithSearchClock injects the clock. Tests pin it for deterministic
// recency scoring; production uses time.Now.
func WithSearchClock(now func() time.Time) SearchOption {
	return func(s *SearchService) { s.now = now }
}

// WithEmptyQueryStrategy swaps out the blank-query behaviour.
func WithEmptyQueryStrategy(strategy EmptyQueryStrategy) SearchOption {
	return func(s *SearchService) { s.emptyQuery = strategy }
}

// NewSearchService creates a SearchService.
func NewSearchService(repo repository.SnippetRepository, logger *slog.Logger, opts ...SearchOption) *SearchService {
	s := &SearchService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs the full pipeline: fetch, filter, score, sort, truncate.
//
// A blank (after trimming) query never text-matches; it delegates to the
// empty-query strategy so the picker's "suggestions" view and search share
// one ranking law.
func (s *SearchService) Search(ctx context.Context, input SearchInput) ([]SearchResult, error) {
	snippets, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to load snippets for search", slog.String("error", err.Error()))
		return nil, fmt.Errorf("searching snippets: %w", err)
	}

	filtered := filterSnippets(snippets, input.LibraryIDs, input.Tags)

	query := strings.ToLower(strings.TrimSpace(input.Query))
	if query == "" {
		if s.emptyQuery != nil {
			return s.emptyQuery(ctx, input)
		}
		return rankDefaults(filtered, input.Limit, s.now()), nil
	}

	usageBonus := usageNormalizer(filtered)
	recencyBonus := recencyNormalizer(filtered, s.now())

	results := make([]SearchResult, 0, len(filtered))
	for _, snippet := range filtered {
		score := scoreSnippet(snippet, query) +
			usageBonus(snippet.UsageCount) +
			recencyBonus(snippet.LastUsedAt)
		if score <= 0 {
			continue
		}
		results = append(results, SearchResult{Snippet: snippet, Score: score})
	}

	sortResults(results)
	return truncate(results, input.Limit), nil
}

// scoreSnippet computes the text-match portion of the score plus the
// favorite bonus. The query must already be trimmed and lowercased.
func scoreSnippet(snippet model.Snippet, query string) float64 {
	title := strings.ToLower(snippet.Title)
	score := 0.0

	if snippet.Shortcut != "" && strings.ToLower(snippet.Shortcut) == query {
		score += scoreShortcutExact
	}

	if strings.HasPrefix(title, query) {
		score += scoreTitlePrefix
	} else if strings.Contains(title, query) {
		score += scoreTitlePartial
	}

	for _, tag := range snippet.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			score += scoreTagMatch
			break
		}
	}

	if strings.Contains(strings.ToLower(snippet.Body), query) {
		score += scoreBodyMatch
	}

	if snippet.IsFavorite {
		score += scoreFavoriteBonus
	}

	return score
}

// filterSnippets applies the library and tag filters.
//
// Tag filtering is ALL-match: after trimming, lowercasing, and dropping
// empty entries, every remaining filter tag must be present on the snippet
// (case-insensitive exact membership, not substring).
func filterSnippets(snippets []model.Snippet, libraryIDs, tags []string) []model.Snippet {
	result := snippets

	if len(libraryIDs) > 0 {
		libSet := make(map[string]bool, len(libraryIDs))
		for _, id := range libraryIDs {
			libSet[id] = true
		}
		kept := make([]model.Snippet, 0, len(result))
		for _, snippet := range result {
			if libSet[snippet.LibraryID] {
				kept = append(kept, snippet)
			}
		}
		result = kept
	}

	var wanted []string
	for _, tag := range tags {
		if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
			wanted = append(wanted, t)
		}
	}
	if len(wanted) > 0 {
		kept := make([]model.Snippet, 0, len(result))
		for _, snippet := range result {
			have := make(map[string]bool, len(snippet.Tags))
			for _, tag := range snippet.Tags {
				have[strings.ToLower(tag)] = true
			}
			all := true
			for _, tag := range wanted {
				if !have[tag] {
					all = false
					break
				}
			}
			if all {
				kept = append(kept, snippet)
			}
		}
		result = kept
	}

	return result
}

// rankDefaults is the built-in empty-query ranking: favorite bonus plus the
// usage and recency bonuses, normalized over the filtered set itself.
// Zero scores are kept here — an empty query surfaces everything.
func rankDefaults(filtered []model.Snippet, limit int, now time.Time) []SearchResult {
	usageBonus := usageNormalizer(filtered)
	recencyBonus := recencyNormalizer(filtered, now)

	results := make([]SearchResult, 0, len(filtered))
	for _, snippet := range filtered {
		score := usageBonus(snippet.UsageCount) + recencyBonus(snippet.LastUsedAt)
		if snippet.IsFavorite {
			score += scoreFavoriteBonus
		}
		results = append(results, SearchResult{Snippet: snippet, Score: score})
	}

	sortResults(results)
	return truncate(results, limit)
}

// usageNormalizer scales usage counts against the busiest snippet in the
// filtered set, capping the bonus at scoreUsageNormalized. With no usage
// anywhere the bonus is zero for everyone.
func usageNormalizer(snippets []model.Snippet) func(int) float64 {
	maxUsage := 0
	for _, snippet := range snippets {
		if snippet.UsageCount > maxUsage {
			maxUsage = snippet.UsageCount
		}
	}
	if maxUsage <= 0 {
		return func(int) float64 { return 0 }
	}
	return func(usageCount int) float64 {
		return float64(usageCount) / float64(maxUsage) * scoreUsageNormalized
	}
}

// recencyNormalizer awards up to scoreRecencyNormalized for recent use,
// decaying linearly to zero over recencyWindow. The bonus only exists when
// at least one snippet in the filtered set has been used — otherwise the
// signal carries no information and stays off for everyone.
func recencyNormalizer(snippets []model.Snippet, now time.Time) func(*time.Time) float64 {
	hasData := false
	for _, snippet := range snippets {
		if snippet.LastUsedAt != nil {
			hasData = true
			break
		}
	}
	if !hasData {
		return func(*time.Time) float64 { return 0 }
	}

	return func(lastUsedAt *time.Time) float64 {
		if lastUsedAt == nil {
			return 0
		}
		diff := now.Sub(*lastUsedAt)
		if diff <= 0 {
			return scoreRecencyNormalized
		}
		if diff >= recencyWindow {
			return 0
		}
		return float64(recencyWindow-diff) / float64(recencyWindow) * scoreRecencyNormalized
	}
}

// sortResults orders by score descending, then favorite-first, then usage
// count, then most recent update, then title. The title comparison is
// locale-aware via x/text collation rather than raw byte order.
func sortResults(results []SearchResult) {
	coll := collate.New(language.Und)
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Snippet.IsFavorite != b.Snippet.IsFavorite {
			return a.Snippet.IsFavorite
		}
		if a.Snippet.UsageCount != b.Snippet.UsageCount {
			return a.Snippet.UsageCount > b.Snippet.UsageCount
		}
		if !a.Snippet.UpdatedAt.Equal(b.Snippet.UpdatedAt) {
			return a.Snippet.UpdatedAt.After(b.Snippet.UpdatedAt)
		}
		return coll.CompareString(a.Snippet.Title, b.Snippet.Title) < 0
	})
}

func truncate(results []SearchResult, limit int) []SearchResult {
	if limit > 0 && limit < len(results) {
		return results[:limit]
	}
	return results
}
