package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/codespark/internal/model"
	"github.com/sakif/codespark/internal/repository/memory"
)

var searchBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// newSnippet builds a valid snippet with sensible defaults; mutators
// override individual fields.
func newSnippet(id, title, body string, mutate ...func(*model.Snippet)) model.Snippet {
	s := model.Snippet{
		ID:        id,
		Title:     title,
		Body:      body,
		LibraryID: "personal",
		CreatedAt: searchBase,
		UpdatedAt: searchBase,
	}
	for _, m := range mutate {
		if m != nil {
			m(&s)
		}
	}
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newSearchService(t *testing.T, now time.Time, snippets ...model.Snippet) *SearchService {
	t.Helper()
	store := memory.New()
	store.Seed(snippets...)
	return NewSearchService(store, testLogger(), WithSearchClock(func() time.Time { return now }))
}

func resultIDs(results []SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.Snippet.ID
	}
	return ids
}

func assertOrder(t *testing.T, results []SearchResult, want ...string) {
	t.Helper()
	got := resultIDs(results)
	if len(got) != len(want) {
		t.Fatalf("got %d results %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("result order = %v, want %v", got, want)
		}
	}
}

func TestSearch_ShortcutOutranksPrefixOutranksSubstring(t *testing.T) {
	svc := newSearchService(t, searchBase,
		newSnippet("shortcut-match", "Deploy command", "deploy with script", func(s *model.Snippet) {
			s.Shortcut = "deploy"
			s.UsageCount = 5
		}),
		newSnippet("favorite-match", "Deploy favorite", "deploy favorite", func(s *model.Snippet) {
			s.IsFavorite = true
		}),
		newSnippet("title-match", "Run Deploy via CLI", "cli deploy", nil),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: "deploy"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	assertOrder(t, results, "shortcut-match", "favorite-match", "title-match")

	if results[0].Score <= results[1].Score {
		t.Errorf("shortcut score %v should exceed favorite score %v", results[0].Score, results[1].Score)
	}
	if results[1].Score <= results[2].Score {
		t.Errorf("title-prefix+favorite score %v should exceed substring score %v", results[1].Score, results[2].Score)
	}
}

func TestSearch_QueryIsTrimmedAndCaseInsensitive(t *testing.T) {
	svc := newSearchService(t, searchBase,
		newSnippet("a", "Redis Cache", "warm the cache", nil),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: "  REDIS  "})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	assertOrder(t, results, "a")
}

func TestSearch_ZeroScoreExcluded(t *testing.T) {
	svc := newSearchService(t, searchBase,
		newSnippet("match", "Deploy script", "run it", nil),
		newSnippet("no-match", "Unrelated", "nothing here", nil),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: "deploy"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	assertOrder(t, results, "match")
}

func TestSearch_FiltersByLibrary(t *testing.T) {
	svc := newSearchService(t, searchBase,
		newSnippet("personal-api", "API call personal", "api request", nil),
		newSnippet("team-api", "API call team", "api request team", func(s *model.Snippet) {
			s.LibraryID = "team"
		}),
	)

	results, err := svc.Search(context.Background(), SearchInput{
		Query:      "api",
		LibraryIDs: []string{"team"},
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	assertOrder(t, results, "team-api")
}

func TestSearch_TagFilterRequiresAllTags(t *testing.T) {
	svc := newSearchService(t, searchBase,
		newSnippet("redis-cache", "Redis cache priming", "cache warmup", func(s *model.Snippet) {
			s.Tags = []string{"redis", "cache"}
		}),
		newSnippet("redis-only", "Redis helpers", "redis cache script", func(s *model.Snippet) {
			s.Tags = []string{"redis"}
		}),
	)

	results, err := svc.Search(context.Background(), SearchInput{
		Query: "cache",
		Tags:  []string{"redis", "cache"},
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	assertOrder(t, results, "redis-cache")
}

func TestSearch_TagFilterNormalizesAndDropsEmpties(t *testing.T) {
	svc := newSearchService(t, searchBase,
		newSnippet("tagged", "Redis helpers", "redis script", func(s *model.Snippet) {
			s.Tags = []string{"Redis"}
		}),
	)

	// "  REDIS " normalizes to redis; "  " is dropped rather than excluding everything.
	results, err := svc.Search(context.Background(), SearchInput{
		Query: "redis",
		Tags:  []string{"  REDIS ", "  "},
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	assertOrder(t, results, "tagged")
}

func TestSearch_UsageAndRecencyBonuses(t *testing.T) {
	recent := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

	svc := newSearchService(t, now,
		newSnippet("high-usage", "Logger setup", "logger info", func(s *model.Snippet) {
			s.Tags = []string{"log"}
			s.UsageCount = 20
			s.LastUsedAt = &older
		}),
		newSnippet("recent", "Logger advanced", "logger debug", func(s *model.Snippet) {
			s.Tags = []string{"log"}
			s.UsageCount = 5
			s.LastUsedAt = &recent
		}),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: "log"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	assertOrder(t, results, "high-usage", "recent")
	if results[0].Score <= results[1].Score {
		t.Errorf("scores should differ: %v vs %v", results[0].Score, results[1].Score)
	}
}

func TestSearch_RecencyBonusOffWhenNoSnippetEverUsed(t *testing.T) {
	svc := newSearchService(t, searchBase,
		newSnippet("a", "deploy one", "x", nil),
		newSnippet("b", "deploy two", "x", nil),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: "deploy"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	// Identical signals, so identical scores: title prefix only.
	if results[0].Score != results[1].Score {
		t.Errorf("scores should match without usage/recency data: %v vs %v", results[0].Score, results[1].Score)
	}
	if results[0].Score != scoreTitlePrefix {
		t.Errorf("score = %v, want bare title prefix %v", results[0].Score, scoreTitlePrefix)
	}
}

func TestSearch_RecencyDecaysLinearlyOverThirtyDays(t *testing.T) {
	now := searchBase
	fifteenDaysAgo := now.Add(-15 * 24 * time.Hour)
	thirtyOneDaysAgo := now.Add(-31 * 24 * time.Hour)

	svc := newSearchService(t, now,
		newSnippet("halfway", "deploy halfway", "x", func(s *model.Snippet) {
			s.LastUsedAt = &fifteenDaysAgo
		}),
		newSnippet("expired", "deploy expired", "x", func(s *model.Snippet) {
			s.LastUsedAt = &thirtyOneDaysAgo
		}),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: "deploy"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	assertOrder(t, results, "halfway", "expired")
	// Halfway through the window earns half the recency ceiling.
	wantHalf := scoreTitlePrefix + scoreRecencyNormalized/2
	if results[0].Score != wantHalf {
		t.Errorf("halfway score = %v, want %v", results[0].Score, wantHalf)
	}
	if results[1].Score != scoreTitlePrefix {
		t.Errorf("expired score = %v, want %v (no recency bonus)", results[1].Score, scoreTitlePrefix)
	}
}

func TestSearch_LimitTruncates(t *testing.T) {
	svc := newSearchService(t, searchBase,
		newSnippet("a", "deploy a", "x", nil),
		newSnippet("b", "deploy b", "x", nil),
		newSnippet("c", "deploy c", "x", nil),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: "deploy", Limit: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("len(results) = %d, want 2", len(results))
	}
}

func TestSearch_EmptyQueryFavoriteBeatsHigherUsage(t *testing.T) {
	svc := newSearchService(t, searchBase,
		newSnippet("favorite", "Favorite one", "x", func(s *model.Snippet) {
			s.IsFavorite = true
			s.UsageCount = 2
		}),
		newSnippet("busy", "Busy one", "x", func(s *model.Snippet) {
			s.UsageCount = 5
		}),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: "   "})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// Usage normalization caps at 10 points; the 15-point favorite bonus
	// wins even against the set's busiest snippet.
	assertOrder(t, results, "favorite", "busy")
}

func TestSearch_EmptyQueryUsesInjectedStrategy(t *testing.T) {
	store := memory.New()
	store.Seed(newSnippet("a", "anything", "x", nil))

	marker := []SearchResult{{Snippet: newSnippet("strategy", "from strategy", "x", nil), Score: 42}}
	called := false
	svc := NewSearchService(store, testLogger(),
		WithEmptyQueryStrategy(func(ctx context.Context, input SearchInput) ([]SearchResult, error) {
			called = true
			return marker, nil
		}),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: ""})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !called {
		t.Fatal("injected empty-query strategy was not called")
	}
	assertOrder(t, results, "strategy")
}

func TestSearch_TieBreakFavoriteThenUsageThenUpdatedAtThenTitle(t *testing.T) {
	later := searchBase.Add(time.Hour)

	// All four match "deploy" as a title prefix with no usage/recency data,
	// so they tie on score and exercise the full tie-break chain.
	svc := newSearchService(t, searchBase,
		newSnippet("plain-b", "deploy beta", "x", nil),
		newSnippet("plain-a", "deploy alpha", "x", nil),
		newSnippet("fresh", "deploy fresh", "x", func(s *model.Snippet) {
			s.UpdatedAt = later
		}),
	)

	results, err := svc.Search(context.Background(), SearchInput{Query: "deploy"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	assertOrder(t, results, "fresh", "plain-a", "plain-b")
}

func TestSortResults_TieBreakChain(t *testing.T) {
	later := searchBase.Add(time.Hour)

	results := []SearchResult{
		{Score: 10, Snippet: newSnippet("title-b", "beta", "x", nil)},
		{Score: 10, Snippet: newSnippet("title-a", "alpha", "x", nil)},
		{Score: 10, Snippet: newSnippet("fresh", "zeta", "x", func(s *model.Snippet) { s.UpdatedAt = later })},
		{Score: 10, Snippet: newSnippet("busy", "zeta", "x", func(s *model.Snippet) { s.UsageCount = 3 })},
		{Score: 10, Snippet: newSnippet("fav", "zeta", "x", func(s *model.Snippet) { s.IsFavorite = true })},
		{Score: 20, Snippet: newSnippet("top", "omega", "x", nil)},
	}

	sortResults(results)

	// Score first, then favorite, usage, updatedAt, and finally title.
	assertOrder(t, results, "top", "fav", "busy", "fresh", "title-a", "title-b")
}

func TestTopSnippets_MatchesEmptyQuerySearch(t *testing.T) {
	used := searchBase.Add(-24 * time.Hour)
	now := searchBase
	snippets := []model.Snippet{
		newSnippet("fav", "Fav", "x", func(s *model.Snippet) { s.IsFavorite = true }),
		newSnippet("used", "Used", "x", func(s *model.Snippet) {
			s.UsageCount = 9
			s.LastUsedAt = &used
		}),
		newSnippet("plain", "Plain", "x", nil),
	}

	store := memory.New()
	store.Seed(snippets...)
	clock := func() time.Time { return now }

	top := NewTopSnippetsService(store, clock)
	search := NewSearchService(store, testLogger(), WithSearchClock(clock))

	fromTop, err := top.Execute(context.Background(), TopSnippetsInput{})
	if err != nil {
		t.Fatalf("TopSnippets Execute() error = %v", err)
	}
	fromSearch, err := search.Search(context.Background(), SearchInput{Query: ""})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	gotTop := resultIDs(fromTop)
	gotSearch := resultIDs(fromSearch)
	if len(gotTop) != len(gotSearch) {
		t.Fatalf("lengths differ: %v vs %v", gotTop, gotSearch)
	}
	for i := range gotTop {
		if gotTop[i] != gotSearch[i] {
			t.Fatalf("rankings differ: %v vs %v", gotTop, gotSearch)
		}
	}
}

func TestTopSnippets_AppliesFiltersAndLimit(t *testing.T) {
	store := memory.New()
	store.Seed(
		newSnippet("p1", "One", "x", func(s *model.Snippet) { s.IsFavorite = true }),
		newSnippet("p2", "Two", "x", nil),
		newSnippet("t1", "Team one", "x", func(s *model.Snippet) { s.LibraryID = "team" }),
	)

	top := NewTopSnippetsService(store, func() time.Time { return searchBase })

	results, err := top.Execute(context.Background(), TopSnippetsInput{
		LibraryIDs: []string{"personal"},
		Limit:      1,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	assertOrder(t, results, "p1")
}
