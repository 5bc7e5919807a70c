// Package search implements ranked free-text search over the template
// catalog, structured filtering, autocomplete suggestions and
// query-history tracking.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/templatehub/marketplace/internal/ranking"
	"github.com/templatehub/marketplace/internal/template"
)

// SortKey selects the tie-break ordering for ranked results and the
// primary ordering for filtered browsing.
type SortKey string

const (
	SortNewest  SortKey = "newest"
	SortPopular SortKey = "popular"
	SortRating  SortKey = "rating"
	SortName    SortKey = "name"
)

// ParseSortKey maps a request parameter onto a SortKey, falling back
// to SortNewest for unknown values.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPopular, SortRating, SortName, SortNewest:
		return SortKey(s)
	default:
		return SortNewest
	}
}

// Searcher ranks the template catalog against free-text queries and
// applies structured filters. Ranking weights are fixed at
// construction; history tracking is best effort and never fails a
// search.
type Searcher struct {
	repo    template.Repository
	weights *ranking.Weights
	history *History
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewSearcher builds a Searcher over the given catalog. weights may be
// nil to use the defaults, and history may be nil to disable tracking.
func NewSearcher(repo template.Repository, weights *ranking.Weights, history *History, metrics *Metrics, logger *slog.Logger) *Searcher {
	if weights == nil {
		weights = ranking.DefaultWeights()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{
		repo:    repo,
		weights: weights,
		history: history,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Search ranks the catalog against the query, drops zero-score
// entries, applies the filter set and orders the survivors by
// descending score with sortKey breaking ties. A blank query returns
// no results.
func (s *Searcher) Search(ctx context.Context, query string, filters FilterSet, sortKey SortKey) []template.Template {
	start := s.now()

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return []template.Template{}
	}

	now := s.now()

	type scored struct {
		tpl   template.Template
		score float64
	}

	var matches []scored
	for _, t := range s.repo.List() {
		score := ranking.Score(&t, trimmed, s.weights)
		if score <= 0 {
			continue
		}
		if !filters.Matches(&t, now) {
			continue
		}
		matches = append(matches, scored{tpl: t, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return lessBySortKey(&matches[i].tpl, &matches[j].tpl, sortKey)
	})

	results := make([]template.Template, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.tpl)
	}

	if s.history != nil {
		if err := s.history.Track(ctx, trimmed); err != nil {
			s.logger.Warn("failed to record search history", "query", trimmed, "error", err)
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveSearch(time.Since(start), len(results))
	}

	return results
}

// Browse returns the catalog filtered by the filter set and ordered
// by sortKey, without any relevance ranking.
func (s *Searcher) Browse(ctx context.Context, filters FilterSet, sortKey SortKey) []template.Template {
	now := s.now()

	var results []template.Template
	for _, t := range s.repo.List() {
		if !filters.Matches(&t, now) {
			continue
		}
		results = append(results, t)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return lessBySortKey(&results[i], &results[j], sortKey)
	})

	if results == nil {
		results = []template.Template{}
	}
	return results
}

func lessBySortKey(a, b *template.Template, key SortKey) bool {
	switch key {
	case SortPopular:
		return a.Downloads > b.Downloads
	case SortRating:
		return a.Rating > b.Rating
	case SortName:
		return a.Name < b.Name
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}
