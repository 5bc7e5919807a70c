package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/templatehub/marketplace/internal/kv"
)

// HistoryLimit caps how many distinct recent queries are retained.
const HistoryLimit = 20

// Record is one remembered search query.
type Record struct {
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryStats aggregates how often a query has been searched.
type QueryStats struct {
	Count        int       `json:"count"`
	LastSearched time.Time `json:"lastSearched"`
}

// PopularQuery pairs a query with its aggregate count for ranked
// popularity listings.
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// History keeps the recent-query list and per-query counters, mirrored
// to the backing store after every change.
type History struct {
	mu      sync.RWMutex
	store   kv.Store
	recent  []Record
	queries map[string]QueryStats
	now     func() time.Time
}

// NewHistory loads previously persisted history from the store.
func NewHistory(ctx context.Context, store kv.Store) (*History, error) {
	h := &History{
		store:   store,
		queries: make(map[string]QueryStats),
		now:     time.Now,
	}

	if _, err := store.Get(ctx, kv.KeySearchHistory, &h.recent); err != nil {
		return nil, fmt.Errorf("load search history: %w", err)
	}
	if _, err := store.Get(ctx, kv.KeySearchAnalytics, &h.queries); err != nil {
		return nil, fmt.Errorf("load search analytics: %w", err)
	}
	if h.queries == nil {
		h.queries = make(map[string]QueryStats)
	}

	return h, nil
}

// Track records the query at the front of the recent list, deduping a
// repeat by moving it forward, and bumps its aggregate counter.
func (h *History) Track(ctx context.Context, query string) error {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	prevRecent := h.recent
	prevStats, hadStats := h.queries[normalized]

	filtered := make([]Record, 0, len(h.recent)+1)
	filtered = append(filtered, Record{Query: normalized, Timestamp: h.now()})
	for _, r := range h.recent {
		if r.Query == normalized {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) > HistoryLimit {
		filtered = filtered[:HistoryLimit]
	}
	h.recent = filtered

	stats := h.queries[normalized]
	stats.Count++
	stats.LastSearched = h.now()
	h.queries[normalized] = stats

	if err := h.persistLocked(ctx); err != nil {
		h.recent = prevRecent
		if hadStats {
			h.queries[normalized] = prevStats
		} else {
			delete(h.queries, normalized)
		}
		return err
	}
	return nil
}

// Recent returns the remembered queries, newest first.
func (h *History) Recent() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Record, len(h.recent))
	copy(out, h.recent)
	return out
}

// Popular returns the most-searched queries, at most n, ordered by
// descending count.
func (h *History) Popular(n int) []PopularQuery {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]PopularQuery, 0, len(h.queries))
	for q, stats := range h.queries {
		out = append(out, PopularQuery{Query: q, Count: stats.Count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Query < out[j].Query
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Clear drops all recorded history and counters.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	prevRecent := h.recent
	prevQueries := h.queries

	h.recent = nil
	h.queries = make(map[string]QueryStats)

	if err := h.persistLocked(ctx); err != nil {
		h.recent = prevRecent
		h.queries = prevQueries
		return err
	}
	return nil
}

func (h *History) persistLocked(ctx context.Context) error {
	if err := h.store.Set(ctx, kv.KeySearchHistory, h.recent); err != nil {
		return fmt.Errorf("persist search history: %w", err)
	}
	if err := h.store.Set(ctx, kv.KeySearchAnalytics, h.queries); err != nil {
		return fmt.Errorf("persist search analytics: %w", err)
	}
	return nil
}
