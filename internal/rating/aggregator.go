package rating

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/templatehub/marketplace/internal/kv"
	"github.com/templatehub/marketplace/internal/template"
)

// Aggregator owns the rating state for the whole catalog. Aggregates
// and per-user votes live in memory and are written through to the
// backing store after every mutation; the template's display rating is
// pushed to the catalog on every change.
type Aggregator struct {
	mu          sync.Mutex
	store       kv.Store
	templates   template.Repository
	metrics     *Metrics
	aggregates  map[string]*Aggregate
	userRatings map[string]UserRating
	now         func() time.Time
}

// NewAggregator loads previously persisted rating state from the
// store. metrics may be nil.
func NewAggregator(ctx context.Context, store kv.Store, templates template.Repository, metrics *Metrics) (*Aggregator, error) {
	a := &Aggregator{
		store:       store,
		templates:   templates,
		metrics:     metrics,
		aggregates:  make(map[string]*Aggregate),
		userRatings: make(map[string]UserRating),
		now:         time.Now,
	}

	if _, err := store.Get(ctx, kv.KeyRatings, &a.aggregates); err != nil {
		return nil, fmt.Errorf("load rating aggregates: %w", err)
	}
	if a.aggregates == nil {
		a.aggregates = make(map[string]*Aggregate)
	}
	if _, err := store.Get(ctx, kv.KeyUserRatings, &a.userRatings); err != nil {
		return nil, fmt.Errorf("load user ratings: %w", err)
	}
	if a.userRatings == nil {
		a.userRatings = make(map[string]UserRating)
	}

	return a, nil
}

func voteKey(templateID, userID string) string {
	return templateID + ":" + userID
}

// Submit records or revises a user's vote. A first vote adds to the
// vote count; a revised vote moves the old stars to the new bucket and
// leaves the count unchanged. Returns the updated aggregate.
func (a *Aggregator) Submit(ctx context.Context, templateID, userID string, stars int) (*Aggregate, error) {
	if stars < MinStars || stars > MaxStars {
		return nil, ErrInvalidRating
	}
	if _, err := a.templates.Get(templateID); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	agg, ok := a.aggregates[templateID]
	if !ok {
		agg = NewAggregate()
		a.aggregates[templateID] = agg
	}
	backup := agg.Clone()

	key := voteKey(templateID, userID)
	prev, revised := a.userRatings[key]

	if revised {
		agg.TotalRating += stars - prev.Stars
		agg.Distribution[prev.Stars]--
		agg.Distribution[stars]++
	} else {
		agg.TotalRating += stars
		agg.TotalVotes++
		agg.Distribution[stars]++
	}
	agg.Average = average(agg.TotalRating, agg.TotalVotes)

	a.userRatings[key] = UserRating{
		TemplateID: templateID,
		UserID:     userID,
		Stars:      stars,
		UpdatedAt:  a.now(),
	}

	if err := a.persistLocked(ctx); err != nil {
		a.aggregates[templateID] = backup
		if revised {
			a.userRatings[key] = prev
		} else {
			delete(a.userRatings, key)
		}
		return nil, err
	}

	if _, err := a.templates.SetRating(ctx, templateID, agg.Average); err != nil {
		return nil, fmt.Errorf("push display rating: %w", err)
	}

	if a.metrics != nil {
		if revised {
			a.metrics.IncRatings(ActionResubmit)
		} else {
			a.metrics.IncRatings(ActionSubmit)
		}
		a.metrics.ObserveStars(stars)
	}

	return agg.Clone(), nil
}

// Delete removes a user's vote, subtracting it from the aggregate.
// The aggregate record stays in place even when the last vote goes.
func (a *Aggregator) Delete(ctx context.Context, templateID, userID string) (*Aggregate, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := voteKey(templateID, userID)
	prev, ok := a.userRatings[key]
	if !ok {
		return nil, ErrRatingNotFound
	}

	agg, ok := a.aggregates[templateID]
	if !ok {
		return nil, ErrRatingNotFound
	}
	backup := agg.Clone()

	agg.TotalRating -= prev.Stars
	agg.TotalVotes--
	agg.Distribution[prev.Stars]--
	agg.Average = average(agg.TotalRating, agg.TotalVotes)
	delete(a.userRatings, key)

	if err := a.persistLocked(ctx); err != nil {
		a.aggregates[templateID] = backup
		a.userRatings[key] = prev
		return nil, err
	}

	if _, err := a.templates.SetRating(ctx, templateID, agg.Average); err != nil {
		return nil, fmt.Errorf("push display rating: %w", err)
	}

	if a.metrics != nil {
		a.metrics.IncRatings(ActionDelete)
	}

	return agg.Clone(), nil
}

// Get returns the aggregate for a template. Templates without votes
// get an empty aggregate, not an error.
func (a *Aggregator) Get(templateID string) *Aggregate {
	a.mu.Lock()
	defer a.mu.Unlock()

	agg, ok := a.aggregates[templateID]
	if !ok {
		return NewAggregate()
	}
	return agg.Clone()
}

// UserRating returns the user's current vote on a template, if any.
func (a *Aggregator) UserRating(templateID, userID string) (UserRating, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	r, ok := a.userRatings[voteKey(templateID, userID)]
	return r, ok
}

// TopRated lists templates by descending average, then vote count, at
// most n entries. Templates with no votes are skipped.
func (a *Aggregator) TopRated(n int) []TemplateRating {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]TemplateRating, 0, len(a.aggregates))
	for id, agg := range a.aggregates {
		if agg.TotalVotes == 0 {
			continue
		}
		out = append(out, TemplateRating{
			TemplateID: id,
			Average:    agg.Average,
			TotalVotes: agg.TotalVotes,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		if out[i].TotalVotes != out[j].TotalVotes {
			return out[i].TotalVotes > out[j].TotalVotes
		}
		return out[i].TemplateID < out[j].TemplateID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Statistics summarizes voting across all templates.
func (a *Aggregator) Statistics() Statistics {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := Statistics{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	totalRating := 0
	for _, agg := range a.aggregates {
		if agg.TotalVotes > 0 {
			stats.RatedTemplates++
		}
		stats.TotalVotes += agg.TotalVotes
		totalRating += agg.TotalRating
		for stars, count := range agg.Distribution {
			stats.Distribution[stars] += count
		}
	}
	stats.OverallAverage = average(totalRating, stats.TotalVotes)
	return stats
}

func average(totalRating, totalVotes int) float64 {
	if totalVotes == 0 {
		return 0
	}
	return float64(totalRating) / float64(totalVotes)
}

// persistLocked writes both rating tables through to the store.
// Callers must hold the lock.
func (a *Aggregator) persistLocked(ctx context.Context) error {
	if err := a.store.Set(ctx, kv.KeyRatings, a.aggregates); err != nil {
		return fmt.Errorf("persist rating aggregates: %w", err)
	}
	if err := a.store.Set(ctx, kv.KeyUserRatings, a.userRatings); err != nil {
		return fmt.Errorf("persist user ratings: %w", err)
	}
	return nil
}
