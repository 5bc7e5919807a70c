package rating

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/templatehub/marketplace/internal/kv"
)

// Reviews holds written reviews per template, one per user, mirrored
// to the backing store after every change.
type Reviews struct {
	mu      sync.Mutex
	store   kv.Store
	metrics *Metrics
	byTpl   map[string][]Review
	now     func() time.Time
}

// NewReviews loads previously persisted reviews from the store.
// metrics may be nil.
func NewReviews(ctx context.Context, store kv.Store, metrics *Metrics) (*Reviews, error) {
	r := &Reviews{
		store:   store,
		metrics: metrics,
		byTpl:   make(map[string][]Review),
		now:     time.Now,
	}

	if _, err := store.Get(ctx, kv.KeyReviews, &r.byTpl); err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	if r.byTpl == nil {
		r.byTpl = make(map[string][]Review)
	}

	return r, nil
}

// Upsert stores the user's review of a template. A repeat submission
// replaces the stars and comment but keeps the review id, creation
// time and accumulated helpful votes.
func (r *Reviews) Upsert(ctx context.Context, templateID, userID string, stars int, comment string) (*Review, error) {
	if stars < MinStars || stars > MaxStars {
		return nil, ErrInvalidRating
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	reviews := r.byTpl[templateID]
	backup := append([]Review(nil), reviews...)

	now := r.now()
	var stored Review
	replaced := false
	for i := range reviews {
		if reviews[i].UserID != userID {
			continue
		}
		reviews[i].Stars = stars
		reviews[i].Comment = comment
		reviews[i].UpdatedAt = now
		stored = reviews[i]
		replaced = true
		break
	}
	if !replaced {
		stored = Review{
			ID:         uuid.New().String(),
			TemplateID: templateID,
			UserID:     userID,
			Stars:      stars,
			Comment:    comment,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		reviews = append(reviews, stored)
	}
	r.byTpl[templateID] = reviews

	if err := r.persistLocked(ctx); err != nil {
		r.byTpl[templateID] = backup
		return nil, err
	}

	if r.metrics != nil {
		if replaced {
			r.metrics.IncReviews(ActionResubmit)
		} else {
			r.metrics.IncReviews(ActionSubmit)
		}
	}

	out := stored
	return &out, nil
}

// List returns a template's reviews, newest first.
func (r *Reviews) List(templateID string) []Review {
	r.mu.Lock()
	defer r.mu.Unlock()

	reviews := r.byTpl[templateID]
	out := make([]Review, len(reviews))
	copy(out, reviews)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MarkHelpful bumps the helpful counter on a review.
func (r *Reviews) MarkHelpful(ctx context.Context, templateID, reviewID string) (*Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reviews := r.byTpl[templateID]
	for i := range reviews {
		if reviews[i].ID != reviewID {
			continue
		}
		reviews[i].Helpful++
		if err := r.persistLocked(ctx); err != nil {
			reviews[i].Helpful--
			return nil, err
		}
		if r.metrics != nil {
			r.metrics.IncHelpfulVotes()
		}
		out := reviews[i]
		return &out, nil
	}
	return nil, ErrReviewNotFound
}

// Delete removes a user's review of a template.
func (r *Reviews) Delete(ctx context.Context, templateID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reviews := r.byTpl[templateID]
	for i := range reviews {
		if reviews[i].UserID != userID {
			continue
		}
		backup := append([]Review(nil), reviews...)
		r.byTpl[templateID] = append(reviews[:i], reviews[i+1:]...)
		if err := r.persistLocked(ctx); err != nil {
			r.byTpl[templateID] = backup
			return err
		}
		return nil
	}
	return ErrReviewNotFound
}

// Counts returns the total number of reviews and helpful votes.
func (r *Reviews) Counts() (reviews, helpful int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, list := range r.byTpl {
		reviews += len(list)
		for _, rev := range list {
			helpful += rev.Helpful
		}
	}
	return reviews, helpful
}

func (r *Reviews) persistLocked(ctx context.Context) error {
	if err := r.store.Set(ctx, kv.KeyReviews, r.byTpl); err != nil {
		return fmt.Errorf("persist reviews: %w", err)
	}
	return nil
}
