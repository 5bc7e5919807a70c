// Package rating maintains per-template rating aggregates, per-user
// votes and user reviews, keeping the distribution, vote count and
// average consistent under submits, resubmits and deletions.
package rating

import (
	"errors"
	"time"
)

// Star bounds for a valid vote.
const (
	MinStars = 1
	MaxStars = 5
)

// Common errors for rating operations.
var (
	ErrInvalidRating  = errors.New("rating must be between 1 and 5 stars")
	ErrRatingNotFound = errors.New("rating not found")
	ErrReviewNotFound = errors.New("review not found")
)

// Aggregate is the per-template rating summary. The invariants hold
// after every mutation: TotalVotes equals the sum of the distribution
// buckets, TotalRating equals the star-weighted sum, and Average is
// TotalRating/TotalVotes (zero when there are no votes).
type Aggregate struct {
	TotalRating  int         `json:"totalRating"`
	TotalVotes   int         `json:"totalVotes"`
	Average      float64     `json:"average"`
	Distribution map[int]int `json:"distribution"`
}

// NewAggregate returns an empty aggregate with all five distribution
// buckets present.
func NewAggregate() *Aggregate {
	return &Aggregate{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
}

// Clone returns a deep copy.
func (a *Aggregate) Clone() *Aggregate {
	out := *a
	out.Distribution = make(map[int]int, len(a.Distribution))
	for k, v := range a.Distribution {
		out.Distribution[k] = v
	}
	return &out
}

// UserRating is one user's current vote on a template.
type UserRating struct {
	TemplateID string    `json:"templateId"`
	UserID     string    `json:"userId"`
	Stars      int       `json:"stars"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Review is a user's written review of a template. A user holds at
// most one review per template; resubmitting replaces the text but
// keeps the helpful counter.
type Review struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"templateId"`
	UserID     string    `json:"userId"`
	Stars      int       `json:"stars"`
	Comment    string    `json:"comment"`
	Helpful    int       `json:"helpful"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TemplateRating pairs a template id with its aggregate for ranked
// listings.
type TemplateRating struct {
	TemplateID string  `json:"templateId"`
	Average    float64 `json:"average"`
	TotalVotes int     `json:"totalVotes"`
}

// Statistics summarizes voting across the whole catalog.
type Statistics struct {
	TotalVotes     int         `json:"totalVotes"`
	RatedTemplates int         `json:"ratedTemplates"`
	OverallAverage float64     `json:"overallAverage"`
	Distribution   map[int]int `json:"distribution"`
	TotalReviews   int         `json:"totalReviews"`
	HelpfulVotes   int         `json:"helpfulVotes"`
}
