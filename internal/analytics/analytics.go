// Package analytics records marketplace activity events and derives
// usage summaries from them and the catalog.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/templatehub/marketplace/internal/kv"
	"github.com/templatehub/marketplace/internal/template"
)

// Event types recorded by the tracker.
const (
	EventDownload = "download"
	EventRating   = "rating"
	EventFavorite = "favorite"
	EventSearch   = "search"
)

// EventLimit caps how many events are retained, oldest dropped first.
const EventLimit = 1000

// Event is one recorded user action.
type Event struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	TemplateID string            `json:"templateId,omitempty"`
	UserID     string            `json:"userId,omitempty"`
	Meta       map[string]string `json:"meta,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// FavoriteCounter reports how many favorites currently exist. Wired to
// the favorites service at startup.
type FavoriteCounter interface {
	Count() int
}

// Tracker keeps the rolling event log, mirrored to the backing store
// after every append.
type Tracker struct {
	mu        sync.Mutex
	store     kv.Store
	templates template.Repository
	favorites FavoriteCounter
	metrics   *Metrics
	events    []Event
	now       func() time.Time
}

// NewTracker loads previously persisted events from the store.
// favorites and metrics may be nil.
func NewTracker(ctx context.Context, store kv.Store, templates template.Repository, metrics *Metrics) (*Tracker, error) {
	t := &Tracker{
		store:     store,
		templates: templates,
		metrics:   metrics,
		now:       time.Now,
	}

	if _, err := store.Get(ctx, kv.KeyAnalytics, &t.events); err != nil {
		return nil, fmt.Errorf("load analytics events: %w", err)
	}

	return t, nil
}

// SetFavoriteCounter wires the favorites service in after both are
// constructed.
func (t *Tracker) SetFavoriteCounter(fc FavoriteCounter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.favorites = fc
}

// Record appends an event to the log, evicting the oldest entries
// beyond the retention cap.
func (t *Tracker) Record(ctx context.Context, eventType, templateID, userID string, meta map[string]string) error {
	ev := Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		TemplateID: templateID,
		UserID:     userID,
		Meta:       meta,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ev.Timestamp = t.now()

	prev := t.events
	events := make([]Event, 0, len(t.events)+1)
	events = append(events, ev)
	events = append(events, t.events...)
	if len(events) > EventLimit {
		events = events[:EventLimit]
	}
	t.events = events

	if err := t.store.Set(ctx, kv.KeyAnalytics, t.events); err != nil {
		t.events = prev
		return fmt.Errorf("persist analytics events: %w", err)
	}

	if t.metrics != nil {
		t.metrics.IncEvents(eventType)
	}
	return nil
}

// Events returns the retained events, newest first, at most n entries.
// n <= 0 returns everything retained.
func (t *Tracker) Events(n int) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Event, len(t.events))
	copy(out, t.events)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Overview summarizes marketplace activity.
type Overview struct {
	TotalTemplates  int            `json:"totalTemplates"`
	TotalDownloads  int            `json:"totalDownloads"`
	TotalFavorites  int            `json:"totalFavorites"`
	AverageRating   float64        `json:"averageRating"`
	RecentFavorites int            `json:"recentFavorites"`
	DailyActivity   map[string]int `json:"dailyActivity"`
}

// RecentWindow is the look-back used for the recent-favorites count.
const RecentWindow = 7 * 24 * time.Hour

// ActivityWindow is the look-back used for the daily activity series.
const ActivityWindow = 30 * 24 * time.Hour

// Overview derives the marketplace summary from the catalog and the
// event log.
func (t *Tracker) Overview() Overview {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	out := Overview{DailyActivity: make(map[string]int)}

	ratedCount := 0
	ratingSum := 0.0
	for _, tpl := range t.templates.List() {
		out.TotalTemplates++
		out.TotalDownloads += tpl.Downloads
		if tpl.Rating > 0 {
			ratedCount++
			ratingSum += tpl.Rating
		}
	}
	if ratedCount > 0 {
		out.AverageRating = ratingSum / float64(ratedCount)
	}

	if t.favorites != nil {
		out.TotalFavorites = t.favorites.Count()
	}

	recentCutoff := now.Add(-RecentWindow)
	activityCutoff := now.Add(-ActivityWindow)
	for _, ev := range t.events {
		if ev.Type == EventFavorite && ev.Timestamp.After(recentCutoff) {
			out.RecentFavorites++
		}
		if ev.Timestamp.After(activityCutoff) {
			out.DailyActivity[ev.Timestamp.Format("2006-01-02")]++
		}
	}

	return out
}

// CategoryStats rolls up catalog size and downloads per category.
type CategoryStats struct {
	CategoryID string `json:"categoryId"`
	Templates  int    `json:"templates"`
	Downloads  int    `json:"downloads"`
}

// TemplateStats lists the most downloaded templates and per-category
// rollups.
type TemplateStats struct {
	TopDownloaded []template.Template `json:"topDownloaded"`
	Categories    []CategoryStats     `json:"categories"`
}

// TopDownloadedLimit caps the popular-template listing.
const TopDownloadedLimit = 10

// TemplateStats derives catalog-level statistics.
func (t *Tracker) TemplateStats() TemplateStats {
	templates := t.templates.List()

	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].Downloads > templates[j].Downloads
	})

	byCategory := make(map[string]*CategoryStats)
	var order []string
	for _, tpl := range templates {
		cs, ok := byCategory[tpl.Category]
		if !ok {
			cs = &CategoryStats{CategoryID: tpl.Category}
			byCategory[tpl.Category] = cs
			order = append(order, tpl.Category)
		}
		cs.Templates++
		cs.Downloads += tpl.Downloads
	}

	top := templates
	if len(top) > TopDownloadedLimit {
		top = top[:TopDownloadedLimit]
	}

	out := TemplateStats{TopDownloaded: top}
	sort.Strings(order)
	for _, id := range order {
		out.Categories = append(out.Categories, *byCategory[id])
	}
	return out
}
