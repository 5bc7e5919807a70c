// Package favorites manages per-user saved templates organized into
// collections.
package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/templatehub/marketplace/internal/analytics"
	"github.com/templatehub/marketplace/internal/kv"
	"github.com/templatehub/marketplace/internal/template"
)

// Common errors for favorites operations.
var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrFavoriteNotFound   = errors.New("favorite not found")
	ErrDefaultCollection  = errors.New("default collections cannot be removed")
)

// DefaultCollectionID is the collection favorites land in when none
// is named.
const DefaultCollectionID = "favorites"

// Favorite marks a template as saved into a collection. A template
// appears at most once per collection.
type Favorite struct {
	TemplateID   string    `json:"templateId"`
	CollectionID string    `json:"collectionId"`
	UserID       string    `json:"userId,omitempty"`
	Tags         []string  `json:"tags"`
	AddedAt      time.Time `json:"addedAt"`
}

// Collection is a named group of favorites. Default collections ship
// with the service and cannot be deleted.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Default     bool      `json:"default,omitempty"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Display defaults applied when a collection is created without them.
const (
	DefaultCollectionColor = "#3b82f6"
	DefaultCollectionIcon  = "folder"
)

// FavoriteTemplate joins a favorite with its catalog entry for
// listings.
type FavoriteTemplate struct {
	Favorite Favorite          `json:"favorite"`
	Template template.Template `json:"template"`
}

// CollectionStats counts the favorites held by one collection.
type CollectionStats struct {
	CollectionID string `json:"collectionId"`
	Name         string `json:"name"`
	Favorites    int    `json:"favorites"`
}

// Summary aggregates favorites activity across all collections.
type Summary struct {
	TotalFavorites  int    `json:"totalFavorites"`
	CollectionsUsed int    `json:"collectionsUsed"`
	MostPopular     string `json:"mostPopularCollection,omitempty"`
	RecentlyAdded   int    `json:"recentlyAdded"`
}

// RecentWindow is the look-back used for the recently-added count.
const RecentWindow = 7 * 24 * time.Hour

// Service owns the favorites state, mirrored to the backing store
// after every mutation.
type Service struct {
	mu          sync.Mutex
	store       kv.Store
	templates   template.Repository
	tracker     *analytics.Tracker
	logger      *slog.Logger
	favorites   []Favorite
	collections []Collection
	now         func() time.Time
}

// NewService loads favorites and collections from the store, seeding
// the default collections on first use. tracker may be nil.
func NewService(ctx context.Context, store kv.Store, templates template.Repository, tracker *analytics.Tracker, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:     store,
		templates: templates,
		tracker:   tracker,
		logger:    logger,
		now:       time.Now,
	}

	if _, err := store.Get(ctx, kv.KeyFavorites, &s.favorites); err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	found, err := store.Get(ctx, kv.KeyCollections, &s.collections)
	if err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}
	if !found {
		s.collections = defaultCollections(s.now())
		if err := store.Set(ctx, kv.KeyCollections, s.collections); err != nil {
			return nil, fmt.Errorf("seed collections: %w", err)
		}
	}

	return s, nil
}

func defaultCollections(now time.Time) []Collection {
	return []Collection{
		{ID: DefaultCollectionID, Name: "Favorites", Description: "Your saved templates", Default: true, Color: DefaultCollectionColor, Icon: "heart", CreatedAt: now},
		{ID: "to-review", Name: "To Review", Description: "Templates to evaluate later", Default: true, Color: DefaultCollectionColor, Icon: DefaultCollectionIcon, CreatedAt: now},
		{ID: "for-projects", Name: "For Projects", Description: "Picked for upcoming projects", Default: true, Color: DefaultCollectionColor, Icon: DefaultCollectionIcon, CreatedAt: now},
	}
}

// Add saves a template into a collection. Re-adding an existing
// favorite moves it to the front with a fresh timestamp.
func (s *Service) Add(ctx context.Context, templateID, collectionID, userID string) (*Favorite, error) {
	if collectionID == "" {
		collectionID = DefaultCollectionID
	}
	if _, err := s.templates.Get(templateID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findCollectionLocked(collectionID) < 0 {
		return nil, ErrCollectionNotFound
	}

	backup := s.favorites
	fav := Favorite{
		TemplateID:   templateID,
		CollectionID: collectionID,
		UserID:       userID,
		Tags:         []string{},
		AddedAt:      s.now(),
	}

	next := make([]Favorite, 0, len(s.favorites)+1)
	next = append(next, fav)
	for _, f := range s.favorites {
		if f.TemplateID == templateID && f.CollectionID == collectionID {
			continue
		}
		next = append(next, f)
	}
	s.favorites = next

	if err := s.persistFavoritesLocked(ctx); err != nil {
		s.favorites = backup
		return nil, err
	}

	s.recordEvent(ctx, templateID, userID, "add")

	out := fav
	return &out, nil
}

// Remove drops a template from a collection.
func (s *Service) Remove(ctx context.Context, templateID, collectionID, userID string) error {
	if collectionID == "" {
		collectionID = DefaultCollectionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, f := range s.favorites {
		if f.TemplateID == templateID && f.CollectionID == collectionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrFavoriteNotFound
	}

	backup := append([]Favorite(nil), s.favorites...)
	s.favorites = append(s.favorites[:idx], s.favorites[idx+1:]...)
	if err := s.persistFavoritesLocked(ctx); err != nil {
		s.favorites = backup
		return err
	}

	s.recordEvent(ctx, templateID, userID, "remove")
	return nil
}

// IsFavorite reports whether the template is saved in any collection.
func (s *Service) IsFavorite(templateID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.favorites {
		if f.TemplateID == templateID {
			return true
		}
	}
	return false
}

// List returns the favorites in a collection joined with their catalog
// entries, newest first. Favorites whose template has left the catalog
// are skipped.
func (s *Service) List(collectionID string) ([]FavoriteTemplate, error) {
	if collectionID == "" {
		collectionID = DefaultCollectionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findCollectionLocked(collectionID) < 0 {
		return nil, ErrCollectionNotFound
	}

	out := []FavoriteTemplate{}
	for _, f := range s.favorites {
		if f.CollectionID != collectionID {
			continue
		}
		tpl, err := s.templates.Get(f.TemplateID)
		if err != nil {
			continue
		}
		out = append(out, FavoriteTemplate{Favorite: f, Template: *tpl})
	}
	return out, nil
}

// Count returns the total number of favorites across all collections.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.favorites)
}

// Collections returns all collections.
func (s *Service) Collections() []Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Collection, len(s.collections))
	copy(out, s.collections)
	return out
}

// CreateCollection adds a user-defined collection.
func (s *Service) CreateCollection(ctx context.Context, name, description, color, icon string) (*Collection, error) {
	if color == "" {
		color = DefaultCollectionColor
	}
	if icon == "" {
		icon = DefaultCollectionIcon
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := Collection{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Color:       color,
		Icon:        icon,
		CreatedAt:   s.now(),
	}

	s.collections = append(s.collections, c)
	if err := s.persistCollectionsLocked(ctx); err != nil {
		s.collections = s.collections[:len(s.collections)-1]
		return nil, err
	}

	out := c
	return &out, nil
}

// DeleteCollection removes a user-defined collection and every
// favorite it holds. Default collections cannot be deleted.
func (s *Service) DeleteCollection(ctx context.Context, collectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findCollectionLocked(collectionID)
	if idx < 0 {
		return ErrCollectionNotFound
	}
	if s.collections[idx].Default {
		return ErrDefaultCollection
	}

	backupCollections := append([]Collection(nil), s.collections...)
	backupFavorites := append([]Favorite(nil), s.favorites...)

	s.collections = append(s.collections[:idx], s.collections[idx+1:]...)
	kept := s.favorites[:0:0]
	for _, f := range s.favorites {
		if f.CollectionID != collectionID {
			kept = append(kept, f)
		}
	}
	s.favorites = kept

	if err := s.persistCollectionsLocked(ctx); err != nil {
		s.collections = backupCollections
		s.favorites = backupFavorites
		return err
	}
	if err := s.persistFavoritesLocked(ctx); err != nil {
		s.collections = backupCollections
		s.favorites = backupFavorites
		return err
	}
	return nil
}

// Stats counts the favorites per collection.
func (s *Service) Stats() []CollectionStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	for _, f := range s.favorites {
		counts[f.CollectionID]++
	}

	out := make([]CollectionStats, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, CollectionStats{
			CollectionID: c.ID,
			Name:         c.Name,
			Favorites:    counts[c.ID],
		})
	}
	return out
}

// Summary aggregates favorites activity: totals, how many collections
// hold anything, the busiest collection, and adds within the recent
// window.
func (s *Service) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	cutoff := s.now().Add(-RecentWindow)
	recent := 0
	for _, f := range s.favorites {
		counts[f.CollectionID]++
		if f.AddedAt.After(cutoff) {
			recent++
		}
	}

	mostPopular := ""
	best := 0
	for _, c := range s.collections {
		if counts[c.ID] > best {
			best = counts[c.ID]
			mostPopular = c.ID
		}
	}

	return Summary{
		TotalFavorites:  len(s.favorites),
		CollectionsUsed: len(counts),
		MostPopular:     mostPopular,
		RecentlyAdded:   recent,
	}
}

func (s *Service) findCollectionLocked(id string) int {
	for i := range s.collections {
		if s.collections[i].ID == id {
			return i
		}
	}
	return -1
}

// recordEvent forwards the mutation to analytics. Tracking failures
// are logged, never surfaced to the caller.
func (s *Service) recordEvent(ctx context.Context, templateID, userID, action string) {
	if s.tracker == nil {
		return
	}
	if err := s.tracker.Record(ctx, analytics.EventFavorite, templateID, userID, map[string]string{"action": action}); err != nil {
		s.logger.Warn("failed to record favorite event", "template_id", templateID, "error", err)
	}
}

func (s *Service) persistFavoritesLocked(ctx context.Context) error {
	if err := s.store.Set(ctx, kv.KeyFavorites, s.favorites); err != nil {
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}

func (s *Service) persistCollectionsLocked(ctx context.Context) error {
	if err := s.store.Set(ctx, kv.KeyCollections, s.collections); err != nil {
		return fmt.Errorf("persist collections: %w", err)
	}
	return nil
}
