package template

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/templatehub/marketplace/internal/kv"
)

// Common errors for template operations.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// Repository defines the catalog operations consumed by search, rating,
// favorites, downloads and the admin handlers.
type Repository interface {
	// List returns all templates in catalog order.
	List() []Template

	// Get retrieves a template by id.
	Get(id string) (*Template, error)

	// Categories returns all categories.
	Categories() []Category

	// GetCategory retrieves a category by id.
	GetCategory(id string) (*Category, error)

	// Create inserts a new template with a generated id and timestamps.
	Create(ctx context.Context, t *Template) (*Template, error)

	// Update applies a partial update to an existing template.
	Update(ctx context.Context, id string, upd Update) (*Template, error)

	// Delete removes a template from the catalog.
	Delete(ctx context.Context, id string) error

	// IncrementDownloads bumps the download counter by one.
	IncrementDownloads(ctx context.Context, id string) (*Template, error)

	// SetRating pushes a recomputed display rating onto the template.
	SetRating(ctx context.Context, id string, rating float64) (*Template, error)
}

// KVRepository is a Repository holding its working set in memory and
// writing the whole table through to a kv.Store after every mutation.
// Thread-safe via RWMutex.
type KVRepository struct {
	mu         sync.RWMutex
	store      kv.Store
	templates  []Template
	categories []Category
}

// NewKVRepository loads the catalog from the store. If the store holds
// no catalog yet, the default seed catalog is written.
func NewKVRepository(ctx context.Context, store kv.Store) (*KVRepository, error) {
	r := &KVRepository{store: store}

	found, err := store.Get(ctx, kv.KeyTemplates, &r.templates)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if !found {
		r.templates = DefaultTemplates()
		if err := store.Set(ctx, kv.KeyTemplates, r.templates); err != nil {
			return nil, fmt.Errorf("seed templates: %w", err)
		}
	}

	found, err = store.Get(ctx, kv.KeyCategories, &r.categories)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if !found {
		r.categories = DefaultCategories()
		if err := store.Set(ctx, kv.KeyCategories, r.categories); err != nil {
			return nil, fmt.Errorf("seed categories: %w", err)
		}
	}

	return r, nil
}

// List returns copies of all templates in catalog order.
func (r *KVRepository) List() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// Get retrieves a template by id.
func (r *KVRepository) Get(id string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.templates {
		if r.templates[i].ID == id {
			t := r.templates[i]
			return &t, nil
		}
	}
	return nil, ErrTemplateNotFound
}

// Categories returns copies of all categories.
func (r *KVRepository) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// GetCategory retrieves a category by id.
func (r *KVRepository) GetCategory(id string) (*Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.categories {
		if r.categories[i].ID == id {
			c := r.categories[i]
			return &c, nil
		}
	}
	return nil, ErrCategoryNotFound
}

// Create inserts a new template with a generated id and timestamps.
// Downloads and rating always start at zero regardless of input.
func (r *KVRepository) Create(ctx context.Context, t *Template) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *t
	stored.ID = uuid.New().String()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Downloads = 0
	stored.Rating = 0

	r.templates = append(r.templates, stored)
	if err := r.persist(ctx); err != nil {
		r.templates = r.templates[:len(r.templates)-1]
		return nil, err
	}

	out := stored
	return &out, nil
}

// Update applies a partial update to an existing template.
func (r *KVRepository) Update(ctx context.Context, id string, upd Update) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrTemplateNotFound
	}

	prev := r.templates[idx]
	t := &r.templates[idx]
	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Category != nil {
		t.Category = *upd.Category
	}
	if upd.Tags != nil {
		t.Tags = append([]string(nil), (*upd.Tags)...)
	}
	if upd.Technologies != nil {
		t.Technologies = append([]string(nil), (*upd.Technologies)...)
	}
	if upd.Difficulty != nil {
		t.Difficulty = *upd.Difficulty
	}
	if upd.Preview != nil {
		t.Preview = *upd.Preview
	}
	if upd.Size != nil {
		t.Size = *upd.Size
	}
	if upd.Featured != nil {
		t.Featured = *upd.Featured
	}
	if upd.CDNURL != nil {
		t.CDNURL = *upd.CDNURL
	}
	if upd.DemoURL != nil {
		t.DemoURL = *upd.DemoURL
	}
	t.UpdatedAt = time.Now().UTC()

	if err := r.persist(ctx); err != nil {
		r.templates[idx] = prev
		return nil, err
	}

	out := *t
	return &out, nil
}

// Delete removes a template from the catalog.
func (r *KVRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return ErrTemplateNotFound
	}

	removed := r.templates[idx]
	r.templates = append(r.templates[:idx], r.templates[idx+1:]...)
	if err := r.persist(ctx); err != nil {
		r.templates = append(r.templates[:idx], append([]Template{removed}, r.templates[idx:]...)...)
		return err
	}
	return nil
}

// IncrementDownloads bumps the download counter by one.
func (r *KVRepository) IncrementDownloads(ctx context.Context, id string) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrTemplateNotFound
	}

	r.templates[idx].Downloads++
	r.templates[idx].UpdatedAt = time.Now().UTC()
	if err := r.persist(ctx); err != nil {
		r.templates[idx].Downloads--
		return nil, err
	}

	out := r.templates[idx]
	return &out, nil
}

// SetRating pushes a recomputed display rating onto the template,
// rounded to one decimal place.
func (r *KVRepository) SetRating(ctx context.Context, id string, rating float64) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, ErrTemplateNotFound
	}

	prev := r.templates[idx].Rating
	r.templates[idx].Rating = math.Round(rating*10) / 10
	r.templates[idx].UpdatedAt = time.Now().UTC()
	if err := r.persist(ctx); err != nil {
		r.templates[idx].Rating = prev
		return nil, err
	}

	out := r.templates[idx]
	return &out, nil
}

// indexOf returns the position of the template with the given id, or -1.
// Callers must hold the lock.
func (r *KVRepository) indexOf(id string) int {
	for i := range r.templates {
		if r.templates[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the template table through to the store. Callers must
// hold the write lock.
func (r *KVRepository) persist(ctx context.Context) error {
	if err := r.store.Set(ctx, kv.KeyTemplates, r.templates); err != nil {
		return fmt.Errorf("persist templates: %w", err)
	}
	return nil
}
