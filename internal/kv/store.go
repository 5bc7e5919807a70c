// Package kv provides the key-value persistence layer backing the
// marketplace repositories. Each feature stores whole tables under a
// stable key; repositories read-modify-write entire values.
package kv

import (
	"context"
	"errors"
)

// Storage keys for the marketplace tables.
const (
	KeyTemplates       = "tm_templates"
	KeyCategories      = "tm_categories"
	KeyRatings         = "tm_template_ratings"
	KeyUserRatings     = "tm_user_ratings"
	KeyReviews         = "tm_template_reviews"
	KeyFavorites       = "tm_favorites"
	KeyCollections     = "tm_collections"
	KeySearchHistory   = "tm_search_history"
	KeySearchAnalytics = "tm_search_analytics"
	KeyDownloadHistory = "tm_download_history"
	KeyDownloadStats   = "tm_download_stats"
	KeyAnalytics       = "tm_analytics"
)

// ErrStorage wraps any failure in the underlying store. Callers surface
// it to their own callers without retrying.
var ErrStorage = errors.New("storage error")

// Store is the persistence contract consumed by the repositories.
// Get decodes the value stored under key into out and reports whether
// the key existed. Set encodes and stores value under key.
type Store interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}
