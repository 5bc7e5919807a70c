// Package health provides health check implementations for the API's
// dependencies.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/templatehub/marketplace/internal/kv"
)

// Checker reports whether a dependency is usable.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// StoreChecker probes the backing store with a write/read round trip.
type StoreChecker struct {
	store kv.Store
}

// NewStoreChecker creates a health checker for the backing store.
func NewStoreChecker(store kv.Store) *StoreChecker {
	return &StoreChecker{store: store}
}

// HealthCheck writes a probe value and reads it back.
func (s *StoreChecker) HealthCheck(ctx context.Context) error {
	probe := time.Now().UnixNano()
	if err := s.store.Set(ctx, "tm_health_probe", probe); err != nil {
		return fmt.Errorf("store probe write: %w", err)
	}

	var got int64
	found, err := s.store.Get(ctx, "tm_health_probe", &got)
	if err != nil {
		return fmt.Errorf("store probe read: %w", err)
	}
	if !found || got != probe {
		return fmt.Errorf("store probe mismatch: wrote %d, read %d (found=%t)", probe, got, found)
	}
	return nil
}
