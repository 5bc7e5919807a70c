package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/templatehub/marketplace/internal/kv"
)

func newTestHistory(t *testing.T) (*History, kv.Store) {
	t.Helper()

	store := kv.NewMemoryStore()
	h, err := NewHistory(context.Background(), store)
	if err != nil {
		t.Fatalf("NewHistory: %v", err)
	}
	return h, store
}

func TestHistory_TrackNormalizesAndPrepends(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()

	if err := h.Track(ctx, "  Login Form  "); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := h.Track(ctx, "dashboard"); err != nil {
		t.Fatalf("Track: %v", err)
	}

	recent := h.Recent()
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	if recent[0].Query != "dashboard" || recent[1].Query != "login form" {
		t.Errorf("got [%q %q], want [dashboard, login form]", recent[0].Query, recent[1].Query)
	}
}

func TestHistory_TrackDedupesToFront(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()

	for _, q := range []string{"alpha", "beta", "alpha"} {
		if err := h.Track(ctx, q); err != nil {
			t.Fatalf("Track(%q): %v", q, err)
		}
	}

	recent := h.Recent()
	if len(recent) != 2 {
		t.Fatalf("got %d entries, want 2", len(recent))
	}
	if recent[0].Query != "alpha" || recent[1].Query != "beta" {
		t.Errorf("got [%q %q], want [alpha, beta]", recent[0].Query, recent[1].Query)
	}

	stats := h.Popular(10)
	if stats[0].Query != "alpha" || stats[0].Count != 2 {
		t.Errorf("popular[0] = %+v, want alpha with count 2", stats[0])
	}
}

func TestHistory_CapsRecentEntries(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()

	for i := 0; i < HistoryLimit+5; i++ {
		if err := h.Track(ctx, fmt.Sprintf("query-%d", i)); err != nil {
			t.Fatalf("Track: %v", err)
		}
	}

	recent := h.Recent()
	if len(recent) != HistoryLimit {
		t.Fatalf("got %d entries, want %d", len(recent), HistoryLimit)
	}
	if recent[0].Query != fmt.Sprintf("query-%d", HistoryLimit+4) {
		t.Errorf("newest entry = %q", recent[0].Query)
	}
}

func TestHistory_IgnoresBlankQueries(t *testing.T) {
	h, _ := newTestHistory(t)

	if err := h.Track(context.Background(), "   "); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if got := len(h.Recent()); got != 0 {
		t.Errorf("got %d entries, want 0", got)
	}
}

func TestHistory_PersistsAcrossReload(t *testing.T) {
	h, store := newTestHistory(t)
	ctx := context.Background()

	for _, q := range []string{"alpha", "beta", "alpha"} {
		if err := h.Track(ctx, q); err != nil {
			t.Fatalf("Track: %v", err)
		}
	}

	reloaded, err := NewHistory(ctx, store)
	if err != nil {
		t.Fatalf("NewHistory reload: %v", err)
	}
	if got := len(reloaded.Recent()); got != 2 {
		t.Fatalf("got %d entries after reload, want 2", got)
	}
	popular := reloaded.Popular(1)
	if len(popular) != 1 || popular[0].Query != "alpha" || popular[0].Count != 2 {
		t.Errorf("popular after reload = %+v", popular)
	}
}

func TestHistory_PopularOrdersByCountThenQuery(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()

	for _, q := range []string{"zeta", "zeta", "apple", "mango"} {
		if err := h.Track(ctx, q); err != nil {
			t.Fatalf("Track: %v", err)
		}
	}

	popular := h.Popular(10)
	want := []PopularQuery{
		{Query: "zeta", Count: 2},
		{Query: "apple", Count: 1},
		{Query: "mango", Count: 1},
	}
	if len(popular) != len(want) {
		t.Fatalf("got %d entries, want %d", len(popular), len(want))
	}
	for i := range want {
		if popular[i] != want[i] {
			t.Errorf("popular[%d] = %+v, want %+v", i, popular[i], want[i])
		}
	}

	if got := h.Popular(1); len(got) != 1 {
		t.Errorf("Popular(1) returned %d entries", len(got))
	}
}

func TestHistory_Clear(t *testing.T) {
	h, store := newTestHistory(t)
	ctx := context.Background()

	if err := h.Track(ctx, "alpha"); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := h.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if got := len(h.Recent()); got != 0 {
		t.Errorf("got %d entries after clear, want 0", got)
	}

	reloaded, err := NewHistory(ctx, store)
	if err != nil {
		t.Fatalf("NewHistory reload: %v", err)
	}
	if got := len(reloaded.Recent()); got != 0 {
		t.Errorf("got %d entries after clear and reload, want 0", got)
	}
	if got := len(reloaded.Popular(10)); got != 0 {
		t.Errorf("got %d popular entries after clear, want 0", got)
	}
}
