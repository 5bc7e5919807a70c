package kv

import (
	"context"
	"testing"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	type record struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}

	in := []record{{ID: "a", Count: 1}, {ID: "b", Count: 2}}
	if err := store.Set(ctx, KeyTemplates, in); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var out []record
	found, err := store.Get(ctx, KeyTemplates, &out)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("Expected key to be found")
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].Count != 2 {
		t.Errorf("Unexpected round-trip value: %+v", out)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	var out map[string]int
	found, err := store.Get(context.Background(), "missing", &out)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected missing key to report not found")
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, KeyAnalytics, map[string]int{"views": 3}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, KeyAnalytics); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var out map[string]int
	found, err := store.Get(ctx, KeyAnalytics, &out)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("Expected deleted key to report not found")
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, KeyAnalytics); err != nil {
		t.Errorf("Delete of absent key failed: %v", err)
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Set(ctx, KeyFavorites, []string{"tpl-001"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var first []string
	if _, err := store.Get(ctx, KeyFavorites, &first); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	first[0] = "mutated"

	var second []string
	if _, err := store.Get(ctx, KeyFavorites, &second); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if second[0] != "tpl-001" {
		t.Errorf("Stored value was mutated through a returned copy: %v", second)
	}
}
