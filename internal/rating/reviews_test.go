package rating

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/templatehub/marketplace/internal/kv"
)

func newTestReviews(t *testing.T) (*Reviews, kv.Store) {
	t.Helper()

	store := kv.NewMemoryStore()
	r, err := NewReviews(context.Background(), store, nil)
	if err != nil {
		t.Fatalf("NewReviews: %v", err)
	}
	return r, store
}

func TestReviews_UpsertCreates(t *testing.T) {
	r, _ := newTestReviews(t)

	rev, err := r.Upsert(context.Background(), "tpl-001", "user-a", 5, "Clean markup, easy to customize.")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if rev.ID == "" {
		t.Error("review id not generated")
	}
	if rev.Stars != 5 || rev.Helpful != 0 {
		t.Errorf("review = %+v", rev)
	}

	list := r.List("tpl-001")
	if len(list) != 1 || list[0].ID != rev.ID {
		t.Errorf("list = %+v", list)
	}
}

func TestReviews_UpsertRejectsOutOfRangeStars(t *testing.T) {
	r, _ := newTestReviews(t)

	for _, stars := range []int{0, 6} {
		if _, err := r.Upsert(context.Background(), "tpl-001", "user-a", stars, "x"); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Upsert(%d stars): err = %v, want ErrInvalidRating", stars, err)
		}
	}
}

func TestReviews_ResubmitReplacesButKeepsHelpful(t *testing.T) {
	r, _ := newTestReviews(t)
	ctx := context.Background()

	first, err := r.Upsert(ctx, "tpl-001", "user-a", 3, "Decent starting point.")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := r.MarkHelpful(ctx, "tpl-001", first.ID); err != nil {
			t.Fatalf("MarkHelpful: %v", err)
		}
	}

	second, err := r.Upsert(ctx, "tpl-001", "user-a", 5, "Revised after the update, much better now.")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("resubmit changed review id: %s -> %s", first.ID, second.ID)
	}
	if second.Helpful != 3 {
		t.Errorf("helpful = %d, want 3", second.Helpful)
	}
	if second.Stars != 5 || second.Comment != "Revised after the update, much better now." {
		t.Errorf("review = %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("resubmit changed creation time")
	}

	if got := r.List("tpl-001"); len(got) != 1 {
		t.Errorf("user holds %d reviews, want 1", len(got))
	}
}

func TestReviews_ListNewestFirst(t *testing.T) {
	r, _ := newTestReviews(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(2 * time.Hour), base.Add(time.Hour)}
	users := []string{"user-a", "user-b", "user-c"}
	for i, user := range users {
		r.now = func() time.Time { return times[i] }
		if _, err := r.Upsert(ctx, "tpl-001", user, 4, "ok"); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	list := r.List("tpl-001")
	if len(list) != 3 {
		t.Fatalf("got %d reviews, want 3", len(list))
	}
	want := []string{"user-b", "user-c", "user-a"}
	for i := range want {
		if list[i].UserID != want[i] {
			t.Errorf("list[%d] = %s, want %s", i, list[i].UserID, want[i])
		}
	}
}

func TestReviews_MarkHelpfulUnknownReview(t *testing.T) {
	r, _ := newTestReviews(t)

	if _, err := r.MarkHelpful(context.Background(), "tpl-001", "nope"); !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("err = %v, want ErrReviewNotFound", err)
	}
}

func TestReviews_Delete(t *testing.T) {
	r, _ := newTestReviews(t)
	ctx := context.Background()

	if _, err := r.Upsert(ctx, "tpl-001", "user-a", 4, "ok"); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := r.Delete(ctx, "tpl-001", "user-a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := r.List("tpl-001"); len(got) != 0 {
		t.Errorf("got %d reviews after delete, want 0", len(got))
	}
	if err := r.Delete(ctx, "tpl-001", "user-a"); !errors.Is(err, ErrReviewNotFound) {
		t.Errorf("err = %v, want ErrReviewNotFound", err)
	}
}

func TestReviews_PersistsAcrossReload(t *testing.T) {
	r, store := newTestReviews(t)
	ctx := context.Background()

	rev, err := r.Upsert(ctx, "tpl-001", "user-a", 4, "Solid template.")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := r.MarkHelpful(ctx, "tpl-001", rev.ID); err != nil {
		t.Fatalf("MarkHelpful: %v", err)
	}

	reloaded, err := NewReviews(ctx, store, nil)
	if err != nil {
		t.Fatalf("NewReviews reload: %v", err)
	}
	list := reloaded.List("tpl-001")
	if len(list) != 1 || list[0].Helpful != 1 || list[0].Comment != "Solid template." {
		t.Errorf("reloaded reviews = %+v", list)
	}

	reviews, helpful := reloaded.Counts()
	if reviews != 1 || helpful != 1 {
		t.Errorf("counts = %d reviews, %d helpful", reviews, helpful)
	}
}
