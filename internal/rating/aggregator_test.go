package rating

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/templatehub/marketplace/internal/kv"
	"github.com/templatehub/marketplace/internal/template"
)

func newTestAggregator(t *testing.T) (*Aggregator, template.Repository, kv.Store) {
	t.Helper()

	ctx := context.Background()
	store := kv.NewMemoryStore()
	repo, err := template.NewKVRepository(ctx, store)
	if err != nil {
		t.Fatalf("NewKVRepository: %v", err)
	}
	agg, err := NewAggregator(ctx, store, repo, nil)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	return agg, repo, store
}

// checkInvariants verifies the aggregate's internal consistency: the
// distribution buckets sum to the vote count, the star-weighted sum
// matches the total, and the average follows from both.
func checkInvariants(t *testing.T, agg *Aggregate) {
	t.Helper()

	votes, weighted := 0, 0
	for stars, count := range agg.Distribution {
		if count < 0 {
			t.Fatalf("negative bucket %d: %d", stars, count)
		}
		votes += count
		weighted += stars * count
	}
	if votes != agg.TotalVotes {
		t.Fatalf("distribution sums to %d votes, TotalVotes = %d", votes, agg.TotalVotes)
	}
	if weighted != agg.TotalRating {
		t.Fatalf("distribution weighs %d, TotalRating = %d", weighted, agg.TotalRating)
	}
	want := 0.0
	if agg.TotalVotes > 0 {
		want = float64(agg.TotalRating) / float64(agg.TotalVotes)
	}
	if agg.Average != want {
		t.Fatalf("Average = %v, want %v", agg.Average, want)
	}
}

func TestSubmit_RejectsOutOfRangeStars(t *testing.T) {
	agg, _, _ := newTestAggregator(t)
	ctx := context.Background()

	for _, stars := range []int{-1, 0, 6, 100} {
		if _, err := agg.Submit(ctx, "tpl-001", "user-a", stars); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("Submit(%d stars): err = %v, want ErrInvalidRating", stars, err)
		}
	}
	if got := agg.Get("tpl-001"); got.TotalVotes != 0 {
		t.Errorf("rejected submissions changed the aggregate: %+v", got)
	}
}

func TestSubmit_AcceptsBoundaryStars(t *testing.T) {
	agg, _, _ := newTestAggregator(t)
	ctx := context.Background()

	for i, stars := range []int{MinStars, MaxStars} {
		user := string(rune('a' + i))
		out, err := agg.Submit(ctx, "tpl-001", "user-"+user, stars)
		if err != nil {
			t.Fatalf("Submit(%d stars): %v", stars, err)
		}
		checkInvariants(t, out)
	}

	got := agg.Get("tpl-001")
	if got.TotalVotes != 2 || got.TotalRating != MinStars+MaxStars {
		t.Errorf("aggregate = %+v", got)
	}
}

func TestSubmit_UnknownTemplate(t *testing.T) {
	agg, _, _ := newTestAggregator(t)

	_, err := agg.Submit(context.Background(), "no-such-template", "user-a", 4)
	if !errors.Is(err, template.ErrTemplateNotFound) {
		t.Errorf("err = %v, want ErrTemplateNotFound", err)
	}
}

func TestSubmit_AccumulatesAcrossUsers(t *testing.T) {
	agg, repo, _ := newTestAggregator(t)
	ctx := context.Background()

	for user, stars := range map[string]int{"user-a": 3, "user-b": 4, "user-c": 5} {
		out, err := agg.Submit(ctx, "tpl-001", user, stars)
		if err != nil {
			t.Fatalf("Submit(%s, %d): %v", user, stars, err)
		}
		checkInvariants(t, out)
	}

	got := agg.Get("tpl-001")
	if got.TotalRating != 12 || got.TotalVotes != 3 || got.Average != 4.0 {
		t.Errorf("aggregate = %+v, want 12/3 averaging 4.0", got)
	}
	wantDist := map[int]int{1: 0, 2: 0, 3: 1, 4: 1, 5: 1}
	if !reflect.DeepEqual(got.Distribution, wantDist) {
		t.Errorf("distribution = %v, want %v", got.Distribution, wantDist)
	}

	tpl, err := repo.Get("tpl-001")
	if err != nil {
		t.Fatalf("Get template: %v", err)
	}
	if tpl.Rating != 4.0 {
		t.Errorf("display rating = %v, want 4.0", tpl.Rating)
	}
}

func TestSubmit_ResubmitMovesVoteWithoutRecount(t *testing.T) {
	agg, repo, _ := newTestAggregator(t)
	ctx := context.Background()

	for user, stars := range map[string]int{"user-a": 3, "user-b": 4, "user-c": 5} {
		if _, err := agg.Submit(ctx, "tpl-001", user, stars); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	out, err := agg.Submit(ctx, "tpl-001", "user-a", 5)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	checkInvariants(t, out)

	if out.TotalRating != 14 || out.TotalVotes != 3 {
		t.Errorf("aggregate = %+v, want 14/3", out)
	}
	wantDist := map[int]int{1: 0, 2: 0, 3: 0, 4: 1, 5: 2}
	if !reflect.DeepEqual(out.Distribution, wantDist) {
		t.Errorf("distribution = %v, want %v", out.Distribution, wantDist)
	}
	if want := 14.0 / 3.0; out.Average != want {
		t.Errorf("average = %v, want %v", out.Average, want)
	}

	tpl, err := repo.Get("tpl-001")
	if err != nil {
		t.Fatalf("Get template: %v", err)
	}
	if want := math.Round(14.0/3.0*10) / 10; tpl.Rating != want {
		t.Errorf("display rating = %v, want %v", tpl.Rating, want)
	}
}

func TestSubmit_SameStarsTwiceIsIdempotent(t *testing.T) {
	agg, repo, _ := newTestAggregator(t)
	ctx := context.Background()

	if _, err := agg.Submit(ctx, "tpl-001", "user-b", 3); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	once, err := agg.Submit(ctx, "tpl-001", "user-a", 4)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	before := once.Clone()

	twice, err := agg.Submit(ctx, "tpl-001", "user-a", 4)
	if err != nil {
		t.Fatalf("resubmit same stars: %v", err)
	}
	checkInvariants(t, twice)

	if !reflect.DeepEqual(twice, before) {
		t.Errorf("aggregate after same-stars resubmit = %+v, want %+v", twice, before)
	}

	tpl, err := repo.Get("tpl-001")
	if err != nil {
		t.Fatalf("Get template: %v", err)
	}
	if want := math.Round(7.0/2.0*10) / 10; tpl.Rating != want {
		t.Errorf("display rating = %v, want %v", tpl.Rating, want)
	}
}

func TestDelete_RestoresPriorAggregate(t *testing.T) {
	agg, _, _ := newTestAggregator(t)
	ctx := context.Background()

	if _, err := agg.Submit(ctx, "tpl-001", "user-a", 3); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := agg.Submit(ctx, "tpl-001", "user-b", 5); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	before := agg.Get("tpl-001")

	if _, err := agg.Submit(ctx, "tpl-001", "user-c", 2); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	out, err := agg.Delete(ctx, "tpl-001", "user-c")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	checkInvariants(t, out)

	if !reflect.DeepEqual(out, before) {
		t.Errorf("after submit+delete: %+v, want %+v", out, before)
	}
}

func TestDelete_LastVoteKeepsRecord(t *testing.T) {
	agg, repo, _ := newTestAggregator(t)
	ctx := context.Background()

	if _, err := agg.Submit(ctx, "tpl-001", "user-a", 4); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	out, err := agg.Delete(ctx, "tpl-001", "user-a")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	checkInvariants(t, out)

	if out.TotalVotes != 0 || out.TotalRating != 0 || out.Average != 0 {
		t.Errorf("aggregate after last delete = %+v", out)
	}

	tpl, err := repo.Get("tpl-001")
	if err != nil {
		t.Fatalf("Get template: %v", err)
	}
	if tpl.Rating != 0 {
		t.Errorf("display rating = %v, want 0", tpl.Rating)
	}

	if _, ok := agg.UserRating("tpl-001", "user-a"); ok {
		t.Error("user rating still present after delete")
	}
}

func TestDelete_MissingVoteLeavesAggregateUntouched(t *testing.T) {
	agg, _, _ := newTestAggregator(t)
	ctx := context.Background()

	if _, err := agg.Submit(ctx, "tpl-001", "user-a", 4); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	before := agg.Get("tpl-001")

	if _, err := agg.Delete(ctx, "tpl-001", "user-b"); !errors.Is(err, ErrRatingNotFound) {
		t.Fatalf("err = %v, want ErrRatingNotFound", err)
	}
	if _, err := agg.Delete(ctx, "tpl-002", "user-a"); !errors.Is(err, ErrRatingNotFound) {
		t.Fatalf("err = %v, want ErrRatingNotFound", err)
	}

	if got := agg.Get("tpl-001"); !reflect.DeepEqual(got, before) {
		t.Errorf("aggregate changed: %+v, want %+v", got, before)
	}
}

func TestGet_UnratedTemplateReturnsEmptyAggregate(t *testing.T) {
	agg, _, _ := newTestAggregator(t)

	got := agg.Get("tpl-001")
	checkInvariants(t, got)
	if got.TotalVotes != 0 || len(got.Distribution) != 5 {
		t.Errorf("aggregate = %+v", got)
	}
}

func TestUserRating_TracksCurrentVote(t *testing.T) {
	agg, _, _ := newTestAggregator(t)
	ctx := context.Background()

	if _, ok := agg.UserRating("tpl-001", "user-a"); ok {
		t.Fatal("unexpected vote before submit")
	}

	if _, err := agg.Submit(ctx, "tpl-001", "user-a", 3); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := agg.Submit(ctx, "tpl-001", "user-a", 5); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	vote, ok := agg.UserRating("tpl-001", "user-a")
	if !ok || vote.Stars != 5 {
		t.Errorf("vote = %+v ok=%v, want 5 stars", vote, ok)
	}
}

func TestAggregator_PersistsAcrossReload(t *testing.T) {
	agg, repo, store := newTestAggregator(t)
	ctx := context.Background()

	if _, err := agg.Submit(ctx, "tpl-001", "user-a", 4); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, err := agg.Submit(ctx, "tpl-002", "user-a", 2); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	reloaded, err := NewAggregator(ctx, store, repo, nil)
	if err != nil {
		t.Fatalf("NewAggregator reload: %v", err)
	}

	got := reloaded.Get("tpl-001")
	checkInvariants(t, got)
	if got.TotalVotes != 1 || got.TotalRating != 4 {
		t.Errorf("reloaded aggregate = %+v", got)
	}
	if vote, ok := reloaded.UserRating("tpl-002", "user-a"); !ok || vote.Stars != 2 {
		t.Errorf("reloaded vote = %+v ok=%v", vote, ok)
	}
}

func TestTopRated(t *testing.T) {
	agg, _, _ := newTestAggregator(t)
	ctx := context.Background()

	submissions := []struct {
		tpl   string
		user  string
		stars int
	}{
		{"tpl-001", "user-a", 5},
		{"tpl-001", "user-b", 5},
		{"tpl-002", "user-a", 5},
		{"tpl-004", "user-a", 3},
	}
	for _, s := range submissions {
		if _, err := agg.Submit(ctx, s.tpl, s.user, s.stars); err != nil {
			t.Fatalf("Submit(%+v): %v", s, err)
		}
	}

	top := agg.TopRated(2)
	if len(top) != 2 {
		t.Fatalf("got %d entries, want 2", len(top))
	}
	// Equal averages fall back to vote count.
	if top[0].TemplateID != "tpl-001" || top[1].TemplateID != "tpl-002" {
		t.Errorf("top rated = %+v", top)
	}
}

func TestStatistics(t *testing.T) {
	agg, _, _ := newTestAggregator(t)
	ctx := context.Background()

	for _, s := range []struct {
		tpl   string
		user  string
		stars int
	}{
		{"tpl-001", "user-a", 4},
		{"tpl-001", "user-b", 5},
		{"tpl-002", "user-a", 3},
	} {
		if _, err := agg.Submit(ctx, s.tpl, s.user, s.stars); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	stats := agg.Statistics()
	if stats.TotalVotes != 3 || stats.RatedTemplates != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if want := 12.0 / 3.0; stats.OverallAverage != want {
		t.Errorf("overall average = %v, want %v", stats.OverallAverage, want)
	}
	if stats.Distribution[4] != 1 || stats.Distribution[5] != 1 || stats.Distribution[3] != 1 {
		t.Errorf("distribution = %v", stats.Distribution)
	}
}
