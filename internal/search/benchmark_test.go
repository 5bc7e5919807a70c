package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/templatehub/marketplace/internal/kv"
	"github.com/templatehub/marketplace/internal/template"
)

func benchmarkCatalog(n int) []template.Template {
	catalog := make([]template.Template, 0, n)
	for i := 0; i < n; i++ {
		catalog = append(catalog, template.Template{
			ID:           fmt.Sprintf("tpl-%04d", i),
			Name:         fmt.Sprintf("Landing Page %d", i),
			Description:  "A responsive landing page with hero section and pricing table.",
			Category:     "landing-pages",
			Tags:         []string{"responsive", "hero", "pricing"},
			Technologies: []string{"HTML", "CSS", "JavaScript"},
			Downloads:    i * 10,
			Featured:     i%7 == 0,
		})
	}
	return catalog
}

func newBenchSearcher(b *testing.B, n int) *Searcher {
	b.Helper()

	ctx := context.Background()
	store := kv.NewMemoryStore()
	if err := store.Set(ctx, kv.KeyTemplates, benchmarkCatalog(n)); err != nil {
		b.Fatalf("seed templates: %v", err)
	}
	repo, err := template.NewKVRepository(ctx, store)
	if err != nil {
		b.Fatalf("NewKVRepository: %v", err)
	}
	return NewSearcher(repo, nil, nil, nil, nil)
}

func BenchmarkSearch(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("catalog_%d", n), func(b *testing.B) {
			s := newBenchSearcher(b, n)
			ctx := context.Background()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Search(ctx, "responsive landing", FilterSet{}, SortNewest)
			}
		})
	}
}

func BenchmarkSuggest(b *testing.B) {
	s := newBenchSearcher(b, 100)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Suggest(ctx, "landing")
	}
}
