package search

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/templatehub/marketplace/internal/template"
)

// SuggestLimit caps how many suggestions a single lookup returns.
const SuggestLimit = 10

// Suggestion kinds, in ascending display priority order.
const (
	SuggestionTemplate   = "template"
	SuggestionCategory   = "category"
	SuggestionTag        = "tag"
	SuggestionTechnology = "technology"
	SuggestionHistory    = "history"
)

var suggestionPriority = map[string]int{
	SuggestionTemplate:   1,
	SuggestionCategory:   2,
	SuggestionTag:        3,
	SuggestionTechnology: 4,
	SuggestionHistory:    5,
}

// Suggestion is one autocomplete candidate.
type Suggestion struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// Suggest returns autocomplete candidates for a partial query.
// Template names, categories, tags, technologies and past searches are
// scanned in that order; the first SuggestLimit hits are kept and then
// ordered exact matches first, remaining ties by kind priority.
// Partials shorter than two characters return nothing.
func (s *Searcher) Suggest(ctx context.Context, partial string) []Suggestion {
	if s.metrics != nil {
		s.metrics.IncSuggestionLookups()
	}

	trimmed := strings.TrimSpace(partial)
	if utf8.RuneCountInString(trimmed) < 2 {
		return []Suggestion{}
	}
	lower := strings.ToLower(trimmed)

	var out []Suggestion
	seen := make(map[string]bool)
	add := func(sug Suggestion) {
		key := sug.Type + "\x00" + strings.ToLower(sug.Text)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, sug)
	}

	templates := s.repo.List()

	for _, t := range templates {
		if strings.Contains(strings.ToLower(t.Name), lower) {
			add(Suggestion{Type: SuggestionTemplate, Text: t.Name, Category: t.Category})
		}
	}

	categorySize := make(map[string]int)
	for _, t := range templates {
		categorySize[t.Category]++
	}
	for _, c := range s.repo.Categories() {
		if strings.Contains(strings.ToLower(c.Name), lower) {
			add(Suggestion{Type: SuggestionCategory, Text: c.Name, Count: categorySize[c.ID]})
		}
	}

	var tagOrder, techOrder []string
	seenTag := make(map[string]bool)
	seenTech := make(map[string]bool)
	for _, t := range templates {
		for _, tag := range t.Tags {
			if !seenTag[tag] && strings.Contains(strings.ToLower(tag), lower) {
				seenTag[tag] = true
				tagOrder = append(tagOrder, tag)
			}
		}
		for _, tech := range t.Technologies {
			if !seenTech[tech] && strings.Contains(strings.ToLower(tech), lower) {
				seenTech[tech] = true
				techOrder = append(techOrder, tech)
			}
		}
	}
	// A candidate's count is the number of templates carrying it as a
	// substring of any of their tags, not exact-tag occurrences.
	countBySubstring := func(candidate string, pick func(t template.Template) []string) int {
		needle := strings.ToLower(candidate)
		count := 0
		for _, t := range templates {
			for _, v := range pick(t) {
				if strings.Contains(strings.ToLower(v), needle) {
					count++
					break
				}
			}
		}
		return count
	}
	for _, tag := range tagOrder {
		add(Suggestion{Type: SuggestionTag, Text: tag, Count: countBySubstring(tag, func(t template.Template) []string { return t.Tags })})
	}
	for _, tech := range techOrder {
		add(Suggestion{Type: SuggestionTechnology, Text: tech, Count: countBySubstring(tech, func(t template.Template) []string { return t.Technologies })})
	}

	if s.history != nil {
		for _, r := range s.history.Recent() {
			if strings.Contains(r.Query, lower) {
				add(Suggestion{Type: SuggestionHistory, Text: r.Query})
			}
		}
	}

	// Truncation happens before ordering, so collection order decides
	// which candidates survive.
	if len(out) > SuggestLimit {
		out = out[:SuggestLimit]
	}

	sort.SliceStable(out, func(i, j int) bool {
		iExact := strings.ToLower(out[i].Text) == lower
		jExact := strings.ToLower(out[j].Text) == lower
		if iExact != jExact {
			return iExact
		}
		return suggestionPriority[out[i].Type] < suggestionPriority[out[j].Type]
	})

	if out == nil {
		out = []Suggestion{}
	}
	return out
}
