// Package ranking provides the additive relevance scoring used by
// template search, with calibration support for the weight table.
package ranking

import (
	"strings"

	"github.com/templatehub/marketplace/internal/template"
)

// PopularDownloadsThreshold is the download count above which a
// template receives the popularity boost.
const PopularDownloadsThreshold = 1000

// Weights defines the point values of the scoring heuristic. The
// whole-query fields apply when the full query is a substring of the
// corresponding field; the token fields apply once per
// whitespace-delimited query token (and per tag for TokenTag). Both
// passes run over the same record; the resulting double counting is
// part of the scoring contract, not an accident to correct here.
type Weights struct {
	Name        float64 `json:"name"`        // Whole query in template name (default: 100)
	Description float64 `json:"description"` // Whole query in description (default: 50)
	Category    float64 `json:"category"`    // Whole query in category id (default: 40)
	Tag         float64 `json:"tag"`         // Whole query in a tag, per matching tag (default: 30)
	Technology  float64 `json:"technology"`  // Whole query in a technology, per match (default: 25)

	TokenName        float64 `json:"token_name"`        // Token in name, per token (default: 20)
	TokenTag         float64 `json:"token_tag"`         // Token in a tag, per token per tag (default: 15)
	TokenDescription float64 `json:"token_description"` // Token in description, per token (default: 10)

	Featured float64 `json:"featured"` // Flat boost for featured templates (default: 10)
	Popular  float64 `json:"popular"`  // Flat boost above the download threshold (default: 5)
}

// DefaultWeights returns the default scoring weight table.
//
// Worked example: a featured template named "Modern Landing Page" with
// tag "modern" and 1567 downloads, queried with "modern", scores
// 100 (name) + 30 (tag) + 20 (token in name) + 15 (token in tag)
// + 10 (featured) + 5 (popular) = 180.
func DefaultWeights() *Weights {
	return &Weights{
		Name:             100,
		Description:      50,
		Category:         40,
		Tag:              30,
		Technology:       25,
		TokenName:        20,
		TokenTag:         15,
		TokenDescription: 10,
		Featured:         10,
		Popular:          5,
	}
}

// Score computes the relevance score of a template for a text query.
// Matching is case-insensitive substring containment throughout. A
// template scoring 0 carries no relevance and is excluded from ranked
// results by the caller.
//
// The query is matched twice: once as a whole string against each
// field, then token by token (empty tokens excluded). Missing optional
// collections (tags, technologies) contribute nothing.
func Score(t *template.Template, query string, w *Weights) float64 {
	if w == nil {
		w = DefaultWeights()
	}

	q := strings.ToLower(query)
	if q == "" {
		return 0
	}

	name := strings.ToLower(t.Name)
	description := strings.ToLower(t.Description)
	category := strings.ToLower(t.Category)

	var score float64

	if strings.Contains(name, q) {
		score += w.Name
	}
	if strings.Contains(description, q) {
		score += w.Description
	}
	if strings.Contains(category, q) {
		score += w.Category
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			score += w.Tag
		}
	}
	for _, tech := range t.Technologies {
		if strings.Contains(strings.ToLower(tech), q) {
			score += w.Technology
		}
	}

	for _, token := range strings.Fields(q) {
		if strings.Contains(name, token) {
			score += w.TokenName
		}
		if strings.Contains(description, token) {
			score += w.TokenDescription
		}
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), token) {
				score += w.TokenTag
			}
		}
	}

	if t.Featured {
		score += w.Featured
	}
	if t.Downloads > PopularDownloadsThreshold {
		score += w.Popular
	}

	return score
}
