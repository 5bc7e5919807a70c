package search

import (
	"time"

	"github.com/templatehub/marketplace/internal/ranking"
	"github.com/templatehub/marketplace/internal/template"
)

// Named feature predicates selectable in a FilterSet.
const (
	FeatureFeatured = "featured" // featured flag set
	FeaturePopular  = "popular"  // downloads >= 1000
	FeatureRecent   = "recent"   // created within the last 7 days
)

// RecentWindow is the look-back window for the "recent" feature filter.
const RecentWindow = 7 * 24 * time.Hour

// FilterSet is a structured filter over the catalog. Active groups are
// ANDed together; within a group the selected values are ORed. An
// empty group is inactive and matches everything.
type FilterSet struct {
	Categories   []string `json:"categories,omitempty"`
	Difficulties []string `json:"difficulties,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Features     []string `json:"features,omitempty"`
}

// IsZero reports whether no filter group is active.
func (f FilterSet) IsZero() bool {
	return len(f.Categories) == 0 &&
		len(f.Difficulties) == 0 &&
		len(f.Technologies) == 0 &&
		len(f.Tags) == 0 &&
		len(f.Features) == 0
}

// Matches reports whether the template passes every active filter
// group at the given instant (used for the "recent" window).
func (f FilterSet) Matches(t *template.Template, now time.Time) bool {
	if len(f.Categories) > 0 && !containsString(f.Categories, t.Category) {
		return false
	}

	if len(f.Difficulties) > 0 && !containsString(f.Difficulties, t.Difficulty) {
		return false
	}

	if len(f.Technologies) > 0 && !intersects(f.Technologies, t.Technologies) {
		return false
	}

	if len(f.Tags) > 0 && !intersects(f.Tags, t.Tags) {
		return false
	}

	if len(f.Features) > 0 {
		matched := false
		for _, feature := range f.Features {
			switch feature {
			case FeatureFeatured:
				matched = t.Featured
			case FeaturePopular:
				matched = t.Downloads >= ranking.PopularDownloadsThreshold
			case FeatureRecent:
				matched = t.CreatedAt.After(now.Add(-RecentWindow))
			}
			if matched {
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// intersects reports whether the two sets share at least one value.
func intersects(selected, values []string) bool {
	for _, want := range selected {
		for _, have := range values {
			if want == have {
				return true
			}
		}
	}
	return false
}
