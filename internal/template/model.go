// Package template provides models and repository for the marketplace
// template catalog, including the admin CRUD surface.
package template

import "time"

// Difficulty levels for templates.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Template represents a listed downloadable front-end artifact.
// Optional collection fields (Tags, Technologies, Files) default to
// empty rather than nil-dereferencing anywhere downstream.
type Template struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags,omitempty"`
	Technologies []string  `json:"technologies,omitempty"`
	Difficulty   string    `json:"difficulty"`
	Preview      string    `json:"preview,omitempty"`
	Files        []string  `json:"files,omitempty"`
	Size         string    `json:"size,omitempty"`
	Downloads    int       `json:"downloads"`
	Rating       float64   `json:"rating"`
	Author       string    `json:"author,omitempty"`
	Featured     bool      `json:"featured"`
	CDNURL       string    `json:"cdn_url,omitempty"`
	DemoURL      string    `json:"demo_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Category represents a template category.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Update describes a partial template update. Nil fields are left
// unchanged.
type Update struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
	Difficulty   *string   `json:"difficulty,omitempty"`
	Preview      *string   `json:"preview,omitempty"`
	Size         *string   `json:"size,omitempty"`
	Featured     *bool     `json:"featured,omitempty"`
	CDNURL       *string   `json:"cdn_url,omitempty"`
	DemoURL      *string   `json:"demo_url,omitempty"`
}
