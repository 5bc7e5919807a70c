// Package download hands out templates in their supported delivery
// formats and keeps download history and per-format counters.
package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/templatehub/marketplace/internal/analytics"
	"github.com/templatehub/marketplace/internal/kv"
	"github.com/templatehub/marketplace/internal/template"
)

// Delivery formats.
const (
	FormatZip     = "zip"
	FormatCDN     = "cdn"
	FormatSnippet = "snippet"
	FormatDemo    = "demo"
)

// HistoryLimit caps how many download records are retained.
const HistoryLimit = 100

// Common errors for download operations.
var (
	ErrInvalidFormat     = errors.New("unknown download format")
	ErrFormatUnavailable = errors.New("format not available for this template")
)

// Format describes one delivery format for listings.
type Format struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Formats lists the supported delivery formats.
func Formats() []Format {
	return []Format{
		{ID: FormatZip, Label: "ZIP Archive", Description: "All template files bundled for offline use"},
		{ID: FormatCDN, Label: "CDN Link", Description: "Hotlinkable assets served from the CDN"},
		{ID: FormatSnippet, Label: "Code Snippet", Description: "Copyable embed snippet for quick prototyping"},
		{ID: FormatDemo, Label: "Live Demo", Description: "Hosted preview of the rendered template"},
	}
}

// Record is one completed download.
type Record struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"templateId"`
	UserID     string    `json:"userId,omitempty"`
	Format     string    `json:"format"`
	Timestamp  time.Time `json:"timestamp"`
}

// Result is what a download request resolves to. URL is set for CDN
// and demo deliveries, Files for archive and snippet deliveries.
type Result struct {
	Record   Record            `json:"record"`
	URL      string            `json:"url,omitempty"`
	Files    []string          `json:"files,omitempty"`
	Template template.Template `json:"template"`
}

// Service resolves downloads and keeps history and counters, mirrored
// to the backing store after every mutation.
type Service struct {
	mu        sync.Mutex
	store     kv.Store
	templates template.Repository
	tracker   *analytics.Tracker
	logger    *slog.Logger
	history   []Record
	stats     map[string]map[string]int
	now       func() time.Time
}

// NewService loads download history and counters from the store.
// tracker may be nil.
func NewService(ctx context.Context, store kv.Store, templates template.Repository, tracker *analytics.Tracker, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:     store,
		templates: templates,
		tracker:   tracker,
		logger:    logger,
		stats:     make(map[string]map[string]int),
		now:       time.Now,
	}

	if _, err := store.Get(ctx, kv.KeyDownloadHistory, &s.history); err != nil {
		return nil, fmt.Errorf("load download history: %w", err)
	}
	if _, err := store.Get(ctx, kv.KeyDownloadStats, &s.stats); err != nil {
		return nil, fmt.Errorf("load download stats: %w", err)
	}
	if s.stats == nil {
		s.stats = make(map[string]map[string]int)
	}

	return s, nil
}

// Download resolves a template in the requested format, records the
// download and bumps the template's counter.
func (s *Service) Download(ctx context.Context, templateID, userID, format string) (*Result, error) {
	tpl, err := s.templates.Get(templateID)
	if err != nil {
		return nil, err
	}

	result := Result{}
	switch format {
	case FormatZip, FormatSnippet:
		result.Files = append([]string(nil), tpl.Files...)
	case FormatCDN:
		if tpl.CDNURL == "" {
			return nil, ErrFormatUnavailable
		}
		result.URL = tpl.CDNURL
	case FormatDemo:
		if tpl.DemoURL == "" {
			return nil, ErrFormatUnavailable
		}
		result.URL = tpl.DemoURL
	default:
		return nil, ErrInvalidFormat
	}

	s.mu.Lock()
	rec := Record{
		ID:         uuid.New().String(),
		TemplateID: templateID,
		UserID:     userID,
		Format:     format,
		Timestamp:  s.now(),
	}

	backupHistory := s.history
	backupCount := s.stats[templateID][format]

	next := make([]Record, 0, len(s.history)+1)
	next = append(next, rec)
	next = append(next, s.history...)
	if len(next) > HistoryLimit {
		next = next[:HistoryLimit]
	}
	s.history = next

	if s.stats[templateID] == nil {
		s.stats[templateID] = make(map[string]int)
	}
	s.stats[templateID][format]++

	if err := s.persistLocked(ctx); err != nil {
		s.history = backupHistory
		s.stats[templateID][format] = backupCount
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	updated, err := s.templates.IncrementDownloads(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("bump download counter: %w", err)
	}

	if s.tracker != nil {
		if err := s.tracker.Record(ctx, analytics.EventDownload, templateID, userID, map[string]string{"format": format}); err != nil {
			s.logger.Warn("failed to record download event", "template_id", templateID, "error", err)
		}
	}

	result.Record = rec
	result.Template = *updated
	return &result, nil
}

// HasDownloaded reports whether the user has a retained download of
// the template in any format.
func (s *Service) HasDownloaded(templateID, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.history {
		if r.TemplateID == templateID && r.UserID == userID {
			return true
		}
	}
	return false
}

// History returns retained downloads, newest first, at most n entries.
// n <= 0 returns everything retained.
func (s *Service) History(n int) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.history))
	copy(out, s.history)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// UserHistory returns the user's retained downloads, newest first.
func (s *Service) UserHistory(userID string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Record{}
	for _, r := range s.history {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// Stats returns the per-format download counts for a template.
func (s *Service) Stats(templateID string) map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int, len(s.stats[templateID]))
	for format, count := range s.stats[templateID] {
		out[format] = count
	}
	return out
}

func (s *Service) persistLocked(ctx context.Context) error {
	if err := s.store.Set(ctx, kv.KeyDownloadHistory, s.history); err != nil {
		return fmt.Errorf("persist download history: %w", err)
	}
	if err := s.store.Set(ctx, kv.KeyDownloadStats, s.stats); err != nil {
		return fmt.Errorf("persist download stats: %w", err)
	}
	return nil
}
