package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/templatehub/marketplace/internal/search"
	"github.com/templatehub/marketplace/internal/template"
)

// TemplateHandlers serves the template catalog and category routes,
// including the admin-only write operations.
type TemplateHandlers struct {
	repo     template.Repository
	searcher *search.Searcher
}

func NewTemplateHandlers(repo template.Repository, searcher *search.Searcher) *TemplateHandlers {
	return &TemplateHandlers{repo: repo, searcher: searcher}
}

// CreateTemplateRequest is the admin payload for adding a template.
type CreateTemplateRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Technologies []string `json:"technologies"`
	Difficulty   string   `json:"difficulty"`
	Preview      string   `json:"preview"`
	Files        []string `json:"files"`
	Size         string   `json:"size"`
	Author       string   `json:"author"`
	Featured     bool     `json:"featured"`
	CDNURL       string   `json:"cdn_url"`
	DemoURL      string   `json:"demo_url"`
}

func validateCreateTemplateRequest(req *CreateTemplateRequest) string {
	if strings.TrimSpace(req.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(req.Category) == "" {
		return "category is required"
	}
	switch req.Difficulty {
	case template.DifficultyEasy, template.DifficultyMedium, template.DifficultyHard:
	default:
		return "difficulty must be easy, medium, or hard"
	}
	return ""
}

// HandleTemplates handles GET /templates (filtered browse) and the
// admin-only POST /templates.
func (h *TemplateHandlers) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTemplates(w, r)
	case http.MethodPost:
		h.createTemplate(w, r)
	default:
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	}
}

func (h *TemplateHandlers) listTemplates(w http.ResponseWriter, r *http.Request) {
	sortKey := search.ParseSortKey(r.URL.Query().Get("sort"))
	results := h.searcher.Browse(r.Context(), parseFilters(r), sortKey)
	WriteJSON(w, http.StatusOK, map[string]any{"templates": results, "count": len(results)})
}

func (h *TemplateHandlers) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if msg := validateCreateTemplateRequest(&req); msg != "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, msg)
		return
	}
	if _, err := h.repo.GetCategory(req.Category); err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}

	created, err := h.repo.Create(r.Context(), &template.Template{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Category:     req.Category,
		Tags:         req.Tags,
		Technologies: req.Technologies,
		Difficulty:   req.Difficulty,
		Preview:      req.Preview,
		Files:        req.Files,
		Size:         req.Size,
		Author:       req.Author,
		Featured:     req.Featured,
		CDNURL:       req.CDNURL,
		DemoURL:      req.DemoURL,
	})
	if err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// HandleTemplate handles GET, PATCH, and DELETE /templates/{id}.
func (h *TemplateHandlers) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/templates/")
	if len(segments) != 1 || segments[0] == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "template ID is required")
		return
	}
	id := segments[0]

	switch r.Method {
	case http.MethodGet:
		t, err := h.repo.Get(id)
		if err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
		WriteJSON(w, http.StatusOK, t)
	case http.MethodPatch:
		h.updateTemplate(w, r, id)
	case http.MethodDelete:
		if err := h.repo.Delete(r.Context(), id); err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	}
}

func (h *TemplateHandlers) updateTemplate(w http.ResponseWriter, r *http.Request, id string) {
	var upd template.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if upd.Difficulty != nil {
		switch *upd.Difficulty {
		case template.DifficultyEasy, template.DifficultyMedium, template.DifficultyHard:
		default:
			WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "difficulty must be easy, medium, or hard")
			return
		}
	}
	if upd.Category != nil {
		if _, err := h.repo.GetCategory(*upd.Category); err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
	}

	updated, err := h.repo.Update(r.Context(), id, upd)
	if err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// HandleCategories handles GET /categories.
func (h *TemplateHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"categories": h.repo.Categories()})
}

// HandleCategory handles GET /categories/{id}.
func (h *TemplateHandlers) HandleCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}
	segments := pathSegments(r, "/categories/")
	if len(segments) != 1 || segments[0] == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "category ID is required")
		return
	}

	c, err := h.repo.GetCategory(segments[0])
	if err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}
