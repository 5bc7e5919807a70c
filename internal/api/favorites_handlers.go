package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/templatehub/marketplace/internal/favorites"
	"github.com/templatehub/marketplace/internal/identity"
)

// FavoritesHandlers serves the favorites and collections routes.
type FavoritesHandlers struct {
	service *favorites.Service
}

func NewFavoritesHandlers(service *favorites.Service) *FavoritesHandlers {
	return &FavoritesHandlers{service: service}
}

// AddFavoriteRequest is the payload for POST /favorites.
type AddFavoriteRequest struct {
	TemplateID   string `json:"template_id"`
	CollectionID string `json:"collection_id"`
	UserID       string `json:"user_id"`
}

// CreateCollectionRequest is the payload for POST /collections. Color
// and icon fall back to the service defaults when omitted.
type CreateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// HandleFavorites handles GET /favorites (listing a collection) and
// POST /favorites (saving a template).
func (h *FavoritesHandlers) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		collectionID := r.URL.Query().Get("collection")
		if collectionID == "" {
			collectionID = favorites.DefaultCollectionID
		}
		items, err := h.service.List(collectionID)
		if err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"favorites": items, "count": len(items)})
	case http.MethodPost:
		h.addFavorite(w, r)
	default:
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	}
}

func (h *FavoritesHandlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.TemplateID) == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "template_id is required")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = identity.NewUserID()
	}

	fav, err := h.service.Add(r.Context(), req.TemplateID, req.CollectionID, req.UserID)
	if err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	WriteJSON(w, http.StatusCreated, fav)
}

// HandleFavorite handles DELETE /favorites/{template_id}.
func (h *FavoritesHandlers) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/favorites/")
	if len(segments) != 1 || segments[0] == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "template ID is required")
		return
	}
	if r.Method != http.MethodDelete {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}

	collectionID := r.URL.Query().Get("collection")
	if collectionID == "" {
		collectionID = favorites.DefaultCollectionID
	}
	if err := h.service.Remove(r.Context(), segments[0], collectionID, r.URL.Query().Get("user_id")); err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCollections handles GET /collections and POST /collections.
func (h *FavoritesHandlers) HandleCollections(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, map[string]any{
			"collections": h.service.Collections(),
			"stats":       h.service.Stats(),
			"summary":     h.service.Summary(),
		})
	case http.MethodPost:
		var req CreateCollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "name is required")
			return
		}
		col, err := h.service.CreateCollection(r.Context(), strings.TrimSpace(req.Name), req.Description, req.Color, req.Icon)
		if err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
		WriteJSON(w, http.StatusCreated, col)
	default:
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	}
}

// HandleCollection handles DELETE /collections/{id} and
// GET /collections/{id}/templates.
func (h *FavoritesHandlers) HandleCollection(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/collections/")
	switch {
	case len(segments) == 1 && segments[0] != "":
		if r.Method != http.MethodDelete {
			WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
			return
		}
		if err := h.service.DeleteCollection(r.Context(), segments[0]); err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case len(segments) == 2 && segments[1] == "templates":
		if r.Method != http.MethodGet {
			WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
			return
		}
		items, err := h.service.List(segments[0])
		if err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]any{"favorites": items, "count": len(items)})
	default:
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "collection ID is required")
	}
}
