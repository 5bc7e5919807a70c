package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/templatehub/marketplace/internal/download"
	"github.com/templatehub/marketplace/internal/identity"
)

// DownloadHandlers serves template download routes.
type DownloadHandlers struct {
	service *download.Service
}

func NewDownloadHandlers(service *download.Service) *DownloadHandlers {
	return &DownloadHandlers{service: service}
}

// DownloadRequest is the payload for POST /templates/{id}/download.
type DownloadRequest struct {
	UserID string `json:"user_id"`
	Format string `json:"format"`
}

// HandleDownload handles POST /templates/{id}/download. An anonymous
// identity is minted when the caller does not supply one.
func (h *DownloadHandlers) HandleDownload(w http.ResponseWriter, r *http.Request, templateID string) {
	if r.Method != http.MethodPost {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}

	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if req.Format == "" {
		req.Format = download.FormatZip
	}
	if strings.TrimSpace(req.UserID) == "" {
		req.UserID = identity.NewUserID()
	}

	result, err := h.service.Download(r.Context(), templateID, req.UserID, req.Format)
	if err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// HandleFormats handles GET /downloads/formats.
func (h *DownloadHandlers) HandleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"formats": download.Formats()})
}

// HandleHistory handles GET /downloads/history, optionally scoped to a
// single user with the user_id parameter.
func (h *DownloadHandlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}

	if userID := r.URL.Query().Get("user_id"); userID != "" {
		WriteJSON(w, http.StatusOK, map[string]any{"downloads": h.service.UserHistory(userID)})
		return
	}
	limit := parseLimit(r, "limit", download.HistoryLimit)
	WriteJSON(w, http.StatusOK, map[string]any{"downloads": h.service.History(limit)})
}
