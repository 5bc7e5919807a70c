package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/templatehub/marketplace/internal/analytics"
	"github.com/templatehub/marketplace/internal/rating"
)

// RatingHandlers serves per-template rating and review routes.
type RatingHandlers struct {
	aggregator *rating.Aggregator
	reviews    *rating.Reviews
	tracker    *analytics.Tracker
}

func NewRatingHandlers(aggregator *rating.Aggregator, reviews *rating.Reviews, tracker *analytics.Tracker) *RatingHandlers {
	return &RatingHandlers{aggregator: aggregator, reviews: reviews, tracker: tracker}
}

// SubmitRatingRequest is the payload for POST /templates/{id}/ratings.
type SubmitRatingRequest struct {
	UserID string `json:"user_id"`
	Stars  int    `json:"stars"`
}

// SubmitReviewRequest is the payload for POST /templates/{id}/reviews.
type SubmitReviewRequest struct {
	UserID  string `json:"user_id"`
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

// RatingResponse combines the aggregate with the requesting user's vote.
type RatingResponse struct {
	TemplateID string            `json:"template_id"`
	Aggregate  *rating.Aggregate `json:"aggregate"`
	UserStars  int               `json:"user_stars,omitempty"`
}

// HandleRatings handles GET, POST, and DELETE /templates/{id}/ratings.
func (h *RatingHandlers) HandleRatings(w http.ResponseWriter, r *http.Request, templateID string) {
	switch r.Method {
	case http.MethodGet:
		resp := RatingResponse{TemplateID: templateID, Aggregate: h.aggregator.Get(templateID)}
		if userID := r.URL.Query().Get("user_id"); userID != "" {
			if ur, ok := h.aggregator.UserRating(templateID, userID); ok {
				resp.UserStars = ur.Stars
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		h.submitRating(w, r, templateID)
	case http.MethodDelete:
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "user_id is required")
			return
		}
		agg, err := h.aggregator.Delete(r.Context(), templateID, userID)
		if err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
		// A rating withdrawal takes the user's review with it.
		if err := h.reviews.Delete(r.Context(), templateID, userID); err != nil && !errors.Is(err, rating.ErrReviewNotFound) {
			WriteDomainError(w, r.Context(), err)
			return
		}
		WriteJSON(w, http.StatusOK, RatingResponse{TemplateID: templateID, Aggregate: agg})
	default:
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	}
}

func (h *RatingHandlers) submitRating(w http.ResponseWriter, r *http.Request, templateID string) {
	var req SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "user_id is required")
		return
	}

	agg, err := h.aggregator.Submit(r.Context(), templateID, req.UserID, req.Stars)
	if err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	h.trackEvent(r, templateID, req.UserID, map[string]string{"stars": strconv.Itoa(req.Stars)})

	WriteJSON(w, http.StatusOK, RatingResponse{TemplateID: templateID, Aggregate: agg, UserStars: req.Stars})
}

// HandleReviews handles GET, POST, and DELETE /templates/{id}/reviews.
func (h *RatingHandlers) HandleReviews(w http.ResponseWriter, r *http.Request, templateID string) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, map[string]any{"reviews": h.reviews.List(templateID)})
	case http.MethodPost:
		h.submitReview(w, r, templateID)
	case http.MethodDelete:
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "user_id is required")
			return
		}
		if err := h.reviews.Delete(r.Context(), templateID, userID); err != nil {
			WriteDomainError(w, r.Context(), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	}
}

func (h *RatingHandlers) submitReview(w http.ResponseWriter, r *http.Request, templateID string) {
	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "user_id is required")
		return
	}
	if strings.TrimSpace(req.Comment) == "" {
		WriteError(w, r.Context(), http.StatusBadRequest, ErrCodeValidation, "comment is required")
		return
	}

	// A review carries a star rating, so the aggregate is updated too.
	if _, err := h.aggregator.Submit(r.Context(), templateID, req.UserID, req.Stars); err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	review, err := h.reviews.Upsert(r.Context(), templateID, req.UserID, req.Stars, req.Comment)
	if err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	h.trackEvent(r, templateID, req.UserID, map[string]string{"stars": strconv.Itoa(req.Stars), "review": "true"})

	WriteJSON(w, http.StatusCreated, review)
}

// HandleHelpful handles POST /templates/{id}/reviews/{review_id}/helpful.
func (h *RatingHandlers) HandleHelpful(w http.ResponseWriter, r *http.Request, templateID, reviewID string) {
	if r.Method != http.MethodPost {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}

	review, err := h.reviews.MarkHelpful(r.Context(), templateID, reviewID)
	if err != nil {
		WriteDomainError(w, r.Context(), err)
		return
	}
	WriteJSON(w, http.StatusOK, review)
}

// HandleTopRated handles GET /templates/top-rated.
func (h *RatingHandlers) HandleTopRated(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, r.Context(), http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
		return
	}
	limit := parseLimit(r, "limit", 10)
	WriteJSON(w, http.StatusOK, map[string]any{"top_rated": h.aggregator.TopRated(limit)})
}

func (h *RatingHandlers) trackEvent(r *http.Request, templateID, userID string, meta map[string]string) {
	if h.tracker == nil {
		return
	}
	if err := h.tracker.Record(r.Context(), analytics.EventRating, templateID, userID, meta); err != nil {
		// Analytics failures never fail the request.
		slog.Warn("failed to record rating event", "template_id", templateID, "error", err)
	}
}
