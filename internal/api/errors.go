package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templatehub/marketplace/internal/download"
	"github.com/templatehub/marketplace/internal/favorites"
	"github.com/templatehub/marketplace/internal/middleware"
	"github.com/templatehub/marketplace/internal/rating"
	"github.com/templatehub/marketplace/internal/template"
)

// Error codes returned in API error responses.
const (
	ErrCodeValidation         = "validation_error"
	ErrCodeBadRequest         = "bad_request"
	ErrCodeAuthFailed         = "auth_failed"
	ErrCodeForbidden          = "forbidden"
	ErrCodeNotFound           = "not_found"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
	ErrCodeTemplateNotFound   = "template_not_found"
	ErrCodeCategoryNotFound   = "category_not_found"
	ErrCodeInvalidRating      = "invalid_rating"
	ErrCodeRatingNotFound     = "rating_not_found"
	ErrCodeReviewNotFound     = "review_not_found"
	ErrCodeInvalidFormat      = "invalid_format"
	ErrCodeFormatUnavailable  = "format_unavailable"
	ErrCodeCollectionNotFound = "collection_not_found"
	ErrCodeFavoriteNotFound   = "favorite_not_found"
	ErrCodeDefaultCollection  = "default_collection"
	ErrCodeInternal           = "internal_error"
)

// ErrorDetail is the inner payload of an API error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for all API errors.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// StatusCodeMapping maps error codes to their HTTP status.
var StatusCodeMapping = map[string]int{
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeAuthFailed:         http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeMethodNotAllowed:   http.StatusMethodNotAllowed,
	ErrCodeTemplateNotFound:   http.StatusNotFound,
	ErrCodeCategoryNotFound:   http.StatusNotFound,
	ErrCodeInvalidRating:      http.StatusBadRequest,
	ErrCodeRatingNotFound:     http.StatusNotFound,
	ErrCodeReviewNotFound:     http.StatusNotFound,
	ErrCodeInvalidFormat:      http.StatusBadRequest,
	ErrCodeFormatUnavailable:  http.StatusUnprocessableEntity,
	ErrCodeCollectionNotFound: http.StatusNotFound,
	ErrCodeFavoriteNotFound:   http.StatusNotFound,
	ErrCodeDefaultCollection:  http.StatusConflict,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// WriteError writes a JSON error response and records the error code on the
// request context so the logging middleware can include it.
func WriteError(w http.ResponseWriter, ctx context.Context, status int, code, message string) {
	middleware.SetErrorCode(ctx, code)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// WriteDomainError translates a service-layer error into its API error code.
// Unrecognized errors become an internal_error response.
func WriteDomainError(w http.ResponseWriter, ctx context.Context, err error) {
	code := ErrCodeInternal
	switch {
	case errors.Is(err, template.ErrTemplateNotFound):
		code = ErrCodeTemplateNotFound
	case errors.Is(err, template.ErrCategoryNotFound):
		code = ErrCodeCategoryNotFound
	case errors.Is(err, rating.ErrInvalidRating):
		code = ErrCodeInvalidRating
	case errors.Is(err, rating.ErrRatingNotFound):
		code = ErrCodeRatingNotFound
	case errors.Is(err, rating.ErrReviewNotFound):
		code = ErrCodeReviewNotFound
	case errors.Is(err, download.ErrInvalidFormat):
		code = ErrCodeInvalidFormat
	case errors.Is(err, download.ErrFormatUnavailable):
		code = ErrCodeFormatUnavailable
	case errors.Is(err, favorites.ErrCollectionNotFound):
		code = ErrCodeCollectionNotFound
	case errors.Is(err, favorites.ErrFavoriteNotFound):
		code = ErrCodeFavoriteNotFound
	case errors.Is(err, favorites.ErrDefaultCollection):
		code = ErrCodeDefaultCollection
	}
	message := err.Error()
	if code == ErrCodeInternal {
		slog.Error("internal error", "error", err)
		message = "internal server error"
	}
	WriteError(w, ctx, StatusCodeMapping[code], code, message)
}
