// Package api implements the HTTP surface of the template marketplace.
package api

import (
	"net/http"

	"github.com/templatehub/marketplace/internal/auth"
)

// Server binds the handler sets to their routes.
type Server struct {
	templates  *TemplateHandlers
	search     *SearchHandlers
	ratings    *RatingHandlers
	downloads  *DownloadHandlers
	favorites  *FavoritesHandlers
	analytics  *AnalyticsHandlers
	health     *HealthHandlers
	jwtService *auth.JWTService
}

func NewServer(
	templates *TemplateHandlers,
	search *SearchHandlers,
	ratings *RatingHandlers,
	downloads *DownloadHandlers,
	favorites *FavoritesHandlers,
	analytics *AnalyticsHandlers,
	health *HealthHandlers,
	jwtService *auth.JWTService,
) *Server {
	return &Server{
		templates:  templates,
		search:     search,
		ratings:    ratings,
		downloads:  downloads,
		favorites:  favorites,
		analytics:  analytics,
		health:     health,
		jwtService: jwtService,
	}
}

// Routes builds the route table. Template writes and the raw event feed
// require an admin token; everything else is public.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/search", s.search.HandleSearch)
	mux.HandleFunc("/search/suggestions", s.search.HandleSuggestions)
	mux.HandleFunc("/search/history", s.search.HandleHistory)
	mux.HandleFunc("/search/popular", s.search.HandlePopular)

	mux.HandleFunc("/templates", s.handleTemplatesCollection)
	mux.HandleFunc("/templates/", s.handleTemplatesSubtree)
	mux.HandleFunc("/categories", s.templates.HandleCategories)
	mux.HandleFunc("/categories/", s.templates.HandleCategory)

	mux.HandleFunc("/favorites", s.favorites.HandleFavorites)
	mux.HandleFunc("/favorites/", s.favorites.HandleFavorite)
	mux.HandleFunc("/collections", s.favorites.HandleCollections)
	mux.HandleFunc("/collections/", s.favorites.HandleCollection)

	mux.HandleFunc("/downloads/formats", s.downloads.HandleFormats)
	mux.HandleFunc("/downloads/history", s.downloads.HandleHistory)

	mux.HandleFunc("/analytics/overview", s.analytics.HandleOverview)
	mux.HandleFunc("/analytics/templates", s.analytics.HandleTemplates)
	mux.HandleFunc("/analytics/events", RequireAdmin(s.jwtService, s.analytics.HandleEvents))

	mux.HandleFunc("/healthz", s.health.HandleLiveness)
	mux.HandleFunc("/ready", s.health.HandleReadiness)

	return mux
}

func (s *Server) handleTemplatesCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		RequireAdmin(s.jwtService, s.templates.HandleTemplates)(w, r)
		return
	}
	s.templates.HandleTemplates(w, r)
}

// handleTemplatesSubtree dispatches everything under /templates/{id}.
func (s *Server) handleTemplatesSubtree(w http.ResponseWriter, r *http.Request) {
	segments := pathSegments(r, "/templates/")
	switch {
	case len(segments) == 1 && segments[0] == "top-rated":
		s.ratings.HandleTopRated(w, r)
	case len(segments) == 1:
		if r.Method == http.MethodPatch || r.Method == http.MethodDelete {
			RequireAdmin(s.jwtService, s.templates.HandleTemplate)(w, r)
			return
		}
		s.templates.HandleTemplate(w, r)
	case len(segments) == 2 && segments[1] == "ratings":
		s.ratings.HandleRatings(w, r, segments[0])
	case len(segments) == 2 && segments[1] == "reviews":
		s.ratings.HandleReviews(w, r, segments[0])
	case len(segments) == 2 && segments[1] == "download":
		s.downloads.HandleDownload(w, r, segments[0])
	case len(segments) == 2 && segments[1] == "stats":
		s.analytics.HandleTemplateStats(w, r, segments[0])
	case len(segments) == 4 && segments[1] == "reviews" && segments[3] == "helpful":
		s.ratings.HandleHelpful(w, r, segments[0], segments[2])
	default:
		WriteError(w, r.Context(), http.StatusNotFound, ErrCodeNotFound, "route not found")
	}
}
