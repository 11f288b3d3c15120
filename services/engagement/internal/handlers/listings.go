package handlers

import (
	"net/http"
	"strings"

	"github.com/example/video-platform/internal/platform/api"
	"github.com/example/video-platform/services/engagement/internal/ranking"
	"github.com/example/video-platform/services/engagement/internal/service"
)

// Trending handles GET /v1/videos/trending
func Trending(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20)
		out, err := svc.ListTrending(r.Context(), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string]any{"videos": out})
	}
}

// ByCategory handles GET /v1/videos/category/{category}
func ByCategory(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, ok := urlID(w, r, "category")
		if !ok {
			return
		}
		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "page_size", 20)
		out, err := svc.ListByCategory(r.Context(), category, page, pageSize)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, out)
	}
}

// Search handles GET /v1/videos/search
func Search(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			api.BadRequest(w, "MISSING_QUERY", "q is required", "", nil)
			return
		}
		f := ranking.SearchFilter{
			Query:    query,
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			SortBy:   ranking.SortBy(strings.TrimSpace(r.URL.Query().Get("sort"))),
			Page:     queryInt(r, "page", 1),
			PageSize: queryInt(r, "page_size", 20),
		}
		out, err := svc.Search(r.Context(), f)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, out)
	}
}
