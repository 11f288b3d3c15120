// Package handlers is the HTTP surface of the engagement service. Handlers
// decode and delegate; the service layer owns all rules, and the store's
// sentinel errors map onto the shared response envelope here.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/video-platform/internal/platform/api"
	"github.com/example/video-platform/internal/platform/auth"
	"github.com/example/video-platform/services/engagement/internal/service"
	"github.com/example/video-platform/services/engagement/internal/store"
)

func actorFrom(r *http.Request) (service.Actor, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		return service.Actor{}, false
	}
	role, _ := auth.RoleFromContext(r.Context())
	return service.Actor{ID: userID, Role: role}, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
		return false
	}
	return true
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return def
}

func urlID(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, param))
	if id == "" {
		api.BadRequest(w, "MISSING_ID", param+" is required", "", nil)
		return "", false
	}
	return id, true
}

// writeServiceError translates the store's sentinel errors into HTTP
// responses. Anything unrecognized is a 500 with no detail leaked.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		api.BadRequest(w, "VALIDATION", err.Error(), "", nil)
	case errors.Is(err, store.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "resource not found", "")
	case errors.Is(err, store.ErrForbidden):
		api.Forbidden(w, "FORBIDDEN", "not allowed", "")
	case errors.Is(err, store.ErrExists):
		api.Conflict(w, "ALREADY_EXISTS", "resource already exists", "", nil)
	case errors.Is(err, store.ErrConflict):
		api.Conflict(w, "CONFLICT", "concurrent update, retry", "", nil)
	case errors.Is(err, store.ErrUnavailable):
		api.Unavailable(w, "UNAVAILABLE", "storage unavailable", "")
	default:
		api.Internal(w, "")
	}
}
