package handlers

import (
	"net/http"

	"github.com/example/video-platform/internal/platform/api"
	"github.com/example/video-platform/services/engagement/internal/service"
)

type commentRequest struct {
	Body string `json:"body"`
}

// CreateComment handles POST /v1/videos/{video_id}/comments
func CreateComment(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		videoID, ok := urlID(w, r, "video_id")
		if !ok {
			return
		}
		var req commentRequest
		if !decode(w, r, &req) {
			return
		}
		created, err := svc.AddComment(r.Context(), videoID, actor, req.Body)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// CreateReply handles POST /v1/comments/{comment_id}/replies
func CreateReply(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		parentID, ok := urlID(w, r, "comment_id")
		if !ok {
			return
		}
		var req commentRequest
		if !decode(w, r, &req) {
			return
		}
		created, err := svc.AddReply(r.Context(), parentID, actor, req.Body)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// UpdateComment handles PUT /v1/comments/{comment_id}
func UpdateComment(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		commentID, ok := urlID(w, r, "comment_id")
		if !ok {
			return
		}
		var req commentRequest
		if !decode(w, r, &req) {
			return
		}
		saved, err := svc.EditComment(r.Context(), commentID, actor, req.Body)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, saved)
	}
}

// DeleteComment handles DELETE /v1/comments/{comment_id}
func DeleteComment(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		commentID, ok := urlID(w, r, "comment_id")
		if !ok {
			return
		}
		if err := svc.DeleteComment(r.Context(), commentID, actor); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetThread handles GET /v1/videos/{video_id}/comments
func GetThread(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := urlID(w, r, "video_id")
		if !ok {
			return
		}
		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "page_size", 20)
		out, err := svc.ListComments(r.Context(), videoID, page, pageSize)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, out)
	}
}
