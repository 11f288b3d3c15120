package handlers

import (
	"net/http"

	"github.com/example/video-platform/internal/platform/api"
	"github.com/example/video-platform/services/engagement/internal/service"
)

type videoRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	IsPublic     *bool    `json:"is_public"`
	Duration     int      `json:"duration"`
	VideoURL     string   `json:"video_url"`
	ThumbnailURL string   `json:"thumbnail_url"`
}

func (req videoRequest) input() service.VideoInput {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	return service.VideoInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Tags:         req.Tags,
		IsPublic:     isPublic,
		Duration:     req.Duration,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
	}
}

// UploadVideo handles POST /v1/videos
func UploadVideo(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		var req videoRequest
		if !decode(w, r, &req) {
			return
		}
		created, err := svc.UploadVideo(r.Context(), actor, req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetVideo handles GET /v1/videos/{video_id}; fetching counts as a view.
func GetVideo(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videoID, ok := urlID(w, r, "video_id")
		if !ok {
			return
		}
		v, err := svc.GetVideo(r.Context(), videoID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, v)
	}
}

// UpdateVideo handles PUT /v1/videos/{video_id}
func UpdateVideo(svc *service.Service) http.HandlerFunc {
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
		var req videoRequest
		if !decode(w, r, &req) {
			return
		}
		saved, err := svc.UpdateVideo(r.Context(), videoID, actor, req.input())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, saved)
	}
}

// DeleteVideo handles DELETE /v1/videos/{video_id}
func DeleteVideo(svc *service.Service) http.HandlerFunc {
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
		if err := svc.DeleteVideo(r.Context(), videoID, actor); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListUserVideos handles GET /v1/users/{user_id}/videos
func ListUserVideos(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := urlID(w, r, "user_id")
		if !ok {
			return
		}
		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "page_size", 20)
		out, err := svc.ListUserVideos(r.Context(), userID, page, pageSize)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, out)
	}
}
