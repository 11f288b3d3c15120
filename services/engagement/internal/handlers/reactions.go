package handlers

import (
	"net/http"

	"github.com/example/video-platform/internal/platform/api"
	"github.com/example/video-platform/services/engagement/internal/reaction"
	"github.com/example/video-platform/services/engagement/internal/service"
)

// ToggleVideoReaction handles POST /v1/videos/{video_id}/like and /dislike.
func ToggleVideoReaction(svc *service.Service, p reaction.Polarity) http.HandlerFunc {
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
		counts, err := svc.ToggleVideoReaction(r.Context(), videoID, actor, p)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, counts)
	}
}

// ToggleCommentReaction handles POST /v1/comments/{comment_id}/like and /dislike.
func ToggleCommentReaction(svc *service.Service, p reaction.Polarity) http.HandlerFunc {
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
		counts, err := svc.ToggleCommentReaction(r.Context(), commentID, actor, p)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, counts)
	}
}

// ToggleSubscription handles POST /v1/channels/{channel_id}/subscribe.
func ToggleSubscription(svc *service.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := actorFrom(r)
		if !ok {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		channelID, ok := urlID(w, r, "channel_id")
		if !ok {
			return
		}
		state, err := svc.ToggleSubscription(r.Context(), channelID, actor)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, state)
	}
}
