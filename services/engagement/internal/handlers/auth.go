package handlers

import (
	"errors"
	"net/http"

	"github.com/example/video-platform/internal/platform/api"
	"github.com/example/video-platform/services/engagement/internal/accounts"
	"github.com/example/video-platform/services/engagement/internal/store"
)

type registerRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	ChannelName string `json:"channel_name"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Register handles POST /v1/auth/register
func Register(acc *accounts.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decode(w, r, &req) {
			return
		}
		sess, err := acc.Register(r.Context(), req.Username, req.Email, req.Password, req.ChannelName)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, sess)
	}
}

// Login handles POST /v1/auth/login
func Login(acc *accounts.Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decode(w, r, &req) {
			return
		}
		sess, err := acc.Login(r.Context(), req.Login, req.Password)
		if errors.Is(err, store.ErrForbidden) {
			// Wrong password and unknown login look the same to the caller.
			api.Unauthorized(w, "AUTH_INVALID_CREDENTIALS", "invalid credentials", "")
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, sess)
	}
}
