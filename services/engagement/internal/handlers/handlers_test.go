package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/example/video-platform/internal/platform/auth"
	"github.com/example/video-platform/internal/platform/events"
	"github.com/example/video-platform/services/engagement/internal/reaction"
	"github.com/example/video-platform/services/engagement/internal/service"
	"github.com/example/video-platform/services/engagement/internal/store"
)

func newService(t *testing.T) *service.Service {
	t.Helper()
	users := store.NewInMemoryUserStore()
	videos := store.NewInMemoryVideoStore()
	comments := store.NewInMemoryCommentStore()
	videos.AttachComments(comments)
	return service.New(users, videos, comments, events.New(nil, nil), nil)
}

// setupReq builds a request with chi URL params and optional user_id in context.
func setupReq(method, url, body string, params map[string]string, userID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = auth.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

func seedVideo(t *testing.T, svc *service.Service) store.Video {
	t.Helper()
	v, err := svc.UploadVideo(context.Background(), service.Actor{ID: "uploader"}, service.VideoInput{
		Title: "clip", Category: "Music", IsPublic: true, VideoURL: "http://example.com/v.mp4",
	})
	if err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return v
}

func TestUploadVideo(t *testing.T) {
	svc := newService(t)
	handler := UploadVideo(svc)

	req := setupReq(http.MethodPost, "/v1/videos",
		`{"title":"my clip","category":"Gaming","video_url":"http://example.com/v.mp4"}`,
		nil, "user-a")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var v store.Video
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.UploaderID != "user-a" || v.Title != "my clip" {
		t.Fatalf("video = %+v", v)
	}
	if !v.IsPublic {
		t.Fatalf("is_public must default to true when omitted")
	}
}

func TestUploadVideo_Unauthorized(t *testing.T) {
	svc := newService(t)
	req := setupReq(http.MethodPost, "/v1/videos", `{"title":"x","video_url":"u"}`, nil, "")
	rr := httptest.NewRecorder()
	UploadVideo(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestUploadVideo_BadCategory(t *testing.T) {
	svc := newService(t)
	req := setupReq(http.MethodPost, "/v1/videos",
		`{"title":"x","category":"Nope","video_url":"u"}`, nil, "user-a")
	rr := httptest.NewRecorder()
	UploadVideo(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestToggleVideoReactionEndpoint(t *testing.T) {
	svc := newService(t)
	v := seedVideo(t, svc)

	req := setupReq(http.MethodPost, "/v1/videos/"+v.ID+"/like", "",
		map[string]string{"video_id": v.ID}, "viewer")
	rr := httptest.NewRecorder()
	ToggleVideoReaction(svc, reaction.Like).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var counts service.ReactionCounts
	if err := json.NewDecoder(rr.Body).Decode(&counts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if counts.Likes != 1 || counts.Dislikes != 0 {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestToggleVideoReaction_NotFound(t *testing.T) {
	svc := newService(t)
	req := setupReq(http.MethodPost, "/v1/videos/nope/like", "",
		map[string]string{"video_id": "nope"}, "viewer")
	rr := httptest.NewRecorder()
	ToggleVideoReaction(svc, reaction.Like).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestCreateCommentEndpoint(t *testing.T) {
	svc := newService(t)
	v := seedVideo(t, svc)

	req := setupReq(http.MethodPost, "/v1/videos/"+v.ID+"/comments", `{"body":"hello"}`,
		map[string]string{"video_id": v.ID}, "user-a")
	rr := httptest.NewRecorder()
	CreateComment(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var c store.Comment
	if err := json.NewDecoder(rr.Body).Decode(&c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.AuthorID != "user-a" || c.Body != "hello" {
		t.Fatalf("comment = %+v", c)
	}
}

func TestGetThreadEndpoint(t *testing.T) {
	svc := newService(t)
	v := seedVideo(t, svc)
	ctx := context.Background()
	root, _ := svc.AddComment(ctx, v.ID, service.Actor{ID: "u1"}, "root")
	_, _ = svc.AddReply(ctx, root.ID, service.Actor{ID: "u2"}, "reply")

	req := setupReq(http.MethodGet, "/v1/videos/"+v.ID+"/comments", "",
		map[string]string{"video_id": v.ID}, "")
	rr := httptest.NewRecorder()
	GetThread(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var page struct {
		Comments []struct {
			Comment store.Comment   `json:"comment"`
			Replies []store.Comment `json:"replies"`
		} `json:"comments"`
		Total int `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 1 || len(page.Comments) != 1 || len(page.Comments[0].Replies) != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestDeleteVideo_Forbidden(t *testing.T) {
	svc := newService(t)
	v := seedVideo(t, svc)

	req := setupReq(http.MethodDelete, "/v1/videos/"+v.ID, "",
		map[string]string{"video_id": v.ID}, "stranger")
	rr := httptest.NewRecorder()
	DeleteVideo(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	svc := newService(t)
	req := setupReq(http.MethodGet, "/v1/videos/search", "", nil, "")
	rr := httptest.NewRecorder()
	Search(svc).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
