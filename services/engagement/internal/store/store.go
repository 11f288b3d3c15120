// Package store owns the durable engagement entities: users, videos and
// comments, each carrying its reaction sets and a version used for optimistic
// concurrency. All writes that replace a loaded snapshot are conditional on
// that snapshot's version; relative counter updates (views, subscriber count,
// comment count) are single-statement and never race.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors; the HTTP layer maps these onto the response envelope.
var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("version conflict")
	ErrExists      = errors.New("already exists")
	ErrUnavailable = errors.New("store unavailable")
)

// DeletedBody replaces a soft-deleted comment's text. The id and reply list
// survive deletion so the thread shape is preserved.
const DeletedBody = "[This comment has been deleted]"

// Categories is the closed set of video categories.
var Categories = []string{
	"Music", "Gaming", "Education", "Entertainment", "News", "Sports",
	"Technology", "Travel", "Cooking", "Fitness", "Other",
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

type User struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	ChannelName        string    `json:"channel_name,omitempty"`
	AvatarURL          string    `json:"avatar_url,omitempty"`
	Role               string    `json:"role"`
	SubscriberCount    int64     `json:"subscriber_count"`
	SubscribedChannels []string  `json:"subscribed_channels"`
	Version            int64     `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Video struct {
	ID           string    `json:"id"`
	UploaderID   string    `json:"uploader_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags,omitempty"`
	Views        int64     `json:"views"`
	Likes        []string  `json:"likes"`
	Dislikes     []string  `json:"dislikes"`
	CommentCount int64     `json:"comment_count"`
	IsPublic     bool      `json:"is_public"`
	Duration     int       `json:"duration"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Version      int64     `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// VideoSummary is the listing projection consumed by the ranking engine.
type VideoSummary struct {
	ID           string    `json:"id"`
	UploaderID   string    `json:"uploader_id"`
	Title        string    `json:"title"`
	Description  string    `json:"-"`
	Category     string    `json:"category"`
	Tags         []string  `json:"-"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     int       `json:"duration"`
	Views        int64     `json:"views"`
	LikeCount    int       `json:"like_count"`
	IsPublic     bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Edit struct {
	Body     string    `json:"body"`
	EditedAt time.Time `json:"edited_at"`
}

type Comment struct {
	ID          string     `json:"id"`
	VideoID     string     `json:"video_id"`
	AuthorID    string     `json:"author_id"`
	Body        string     `json:"body"`
	Likes       []string   `json:"likes"`
	Dislikes    []string   `json:"dislikes"`
	ParentID    *string    `json:"parent_id,omitempty"`
	IsDeleted   bool       `json:"is_deleted"`
	IsEdited    bool       `json:"is_edited"`
	EditHistory []Edit     `json:"edit_history,omitempty"`
	Version     int64      `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// UserStore persists users and their subscription relations.
type UserStore interface {
	Create(ctx context.Context, u User) (User, error)
	Get(ctx context.Context, id string) (User, error)
	GetByLogin(ctx context.Context, login string) (User, error)
	// SaveChannels replaces the subscribed-channels set, conditional on version.
	SaveChannels(ctx context.Context, id string, version int64, channels []string) (User, error)
	// AdjustSubscriberCount applies a relative delta and returns the new count.
	// The count is clamped at zero.
	AdjustSubscriberCount(ctx context.Context, id string, delta int64) (int64, error)
}

// VideoStore persists videos, their reaction sets and derived counters.
type VideoStore interface {
	Create(ctx context.Context, v Video) (Video, error)
	Get(ctx context.Context, id string) (Video, error)
	// Update replaces the mutable metadata (title, description, category,
	// tags, visibility), conditional on version.
	Update(ctx context.Context, v Video) (Video, error)
	// SaveReactions replaces both reaction sets, conditional on version.
	SaveReactions(ctx context.Context, id string, version int64, likes, dislikes []string) (Video, error)
	// IncrementViews adds exactly one view and returns the new total.
	IncrementViews(ctx context.Context, id string) (int64, error)
	AdjustCommentCount(ctx context.Context, id string, delta int64) error
	// Delete removes the video and cascades its comments.
	Delete(ctx context.Context, id string) error
	// ListSummaries returns a snapshot of all videos for the ranking engine.
	ListSummaries(ctx context.Context) ([]VideoSummary, error)
	ListByUploader(ctx context.Context, uploaderID string, page, pageSize int) ([]VideoSummary, int, error)
}

// CommentStore persists comments as independently addressable rows keyed by
// video id; the parent/reply relation is a weak back-reference.
type CommentStore interface {
	Create(ctx context.Context, c Comment) (Comment, error)
	Get(ctx context.Context, id string) (Comment, error)
	// SaveReactions replaces both reaction sets, conditional on version.
	SaveReactions(ctx context.Context, id string, version int64, likes, dislikes []string) (Comment, error)
	// SaveBody replaces the body, marks the comment edited and appends the
	// previous text to the edit history, conditional on version.
	SaveBody(ctx context.Context, id string, version int64, body string, prev Edit) (Comment, error)
	// MarkDeleted soft-deletes: placeholder body, is_deleted set, everything
	// else (id, replies, reactions) untouched. Conditional on version.
	MarkDeleted(ctx context.Context, id string, version int64) (Comment, error)
	// ListRoots returns one page of top-level comments, newest first.
	ListRoots(ctx context.Context, videoID string, page, pageSize int) ([]Comment, error)
	// ListReplies returns all replies to the given parents, oldest first.
	ListReplies(ctx context.Context, parentIDs []string) ([]Comment, error)
	// CountRoots counts all top-level comments for pagination metadata.
	CountRoots(ctx context.Context, videoID string) (int, error)
	DeleteByVideo(ctx context.Context, videoID string) error
}
