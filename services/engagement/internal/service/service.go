// Package service orchestrates every engagement mutation: load an entity
// snapshot, run the pure toggle/thread logic, persist conditionally, return
// the new public counters. Each call is one atomic unit at entity
// granularity; there is no intermediate persisted state.
package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/example/video-platform/internal/platform/events"
	"github.com/example/video-platform/services/engagement/internal/reaction"
	"github.com/example/video-platform/services/engagement/internal/store"
)

// conflictRetries bounds the internal retry loop on optimistic-concurrency
// conflicts. The window is a single-row conditional write, so three attempts
// absorb realistic contention; after that the conflict surfaces.
const conflictRetries = 3

const roleAdmin = "admin"

// Actor is the authenticated caller, as established by the identity layer.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) Admin() bool {
	return strings.EqualFold(a.Role, roleAdmin)
}

// Service wires the stores to the pure engagement logic.
type Service struct {
	users    store.UserStore
	videos   store.VideoStore
	comments store.CommentStore
	events   *events.Publisher
	log      *zap.Logger
}

func New(users store.UserStore, videos store.VideoStore, comments store.CommentStore,
	ev *events.Publisher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{users: users, videos: videos, comments: comments, events: ev, log: log}
}

// ReactionCounts are the public counters returned by every toggle.
type ReactionCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// ToggleVideoReaction flips the actor's like or dislike on a video and
// returns the updated counters.
func (s *Service) ToggleVideoReaction(ctx context.Context, videoID string, actor Actor, p reaction.Polarity) (ReactionCounts, error) {
	for attempt := 0; attempt < conflictRetries; attempt++ {
		v, err := s.videos.Get(ctx, videoID)
		if err != nil {
			return ReactionCounts{}, err
		}

		likes, dislikes := reaction.Toggle(v.Likes, v.Dislikes, actor.ID, p)

		saved, err := s.videos.SaveReactions(ctx, v.ID, v.Version, likes, dislikes)
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			return ReactionCounts{}, err
		}

		s.events.Publish(events.SubjectVideoLiked, "video_reacted", actor.ID, saved.ID,
			map[string]any{"polarity": p.String(), "likes": len(saved.Likes), "dislikes": len(saved.Dislikes)})
		return ReactionCounts{Likes: len(saved.Likes), Dislikes: len(saved.Dislikes)}, nil
	}
	return ReactionCounts{}, store.ErrConflict
}

// ToggleCommentReaction flips the actor's like or dislike on a comment.
func (s *Service) ToggleCommentReaction(ctx context.Context, commentID string, actor Actor, p reaction.Polarity) (ReactionCounts, error) {
	for attempt := 0; attempt < conflictRetries; attempt++ {
		c, err := s.comments.Get(ctx, commentID)
		if err != nil {
			return ReactionCounts{}, err
		}

		likes, dislikes := reaction.Toggle(c.Likes, c.Dislikes, actor.ID, p)

		saved, err := s.comments.SaveReactions(ctx, c.ID, c.Version, likes, dislikes)
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			return ReactionCounts{}, err
		}

		s.events.Publish(events.SubjectCommentReacted, "comment_reacted", actor.ID, saved.ID,
			map[string]any{"polarity": p.String(), "likes": len(saved.Likes), "dislikes": len(saved.Dislikes)})
		return ReactionCounts{Likes: len(saved.Likes), Dislikes: len(saved.Dislikes)}, nil
	}
	return ReactionCounts{}, store.ErrConflict
}

// IncrementView records one view. Every call adds exactly one; the store's
// relative update guarantees concurrent calls never lose an increment.
func (s *Service) IncrementView(ctx context.Context, videoID string) (int64, error) {
	views, err := s.videos.IncrementViews(ctx, videoID)
	if err != nil {
		return 0, err
	}
	s.events.Publish(events.SubjectVideoViewed, "video_viewed", "", videoID,
		map[string]any{"views": views})
	return views, nil
}
