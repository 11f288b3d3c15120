package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/example/video-platform/internal/platform/events"
	"github.com/example/video-platform/services/engagement/internal/store"
	"github.com/example/video-platform/services/engagement/internal/thread"
)

const (
	commentMaxLen = 1000
	replyMaxLen   = 500
)

// AddComment appends a top-level comment to a video's thread.
func (s *Service) AddComment(ctx context.Context, videoID string, actor Actor, body string) (store.Comment, error) {
	body, err := validBody(body, commentMaxLen)
	if err != nil {
		return store.Comment{}, err
	}
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		return store.Comment{}, err
	}

	created, err := s.comments.Create(ctx, store.Comment{
		VideoID:  videoID,
		AuthorID: actor.ID,
		Body:     body,
	})
	if err != nil {
		return store.Comment{}, err
	}
	s.bumpCommentCount(ctx, videoID, +1)

	s.events.Publish(events.SubjectCommentCreated, "comment_created", actor.ID, created.ID,
		map[string]any{"video_id": videoID})
	return created, nil
}

// AddReply appends a reply under a top-level comment.
//
// Replies to soft-deleted parents are allowed: the thread shape survives
// deletion, so the parent is still a valid anchor. Replies to replies are
// rejected here; the data model is recursive but the surface keeps threads
// one level deep.
func (s *Service) AddReply(ctx context.Context, parentID string, actor Actor, body string) (store.Comment, error) {
	body, err := validBody(body, replyMaxLen)
	if err != nil {
		return store.Comment{}, err
	}

	parent, err := s.comments.Get(ctx, parentID)
	if err != nil {
		return store.Comment{}, err
	}
	if parent.ParentID != nil {
		return store.Comment{}, fmt.Errorf("%w: replies cannot be nested", store.ErrValidation)
	}

	created, err := s.comments.Create(ctx, store.Comment{
		VideoID:  parent.VideoID,
		AuthorID: actor.ID,
		Body:     body,
		ParentID: &parent.ID,
	})
	if err != nil {
		return store.Comment{}, err
	}
	s.bumpCommentCount(ctx, parent.VideoID, +1)

	s.events.Publish(events.SubjectCommentCreated, "reply_created", actor.ID, created.ID,
		map[string]any{"video_id": parent.VideoID, "parent_id": parent.ID})
	return created, nil
}

// EditComment replaces a comment's body. Author only; the previous text is
// appended to the edit history in the same write.
func (s *Service) EditComment(ctx context.Context, commentID string, actor Actor, body string) (store.Comment, error) {
	body, err := validBody(body, commentMaxLen)
	if err != nil {
		return store.Comment{}, err
	}

	for attempt := 0; attempt < conflictRetries; attempt++ {
		c, err := s.comments.Get(ctx, commentID)
		if err != nil {
			return store.Comment{}, err
		}
		if c.AuthorID != actor.ID {
			return store.Comment{}, store.ErrForbidden
		}
		if c.IsDeleted {
			return store.Comment{}, store.ErrNotFound
		}

		saved, err := s.comments.SaveBody(ctx, c.ID, c.Version, body,
			store.Edit{Body: c.Body, EditedAt: time.Now().UTC()})
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			return store.Comment{}, err
		}

		s.events.Publish(events.SubjectCommentEdited, "comment_edited", actor.ID, saved.ID, nil)
		return saved, nil
	}
	return store.Comment{}, store.ErrConflict
}

// DeleteComment soft-deletes. Author or admin; the comment keeps its id and
// reply list, only the displayed text is replaced by the fixed placeholder.
func (s *Service) DeleteComment(ctx context.Context, commentID string, actor Actor) error {
	for attempt := 0; attempt < conflictRetries; attempt++ {
		c, err := s.comments.Get(ctx, commentID)
		if err != nil {
			return err
		}
		if c.AuthorID != actor.ID && !actor.Admin() {
			return store.ErrForbidden
		}
		if c.IsDeleted {
			return nil // already deleted; nothing to change
		}

		_, err = s.comments.MarkDeleted(ctx, c.ID, c.Version)
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			return err
		}

		s.events.Publish(events.SubjectCommentDeleted, "comment_deleted", actor.ID, c.ID, nil)
		return nil
	}
	return store.ErrConflict
}

// ListComments returns one page of a video's thread: top-level comments
// newest first, each with its visible replies oldest first. The total counts
// top-level comments and is computed independently of the page.
func (s *Service) ListComments(ctx context.Context, videoID string, page, pageSize int) (thread.Page, error) {
	if _, err := s.videos.Get(ctx, videoID); err != nil {
		return thread.Page{}, err
	}

	roots, err := s.comments.ListRoots(ctx, videoID, page, pageSize)
	if err != nil {
		return thread.Page{}, err
	}
	replies, err := s.comments.ListReplies(ctx, thread.ParentIDs(roots))
	if err != nil {
		return thread.Page{}, err
	}
	total, err := s.comments.CountRoots(ctx, videoID)
	if err != nil {
		return thread.Page{}, err
	}

	nodes := thread.Assemble(roots, replies)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return thread.Page{Comments: nodes, Page: page, PageSize: pageSize, Total: total}, nil
}

// bumpCommentCount adjusts the denormalized counter on the video row. The
// comment row is the source of truth; a failed bump is drift in a cache, so
// it is logged rather than failing the comment write.
func (s *Service) bumpCommentCount(ctx context.Context, videoID string, delta int64) {
	if err := s.videos.AdjustCommentCount(ctx, videoID, delta); err != nil {
		s.log.Warn("comment count adjustment failed",
			zap.String("video_id", videoID), zap.Int64("delta", delta), zap.Error(err))
	}
}

func validBody(body string, limit int) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", fmt.Errorf("%w: comment text is required", store.ErrValidation)
	}
	if utf8.RuneCountInString(body) > limit {
		return "", fmt.Errorf("%w: comment exceeds %d characters", store.ErrValidation, limit)
	}
	return body, nil
}
