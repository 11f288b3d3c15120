package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryCommentStore is a development-only in-memory implementation.
type InMemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[string]Comment // id -> comment
}

func NewInMemoryCommentStore() *InMemoryCommentStore {
	return &InMemoryCommentStore{comments: make(map[string]Comment)}
}

func (s *InMemoryCommentStore) Create(_ context.Context, c Comment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	c.Likes = nil
	c.Dislikes = nil
	c.IsDeleted = false
	c.IsEdited = false
	c.EditHistory = nil
	c.Version = 1
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = nil
	if c.ParentID != nil {
		pid := *c.ParentID
		c.ParentID = &pid
	}
	s.comments[c.ID] = c
	return cloneComment(c), nil
}

func (s *InMemoryCommentStore) Get(_ context.Context, id string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	return cloneComment(c), nil
}

func (s *InMemoryCommentStore) SaveReactions(_ context.Context, id string, version int64, likes, dislikes []string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	if c.Version != version {
		return Comment{}, ErrConflict
	}
	c.Likes = cloneStrings(likes)
	c.Dislikes = cloneStrings(dislikes)
	c.Version++
	s.comments[id] = c
	return cloneComment(c), nil
}

func (s *InMemoryCommentStore) SaveBody(_ context.Context, id string, version int64, body string, prev Edit) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	if c.Version != version {
		return Comment{}, ErrConflict
	}
	c.Body = body
	c.IsEdited = true
	c.EditHistory = append(cloneEdits(c.EditHistory), prev)
	c.Version++
	now := time.Now().UTC()
	c.UpdatedAt = &now
	s.comments[id] = c
	return cloneComment(c), nil
}

func (s *InMemoryCommentStore) MarkDeleted(_ context.Context, id string, version int64) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	if c.Version != version {
		return Comment{}, ErrConflict
	}
	c.Body = DeletedBody
	c.IsDeleted = true
	c.Version++
	now := time.Now().UTC()
	c.UpdatedAt = &now
	s.comments[id] = c
	return cloneComment(c), nil
}

func (s *InMemoryCommentStore) ListRoots(_ context.Context, videoID string, page, pageSize int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var roots []Comment
	for _, c := range s.comments {
		if c.VideoID == videoID && c.ParentID == nil {
			roots = append(roots, cloneComment(c))
		}
	}
	sort.Slice(roots, func(i, j int) bool {
		if !roots[i].CreatedAt.Equal(roots[j].CreatedAt) {
			return roots[i].CreatedAt.After(roots[j].CreatedAt)
		}
		return roots[i].ID > roots[j].ID
	})

	start, end := pageBounds(len(roots), page, pageSize)
	return roots[start:end], nil
}

func (s *InMemoryCommentStore) ListReplies(_ context.Context, parentIDs []string) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = true
	}

	var replies []Comment
	for _, c := range s.comments {
		if c.ParentID != nil && wanted[*c.ParentID] {
			replies = append(replies, cloneComment(c))
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		if !replies[i].CreatedAt.Equal(replies[j].CreatedAt) {
			return replies[i].CreatedAt.Before(replies[j].CreatedAt)
		}
		return replies[i].ID < replies[j].ID
	})
	return replies, nil
}

func (s *InMemoryCommentStore) CountRoots(_ context.Context, videoID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.comments {
		if c.VideoID == videoID && c.ParentID == nil {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryCommentStore) DeleteByVideo(_ context.Context, videoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.comments {
		if c.VideoID == videoID {
			delete(s.comments, id)
		}
	}
	return nil
}
