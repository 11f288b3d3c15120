package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryVideoStore is a development-only in-memory implementation.
type InMemoryVideoStore struct {
	mu     sync.RWMutex
	videos map[string]Video // id -> video

	// cascade hook so Delete can drop the video's comments.
	comments *InMemoryCommentStore
}

func NewInMemoryVideoStore() *InMemoryVideoStore {
	return &InMemoryVideoStore{videos: make(map[string]Video)}
}

// AttachComments wires the comment store used for delete cascades.
func (s *InMemoryVideoStore) AttachComments(cs *InMemoryCommentStore) {
	s.comments = cs
}

func (s *InMemoryVideoStore) Create(_ context.Context, v Video) (Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v.ID = uuid.NewString()
	v.Views = 0
	v.Likes = nil
	v.Dislikes = nil
	v.CommentCount = 0
	v.Tags = cloneStrings(v.Tags)
	v.Version = 1
	v.CreatedAt = time.Now().UTC()
	v.UpdatedAt = v.CreatedAt
	s.videos[v.ID] = v
	return cloneVideo(v), nil
}

func (s *InMemoryVideoStore) Get(_ context.Context, id string) (Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.videos[id]
	if !ok {
		return Video{}, ErrNotFound
	}
	return cloneVideo(v), nil
}

func (s *InMemoryVideoStore) Update(_ context.Context, in Video) (Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[in.ID]
	if !ok {
		return Video{}, ErrNotFound
	}
	if v.Version != in.Version {
		return Video{}, ErrConflict
	}
	v.Title = in.Title
	v.Description = in.Description
	v.Category = in.Category
	v.Tags = cloneStrings(in.Tags)
	v.IsPublic = in.IsPublic
	v.Version++
	v.UpdatedAt = time.Now().UTC()
	s.videos[v.ID] = v
	return cloneVideo(v), nil
}

func (s *InMemoryVideoStore) SaveReactions(_ context.Context, id string, version int64, likes, dislikes []string) (Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return Video{}, ErrNotFound
	}
	if v.Version != version {
		return Video{}, ErrConflict
	}
	v.Likes = cloneStrings(likes)
	v.Dislikes = cloneStrings(dislikes)
	v.Version++
	v.UpdatedAt = time.Now().UTC()
	s.videos[id] = v
	return cloneVideo(v), nil
}

func (s *InMemoryVideoStore) IncrementViews(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return 0, ErrNotFound
	}
	v.Views++
	s.videos[id] = v
	return v.Views, nil
}

func (s *InMemoryVideoStore) AdjustCommentCount(_ context.Context, id string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.videos[id]
	if !ok {
		return ErrNotFound
	}
	v.CommentCount += delta
	if v.CommentCount < 0 {
		v.CommentCount = 0
	}
	s.videos[id] = v
	return nil
}

func (s *InMemoryVideoStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.videos[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.videos, id)
	s.mu.Unlock()

	if s.comments != nil {
		return s.comments.DeleteByVideo(ctx, id)
	}
	return nil
}

func (s *InMemoryVideoStore) ListSummaries(_ context.Context) ([]VideoSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]VideoSummary, 0, len(s.videos))
	for _, v := range s.videos {
		out = append(out, summarize(v))
	}
	return out, nil
}

func (s *InMemoryVideoStore) ListByUploader(_ context.Context, uploaderID string, page, pageSize int) ([]VideoSummary, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []VideoSummary
	for _, v := range s.videos {
		if v.UploaderID == uploaderID && v.IsPublic {
			all = append(all, summarize(v))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	start, end := pageBounds(len(all), page, pageSize)
	return all[start:end], len(all), nil
}

func summarize(v Video) VideoSummary {
	return VideoSummary{
		ID:           v.ID,
		UploaderID:   v.UploaderID,
		Title:        v.Title,
		Description:  v.Description,
		Category:     v.Category,
		Tags:         cloneStrings(v.Tags),
		ThumbnailURL: v.ThumbnailURL,
		Duration:     v.Duration,
		Views:        v.Views,
		LikeCount:    len(v.Likes),
		IsPublic:     v.IsPublic,
		CreatedAt:    v.CreatedAt,
	}
}
