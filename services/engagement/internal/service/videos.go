package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/example/video-platform/internal/platform/events"
	"github.com/example/video-platform/services/engagement/internal/store"
)

const (
	titleMaxLen       = 100
	descriptionMaxLen = 5000
	tagMaxLen         = 20
)

// VideoInput is the caller-supplied part of a video.
type VideoInput struct {
	Title        string
	Description  string
	Category     string
	Tags         []string
	IsPublic     bool
	Duration     int
	VideoURL     string
	ThumbnailURL string
}

// UploadVideo creates a video owned by the actor. The file itself was handled
// by the out-of-scope upload pipeline; here it is just a URL.
func (s *Service) UploadVideo(ctx context.Context, actor Actor, in VideoInput) (store.Video, error) {
	if err := validVideoInput(&in); err != nil {
		return store.Video{}, err
	}
	if in.VideoURL == "" {
		return store.Video{}, fmt.Errorf("%w: video url is required", store.ErrValidation)
	}

	created, err := s.videos.Create(ctx, store.Video{
		UploaderID:   actor.ID,
		Title:        in.Title,
		Description:  in.Description,
		Category:     in.Category,
		Tags:         in.Tags,
		IsPublic:     in.IsPublic,
		Duration:     in.Duration,
		VideoURL:     in.VideoURL,
		ThumbnailURL: in.ThumbnailURL,
	})
	if err != nil {
		return store.Video{}, err
	}

	s.events.Publish(events.SubjectVideoUploaded, "video_uploaded", actor.ID, created.ID,
		map[string]any{"category": created.Category})
	return created, nil
}

// UpdateVideo replaces the mutable metadata, including the visibility flag.
// Owner or admin only; the uploader never changes.
func (s *Service) UpdateVideo(ctx context.Context, videoID string, actor Actor, in VideoInput) (store.Video, error) {
	if err := validVideoInput(&in); err != nil {
		return store.Video{}, err
	}

	for attempt := 0; attempt < conflictRetries; attempt++ {
		v, err := s.videos.Get(ctx, videoID)
		if err != nil {
			return store.Video{}, err
		}
		if v.UploaderID != actor.ID && !actor.Admin() {
			return store.Video{}, store.ErrForbidden
		}

		v.Title = in.Title
		v.Description = in.Description
		v.Category = in.Category
		v.Tags = in.Tags
		v.IsPublic = in.IsPublic

		saved, err := s.videos.Update(ctx, v)
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			return store.Video{}, err
		}
		return saved, nil
	}
	return store.Video{}, store.ErrConflict
}

// DeleteVideo hard-deletes a video and cascades its comments. Owner or admin.
func (s *Service) DeleteVideo(ctx context.Context, videoID string, actor Actor) error {
	v, err := s.videos.Get(ctx, videoID)
	if err != nil {
		return err
	}
	if v.UploaderID != actor.ID && !actor.Admin() {
		return store.ErrForbidden
	}
	if err := s.videos.Delete(ctx, videoID); err != nil {
		return err
	}
	s.events.Publish(events.SubjectVideoDeleted, "video_deleted", actor.ID, videoID, nil)
	return nil
}

// GetVideo fetches a video for watching and counts the view, returning the
// snapshot with the fresh view count.
func (s *Service) GetVideo(ctx context.Context, videoID string) (store.Video, error) {
	v, err := s.videos.Get(ctx, videoID)
	if err != nil {
		return store.Video{}, err
	}
	views, err := s.IncrementView(ctx, videoID)
	if err != nil {
		return store.Video{}, err
	}
	v.Views = views
	return v, nil
}

func validVideoInput(in *VideoInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", store.ErrValidation)
	}
	if utf8.RuneCountInString(in.Title) > titleMaxLen {
		return fmt.Errorf("%w: title exceeds %d characters", store.ErrValidation, titleMaxLen)
	}
	if utf8.RuneCountInString(in.Description) > descriptionMaxLen {
		return fmt.Errorf("%w: description exceeds %d characters", store.ErrValidation, descriptionMaxLen)
	}
	if in.Category == "" {
		in.Category = "Other"
	}
	if !store.ValidCategory(in.Category) {
		return fmt.Errorf("%w: unknown category %q", store.ErrValidation, in.Category)
	}
	for i, tag := range in.Tags {
		tag = strings.TrimSpace(tag)
		if utf8.RuneCountInString(tag) > tagMaxLen {
			return fmt.Errorf("%w: tag exceeds %d characters", store.ErrValidation, tagMaxLen)
		}
		in.Tags[i] = tag
	}
	return nil
}
