package service

import (
	"context"

	"github.com/example/video-platform/services/engagement/internal/ranking"
	"github.com/example/video-platform/services/engagement/internal/store"
)

// VideoPage is one page of a listing with pagination metadata.
type VideoPage struct {
	Videos   []store.VideoSummary `json:"videos"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Total    int                  `json:"total"`
}

// ListTrending returns the most-viewed public videos.
func (s *Service) ListTrending(ctx context.Context, limit int) ([]store.VideoSummary, error) {
	all, err := s.videos.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Trending(all, limit), nil
}

// ListByCategory returns one page of public videos in a category, newest first.
func (s *Service) ListByCategory(ctx context.Context, category string, page, pageSize int) (VideoPage, error) {
	if !store.ValidCategory(category) {
		return VideoPage{}, store.ErrValidation
	}
	all, err := s.videos.ListSummaries(ctx)
	if err != nil {
		return VideoPage{}, err
	}
	out, total := ranking.ByCategory(all, category, page, pageSize)
	return videoPage(out, total, page, pageSize), nil
}

// Search runs a query over public videos and returns one page of matches.
func (s *Service) Search(ctx context.Context, f ranking.SearchFilter) (VideoPage, error) {
	all, err := s.videos.ListSummaries(ctx)
	if err != nil {
		return VideoPage{}, err
	}
	out, total := ranking.Search(all, f)
	return videoPage(out, total, f.Page, f.PageSize), nil
}

// ListUserVideos returns one page of a user's uploads, newest first.
func (s *Service) ListUserVideos(ctx context.Context, uploaderID string, page, pageSize int) (VideoPage, error) {
	out, total, err := s.videos.ListByUploader(ctx, uploaderID, page, pageSize)
	if err != nil {
		return VideoPage{}, err
	}
	return videoPage(out, total, page, pageSize), nil
}

func videoPage(videos []store.VideoSummary, total, page, pageSize int) VideoPage {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if videos == nil {
		videos = []store.VideoSummary{}
	}
	return VideoPage{Videos: videos, Page: page, PageSize: pageSize, Total: total}
}
