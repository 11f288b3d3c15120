// Package ranking computes read-only listing orders over video snapshots:
// trending, category listings and search. It never mutates counters and has
// no store dependency; callers pass the snapshot in.
package ranking

import (
	"sort"
	"strings"

	"github.com/example/video-platform/services/engagement/internal/store"
)

// SortBy names the explicit sort orders the search endpoint accepts.
type SortBy string

const (
	SortRelevance SortBy = "relevance"
	SortDate      SortBy = "date"
	SortViews     SortBy = "views"
	SortRating    SortBy = "rating"
)

// SearchFilter narrows and orders a search.
type SearchFilter struct {
	Query    string
	Category string // empty or "All" means no category filter
	SortBy   SortBy
	Page     int
	PageSize int
}

// Trending returns the most-viewed public videos, newest first among equal
// view counts, truncated to limit.
func Trending(videos []store.VideoSummary, limit int) []store.VideoSummary {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	out := publicOnly(videos)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ByCategory returns one page of public videos in a category, newest first,
// along with the total match count for pagination metadata.
func ByCategory(videos []store.VideoSummary, category string, page, pageSize int) ([]store.VideoSummary, int) {
	var out []store.VideoSummary
	for _, v := range videos {
		if v.IsPublic && v.Category == category {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, page, pageSize)
}

// Search matches public videos against the query over title, tags and
// description. The default order is relevance (field-weighted term match);
// date, views and rating are literal field comparators.
func Search(videos []store.VideoSummary, f SearchFilter) ([]store.VideoSummary, int) {
	terms := tokenize(f.Query)
	if len(terms) == 0 {
		return nil, 0
	}

	type scored struct {
		video store.VideoSummary
		score int
	}
	var matches []scored
	for _, v := range videos {
		if !v.IsPublic {
			continue
		}
		if f.Category != "" && f.Category != "All" && v.Category != f.Category {
			continue
		}
		if s := relevance(v, terms); s > 0 {
			matches = append(matches, scored{video: v, score: s})
		}
	}

	switch f.SortBy {
	case SortDate:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].video.CreatedAt.After(matches[j].video.CreatedAt)
		})
	case SortViews:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].video.Views > matches[j].video.Views
		})
	case SortRating:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].video.LikeCount > matches[j].video.LikeCount
		})
	default: // relevance
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].score != matches[j].score {
				return matches[i].score > matches[j].score
			}
			return matches[i].video.CreatedAt.After(matches[j].video.CreatedAt)
		})
	}

	out := make([]store.VideoSummary, len(matches))
	for i, m := range matches {
		out[i] = m.video
	}
	return paginate(out, f.Page, f.PageSize)
}

// relevance scores one video against the query terms. Title hits weigh most,
// then tags, then description; a term missing from all fields scores zero.
func relevance(v store.VideoSummary, terms []string) int {
	title := strings.ToLower(v.Title)
	desc := strings.ToLower(v.Description)
	score := 0
	for _, term := range terms {
		if strings.Contains(title, term) {
			score += 3
		}
		for _, tag := range v.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				score += 2
				break
			}
		}
		if strings.Contains(desc, term) {
			score++
		}
	}
	return score
}

func tokenize(query string) []string {
	var terms []string
	for _, f := range strings.Fields(strings.ToLower(query)) {
		if f = strings.TrimSpace(f); f != "" {
			terms = append(terms, f)
		}
	}
	return terms
}

func publicOnly(videos []store.VideoSummary) []store.VideoSummary {
	var out []store.VideoSummary
	for _, v := range videos {
		if v.IsPublic {
			out = append(out, v)
		}
	}
	return out
}

func paginate(all []store.VideoSummary, page, pageSize int) ([]store.VideoSummary, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	total := len(all)
	start := (page - 1) * pageSize
	if start >= total {
		return []store.VideoSummary{}, total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return all[start:end], total
}
