package ranking

import (
	"testing"
	"time"

	"github.com/example/video-platform/services/engagement/internal/store"
)

func at(day int) time.Time {
	return time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestTrendingOrdersByViews(t *testing.T) {
	videos := []store.VideoSummary{
		{ID: "a", Views: 50, IsPublic: true, CreatedAt: at(1)},
		{ID: "b", Views: 200, IsPublic: true, CreatedAt: at(2)},
		{ID: "c", Views: 75, IsPublic: true, CreatedAt: at(3)},
		{ID: "hidden", Views: 9999, IsPublic: false, CreatedAt: at(4)},
	}

	got := Trending(videos, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ID != "b" || got[1].ID != "c" {
		t.Fatalf("order = %s, %s", got[0].ID, got[1].ID)
	}
}

func TestTrendingBreaksTiesByRecency(t *testing.T) {
	videos := []store.VideoSummary{
		{ID: "old", Views: 10, IsPublic: true, CreatedAt: at(1)},
		{ID: "new", Views: 10, IsPublic: true, CreatedAt: at(5)},
	}
	got := Trending(videos, 10)
	if got[0].ID != "new" {
		t.Fatalf("newer video should rank first on equal views, got %s", got[0].ID)
	}
}

func TestByCategoryFiltersAndPaginates(t *testing.T) {
	videos := []store.VideoSummary{
		{ID: "m1", Category: "Music", IsPublic: true, CreatedAt: at(1)},
		{ID: "m2", Category: "Music", IsPublic: true, CreatedAt: at(2)},
		{ID: "m3", Category: "Music", IsPublic: true, CreatedAt: at(3)},
		{ID: "g1", Category: "Gaming", IsPublic: true, CreatedAt: at(4)},
		{ID: "m4", Category: "Music", IsPublic: false, CreatedAt: at(5)},
	}

	got, total := ByCategory(videos, "Music", 1, 2)
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(got) != 2 || got[0].ID != "m3" || got[1].ID != "m2" {
		t.Fatalf("page 1 = %+v", got)
	}

	got, _ = ByCategory(videos, "Music", 2, 2)
	if len(got) != 1 || got[0].ID != "m1" {
		t.Fatalf("page 2 = %+v", got)
	}
}

func searchCorpus() []store.VideoSummary {
	return []store.VideoSummary{
		{ID: "title", Title: "Go tutorial", IsPublic: true, Views: 10, LikeCount: 1, CreatedAt: at(1)},
		{ID: "tag", Title: "Weekly vlog", Tags: []string{"go", "coding"}, IsPublic: true, Views: 50, LikeCount: 5, CreatedAt: at(2)},
		{ID: "desc", Title: "Random", Description: "learning go slowly", IsPublic: true, Views: 100, LikeCount: 9, CreatedAt: at(3)},
		{ID: "none", Title: "Cats", IsPublic: true, CreatedAt: at(4)},
		{ID: "private", Title: "Go secrets", IsPublic: false, CreatedAt: at(5)},
	}
}

func TestSearchRelevanceWeighting(t *testing.T) {
	got, total := Search(searchCorpus(), SearchFilter{Query: "go"})
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	// Title hit (3) beats tag hit (2) beats description hit (1).
	if got[0].ID != "title" || got[1].ID != "tag" || got[2].ID != "desc" {
		t.Fatalf("order = %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestSearchSortByViews(t *testing.T) {
	got, _ := Search(searchCorpus(), SearchFilter{Query: "go", SortBy: SortViews})
	if got[0].ID != "desc" {
		t.Fatalf("most viewed match should rank first, got %s", got[0].ID)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	got, total := Search(searchCorpus(), SearchFilter{Query: "   "})
	if got != nil || total != 0 {
		t.Fatalf("blank query must match nothing")
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	videos := []store.VideoSummary{
		{ID: "a", Title: "go live", Category: "Music", IsPublic: true, CreatedAt: at(1)},
		{ID: "b", Title: "go live", Category: "Gaming", IsPublic: true, CreatedAt: at(2)},
	}
	got, total := Search(videos, SearchFilter{Query: "go", Category: "Gaming"})
	if total != 1 || got[0].ID != "b" {
		t.Fatalf("got %+v total %d", got, total)
	}
	_, total = Search(videos, SearchFilter{Query: "go", Category: "All"})
	if total != 2 {
		t.Fatalf("category All must not filter, total = %d", total)
	}
}
