package store

import (
	"context"
	"sync"
	"testing"
)

// Interface compliance for both backends.
var (
	_ UserStore    = (*InMemoryUserStore)(nil)
	_ VideoStore   = (*InMemoryVideoStore)(nil)
	_ CommentStore = (*InMemoryCommentStore)(nil)
	_ UserStore    = (*PostgresUserStore)(nil)
	_ VideoStore   = (*PostgresVideoStore)(nil)
	_ CommentStore = (*PostgresCommentStore)(nil)
)

func newVideo(t *testing.T, s *InMemoryVideoStore) Video {
	t.Helper()
	v, err := s.Create(context.Background(), Video{
		UploaderID: "u1", Title: "t", Category: "Other", VideoURL: "http://v", IsPublic: true,
	})
	if err != nil {
		t.Fatalf("create video: %v", err)
	}
	return v
}

func TestVideoStaleVersionConflict(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryVideoStore()
	v := newVideo(t, s)

	if _, err := s.SaveReactions(ctx, v.ID, v.Version, []string{"u1"}, nil); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := s.SaveReactions(ctx, v.ID, v.Version, nil, []string{"u1"}); err != ErrConflict {
		t.Fatalf("stale save: want ErrConflict, got %v", err)
	}
}

func TestConcurrentIncrementViewsLosesNothing(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryVideoStore()
	v := newVideo(t, s)

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.IncrementViews(ctx, v.ID); err != nil {
				t.Errorf("increment: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Views != n {
		t.Fatalf("views = %d, want %d", got.Views, n)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryVideoStore()
	v := newVideo(t, s)

	saved, err := s.SaveReactions(ctx, v.ID, v.Version, []string{"a"}, nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	saved.Likes[0] = "mutated"

	got, _ := s.Get(ctx, v.ID)
	if got.Likes[0] != "a" {
		t.Fatalf("store state leaked through a returned snapshot")
	}
}

func TestUserCreateUniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryUserStore()

	if _, err := s.Create(ctx, User{Username: "alice", Email: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, User{Username: "Alice", Email: "other@example.com"}); err != ErrExists {
		t.Fatalf("duplicate username: want ErrExists, got %v", err)
	}
	if _, err := s.Create(ctx, User{Username: "bob", Email: "A@example.com"}); err != ErrExists {
		t.Fatalf("duplicate email: want ErrExists, got %v", err)
	}
}

func TestAdjustSubscriberCountClampsAtZero(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryUserStore()
	u, _ := s.Create(ctx, User{Username: "alice", Email: "a@example.com"})

	count, err := s.AdjustSubscriberCount(ctx, u.ID, -5)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestCommentRootsOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCommentStore()

	var last Comment
	for i := 0; i < 3; i++ {
		c, err := s.Create(ctx, Comment{VideoID: "v1", AuthorID: "u1", Body: "hi"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		last = c
	}
	_, _ = s.Create(ctx, Comment{VideoID: "v1", AuthorID: "u1", Body: "reply", ParentID: &last.ID})

	roots, err := s.ListRoots(ctx, "v1", 1, 2)
	if err != nil {
		t.Fatalf("list roots: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("page size not honored: %d roots", len(roots))
	}
	for _, r := range roots {
		if r.ParentID != nil {
			t.Fatalf("replies must not appear among roots")
		}
	}

	total, err := s.CountRoots(ctx, "v1")
	if err != nil || total != 3 {
		t.Fatalf("count roots = %d (%v), want 3", total, err)
	}
}

func TestSaveBodyAppendsHistory(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCommentStore()
	c, _ := s.Create(ctx, Comment{VideoID: "v1", AuthorID: "u1", Body: "first"})

	edited, err := s.SaveBody(ctx, c.ID, c.Version, "second", Edit{Body: c.Body, EditedAt: c.CreatedAt})
	if err != nil {
		t.Fatalf("save body: %v", err)
	}
	if edited.Body != "second" || !edited.IsEdited {
		t.Fatalf("edited = %+v", edited)
	}
	if len(edited.EditHistory) != 1 || edited.EditHistory[0].Body != "first" {
		t.Fatalf("history = %+v", edited.EditHistory)
	}
}

func TestMarkDeletedKeepsRow(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryCommentStore()
	c, _ := s.Create(ctx, Comment{VideoID: "v1", AuthorID: "u1", Body: "first"})

	deleted, err := s.MarkDeleted(ctx, c.ID, c.Version)
	if err != nil {
		t.Fatalf("mark deleted: %v", err)
	}
	if !deleted.IsDeleted || deleted.Body != DeletedBody {
		t.Fatalf("deleted = %+v", deleted)
	}

	got, err := s.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("row must survive deletion: %v", err)
	}
	if got.ID != c.ID {
		t.Fatalf("id changed on delete")
	}
}

func TestVideoDeleteCascadesComments(t *testing.T) {
	ctx := context.Background()
	vs := NewInMemoryVideoStore()
	cs := NewInMemoryCommentStore()
	vs.AttachComments(cs)

	v := newVideo(t, vs)
	c, _ := cs.Create(ctx, Comment{VideoID: v.ID, AuthorID: "u1", Body: "hi"})

	if err := vs.Delete(ctx, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := vs.Get(ctx, v.ID); err != ErrNotFound {
		t.Fatalf("video should be gone, got %v", err)
	}
	if _, err := cs.Get(ctx, c.ID); err != ErrNotFound {
		t.Fatalf("comments should cascade, got %v", err)
	}
}

func TestListByUploaderHidesPrivate(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryVideoStore()
	_, _ = s.Create(ctx, Video{UploaderID: "u1", Title: "pub", VideoURL: "u", IsPublic: true})
	_, _ = s.Create(ctx, Video{UploaderID: "u1", Title: "priv", VideoURL: "u", IsPublic: false})

	got, total, err := s.ListByUploader(ctx, "u1", 1, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].Title != "pub" {
		t.Fatalf("got %+v total %d", got, total)
	}
}
