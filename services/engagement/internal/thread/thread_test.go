package thread

import (
	"testing"
	"time"

	"github.com/example/video-platform/services/engagement/internal/store"
)

func ptr(s string) *string { return &s }

func at(sec int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, sec, 0, time.UTC)
}

func TestAssembleGroupsRepliesUnderRoots(t *testing.T) {
	roots := []store.Comment{
		{ID: "r2", CreatedAt: at(10)},
		{ID: "r1", CreatedAt: at(5)},
	}
	replies := []store.Comment{
		{ID: "c3", ParentID: ptr("r1"), CreatedAt: at(9)},
		{ID: "c1", ParentID: ptr("r1"), CreatedAt: at(6)},
		{ID: "c2", ParentID: ptr("r2"), CreatedAt: at(11)},
	}

	nodes := Assemble(roots, replies)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].Comment.ID != "r2" || nodes[1].Comment.ID != "r1" {
		t.Fatalf("root order not preserved: %s, %s", nodes[0].Comment.ID, nodes[1].Comment.ID)
	}
	// Replies oldest first.
	got := nodes[1].Replies
	if len(got) != 2 || got[0].ID != "c1" || got[1].ID != "c3" {
		t.Fatalf("replies out of order: %+v", got)
	}
}

func TestAssembleKeepsDeletedRoots(t *testing.T) {
	roots := []store.Comment{
		{ID: "r1", Body: store.DeletedBody, IsDeleted: true, CreatedAt: at(1)},
	}
	replies := []store.Comment{
		{ID: "c1", ParentID: ptr("r1"), CreatedAt: at(2)},
	}

	nodes := Assemble(roots, replies)
	if len(nodes) != 1 {
		t.Fatalf("deleted root must stay in the thread")
	}
	if nodes[0].Comment.Body != store.DeletedBody {
		t.Fatalf("body = %q", nodes[0].Comment.Body)
	}
	if len(nodes[0].Replies) != 1 {
		t.Fatalf("replies under a deleted root must survive")
	}
}

func TestAssembleDropsDeletedReplies(t *testing.T) {
	roots := []store.Comment{{ID: "r1", CreatedAt: at(1)}}
	replies := []store.Comment{
		{ID: "c1", ParentID: ptr("r1"), CreatedAt: at(2)},
		{ID: "c2", ParentID: ptr("r1"), IsDeleted: true, CreatedAt: at(3)},
	}

	nodes := Assemble(roots, replies)
	if len(nodes[0].Replies) != 1 || nodes[0].Replies[0].ID != "c1" {
		t.Fatalf("deleted reply should not be displayed: %+v", nodes[0].Replies)
	}
}

func TestAssembleEmptyRepliesNotNil(t *testing.T) {
	nodes := Assemble([]store.Comment{{ID: "r1"}}, nil)
	if nodes[0].Replies == nil {
		t.Fatalf("replies must be an empty slice, not nil")
	}
}

func TestParentIDs(t *testing.T) {
	ids := ParentIDs([]store.Comment{{ID: "a"}, {ID: "b"}})
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("ids = %v", ids)
	}
}
