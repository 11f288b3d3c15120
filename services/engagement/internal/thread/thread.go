// Package thread assembles comment trees for display. It is pure: the store
// hands it snapshots and it never writes anything back.
package thread

import (
	"sort"

	"github.com/example/video-platform/services/engagement/internal/store"
)

// Node is a top-level comment with its visible replies.
type Node struct {
	Comment store.Comment   `json:"comment"`
	Replies []store.Comment `json:"replies"`
}

// Page is one page of a video's thread with pagination metadata. Total counts
// top-level comments only and is computed independently of the page contents.
type Page struct {
	Comments []Node `json:"comments"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Total    int    `json:"total"`
}

// Assemble builds display nodes from one page of roots and the replies
// fetched for them.
//
// Roots stay in the order the store returned them (newest first) and are kept
// even when soft-deleted: the placeholder body is already on the snapshot and
// the reply list must survive deletion. Replies are ordered oldest first and
// soft-deleted replies are dropped from display only; their rows still exist.
func Assemble(roots, replies []store.Comment) []Node {
	byParent := make(map[string][]store.Comment)
	for _, r := range replies {
		if r.IsDeleted || r.ParentID == nil {
			continue
		}
		byParent[*r.ParentID] = append(byParent[*r.ParentID], r)
	}
	for _, children := range byParent {
		sort.SliceStable(children, func(i, j int) bool {
			if !children[i].CreatedAt.Equal(children[j].CreatedAt) {
				return children[i].CreatedAt.Before(children[j].CreatedAt)
			}
			return children[i].ID < children[j].ID
		})
	}

	nodes := make([]Node, len(roots))
	for i, root := range roots {
		children := byParent[root.ID]
		if children == nil {
			children = []store.Comment{}
		}
		nodes[i] = Node{Comment: root, Replies: children}
	}
	return nodes
}

// ParentIDs extracts the ids of the given roots, for the reply lookup.
func ParentIDs(roots []store.Comment) []string {
	ids := make([]string, len(roots))
	for i, r := range roots {
		ids[i] = r.ID
	}
	return ids
}
