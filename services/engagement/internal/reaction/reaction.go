// Package reaction holds the pure toggle logic for likes, dislikes and
// subscriptions. Nothing here does I/O: callers load a snapshot, run a
// toggle, and persist the result under their own concurrency control.
package reaction

import "errors"

// ErrSelfSubscribe is returned when a user tries to subscribe to themselves.
var ErrSelfSubscribe = errors.New("cannot subscribe to yourself")

// Polarity selects which of the two reaction sets a toggle targets.
type Polarity int

const (
	Like Polarity = iota + 1
	Dislike
)

func (p Polarity) String() string {
	if p == Dislike {
		return "dislike"
	}
	return "like"
}

// Toggle applies one like/dislike toggle for actor and returns the new sets.
//
// If the actor is already in the set matching the polarity, the reaction is
// removed. Otherwise the actor joins that set and leaves the opposite one in
// the same transition. The result always has the actor in at most one set,
// even if the inputs were malformed and contained the actor in both
// (repair-on-write).
func Toggle(likes, dislikes []string, actor string, p Polarity) ([]string, []string) {
	target, opposite := likes, dislikes
	if p == Dislike {
		target, opposite = dislikes, likes
	}

	inTarget := contains(target, actor)
	// Always strip the actor from the opposite set; this both implements the
	// polarity switch and repairs an input that violated disjointness.
	opposite = remove(opposite, actor)

	if inTarget {
		target = remove(target, actor)
	} else {
		target = append(remove(target, actor), actor)
	}

	if p == Dislike {
		return opposite, target
	}
	return target, opposite
}

// ToggleSubscription flips subscriber's membership in its channel set for
// target and reports the delta to apply to target's subscriber count.
func ToggleSubscription(channels []string, subscriber, target string) ([]string, int64, error) {
	if subscriber == target {
		return nil, 0, ErrSelfSubscribe
	}
	if contains(channels, target) {
		return remove(channels, target), -1, nil
	}
	return append(remove(channels, target), target), +1, nil
}

func contains(set []string, member string) bool {
	for _, m := range set {
		if m == member {
			return true
		}
	}
	return false
}

// remove drops every occurrence of member, deduplicating as a side effect.
func remove(set []string, member string) []string {
	out := set[:0]
	for _, m := range set {
		if m != member {
			out = append(out, m)
		}
	}
	return out
}
