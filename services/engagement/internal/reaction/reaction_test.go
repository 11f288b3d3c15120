package reaction

import (
	"testing"
)

func has(set []string, member string) bool {
	for _, m := range set {
		if m == member {
			return true
		}
	}
	return false
}

func TestToggleLikeAddsAndRemoves(t *testing.T) {
	likes, dislikes := Toggle(nil, nil, "u1", Like)
	if !has(likes, "u1") || len(dislikes) != 0 {
		t.Fatalf("after first like: likes=%v dislikes=%v", likes, dislikes)
	}

	likes, dislikes = Toggle(likes, dislikes, "u1", Like)
	if len(likes) != 0 || len(dislikes) != 0 {
		t.Fatalf("second like should undo the first: likes=%v dislikes=%v", likes, dislikes)
	}
}

func TestToggleSwitchesPolarity(t *testing.T) {
	likes, dislikes := Toggle(nil, nil, "u1", Dislike)
	if has(likes, "u1") || !has(dislikes, "u1") {
		t.Fatalf("after dislike: likes=%v dislikes=%v", likes, dislikes)
	}

	likes, dislikes = Toggle(likes, dislikes, "u1", Like)
	if !has(likes, "u1") || has(dislikes, "u1") {
		t.Fatalf("like should clear the dislike: likes=%v dislikes=%v", likes, dislikes)
	}

	likes, dislikes = Toggle(likes, dislikes, "u1", Like)
	if len(likes) != 0 || len(dislikes) != 0 {
		t.Fatalf("repeated like should leave both sets empty: likes=%v dislikes=%v", likes, dislikes)
	}
}

func TestToggleNeverInBothSets(t *testing.T) {
	seq := []Polarity{Like, Dislike, Dislike, Like, Dislike, Like, Like}
	var likes, dislikes []string
	for i, p := range seq {
		likes, dislikes = Toggle(likes, dislikes, "u1", p)
		if has(likes, "u1") && has(dislikes, "u1") {
			t.Fatalf("step %d: u1 in both sets", i)
		}
	}
}

func TestToggleRepairsMalformedInput(t *testing.T) {
	// The actor appears in both sets; a single toggle must repair that.
	likes, dislikes := Toggle([]string{"u1", "u2"}, []string{"u1"}, "u1", Like)
	if has(likes, "u1") || has(dislikes, "u1") {
		t.Fatalf("toggling a malformed state should remove u1 everywhere: likes=%v dislikes=%v", likes, dislikes)
	}
	if !has(likes, "u2") {
		t.Fatalf("other members must survive: likes=%v", likes)
	}
}

func TestToggleLeavesOtherActorsAlone(t *testing.T) {
	likes, dislikes := Toggle([]string{"a", "b"}, []string{"c"}, "b", Dislike)
	if !has(likes, "a") || has(likes, "b") {
		t.Fatalf("likes=%v", likes)
	}
	if !has(dislikes, "b") || !has(dislikes, "c") {
		t.Fatalf("dislikes=%v", dislikes)
	}
}

func TestToggleSubscription(t *testing.T) {
	channels, delta, err := ToggleSubscription(nil, "u1", "ch1")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if delta != 1 || !has(channels, "ch1") {
		t.Fatalf("subscribe: channels=%v delta=%d", channels, delta)
	}

	channels, delta, err = ToggleSubscription(channels, "u1", "ch1")
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if delta != -1 || has(channels, "ch1") {
		t.Fatalf("unsubscribe: channels=%v delta=%d", channels, delta)
	}
}

func TestToggleSubscriptionSelf(t *testing.T) {
	if _, _, err := ToggleSubscription([]string{"other"}, "u1", "u1"); err != ErrSelfSubscribe {
		t.Fatalf("expected ErrSelfSubscribe, got %v", err)
	}
}
