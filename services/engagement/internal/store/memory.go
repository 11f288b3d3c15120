package store

// Shared helpers for the in-memory backends. Snapshots handed out by the
// memory stores never alias internal state, so callers can mutate the slices
// they got back (the reaction engine does exactly that) without corrupting
// the store.

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneEdits(in []Edit) []Edit {
	if in == nil {
		return nil
	}
	out := make([]Edit, len(in))
	copy(out, in)
	return out
}

func cloneUser(u User) User {
	u.SubscribedChannels = cloneStrings(u.SubscribedChannels)
	return u
}

func cloneVideo(v Video) Video {
	v.Tags = cloneStrings(v.Tags)
	v.Likes = cloneStrings(v.Likes)
	v.Dislikes = cloneStrings(v.Dislikes)
	return v
}

func cloneComment(c Comment) Comment {
	c.Likes = cloneStrings(c.Likes)
	c.Dislikes = cloneStrings(c.Dislikes)
	c.EditHistory = cloneEdits(c.EditHistory)
	if c.ParentID != nil {
		pid := *c.ParentID
		c.ParentID = &pid
	}
	if c.UpdatedAt != nil {
		ts := *c.UpdatedAt
		c.UpdatedAt = &ts
	}
	return c
}

func pageBounds(total, page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	start := (page - 1) * pageSize
	if start >= total {
		return 0, 0
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
