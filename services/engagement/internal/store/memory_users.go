package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserStore is a development-only in-memory implementation. All
// mutations run under one mutex, which is the per-entity serialization point
// that stands in for Postgres' conditional writes.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User // id -> user
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) || strings.EqualFold(existing.Email, u.Email) {
			return User{}, ErrExists
		}
	}

	u.ID = uuid.NewString()
	if u.Role == "" {
		u.Role = "user"
	}
	u.SubscriberCount = 0
	u.SubscribedChannels = cloneStrings(u.SubscribedChannels)
	u.Version = 1
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	return cloneUser(u), nil
}

func (s *InMemoryUserStore) Get(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *InMemoryUserStore) GetByLogin(_ context.Context, login string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, login) || strings.EqualFold(u.Email, login) {
			return cloneUser(u), nil
		}
	}
	return User{}, ErrNotFound
}

func (s *InMemoryUserStore) SaveChannels(_ context.Context, id string, version int64, channels []string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if u.Version != version {
		return User{}, ErrConflict
	}
	u.SubscribedChannels = cloneStrings(channels)
	u.Version++
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return cloneUser(u), nil
}

func (s *InMemoryUserStore) AdjustSubscriberCount(_ context.Context, id string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return 0, ErrNotFound
	}
	u.SubscriberCount += delta
	if u.SubscriberCount < 0 {
		u.SubscriberCount = 0
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return u.SubscriberCount, nil
}
