package store

import (
	"context"
	"sort"
	"sync"

	"github.com/mjaramillo/weather-alert-api/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory implementation of the
// notification store, used in tests and local development.
type MemoryStore struct {
	mu sync.RWMutex

	// key: email, value: notifications in insertion order
	data   map[string][]weather.Notification
	nextID int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string][]weather.Notification),
		nextID: 1,
	}
}

// Save assigns the next ID and stores the notification.
func (s *MemoryStore) Save(_ context.Context, n weather.Notification) (weather.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = s.nextID
	s.nextID++
	s.data[n.Email] = append(s.data[n.Email], n)
	return n, nil
}

// FindByEmail returns all notifications for an email, newest sent_at first.
// An unknown email yields an empty, non-error result.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) ([]weather.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedCopy(s.data[email]), nil
}

// FindAll returns every stored notification, newest sent_at first.
func (s *MemoryStore) FindAll(_ context.Context) ([]weather.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []weather.Notification
	for _, notifications := range s.data {
		all = append(all, notifications...)
	}
	return sortedCopy(all), nil
}

func sortedCopy(notifications []weather.Notification) []weather.Notification {
	result := make([]weather.Notification, len(notifications))
	copy(result, notifications)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SentAt.After(result[j].SentAt)
	})
	return result
}
