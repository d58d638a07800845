// Package history keeps a per-user record of generated documents so earlier
// work can be revisited.
package history

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an entry id does not exist.
var ErrNotFound = errors.New("history: entry not found")

// Entry is one saved generation.
type Entry struct {
	ID         string
	UserID     string
	TemplateID string
	Headline   string
	RawContent map[string]any
	CreatedAt  time.Time
}

// Store persists generation history.
type Store interface {
	Save(ctx context.Context, entry Entry) (Entry, error)
	List(ctx context.Context, userID string) ([]Entry, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-process Store. Entries survive for the lifetime of the
// process only.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Save records an entry, assigning an id and timestamp when missing.
func (s *MemoryStore) Save(_ context.Context, entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.RawContent = copyContent(entry.RawContent)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ID] = entry
	return entry, nil
}

// List returns a user's entries, newest first.
func (s *MemoryStore) List(_ context.Context, userID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, entry := range s.entries {
		if entry.UserID != userID {
			continue
		}
		entry.RawContent = copyContent(entry.RawContent)
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes an entry.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func copyContent(content map[string]any) map[string]any {
	if content == nil {
		return nil
	}
	out := make(map[string]any, len(content))
	for key, value := range content {
		out[key] = value
	}
	return out
}
