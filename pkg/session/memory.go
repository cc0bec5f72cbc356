package session

import (
	"context"
	"sync"
	"time"

	"github.com/IlikeChooros/uttt-react-sub000/pkg/uttt"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// In-process Store, entries expire after the ttl (never if it's 0)
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, pos uttt.Position) (string, error) {
	data, err := encode(pos)
	if err != nil {
		return "", err
	}

	entry := memoryEntry{data: data}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
	}

	id := newID()
	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (uttt.Position, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && !entry.expires.IsZero() && s.now().After(entry.expires) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return uttt.Position{}, ErrNotFound
	}
	return decode(entry.data)
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// Number of stored entries, expired ones included
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
