package session

import (
	"context"
	"sync"
	"time"
)

// Record is the server-side half of a session. LastSeen advances on every
// resolved request; a record older than the idle deadline is dead even if the
// token itself has not expired yet.
type Record struct {
	UserID   int64     `json:"uid"`
	IssuedAt time.Time `json:"iat"`
	LastSeen time.Time `json:"seen"`
}

type Store interface {
	Save(ctx context.Context, sid string, rec Record, ttl time.Duration) error
	// Get returns (zero, false, nil) for an unknown or expired sid.
	Get(ctx context.Context, sid string) (Record, bool, error)
	Delete(ctx context.Context, sid string) error
}

// MemoryStore keeps sessions in-process. Used in tests and in single-node
// deployments without redis; restarting the process logs everyone out.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, sid string, rec Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = memoryEntry{rec: rec, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sid]
	if !ok {
		return Record{}, false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, sid)
		return Record{}, false, nil
	}
	return e.rec, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sid)
	return nil
}
