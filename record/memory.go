package record

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-process [Store]. It backs tests and
// single-instance deployments that do not want a database; records live
// until the process exits.
type MemoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*TokenRecord
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]*TokenRecord),
	}
}

func (s *MemoryStore) Create(_ context.Context, rec *TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	s.records[rec.ID] = &stored
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID, tokenType TokenType) (*TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.TokenType != tokenType {
		return nil, ErrNotFound
	}

	out := *rec
	return &out, nil
}

func (s *MemoryStore) MarkUsed(_ context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok || rec.UsedAt != nil {
		return false, nil
	}

	t := usedAt
	rec.UsedAt = &t
	return true, nil
}

// Len reports the number of stored records. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
