// Package memory implements the member record store in process memory.
// Used for development without Redis (REDIS_ENABLED=false) and as the
// store double in tests. Semantics mirror the Redis store: absent records
// read as defaults, field increments are atomic under the store lock.
package memory

import (
	"context"
	"sync"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
)

// MemberStore implements member.Repository in memory.
type MemberStore struct {
	mu      sync.RWMutex
	records map[member.MemberID]member.Record
}

// NewMemberStore creates a new empty MemberStore.
func NewMemberStore() *MemberStore {
	return &MemberStore{
		records: make(map[member.MemberID]member.Record),
	}
}

// Get returns the member's record, or the default record when absent.
func (s *MemberStore) Get(ctx context.Context, id member.MemberID) (member.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[id]; ok {
		return rec, nil
	}
	return member.NewRecord(id), nil
}

// All enumerates every record. Map iteration order is unspecified, which
// matches the repository contract.
func (s *MemberStore) All(ctx context.Context) ([]member.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]member.Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	return records, nil
}

// IncrementXP adds delta to the xp field and returns the new value.
func (s *MemberStore) IncrementXP(ctx context.Context, id member.MemberID, delta member.XP) (member.XP, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrDefault(id)
	rec.XP += delta
	s.records[id] = rec
	return rec.XP, nil
}

// IncrementMessages adds delta to the messages field and returns the new value.
func (s *MemberStore) IncrementMessages(ctx context.Context, id member.MemberID, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrDefault(id)
	rec.Messages += delta
	s.records[id] = rec
	return rec.Messages, nil
}

// SetLevel sets the level field.
func (s *MemberStore) SetLevel(ctx context.Context, id member.MemberID, level member.Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.getOrDefault(id)
	rec.Level = level
	s.records[id] = rec
	return nil
}

// InitIfAbsent seeds a default record when none exists.
func (s *MemberStore) InitIfAbsent(ctx context.Context, id member.MemberID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; ok {
		return false, nil
	}
	s.records[id] = member.NewRecord(id)
	return true, nil
}

// Reset sets all counters back to defaults.
func (s *MemberStore) Reset(ctx context.Context, id member.MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[id] = member.NewRecord(id)
	return nil
}

// Delete removes the record entirely.
func (s *MemberStore) Delete(ctx context.Context, id member.MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, id)
	return nil
}

// Put stores a record verbatim, bypassing increments. Intended for tests
// that need to seed corrupted or pre-built state.
func (s *MemberStore) Put(rec member.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = rec
}

// getOrDefault must be called with the write lock held.
func (s *MemberStore) getOrDefault(id member.MemberID) member.Record {
	if rec, ok := s.records[id]; ok {
		return rec
	}
	return member.NewRecord(id)
}
