package credentials

import (
	"context"
	"database/sql"
	"sync"
)

// MemoryStore is a process-local Store. Nothing survives a restart.
type MemoryStore struct {
	mu  sync.RWMutex
	rec Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, token string, userID int64) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = Record{
		Token:  sql.NullString{String: token, Valid: true},
		UserID: sql.NullInt64{Int64: userID, Valid: true},
	}
	return nil
}

func (s *MemoryStore) Token(_ context.Context) (sql.NullString, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.Token, nil
}

func (s *MemoryStore) UserID(_ context.Context) (sql.NullInt64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.UserID, nil
}

func (s *MemoryStore) SetActiveProfile(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.ActiveProfileID = sql.NullInt64{Int64: id, Valid: true}
	return nil
}

func (s *MemoryStore) ActiveProfileID(_ context.Context) (sql.NullInt64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.ActiveProfileID, nil
}

func (s *MemoryStore) Load(_ context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = Record{}
	return nil
}
