// Package session keeps in-progress assessment runs. Storage is best
// effort: a lost session means the respondent starts over, nothing more.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillcompass/skillcompass-engine/internal/assessment"
)

var ErrNotFound = errors.New("session not found")

// Session is one respondent's run: the engine state plus the captured
// biodata that travels alongside it into the saved record.
type Session struct {
	ID        string             `json:"id"`
	State     assessment.State   `json:"state"`
	Biodata   assessment.Biodata `json:"biodata"`
	CreatedAt int64              `json:"created_at"`
	UpdatedAt int64              `json:"updated_at"`
}

type Store interface {
	Create(ctx context.Context) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore returns the default single-process store.
func NewMemoryStore() Store {
	return &memoryStore{sessions: map[string]Session{}}
}

func (m *memoryStore) Create(ctx context.Context) (Session, error) {
	now := time.Now().Unix()
	s := Session{
		ID:        uuid.NewString(),
		State:     assessment.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) Put(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrNotFound
	}
	s.UpdatedAt = time.Now().Unix()
	m.sessions[s.ID] = s
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
