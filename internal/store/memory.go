// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

func init() {
	RegisterBackend("memory", func(Config) (SessionStore, error) {
		return NewMemorySessionStore(), nil
	})
}

// Compile-time interface check.
var _ SessionStore = (*MemorySessionStore)(nil)

// MemorySessionStore is an in-process SessionStore used by tests and by the
// "memory" storage backend. Sessions are deep-copied on every boundary so
// callers never alias store-owned state.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*InterviewSession
}

// NewMemorySessionStore returns an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*InterviewSession)}
}

func (m *MemorySessionStore) CreateSession(_ context.Context, session *InterviewSession) error {
	if session == nil || session.ID == "" {
		return ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return ErrConflict
	}
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *MemorySessionStore) GetSession(_ context.Context, id string) (*InterviewSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return session.Clone(), nil
}

func (m *MemorySessionStore) UpdateSession(_ context.Context, session *InterviewSession) error {
	if session == nil || session.ID == "" {
		return ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[session.ID]; !ok {
		return ErrNotFound
	}
	updated := session.Clone()
	updated.UpdatedAt = time.Now()
	m.sessions[session.ID] = updated
	return nil
}

func (m *MemorySessionStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) ListSessions(_ context.Context, opts ListOpts) ([]*InterviewSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*InterviewSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s.Clone())
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if opts.Offset >= len(all) {
		return nil, nil
	}
	all = all[opts.Offset:]

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *MemorySessionStore) Close() error { return nil }
