// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workingonit/workingonit/internal/store"
)

func newSession(id string) *store.InterviewSession {
	now := time.Now()
	return &store.InterviewSession{
		ID:        id,
		Topic:     "Backend Engineer",
		Questions: []string{"Q1", "Q2"},
		Status:    store.SessionStatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ms := store.NewMemorySessionStore()
	ctx := context.Background()

	sess := newSession("sess-1")
	require.NoError(t, ms.CreateSession(ctx, sess))

	got, err := ms.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Topic, got.Topic)
	assert.Equal(t, []string{"Q1", "Q2"}, got.Questions)
	assert.Equal(t, store.SessionStatusIdle, got.Status)
}

func TestMemoryStore_CreateDuplicateConflicts(t *testing.T) {
	ms := store.NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, ms.CreateSession(ctx, newSession("sess-1")))
	err := ms.CreateSession(ctx, newSession("sess-1"))
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestMemoryStore_GetMissingReturnsNotFound(t *testing.T) {
	ms := store.NewMemorySessionStore()

	_, err := ms.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_GetReturnsDeepCopy(t *testing.T) {
	ms := store.NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, ms.CreateSession(ctx, newSession("sess-1")))

	got, err := ms.GetSession(ctx, "sess-1")
	require.NoError(t, err)

	// Mutating the returned copy must not leak back into the store.
	got.Questions[0] = "mutated"
	got.Feedbacks = append(got.Feedbacks, "leak")

	again, err := ms.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Q1", again.Questions[0])
	assert.Empty(t, again.Feedbacks)
}

func TestMemoryStore_UpdatePersistsProgress(t *testing.T) {
	ms := store.NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, ms.CreateSession(ctx, newSession("sess-1")))

	sess, err := ms.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	sess.CurrentQuestionIndex = 1
	sess.Feedbacks = []string{"good"}
	sess.Scores = []float64{80}
	sess.Status = store.SessionStatusSucceeded
	require.NoError(t, ms.UpdateSession(ctx, sess))

	got, err := ms.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentQuestionIndex)
	assert.Equal(t, []string{"good"}, got.Feedbacks)
	assert.Equal(t, []float64{80}, got.Scores)
	assert.Equal(t, store.SessionStatusSucceeded, got.Status)
}

func TestMemoryStore_UpdateMissingReturnsNotFound(t *testing.T) {
	ms := store.NewMemorySessionStore()

	err := ms.UpdateSession(context.Background(), newSession("ghost"))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_Delete(t *testing.T) {
	ms := store.NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, ms.CreateSession(ctx, newSession("sess-1")))
	require.NoError(t, ms.DeleteSession(ctx, "sess-1"))

	_, err := ms.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting twice reports not found; idempotency is the engine's concern.
	assert.ErrorIs(t, ms.DeleteSession(ctx, "sess-1"), store.ErrNotFound)
}

func TestMemoryStore_ListNewestFirst(t *testing.T) {
	ms := store.NewMemorySessionStore()
	ctx := context.Background()

	older := newSession("sess-old")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newSession("sess-new")

	require.NoError(t, ms.CreateSession(ctx, older))
	require.NoError(t, ms.CreateSession(ctx, newer))

	list, err := ms.ListSessions(ctx, store.ListOpts{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "sess-new", list[0].ID)
	assert.Equal(t, "sess-old", list[1].ID)

	limited, err := ms.ListSessions(ctx, store.ListOpts{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "sess-old", limited[0].ID)
}

func TestFactory_ResolvesMemoryBackend(t *testing.T) {
	ss, err := store.New(store.Config{Backend: "memory"})
	require.NoError(t, err)
	require.NotNil(t, ss)
	assert.NoError(t, ss.Close())

	// Empty backend defaults to memory.
	ss, err = store.New(store.Config{})
	require.NoError(t, err)
	assert.NotNil(t, ss)

	_, err = store.New(store.Config{Backend: "etcd"})
	assert.Error(t, err)
}
