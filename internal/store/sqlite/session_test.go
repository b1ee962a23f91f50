// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workingonit/workingonit/internal/store"
	"github.com/workingonit/workingonit/internal/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SessionStore {
	t.Helper()

	ss, err := sqlite.NewSessionStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })
	return ss
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ss := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	sess := &store.InterviewSession{
		ID:        "sess-1",
		Topic:     "Backend Engineer",
		Questions: []string{"Q1", "Q2", "Q3"},
		Status:    store.SessionStatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, ss.CreateSession(ctx, sess))

	got, err := ss.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Topic)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, got.Questions)
	assert.Equal(t, 0, got.CurrentQuestionIndex)
	assert.Empty(t, got.Feedbacks)
	assert.Empty(t, got.Scores)
	assert.Nil(t, got.AverageScore)
	assert.Equal(t, store.SessionStatusIdle, got.Status)
	assert.False(t, got.Finished)
	assert.WithinDuration(t, now, got.CreatedAt, time.Second)
}

func TestSQLiteStore_UpdatePersistsFinalState(t *testing.T) {
	ss := newTestStore(t)
	ctx := context.Background()

	sess := &store.InterviewSession{
		ID:        "sess-1",
		Topic:     "QA",
		Questions: []string{"Q1", "Q2"},
		Status:    store.SessionStatusIdle,
		CreatedAt: time.Now(),
	}
	require.NoError(t, ss.CreateSession(ctx, sess))

	avg := 70.0
	sess.CurrentQuestionIndex = 2
	sess.Feedbacks = []string{"good", "ok"}
	sess.Scores = []float64{80, 60}
	sess.AverageScore = &avg
	sess.Summary = "You answered 2 questions with an average score of 70."
	sess.Status = store.SessionStatusSucceeded
	sess.Finished = true
	require.NoError(t, ss.UpdateSession(ctx, sess))

	got, err := ss.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentQuestionIndex)
	assert.Equal(t, []string{"good", "ok"}, got.Feedbacks)
	assert.Equal(t, []float64{80, 60}, got.Scores)
	require.NotNil(t, got.AverageScore)
	assert.InDelta(t, 70.0, *got.AverageScore, 1e-9)
	assert.True(t, got.Finished)
	assert.NotEmpty(t, got.Summary)
}

func TestSQLiteStore_FailedStatePersistsErrorKind(t *testing.T) {
	ss := newTestStore(t)
	ctx := context.Background()

	sess := &store.InterviewSession{
		ID:        "sess-1",
		Topic:     "QA",
		Questions: []string{"Q1"},
		Status:    store.SessionStatusIdle,
		CreatedAt: time.Now(),
	}
	require.NoError(t, ss.CreateSession(ctx, sess))

	sess.Status = store.SessionStatusFailed
	sess.ErrorKind = "interview.evaluation.timeout"
	sess.ErrorMessage = "evaluation timed out"
	require.NoError(t, ss.UpdateSession(ctx, sess))

	got, err := ss.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, store.SessionStatusFailed, got.Status)
	assert.Equal(t, "interview.evaluation.timeout", got.ErrorKind)
	assert.Equal(t, "evaluation timed out", got.ErrorMessage)
	assert.Equal(t, 0, got.CurrentQuestionIndex)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ss := newTestStore(t)
	ctx := context.Background()

	_, err := ss.GetSession(ctx, "ghost")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = ss.UpdateSession(ctx, &store.InterviewSession{ID: "ghost", Questions: []string{"Q"}})
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, ss.DeleteSession(ctx, "ghost"), store.ErrNotFound)
}

func TestSQLiteStore_DeleteAndList(t *testing.T) {
	ss := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, ss.CreateSession(ctx, &store.InterviewSession{
			ID:        id,
			Topic:     "QA",
			Questions: []string{"Q1"},
			Status:    store.SessionStatusIdle,
			CreatedAt: time.Now(),
		}))
		time.Sleep(time.Millisecond)
	}

	require.NoError(t, ss.DeleteSession(ctx, "b"))

	list, err := ss.ListSessions(ctx, store.ListOpts{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID, "newest first")
	assert.Equal(t, "a", list[1].ID)
}

func TestSQLiteStore_FactoryRegistration(t *testing.T) {
	ss, err := store.New(store.Config{
		Backend: "sqlite",
		Path:    filepath.Join(t.TempDir(), "factory.db"),
	})
	require.NoError(t, err)
	assert.NoError(t, ss.Close())
}
