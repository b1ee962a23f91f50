// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/workingonit/workingonit/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", func(cfg store.Config) (store.SessionStore, error) {
		return NewSessionStore(cfg.Path)
	})
}

// Compile-time interface check.
var _ store.SessionStore = (*SessionStore)(nil)

// SessionStore implements store.SessionStore backed by SQLite.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore opens (or creates) a SQLite database at dbPath and
// initialises the interview_sessions table.
func NewSessionStore(dbPath string) (*SessionStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating sqlite db: %w", err)
	}

	return &SessionStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS interview_sessions (
	id             TEXT PRIMARY KEY,
	topic          TEXT NOT NULL,
	questions      TEXT NOT NULL,
	current_index  INTEGER NOT NULL DEFAULT 0,
	feedbacks      TEXT NOT NULL DEFAULT '[]',
	scores         TEXT NOT NULL DEFAULT '[]',
	average_score  REAL,
	summary        TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'idle',
	error_kind     TEXT NOT NULL DEFAULT '',
	error_message  TEXT NOT NULL DEFAULT '',
	finished       INTEGER NOT NULL DEFAULT 0,
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interview_sessions_created ON interview_sessions(created_at);
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

func (s *SessionStore) CreateSession(ctx context.Context, session *store.InterviewSession) error {
	if session == nil || session.ID == "" {
		return store.ErrInvalidInput
	}

	questions, feedbacks, scores, err := encodeSlices(session)
	if err != nil {
		return err
	}

	const q = `INSERT INTO interview_sessions
(id, topic, questions, current_index, feedbacks, scores, average_score, summary, status, error_kind, error_message, finished, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, q,
		session.ID,
		session.Topic,
		questions,
		session.CurrentQuestionIndex,
		feedbacks,
		scores,
		nullableFloat(session.AverageScore),
		session.Summary,
		string(session.Status),
		session.ErrorKind,
		session.ErrorMessage,
		boolToInt(session.Finished),
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("creating session %s: %w", session.ID, err)
	}
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, id string) (*store.InterviewSession, error) {
	const q = `SELECT id, topic, questions, current_index, feedbacks, scores, average_score, summary, status, error_kind, error_message, finished, created_at, updated_at
FROM interview_sessions WHERE id = ?`

	var (
		sess                         store.InterviewSession
		questions, feedbacks, scores string
		avg                          sql.NullFloat64
		finished                     int
		createdAt, updatedAt         string
	)

	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&sess.ID,
		&sess.Topic,
		&questions,
		&sess.CurrentQuestionIndex,
		&feedbacks,
		&scores,
		&avg,
		&sess.Summary,
		&sess.Status,
		&sess.ErrorKind,
		&sess.ErrorMessage,
		&finished,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting session %s: %w", id, err)
	}

	if err := decodeSlices(&sess, questions, feedbacks, scores); err != nil {
		return nil, err
	}
	if avg.Valid {
		v := avg.Float64
		sess.AverageScore = &v
	}
	sess.Finished = finished != 0
	sess.CreatedAt = parseTime(createdAt)
	sess.UpdatedAt = parseTime(updatedAt)

	return &sess, nil
}

func (s *SessionStore) UpdateSession(ctx context.Context, session *store.InterviewSession) error {
	if session == nil || session.ID == "" {
		return store.ErrInvalidInput
	}

	questions, feedbacks, scores, err := encodeSlices(session)
	if err != nil {
		return err
	}

	const q = `UPDATE interview_sessions SET topic = ?, questions = ?, current_index = ?, feedbacks = ?, scores = ?,
average_score = ?, summary = ?, status = ?, error_kind = ?, error_message = ?, finished = ?, updated_at = ?
WHERE id = ?`

	result, err := s.db.ExecContext(ctx, q,
		session.Topic,
		questions,
		session.CurrentQuestionIndex,
		feedbacks,
		scores,
		nullableFloat(session.AverageScore),
		session.Summary,
		string(session.Status),
		session.ErrorKind,
		session.ErrorMessage,
		boolToInt(session.Finished),
		formatTime(time.Now()),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session %s: %w", session.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected for session %s: %w", session.ID, err)
	}
	if rows == 0 {
		return fmt.Errorf("session %s: %w", session.ID, store.ErrNotFound)
	}
	return nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM interview_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected for session %s: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("session %s: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *SessionStore) ListSessions(ctx context.Context, opts store.ListOpts) ([]*store.InterviewSession, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}

	const q = `SELECT id FROM interview_sessions ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := s.db.QueryContext(ctx, q, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions := make([]*store.InterviewSession, 0, len(ids))
	for _, id := range ids {
		sess, err := s.GetSession(ctx, id)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

func encodeSlices(session *store.InterviewSession) (questions, feedbacks, scores string, err error) {
	q, err := json.Marshal(session.Questions)
	if err != nil {
		return "", "", "", fmt.Errorf("marshalling questions: %w", err)
	}
	f, err := json.Marshal(session.Feedbacks)
	if err != nil {
		return "", "", "", fmt.Errorf("marshalling feedbacks: %w", err)
	}
	sc, err := json.Marshal(session.Scores)
	if err != nil {
		return "", "", "", fmt.Errorf("marshalling scores: %w", err)
	}
	return string(q), string(f), string(sc), nil
}

func decodeSlices(session *store.InterviewSession, questions, feedbacks, scores string) error {
	if err := json.Unmarshal([]byte(questions), &session.Questions); err != nil {
		return fmt.Errorf("unmarshalling questions for session %s: %w", session.ID, err)
	}
	if err := json.Unmarshal([]byte(feedbacks), &session.Feedbacks); err != nil {
		return fmt.Errorf("unmarshalling feedbacks for session %s: %w", session.ID, err)
	}
	if err := json.Unmarshal([]byte(scores), &session.Scores); err != nil {
		return fmt.Errorf("unmarshalling scores for session %s: %w", session.ID, err)
	}
	return nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatTime serialises a time.Time to RFC3339 with nanosecond precision.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
