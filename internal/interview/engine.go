// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

// Package interview owns the practice-interview session lifecycle: it
// sequences a fixed question list, drives the idle/loading/succeeded/failed
// state machine, aggregates scores, and finalises the session once every
// question has been answered.
package interview

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/workingonit/workingonit/internal/evaluator"
	"github.com/workingonit/workingonit/internal/questions"
	"github.com/workingonit/workingonit/internal/store"
	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// Engine orchestrates interview sessions. Persistence goes through a
// store.SessionStore on every transition; the engine never assumes a
// session survives in memory across requests.
type Engine struct {
	ss      store.SessionStore
	source  questions.Source
	eval    evaluator.Evaluator
	timeout time.Duration
	logger  *slog.Logger

	// mu guards the per-session in-flight registry and abandon tombstones.
	// One submission may be in flight per session id; a second concurrent
	// submission fails fast instead of racing state.
	mu        sync.Mutex
	inflight  map[string]struct{}
	abandoned map[string]struct{}
}

// NewEngine returns an Engine wired to the given collaborators.
// evalTimeout bounds every evaluator call; zero applies a 30s default.
func NewEngine(ss store.SessionStore, source questions.Source, eval evaluator.Evaluator, evalTimeout time.Duration, logger *slog.Logger) *Engine {
	if evalTimeout <= 0 {
		evalTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		ss:        ss,
		source:    source,
		eval:      eval,
		timeout:   evalTimeout,
		logger:    logger,
		inflight:  make(map[string]struct{}),
		abandoned: make(map[string]struct{}),
	}
}

// StartSession creates a new session for a topic and persists it.
// Nothing is persisted when the question source or the store fails.
func (e *Engine) StartSession(ctx context.Context, topic string) (*store.InterviewSession, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, woierr.New(woierr.CodeInterviewTopicInvalid, "topic must not be empty")
	}

	srcCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	qs, err := e.source.Questions(srcCtx, topic)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, woierr.New(woierr.CodeInterviewQuestionsNoneAvailable,
			"question source returned no questions", woierr.FieldTopic(topic))
	}

	now := time.Now()
	session := &store.InterviewSession{
		ID:        uuid.New().String(),
		Topic:     topic,
		Questions: qs,
		Status:    store.SessionStatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.ss.CreateSession(ctx, session); err != nil {
		return nil, woierr.Wrap(err, woierr.CodeStoreDatabaseFailure, "persisting new session",
			woierr.FieldSessionID(session.ID))
	}

	e.logger.Info("interview session started",
		"session_id", session.ID, "topic", topic, "questions", len(qs))
	return session, nil
}

// SubmitAnswer evaluates the answer to the session's current question and
// advances the session. An evaluator failure is captured into the session's
// status/error fields and persisted; the index, feedbacks, and scores are
// untouched so the session stays resumable at the same question. An empty
// answer is valid input, not a validation error.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, answer string) (*store.InterviewSession, error) {
	if !e.acquire(sessionID) {
		return nil, woierr.New(woierr.CodeInterviewSessionBusy,
			"a submission for this session is already in flight", woierr.FieldSessionID(sessionID))
	}
	defer e.release(sessionID)

	session, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.Finished {
		return nil, woierr.New(woierr.CodeInterviewTransitionInvalid,
			"session is already finished", woierr.FieldSessionID(sessionID))
	}
	if session.CurrentQuestionIndex >= len(session.Questions) {
		return nil, woierr.New(woierr.CodeInterviewTransitionInvalid,
			"no question awaiting an answer", woierr.FieldSessionID(sessionID))
	}

	// A persisted loading status with no in-flight slot is a stale marker
	// from an interrupted run; the registry is the authority on whether an
	// evaluation is actually running.
	question := session.Questions[session.CurrentQuestionIndex]

	session.Status = store.SessionStatusLoading
	session.ErrorKind = ""
	session.ErrorMessage = ""
	if err := e.persist(ctx, session); err != nil {
		return nil, err
	}

	evalCtx, cancel := context.WithTimeout(ctx, e.timeout)
	result, evalErr := e.eval.Evaluate(evalCtx, question, answer)
	cancel()

	if e.isAbandoned(sessionID) {
		// The session was abandoned while the evaluation was in flight;
		// discard the result and leave nothing behind.
		e.logger.Info("discarding evaluation for abandoned session", "session_id", sessionID)
		return nil, woierr.New(woierr.CodeInterviewTransitionInvalid,
			"session was abandoned", woierr.FieldSessionID(sessionID))
	}

	if evalErr != nil {
		return e.recordFailure(ctx, session, evalErr)
	}

	session.Feedbacks = append(session.Feedbacks, result.Feedback)
	session.Scores = append(session.Scores, result.Score)
	session.CurrentQuestionIndex++
	session.Status = store.SessionStatusSucceeded

	if session.CurrentQuestionIndex == len(session.Questions) {
		finalize(session)
		e.logger.Info("interview session finished",
			"session_id", sessionID, "average_score", *session.AverageScore)
	}

	if err := e.persist(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AbandonSession disposes of a session. Abandoning an unknown or already
// abandoned session is a no-op. An in-flight evaluation for the session
// settles normally but its result is discarded before write-back.
func (e *Engine) AbandonSession(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	if _, busy := e.inflight[sessionID]; busy {
		e.abandoned[sessionID] = struct{}{}
	}
	e.mu.Unlock()

	err := e.ss.DeleteSession(ctx, sessionID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return woierr.Wrap(err, woierr.CodeStoreDatabaseFailure, "deleting session",
			woierr.FieldSessionID(sessionID))
	}

	e.logger.Info("interview session abandoned", "session_id", sessionID)
	return nil
}

// GetSession retrieves the current session state.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*store.InterviewSession, error) {
	return e.load(ctx, sessionID)
}

// ListSessions returns recent sessions, newest first.
func (e *Engine) ListSessions(ctx context.Context, opts store.ListOpts) ([]*store.InterviewSession, error) {
	sessions, err := e.ss.ListSessions(ctx, opts)
	if err != nil {
		return nil, woierr.Wrap(err, woierr.CodeStoreDatabaseFailure, "listing sessions")
	}
	return sessions, nil
}

// recordFailure captures an evaluator failure into the session and persists
// it. The caller keeps the session resumable: index, feedbacks, and scores
// are untouched.
func (e *Engine) recordFailure(ctx context.Context, session *store.InterviewSession, evalErr error) (*store.InterviewSession, error) {
	// Clients key on two stable kinds: timeout and evaluation failure.
	// Anything else the evaluator reports (malformed response included)
	// is stored as an evaluation failure.
	kind := woierr.CodeOf(evalErr)
	if kind != woierr.CodeInterviewEvaluationTimeout {
		kind = woierr.CodeInterviewEvaluationFailure
	}

	session.Status = store.SessionStatusFailed
	session.ErrorKind = string(kind)
	session.ErrorMessage = evalErr.Error()

	e.logger.Warn("evaluation failed",
		"session_id", session.ID, "question_index", session.CurrentQuestionIndex, "error_kind", kind)

	if err := e.persist(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (e *Engine) load(ctx context.Context, sessionID string) (*store.InterviewSession, error) {
	session, err := e.ss.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, woierr.Wrap(err, woierr.CodeStoreSessionGetNotFound, "session not found",
				woierr.FieldSessionID(sessionID))
		}
		return nil, woierr.Wrap(err, woierr.CodeStoreDatabaseFailure, "loading session",
			woierr.FieldSessionID(sessionID))
	}
	return session, nil
}

func (e *Engine) persist(ctx context.Context, session *store.InterviewSession) error {
	if err := e.ss.UpdateSession(ctx, session); err != nil {
		// The session may have been abandoned between load and write-back.
		if errors.Is(err, store.ErrNotFound) {
			return woierr.Wrap(err, woierr.CodeInterviewTransitionInvalid, "session was abandoned",
				woierr.FieldSessionID(session.ID))
		}
		return woierr.Wrap(err, woierr.CodeStoreDatabaseFailure, "persisting session",
			woierr.FieldSessionID(session.ID))
	}
	return nil
}

// acquire claims the single in-flight slot for a session id.
func (e *Engine) acquire(sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, busy := e.inflight[sessionID]; busy {
		return false
	}
	e.inflight[sessionID] = struct{}{}
	return true
}

// release frees the in-flight slot and clears any abandon tombstone left
// for the settled submission.
func (e *Engine) release(sessionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, sessionID)
	delete(e.abandoned, sessionID)
}

func (e *Engine) isAbandoned(sessionID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.abandoned[sessionID]
	return ok
}
