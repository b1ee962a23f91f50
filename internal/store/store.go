// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package store

import "context"

// SessionStore persists interview sessions between requests. The interview
// engine serialises writers per session id, so implementations only need
// per-call consistency, not cross-session transactions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *InterviewSession) error
	GetSession(ctx context.Context, id string) (*InterviewSession, error)
	UpdateSession(ctx context.Context, session *InterviewSession) error
	DeleteSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context, opts ListOpts) ([]*InterviewSession, error)
	Close() error
}
