// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package server

import (
	"context"
	"time"

	"github.com/workingonit/workingonit/internal/store"
)

// InterviewService is the engine surface the REST handlers depend on.
// It is an interface so handlers can be tested against a mock.
type InterviewService interface {
	StartSession(ctx context.Context, topic string) (*store.InterviewSession, error)
	GetSession(ctx context.Context, sessionID string) (*store.InterviewSession, error)
	SubmitAnswer(ctx context.Context, sessionID, answer string) (*store.InterviewSession, error)
	AbandonSession(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context, opts store.ListOpts) ([]*store.InterviewSession, error)
}

// SessionError is the wire form of a captured evaluation failure.
type SessionError struct {
	Kind    string `json:"kind" doc:"Stable error kind, e.g. interview.evaluation.timeout"`
	Message string `json:"message" doc:"Human-readable error detail"`
}

// SessionView is the wire form of an interview session.
type SessionView struct {
	ID                   string        `json:"id" doc:"Session identifier"`
	Topic                string        `json:"topic" doc:"Interview topic"`
	Questions            []string      `json:"questions" doc:"Fixed question list for this session"`
	CurrentQuestionIndex int           `json:"current_question_index" doc:"Index of the question awaiting an answer"`
	NextQuestion         string        `json:"next_question,omitempty" doc:"The question awaiting an answer; empty once finished"`
	Feedbacks            []string      `json:"feedbacks" doc:"Per-answer feedback, parallel to scores"`
	Scores               []float64     `json:"scores" doc:"Per-answer scores on a 0-100 scale"`
	AverageScore         *float64      `json:"average_score" doc:"Mean score; null until the session is finished"`
	Summary              string        `json:"summary,omitempty" doc:"Closing summary; empty until the session is finished"`
	Status               string        `json:"status" enum:"idle,loading,succeeded,failed" doc:"Submission lifecycle status"`
	Error                *SessionError `json:"error" doc:"Last evaluation failure; null unless status is failed"`
	IsInterviewFinished  bool          `json:"is_interview_finished" doc:"True once every question has been answered"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

// toSessionView maps a stored session to its wire form. Slices are
// materialised so the JSON renders [] instead of null.
func toSessionView(s *store.InterviewSession) SessionView {
	view := SessionView{
		ID:                   s.ID,
		Topic:                s.Topic,
		Questions:            emptyIfNil(s.Questions),
		CurrentQuestionIndex: s.CurrentQuestionIndex,
		NextQuestion:         s.NextQuestion(),
		Feedbacks:            emptyIfNil(s.Feedbacks),
		Scores:               emptyIfNilFloats(s.Scores),
		AverageScore:         s.AverageScore,
		Summary:              s.Summary,
		Status:               string(s.Status),
		IsInterviewFinished:  s.Finished,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
	if s.ErrorKind != "" || s.ErrorMessage != "" {
		view.Error = &SessionError{Kind: s.ErrorKind, Message: s.ErrorMessage}
	}
	return view
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func emptyIfNilFloats(in []float64) []float64 {
	if in == nil {
		return []float64{}
	}
	return in
}
