// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package store

import "time"

// SessionStatus represents the lifecycle state of an interview session.
type SessionStatus string

const (
	// SessionStatusIdle means the session was created and no answer has
	// been submitted yet.
	SessionStatusIdle SessionStatus = "idle"
	// SessionStatusLoading means an evaluation is in flight.
	SessionStatusLoading SessionStatus = "loading"
	// SessionStatusSucceeded means the last submission was accepted.
	SessionStatusSucceeded SessionStatus = "succeeded"
	// SessionStatusFailed means the last evaluation failed; the session is
	// resumable at the same question.
	SessionStatusFailed SessionStatus = "failed"
)

// InterviewSession is one candidate's run through a fixed question list.
//
// Invariants maintained by the interview engine:
//   - Questions is non-empty and immutable after creation.
//   - len(Feedbacks) == len(Scores) == CurrentQuestionIndex outside a
//     single in-flight evaluation.
//   - AverageScore is non-nil iff Finished is true.
//   - ErrorKind/ErrorMessage are non-empty iff Status is failed.
type InterviewSession struct {
	ID                   string
	Topic                string
	Questions            []string
	CurrentQuestionIndex int
	Feedbacks            []string
	Scores               []float64
	AverageScore         *float64
	Summary              string
	Status               SessionStatus
	ErrorKind            string
	ErrorMessage         string
	Finished             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Clone returns a deep copy so callers can mutate freely without aliasing
// store-owned state.
func (s *InterviewSession) Clone() *InterviewSession {
	if s == nil {
		return nil
	}

	out := *s
	out.Questions = append([]string(nil), s.Questions...)
	out.Feedbacks = append([]string(nil), s.Feedbacks...)
	out.Scores = append([]float64(nil), s.Scores...)
	if s.AverageScore != nil {
		avg := *s.AverageScore
		out.AverageScore = &avg
	}
	return &out
}

// NextQuestion returns the question awaiting an answer, or "" when the
// session is finished.
func (s *InterviewSession) NextQuestion() string {
	if s.CurrentQuestionIndex >= len(s.Questions) {
		return ""
	}
	return s.Questions[s.CurrentQuestionIndex]
}

// ListOpts provides pagination parameters for list operations.
type ListOpts struct {
	Limit  int
	Offset int
}
