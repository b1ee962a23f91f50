// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/workingonit/workingonit/internal/store"
	woierr "github.com/workingonit/workingonit/pkg/errors"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "start-interview",
		Method:      http.MethodPost,
		Path:        "/api/v1/interviews",
		Summary:     "Start an interview session",
		Tags:        []string{"interviews"},
	}, s.handleStartInterview)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-interviews",
		Method:      http.MethodGet,
		Path:        "/api/v1/interviews",
		Summary:     "List recent interview sessions",
		Tags:        []string{"interviews"},
	}, s.handleListInterviews)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-interview",
		Method:      http.MethodGet,
		Path:        "/api/v1/interviews/{id}",
		Summary:     "Get an interview session",
		Tags:        []string{"interviews"},
	}, s.handleGetInterview)

	huma.Register(s.api, huma.Operation{
		OperationID: "submit-answer",
		Method:      http.MethodPost,
		Path:        "/api/v1/interviews/{id}/answers",
		Summary:     "Submit an answer to the current question",
		Tags:        []string{"interviews"},
	}, s.handleSubmitAnswer)

	huma.Register(s.api, huma.Operation{
		OperationID: "abandon-interview",
		Method:      http.MethodDelete,
		Path:        "/api/v1/interviews/{id}",
		Summary:     "Abandon an interview session",
		Tags:        []string{"interviews"},
	}, s.handleAbandonInterview)

	huma.Register(s.api, huma.Operation{
		OperationID: "service-status",
		Method:      http.MethodGet,
		Path:        "/api/v1/status",
		Summary:     "Service status",
		Tags:        []string{"system"},
	}, s.handleStatus)
}

// --- Request/Response types for huma ---

type startInterviewInput struct {
	Body struct {
		Topic string `json:"topic" minLength:"1" doc:"Interview topic, e.g. a role name"`
	}
}

type sessionOutput struct {
	Body SessionView
}

type getInterviewInput struct {
	ID string `path:"id" doc:"Session identifier"`
}

type submitAnswerInput struct {
	ID   string `path:"id" doc:"Session identifier"`
	Body struct {
		// Answer may be empty; an empty answer is still graded.
		Answer string `json:"answer" doc:"Answer to the current question"`
	}
}

type abandonInterviewInput struct {
	ID string `path:"id" doc:"Session identifier"`
}

type listInterviewsInput struct {
	Limit  int `query:"limit" minimum:"0" maximum:"500" doc:"Maximum sessions to return"`
	Offset int `query:"offset" minimum:"0" doc:"Sessions to skip"`
}

type listInterviewsOutput struct {
	Body struct {
		Sessions []SessionView `json:"sessions"`
	}
}

type statusOutput struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

// --- Handlers ---

func (s *Server) handleStartInterview(ctx context.Context, input *startInterviewInput) (*sessionOutput, error) {
	session, err := s.interviews.StartSession(ctx, input.Body.Topic)
	if err != nil {
		return nil, httpError(err)
	}
	return &sessionOutput{Body: toSessionView(session)}, nil
}

func (s *Server) handleGetInterview(ctx context.Context, input *getInterviewInput) (*sessionOutput, error) {
	session, err := s.interviews.GetSession(ctx, input.ID)
	if err != nil {
		return nil, httpError(err)
	}
	return &sessionOutput{Body: toSessionView(session)}, nil
}

func (s *Server) handleSubmitAnswer(ctx context.Context, input *submitAnswerInput) (*sessionOutput, error) {
	session, err := s.interviews.SubmitAnswer(ctx, input.ID, input.Body.Answer)
	if err != nil {
		return nil, httpError(err)
	}
	return &sessionOutput{Body: toSessionView(session)}, nil
}

func (s *Server) handleAbandonInterview(ctx context.Context, input *abandonInterviewInput) (*struct{}, error) {
	if err := s.interviews.AbandonSession(ctx, input.ID); err != nil {
		return nil, httpError(err)
	}
	return &struct{}{}, nil
}

func (s *Server) handleListInterviews(ctx context.Context, input *listInterviewsInput) (*listInterviewsOutput, error) {
	sessions, err := s.interviews.ListSessions(ctx, store.ListOpts{Limit: input.Limit, Offset: input.Offset})
	if err != nil {
		return nil, httpError(err)
	}

	out := &listInterviewsOutput{}
	out.Body.Sessions = make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		out.Body.Sessions = append(out.Body.Sessions, toSessionView(session))
	}
	return out, nil
}

func (s *Server) handleStatus(_ context.Context, _ *struct{}) (*statusOutput, error) {
	out := &statusOutput{}
	out.Body.Status = "ok"
	return out, nil
}

// httpError translates an engine error into a huma status error using the
// error's code classification.
func httpError(err error) error {
	return huma.NewError(woierr.HTTPStatus(err), err.Error())
}
