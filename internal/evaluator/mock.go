// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package evaluator

import (
	"context"
	"sync"

	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// MockCall records one Evaluate invocation against a Mock.
type MockCall struct {
	Question string
	Answer   string
}

// MockResponse is a canned response for the Mock evaluator.
type MockResponse struct {
	Result Result
	Err    error
	// Block, when non-nil, is waited on before returning. Lets tests hold
	// an evaluation in flight to exercise concurrency paths.
	Block <-chan struct{}
}

// Mock is a deterministic Evaluator for testing.
// It returns canned responses in FIFO order and records all calls.
type Mock struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []MockCall
}

// NewMock creates a Mock with the given canned responses.
func NewMock(responses ...MockResponse) *Mock {
	return &Mock{responses: responses}
}

// Evaluate returns the next canned response, honouring ctx cancellation
// while blocked. An exhausted queue reports an evaluation failure.
func (m *Mock) Evaluate(ctx context.Context, question, answer string) (Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, MockCall{Question: question, Answer: answer})

	if len(m.responses) == 0 {
		m.mu.Unlock()
		return Result{}, woierr.New(woierr.CodeInterviewEvaluationFailure, "mock evaluator exhausted")
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if resp.Block != nil {
		select {
		case <-resp.Block:
		case <-ctx.Done():
			return Result{}, woierr.Wrap(ctx.Err(), woierr.CodeInterviewEvaluationTimeout, "mock evaluation timed out")
		}
	}

	if resp.Err != nil {
		return Result{}, resp.Err
	}
	return resp.Result, nil
}

// Calls returns a copy of the recorded invocations.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}
