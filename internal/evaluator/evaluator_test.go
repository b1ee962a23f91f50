// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package evaluator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workingonit/workingonit/internal/config"
	"github.com/workingonit/workingonit/internal/evaluator"
	woierr "github.com/workingonit/workingonit/pkg/errors"
)

func baseConfig(model string) *config.Config {
	return &config.Config{
		Providers: map[string]config.ProviderConfig{
			"openai":    {APIKey: "sk-test"},
			"anthropic": {APIKey: "sk-ant-test"},
		},
		Evaluator: config.EvaluatorConfig{
			Model:     model,
			Timeout:   30 * time.Second,
			MaxTokens: 512,
		},
	}
}

func TestNewResolvesOpenAI(t *testing.T) {
	ev, err := evaluator.New(baseConfig("openai/gpt-4.1-mini"))
	require.NoError(t, err)
	assert.IsType(t, &evaluator.OpenAI{}, ev)
}

func TestNewResolvesAnthropic(t *testing.T) {
	ev, err := evaluator.New(baseConfig("anthropic/claude-haiku-4-5"))
	require.NoError(t, err)
	assert.IsType(t, &evaluator.Anthropic{}, ev)
}

func TestNewRejectsUnconfiguredProvider(t *testing.T) {
	cfg := baseConfig("google/gemini-2.0-flash")
	_, err := evaluator.New(cfg)
	require.Error(t, err)
	assert.Equal(t, woierr.CodeEvaluatorNotConfigured, woierr.CodeOf(err))
}

func TestNewRejectsUnsupportedProvider(t *testing.T) {
	cfg := baseConfig("mistral/large")
	cfg.Providers["mistral"] = config.ProviderConfig{APIKey: "sk-m"}
	_, err := evaluator.New(cfg)
	require.Error(t, err)
	assert.Equal(t, woierr.CodeEvaluatorNotConfigured, woierr.CodeOf(err))
}

func TestNewOpenAIRequiresAPIKey(t *testing.T) {
	_, err := evaluator.NewOpenAI(evaluator.OpenAIConfig{Model: "gpt-4.1-mini"})
	assert.Error(t, err)
}

func TestNewAnthropicRequiresAPIKey(t *testing.T) {
	_, err := evaluator.NewAnthropic(evaluator.AnthropicConfig{Model: "claude-haiku-4-5"})
	assert.Error(t, err)
}

func TestMockRecordsCallsAndReplaysFIFO(t *testing.T) {
	mock := evaluator.NewMock(
		evaluator.MockResponse{Result: evaluator.Result{Feedback: "good", Score: 80}},
		evaluator.MockResponse{Err: woierr.New(woierr.CodeInterviewEvaluationFailure, "upstream down")},
	)

	ctx := context.Background()
	res, err := mock.Evaluate(ctx, "Q1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "good", res.Feedback)

	_, err = mock.Evaluate(ctx, "Q2", "A2")
	require.Error(t, err)

	// Queue exhausted.
	_, err = mock.Evaluate(ctx, "Q3", "A3")
	require.Error(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "Q1", calls[0].Question)
	assert.Equal(t, "A1", calls[0].Answer)
	assert.Equal(t, "Q2", calls[1].Question)
}
