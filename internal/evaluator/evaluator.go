// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

// Package evaluator scores a candidate's answer to an interview question
// using an LLM provider, returning feedback text and a bounded numeric
// score. Adapters exist for OpenAI and Anthropic; the engine treats the
// evaluator as an opaque, timeout-bounded dependency.
package evaluator

import (
	"context"
	"fmt"

	"github.com/workingonit/workingonit/internal/config"
	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// ScoreMin and ScoreMax bound every evaluation score.
const (
	ScoreMin = 0.0
	ScoreMax = 100.0
)

// Result is one evaluation of a (question, answer) pair.
type Result struct {
	Feedback string
	Score    float64
}

// Evaluator produces feedback and a score for a single question/answer pair.
// Implementations must honour ctx cancellation and deadlines; the engine
// translates context.DeadlineExceeded into an evaluation-timeout error.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer string) (Result, error)
}

// New resolves the configured "provider/model" reference into a concrete
// evaluator adapter.
func New(cfg *config.Config) (Evaluator, error) {
	providerName := config.ProviderFromModel(cfg.Evaluator.Model)
	model := config.ModelFromRef(cfg.Evaluator.Model)

	pc, ok := cfg.Providers[providerName]
	if !ok {
		return nil, woierr.New(woierr.CodeEvaluatorNotConfigured,
			fmt.Sprintf("provider %q is not configured", providerName),
			woierr.FieldProvider(providerName))
	}

	switch providerName {
	case "openai":
		return NewOpenAI(OpenAIConfig{
			APIKey:    pc.APIKey,
			BaseURL:   pc.Endpoint,
			Model:     model,
			MaxTokens: cfg.Evaluator.MaxTokens,
		})
	case "anthropic":
		return NewAnthropic(AnthropicConfig{
			APIKey:    pc.APIKey,
			BaseURL:   pc.Endpoint,
			Model:     model,
			MaxTokens: cfg.Evaluator.MaxTokens,
		})
	default:
		return nil, woierr.New(woierr.CodeEvaluatorNotConfigured,
			fmt.Sprintf("unsupported evaluator provider %q", providerName),
			woierr.FieldProvider(providerName))
	}
}

const systemPrompt = `You are an experienced technical interviewer grading a candidate's answer.
Respond with a single JSON object and nothing else:
{"feedback": "<2-3 sentences of concrete feedback>", "score": <integer 0-100>}
An empty or irrelevant answer deserves a low score, not a refusal.`

// userPrompt renders the question/answer pair for the grading request.
func userPrompt(question, answer string) string {
	return fmt.Sprintf("Question:\n%s\n\nCandidate answer:\n%s", question, answer)
}

// clampScore bounds a score to [ScoreMin, ScoreMax].
func clampScore(score float64) float64 {
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}
