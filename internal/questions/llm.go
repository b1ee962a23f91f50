// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package questions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/workingonit/workingonit/internal/config"
	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// LLMSource generates a fresh question list per topic using the OpenAI
// Chat Completions API. The question model defaults to the evaluator model
// when questions.model is unset.
type LLMSource struct {
	client openaisdk.Client
	model  string
	count  int
}

// NewLLMSource builds an LLMSource from configuration.
func NewLLMSource(cfg *config.Config) (*LLMSource, error) {
	ref := cfg.Questions.Model
	if ref == "" {
		ref = cfg.Evaluator.Model
	}

	providerName := config.ProviderFromModel(ref)
	if providerName != "openai" {
		return nil, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"llm question source requires an openai model, got %q", ref)
	}

	pc, ok := cfg.Providers[providerName]
	if !ok || pc.APIKey == "" {
		return nil, woierr.New(woierr.CodeEvaluatorNotConfigured,
			"openai provider is not configured for the llm question source",
			woierr.FieldProvider(providerName))
	}

	opts := []option.RequestOption{option.WithAPIKey(pc.APIKey)}
	if pc.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(pc.Endpoint))
	}

	return &LLMSource{
		client: openaisdk.NewClient(opts...),
		model:  config.ModelFromRef(ref),
		count:  cfg.Questions.PerSession,
	}, nil
}

const generatePrompt = `You generate practice interview questions.
Respond with a single JSON array of question strings and nothing else.`

func (s *LLMSource) Questions(ctx context.Context, topic string) ([]string, error) {
	params := openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(s.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(generatePrompt),
			openaisdk.UserMessage(fmt.Sprintf("Generate %d interview questions for the role: %s", s.count, topic)),
		},
		Temperature: param.NewOpt(0.7),
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, woierr.Wrap(err, woierr.CodeInterviewSourceUnavailable, "question generation timed out", woierr.FieldTopic(topic))
		}
		return nil, woierr.Wrap(err, woierr.CodeInterviewSourceUnavailable, "question generation failed", woierr.FieldTopic(topic))
	}

	if len(completion.Choices) == 0 {
		return nil, woierr.New(woierr.CodeInterviewSourceUnavailable, "question generation returned no choices")
	}

	qs, err := parseQuestionList(completion.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, woierr.New(woierr.CodeInterviewQuestionsNoneAvailable,
			"question generation produced an empty list", woierr.FieldTopic(topic))
	}
	if s.count > 0 && len(qs) > s.count {
		qs = qs[:s.count]
	}
	return qs, nil
}

// parseQuestionList extracts a JSON string array from a model completion,
// tolerating surrounding prose or a code fence.
func parseQuestionList(text string) ([]string, error) {
	candidate := strings.TrimSpace(text)

	var qs []string
	if err := json.Unmarshal([]byte(candidate), &qs); err == nil {
		return compactQuestions(qs), nil
	}

	start := strings.IndexByte(candidate, '[')
	end := strings.LastIndexByte(candidate, ']')
	if start == -1 || end <= start {
		return nil, woierr.New(woierr.CodeInterviewSourceUnavailable, "question generation response is not a JSON array")
	}
	if err := json.Unmarshal([]byte(candidate[start:end+1]), &qs); err != nil {
		return nil, woierr.Wrap(err, woierr.CodeInterviewSourceUnavailable, "question generation response is not a JSON array")
	}
	return compactQuestions(qs), nil
}

// compactQuestions drops empty entries and trims whitespace.
func compactQuestions(qs []string) []string {
	out := qs[:0]
	for _, q := range qs {
		q = strings.TrimSpace(q)
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}
