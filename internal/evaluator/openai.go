// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package evaluator

import (
	"context"
	"errors"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// OpenAIConfig holds OpenAI evaluator configuration.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string // optional, useful for testing against a mock server
	Model     string
	MaxTokens int
}

// OpenAI implements Evaluator using the OpenAI Chat Completions API.
type OpenAI struct {
	client openaisdk.Client
	config OpenAIConfig
}

// NewOpenAI creates a new OpenAI evaluator. Returns an error if the API key is missing.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: missing api_key in config")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openaisdk.NewClient(opts...)
	return &OpenAI{client: client, config: cfg}, nil
}

func (e *OpenAI) Evaluate(ctx context.Context, question, answer string) (Result, error) {
	maxTokens := int64(e.config.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 512
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(e.config.Model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(userPrompt(question, answer)),
		},
		MaxCompletionTokens: param.NewOpt(maxTokens),
		Temperature:         param.NewOpt(0.2),
	}

	completion, err := e.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, woierr.Wrap(err, woierr.CodeInterviewEvaluationTimeout, "openai evaluation timed out")
		}
		return Result{}, woierr.Wrap(err, woierr.CodeInterviewEvaluationFailure, "openai evaluation failed", woierr.FieldProvider("openai"))
	}

	if len(completion.Choices) == 0 {
		return Result{}, woierr.New(woierr.CodeEvaluatorResponseInvalid, "openai returned no choices")
	}

	return parseResult(completion.Choices[0].Message.Content)
}
