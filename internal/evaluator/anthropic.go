// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// AnthropicConfig holds Anthropic evaluator configuration.
type AnthropicConfig struct {
	APIKey    string
	BaseURL   string // optional, useful for testing against a mock server
	Model     string
	MaxTokens int
}

// Anthropic implements Evaluator using the Anthropic Messages API.
type Anthropic struct {
	client anthropicsdk.Client
	config AnthropicConfig
}

// NewAnthropic creates a new Anthropic evaluator. Returns an error if the API key is missing.
func NewAnthropic(cfg AnthropicConfig) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: missing api_key in config")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropicsdk.NewClient(opts...)
	return &Anthropic{client: client, config: cfg}, nil
}

func (e *Anthropic) Evaluate(ctx context.Context, question, answer string) (Result, error) {
	maxTokens := int64(e.config.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 512
	}

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(e.config.Model),
		MaxTokens: maxTokens,
		System: []anthropicsdk.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(userPrompt(question, answer))),
		},
	}

	msg, err := e.client.Messages.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{}, woierr.Wrap(err, woierr.CodeInterviewEvaluationTimeout, "anthropic evaluation timed out")
		}
		return Result{}, woierr.Wrap(err, woierr.CodeInterviewEvaluationFailure, "anthropic evaluation failed", woierr.FieldProvider("anthropic"))
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return parseResult(text.String())
}
