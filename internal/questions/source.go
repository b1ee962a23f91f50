// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

// Package questions supplies the ordered question list for an interview
// session. Two sources exist: a YAML question bank and an LLM generator.
package questions

import (
	"context"

	"github.com/workingonit/workingonit/internal/config"
	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// Source produces the ordered, non-empty question list for a topic.
type Source interface {
	Questions(ctx context.Context, topic string) ([]string, error)
}

// New builds the configured question source.
func New(cfg *config.Config) (Source, error) {
	switch cfg.Questions.Source {
	case "", "bank":
		if cfg.Questions.Path != "" {
			return NewBankSourceFromFile(cfg.Questions.Path, cfg.Questions.PerSession)
		}
		return NewBankSource(cfg.Questions.PerSession)
	case "llm":
		return NewLLMSource(cfg)
	default:
		return nil, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"unsupported question source %q", cfg.Questions.Source)
	}
}
