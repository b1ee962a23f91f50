// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/workingonit/workingonit/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8787", cfg.Networking.Listen)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "openai/gpt-4.1-mini", cfg.Evaluator.Model)
	assert.Equal(t, 30*time.Second, cfg.Evaluator.Timeout)
	assert.Equal(t, "bank", cfg.Questions.Source)
	assert.Equal(t, 5, cfg.Questions.PerSession)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workingonit.yaml")
	data := `
networking:
  listen: "0.0.0.0:9090"
storage:
  backend: sqlite
  path: /tmp/woi.db
providers:
  openai:
    api_key: sk-test
evaluator:
  model: openai/gpt-4.1
  timeout: 10s
questions:
  source: llm
  per_session: 3
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Networking.Listen)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "/tmp/woi.db", cfg.Storage.Path)
	assert.Equal(t, "openai/gpt-4.1", cfg.Evaluator.Model)
	assert.Equal(t, 10*time.Second, cfg.Evaluator.Timeout)
	assert.Equal(t, "llm", cfg.Questions.Source)
	assert.Equal(t, 3, cfg.Questions.PerSession)
	assert.Equal(t, "sk-test", cfg.Providers["openai"].APIKey)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func validConfig() *config.Config {
	return &config.Config{
		Networking: config.NetworkingConfig{Listen: "127.0.0.1:8787"},
		Storage:    config.StorageConfig{Backend: "memory"},
		Evaluator: config.EvaluatorConfig{
			Model:     "openai/gpt-4.1-mini",
			Timeout:   30 * time.Second,
			MaxTokens: 512,
		},
		Questions: config.QuestionsConfig{Source: "bank", PerSession: 5},
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Networking.Listen = "not-an-address"
	cfg.Storage.Backend = "redis"
	cfg.Evaluator.Timeout = 0
	cfg.Questions.Source = "crystal-ball"

	errs := cfg.Validate()
	assert.Len(t, errs, 4)
}

func TestValidateRejectsBadListenPort(t *testing.T) {
	cfg := validConfig()
	cfg.Networking.Listen = "127.0.0.1:99999"
	assert.NotEmpty(t, cfg.Validate())

	cfg.Networking.Listen = "127.0.0.1:abc"
	assert.NotEmpty(t, cfg.Validate())
}

func TestValidateSQLiteRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Backend = "sqlite"
	cfg.Storage.Path = ""
	assert.NotEmpty(t, cfg.Validate())

	cfg.Storage.Path = "woi.db"
	assert.Empty(t, cfg.Validate())
}

func TestValidateModelRefFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Evaluator.Model = "gpt-4.1-mini"
	assert.NotEmpty(t, cfg.Validate())
}

func TestValidateModelRefCrossReferencesProviders(t *testing.T) {
	cfg := validConfig()
	cfg.Providers = map[string]config.ProviderConfig{
		"anthropic": {APIKey: "sk-ant"},
	}
	cfg.Evaluator.Model = "openai/gpt-4.1-mini"
	assert.NotEmpty(t, cfg.Validate(), "openai is not configured")

	cfg.Evaluator.Model = "anthropic/claude-haiku-4-5"
	assert.Empty(t, cfg.Validate())
}

func TestValidateOptionalQuestionsModel(t *testing.T) {
	cfg := validConfig()
	cfg.Questions.Model = ""
	assert.Empty(t, cfg.Validate(), "empty questions.model is allowed")

	cfg.Questions.Model = "no-slash"
	assert.NotEmpty(t, cfg.Validate())
}

func TestProviderFromModel(t *testing.T) {
	assert.Equal(t, "openai", config.ProviderFromModel("openai/gpt-4.1-mini"))
	assert.Equal(t, "anthropic", config.ProviderFromModel("anthropic/claude-haiku-4-5"))
	assert.Equal(t, "bare", config.ProviderFromModel("bare"))

	assert.Equal(t, "gpt-4.1-mini", config.ModelFromRef("openai/gpt-4.1-mini"))
	assert.Equal(t, "bare", config.ModelFromRef("bare"))
}
