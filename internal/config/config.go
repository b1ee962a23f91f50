// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package config

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// Config is the top-level WorkingOnIt configuration.
type Config struct {
	Networking NetworkingConfig          `mapstructure:"networking"`
	Storage    StorageConfig             `mapstructure:"storage"`
	Providers  map[string]ProviderConfig `mapstructure:"providers"`
	Evaluator  EvaluatorConfig           `mapstructure:"evaluator"`
	Questions  QuestionsConfig           `mapstructure:"questions"`
}

// NetworkingConfig controls how the gateway listens for connections.
type NetworkingConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StorageConfig selects the session storage backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// ProviderConfig holds credentials and endpoint for an LLM provider.
type ProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

// EvaluatorConfig controls the answer evaluator.
type EvaluatorConfig struct {
	Model     string        `mapstructure:"model"` // "provider/model"
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int           `mapstructure:"max_tokens"`
}

// QuestionsConfig controls where interview questions come from.
type QuestionsConfig struct {
	Source     string `mapstructure:"source"` // "bank" or "llm"
	Path       string `mapstructure:"path"`   // YAML bank file; empty = embedded default bank
	PerSession int    `mapstructure:"per_session"`
	Model      string `mapstructure:"model"` // LLM source model; empty = evaluator model
}

// SetDefaults applies configuration defaults to a Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("networking.listen", "127.0.0.1:8787")
	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.path", "workingonit.db")
	v.SetDefault("evaluator.model", "openai/gpt-4.1-mini")
	v.SetDefault("evaluator.timeout", 30*time.Second)
	v.SetDefault("evaluator.max_tokens", 512)
	v.SetDefault("questions.source", "bank")
	v.SetDefault("questions.per_session", 5)
}

// SetupEnv binds environment variables with the WORKINGONIT_ prefix.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("WORKINGONIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix WORKINGONIT_).
func Load(path string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, woierr.Errorf(woierr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates configuration from an already
// initialised Viper instance. Used by the CLI, where Viper has resolved
// flag, env, and file precedence before this point.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, woierr.Errorf(woierr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, woierr.Errorf(woierr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateNetworking()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateEvaluator()...)
	errs = append(errs, c.validateQuestions()...)

	return errs
}

func (c *Config) validateNetworking() []error {
	var errs []error

	if c.Networking.Listen == "" {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue, "config: networking.listen must not be empty"))
		return errs
	}

	_, portStr, err := net.SplitHostPort(c.Networking.Listen)
	if err != nil {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: networking.listen must be a valid host:port address, got %q: %w",
			c.Networking.Listen, err,
		))
		return errs
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: networking.listen port must be a number, got %q",
			portStr,
		))
	} else if port < 1 || port > 65535 {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: networking.listen port must be between 1 and 65535, got %d",
			port,
		))
	}

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	validBackends := map[string]bool{"memory": true, "sqlite": true}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: storage.backend must be one of [memory, sqlite], got %q",
			c.Storage.Backend,
		))
	}

	if c.Storage.Backend == "sqlite" && c.Storage.Path == "" {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: storage.path must not be empty when storage.backend is sqlite"))
	}

	return errs
}

func (c *Config) validateEvaluator() []error {
	var errs []error

	errs = append(errs, c.validateModelRef("evaluator.model", c.Evaluator.Model, true)...)

	if c.Evaluator.Timeout <= 0 {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: evaluator.timeout must be greater than 0, got %s",
			c.Evaluator.Timeout,
		))
	}

	if c.Evaluator.MaxTokens <= 0 {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: evaluator.max_tokens must be greater than 0, got %d",
			c.Evaluator.MaxTokens,
		))
	}

	return errs
}

func (c *Config) validateQuestions() []error {
	var errs []error

	validSources := map[string]bool{"bank": true, "llm": true}
	if !validSources[c.Questions.Source] {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: questions.source must be one of [bank, llm], got %q",
			c.Questions.Source,
		))
	}

	if c.Questions.PerSession <= 0 {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: questions.per_session must be greater than 0, got %d",
			c.Questions.PerSession,
		))
	}

	// questions.model is optional; when set it must be a valid model ref.
	errs = append(errs, c.validateModelRef("questions.model", c.Questions.Model, false)...)

	return errs
}

// validateModelRef checks the "provider/model" format and, when a providers
// section exists in config, that the referenced provider is configured.
// A nil Providers map means no providers section was configured (e.g.,
// defaults only on a fresh install), which is valid.
func (c *Config) validateModelRef(key, ref string, required bool) []error {
	var errs []error

	if ref == "" {
		if required {
			errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue, "config: %s must not be empty", key))
		}
		return errs
	}

	if !strings.Contains(ref, "/") {
		errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
			"config: %s must be in \"provider/model\" format, got %q",
			key, ref,
		))
		return errs
	}

	if c.Providers != nil {
		providerName := ProviderFromModel(ref)
		if _, ok := c.Providers[providerName]; !ok {
			errs = append(errs, woierr.Errorf(woierr.CodeConfigValidateInvalidValue,
				"config: %s %q references provider %q which is not configured",
				key, ref, providerName,
			))
		}
	}

	return errs
}

// ProviderFromModel extracts the provider prefix from a "provider/model" string.
func ProviderFromModel(model string) string {
	if idx := strings.Index(model, "/"); idx > 0 {
		return model[:idx]
	}
	return model
}

// ModelFromRef extracts the model name from a "provider/model" string.
func ModelFromRef(model string) string {
	if idx := strings.Index(model, "/"); idx >= 0 && idx < len(model)-1 {
		return model[idx+1:]
	}
	return model
}
