// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package questions

import (
	"context"
	_ "embed"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	woierr "github.com/workingonit/workingonit/pkg/errors"
)

//go:embed banks.yaml
var defaultBanksYAML []byte

// bankFile is the on-disk shape of a question bank file.
type bankFile struct {
	Banks map[string][]string `yaml:"banks"`
}

// BankSource serves questions from a YAML bank keyed by topic. Topics are
// matched case-insensitively; unknown topics fall back to the "default"
// bank when one exists.
type BankSource struct {
	banks      map[string][]string
	perSession int
}

// NewBankSource builds a BankSource from the embedded default banks.
func NewBankSource(perSession int) (*BankSource, error) {
	return newBankSource(defaultBanksYAML, perSession)
}

// NewBankSourceFromFile builds a BankSource from a YAML file on disk.
func NewBankSourceFromFile(path string, perSession int) (*BankSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, woierr.Wrapf(err, woierr.CodeInterviewSourceUnavailable, "reading question bank %s", path)
	}
	return newBankSource(data, perSession)
}

func newBankSource(data []byte, perSession int) (*BankSource, error) {
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, woierr.Wrap(err, woierr.CodeInterviewSourceUnavailable, "parsing question bank")
	}
	if len(file.Banks) == 0 {
		return nil, woierr.New(woierr.CodeInterviewQuestionsNoneAvailable, "question bank file defines no banks")
	}

	banks := make(map[string][]string, len(file.Banks))
	for topic, qs := range file.Banks {
		banks[strings.ToLower(strings.TrimSpace(topic))] = qs
	}

	return &BankSource{banks: banks, perSession: perSession}, nil
}

func (b *BankSource) Questions(_ context.Context, topic string) ([]string, error) {
	key := strings.ToLower(strings.TrimSpace(topic))

	bank, ok := b.banks[key]
	if !ok {
		bank = b.banks["default"]
	}
	if len(bank) == 0 {
		return nil, woierr.New(woierr.CodeInterviewQuestionsNoneAvailable,
			"no questions available for topic", woierr.FieldTopic(topic))
	}

	n := len(bank)
	if b.perSession > 0 && b.perSession < n {
		n = b.perSession
	}

	return append([]string(nil), bank[:n]...), nil
}
