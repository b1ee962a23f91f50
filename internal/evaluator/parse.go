// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package evaluator

import (
	"encoding/json"
	"strings"

	woierr "github.com/workingonit/workingonit/pkg/errors"
)

// gradedAnswer is the JSON shape the grading prompt asks the model for.
type gradedAnswer struct {
	Feedback string   `json:"feedback"`
	Score    *float64 `json:"score"`
}

// parseResult extracts the graded JSON object from a model completion.
// Models occasionally wrap the object in prose or a code fence, so parsing
// is lenient: the first balanced '{'..'}' span is tried before giving up.
func parseResult(text string) (Result, error) {
	candidate := strings.TrimSpace(text)
	if candidate == "" {
		return Result{}, woierr.New(woierr.CodeEvaluatorResponseInvalid, "empty evaluator response")
	}

	var graded gradedAnswer
	if err := json.Unmarshal([]byte(candidate), &graded); err != nil {
		obj := firstJSONObject(candidate)
		if obj == "" {
			return Result{}, woierr.Wrap(err, woierr.CodeEvaluatorResponseInvalid, "evaluator response is not JSON")
		}
		if err := json.Unmarshal([]byte(obj), &graded); err != nil {
			return Result{}, woierr.Wrap(err, woierr.CodeEvaluatorResponseInvalid, "evaluator response is not JSON")
		}
	}

	if graded.Score == nil {
		return Result{}, woierr.New(woierr.CodeEvaluatorResponseInvalid, "evaluator response is missing a score")
	}
	if graded.Feedback == "" {
		return Result{}, woierr.New(woierr.CodeEvaluatorResponseInvalid, "evaluator response is missing feedback")
	}

	return Result{
		Feedback: graded.Feedback,
		Score:    clampScore(*graded.Score),
	}, nil
}

// firstJSONObject returns the first balanced top-level JSON object in s,
// or "" when none exists. Braces inside JSON strings are skipped.
func firstJSONObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
