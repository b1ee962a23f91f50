// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 WorkingOnIt Contributors

package interview

import (
	"fmt"

	"github.com/workingonit/workingonit/internal/store"
)

// finalize computes the average score and summary for a session whose last
// question has been answered, and marks it finished. It must only be called
// when every question has a recorded score.
func finalize(session *store.InterviewSession) {
	avg := mean(session.Scores)
	session.AverageScore = &avg
	session.Summary = buildSummary(len(session.Questions), avg)
	session.Finished = true
}

// mean returns the arithmetic mean of scores. Callers guarantee scores is
// non-empty.
func mean(scores []float64) float64 {
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// buildSummary renders the closing summary for a finished session. It is a
// pure function of the question count and average score, so the same session
// always produces the same text.
func buildSummary(questionCount int, avg float64) string {
	return fmt.Sprintf("You answered %d questions with an average score of %.1f out of 100. %s",
		questionCount, avg, remarkFor(avg))
}

func remarkFor(avg float64) string {
	switch {
	case avg >= 85:
		return "Excellent work: your answers were consistently strong."
	case avg >= 70:
		return "Solid performance: most answers landed well, with room to sharpen a few."
	case avg >= 50:
		return "A fair showing: review the feedback on your weaker answers and try again."
	default:
		return "This topic needs more preparation: work through the feedback and retake the interview."
	}
}
