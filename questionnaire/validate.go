// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import (
	"fmt"
	"strings"

	"fieldcheck/models"
)

// Result holds the two disjoint error sets of a section validation, each in
// question-list order. A question lands in MissingAnswers when it has no
// value, or in MissingNotes when its value is Yes/No and the notes are empty
// after trimming. NA never requires notes.
type Result struct {
	MissingAnswers []int64
	MissingNotes   []int64
}

// Complete reports whether the section may be saved and left.
func (r Result) Complete() bool {
	return len(r.MissingAnswers) == 0 && len(r.MissingNotes) == 0
}

// First returns the question to direct the user at: the first offender in
// question order, answer errors taking precedence over note errors.
func (r Result) First() (int64, bool) {
	if len(r.MissingAnswers) > 0 {
		return r.MissingAnswers[0], true
	}
	if len(r.MissingNotes) > 0 {
		return r.MissingNotes[0], true
	}
	return 0, false
}

// ValidationError blocks a section transition. It carries the full Result so
// the caller can mark every offending question inline.
type ValidationError struct {
	Result Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("section incomplete: %d unanswered, %d missing notes",
		len(e.Result.MissingAnswers), len(e.Result.MissingNotes))
}

// Check validates one section's questions against the active answer store.
func Check(questions []models.Question, store *AnswerStore) Result {
	var r Result
	for _, q := range questions {
		a, ok := store.Get(q.ID)
		if !ok || a.Value == "" {
			r.MissingAnswers = append(r.MissingAnswers, q.ID)
			continue
		}
		if a.Value == models.AnswerYes || a.Value == models.AnswerNo {
			if strings.TrimSpace(a.Notes) == "" {
				r.MissingNotes = append(r.MissingNotes, q.ID)
			}
		}
	}
	return r
}
