// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import (
	"fieldcheck/models"
)

// AnswerStore is the in-memory question → answer mapping for one part of
// the questionnaire. Part A and Part B each get their own store; answers
// never move between them.
type AnswerStore struct {
	answers map[int64]models.Answer
}

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{answers: make(map[int64]models.Answer)}
}

// SetValue records the selected value for a question, creating the answer on
// first selection and overwriting on re-selection. Selecting NA clears any
// notes already entered; Yes/No keep them.
func (s *AnswerStore) SetValue(questionID int64, value string) {
	a := s.answers[questionID]
	a.Value = value
	if value == models.AnswerNA {
		a.Notes = ""
	}
	s.answers[questionID] = a
}

// SetNotes records the notes text. Editing notes before selecting a value
// materializes an answer with an empty value, which validation will flag.
func (s *AnswerStore) SetNotes(questionID int64, notes string) {
	a := s.answers[questionID]
	a.Notes = notes
	s.answers[questionID] = a
}

func (s *AnswerStore) Get(questionID int64) (models.Answer, bool) {
	a, ok := s.answers[questionID]
	return a, ok
}

func (s *AnswerStore) Len() int {
	return len(s.answers)
}

// Replace swaps in a reconciled answer set, used when resuming a draft.
func (s *AnswerStore) Replace(answers map[int64]models.Answer) {
	s.answers = make(map[int64]models.Answer, len(answers))
	for id, a := range answers {
		s.answers[id] = a
	}
}

// ForSection returns the stored answers belonging to the given section's
// questions, in question order, shaped for the save endpoint. Answers for
// other sections are never included: a save is always exactly one section.
func (s *AnswerStore) ForSection(questions []models.Question, sectionID int64) []models.SectionAnswer {
	var out []models.SectionAnswer
	for _, q := range questions {
		if q.SectionID != sectionID {
			continue
		}
		a, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		out = append(out, models.SectionAnswer{
			QuestionID: q.ID,
			Value:      a.Value,
			Notes:      a.Notes,
		})
	}
	return out
}
