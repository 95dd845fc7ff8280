// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import (
	"testing"

	"fieldcheck/models"
)

func TestAnswerStoreSetValue(t *testing.T) {
	s := NewAnswerStore()

	s.SetValue(1, models.AnswerYes)
	a, ok := s.Get(1)
	if !ok || a.Value != models.AnswerYes {
		t.Fatalf("Get(1) = %v, %v", a, ok)
	}

	// Re-selection overwrites.
	s.SetValue(1, models.AnswerNo)
	a, _ = s.Get(1)
	if a.Value != models.AnswerNo {
		t.Errorf("Value = %q, want No", a.Value)
	}
}

func TestAnswerStoreNAClearsNotes(t *testing.T) {
	s := NewAnswerStore()
	s.SetValue(1, models.AnswerYes)
	s.SetNotes(1, "extinguisher expired")

	s.SetValue(1, models.AnswerNA)
	a, _ := s.Get(1)
	if a.Notes != "" {
		t.Errorf("Notes = %q, want cleared on NA", a.Notes)
	}

	// Switching back to Yes does not resurrect the notes.
	s.SetValue(1, models.AnswerYes)
	a, _ = s.Get(1)
	if a.Notes != "" {
		t.Errorf("Notes = %q after NA round trip, want empty", a.Notes)
	}
}

func TestAnswerStoreNotesBeforeValue(t *testing.T) {
	s := NewAnswerStore()
	s.SetNotes(3, "typed before selecting")

	a, ok := s.Get(3)
	if !ok {
		t.Fatal("notes edit should materialize an answer")
	}
	if a.Value != "" {
		t.Errorf("Value = %q, want empty", a.Value)
	}
	if a.Notes != "typed before selecting" {
		t.Errorf("Notes = %q", a.Notes)
	}
}

func TestAnswerStoreForSection(t *testing.T) {
	questions := []models.Question{
		{ID: 10, SectionID: 1, Text: "q10"},
		{ID: 11, SectionID: 1, Text: "q11"},
		{ID: 20, SectionID: 2, Text: "q20"},
	}

	s := NewAnswerStore()
	s.SetValue(11, models.AnswerNA)
	s.SetValue(10, models.AnswerYes)
	s.SetNotes(10, "notes for 10")
	s.SetValue(20, models.AnswerNo) // different section, must not leak

	got := s.ForSection(questions, 1)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Question-list order, not insertion order.
	if got[0].QuestionID != 10 || got[1].QuestionID != 11 {
		t.Errorf("order = [%d %d], want [10 11]", got[0].QuestionID, got[1].QuestionID)
	}
	if got[0].Notes != "notes for 10" {
		t.Errorf("Notes = %q", got[0].Notes)
	}

	// Unanswered questions are not sent.
	s2 := NewAnswerStore()
	if out := s2.ForSection(questions, 1); len(out) != 0 {
		t.Errorf("empty store produced %d answers", len(out))
	}
}

func TestAnswerStoreReplace(t *testing.T) {
	s := NewAnswerStore()
	s.SetValue(1, models.AnswerYes)

	s.Replace(map[int64]models.Answer{
		5: {Value: models.AnswerNo, Notes: "resumed"},
	})
	if _, ok := s.Get(1); ok {
		t.Error("Replace should drop previous answers")
	}
	a, ok := s.Get(5)
	if !ok || a.Notes != "resumed" {
		t.Errorf("Get(5) = %v, %v", a, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}
