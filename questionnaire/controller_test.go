// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"fieldcheck/models"
)

type saveCall struct {
	reportID string
	answers  []models.SectionAnswer
}

// fakeGateway is an in-memory backend for controller tests.
type fakeGateway struct {
	sectionsA    []models.Section
	sectionsB    []models.Section
	sectionsBErr error

	questions    map[int64][]models.Question
	questionsErr map[int64]error

	records    []models.AnswerRecord
	answersErr error

	saveErr func(call int) error

	saves         []saveCall
	questionCalls []int64
}

func (g *fakeGateway) GetSections(ctx context.Context, formType string) ([]models.Section, error) {
	if formType == models.FormTypeB {
		return g.sectionsB, g.sectionsBErr
	}
	return g.sectionsA, nil
}

func (g *fakeGateway) GetQuestions(ctx context.Context, sectionID int64) ([]models.Question, error) {
	g.questionCalls = append(g.questionCalls, sectionID)
	if err := g.questionsErr[sectionID]; err != nil {
		return nil, err
	}
	return g.questions[sectionID], nil
}

func (g *fakeGateway) GetAnswers(ctx context.Context, reportID string) ([]models.AnswerRecord, error) {
	return g.records, g.answersErr
}

func (g *fakeGateway) SaveSection(ctx context.Context, reportID string, answers []models.SectionAnswer) error {
	call := len(g.saves)
	g.saves = append(g.saves, saveCall{reportID: reportID, answers: answers})
	if g.saveErr != nil {
		return g.saveErr(call)
	}
	return nil
}

// twoSectionGateway builds Part A sections S1, S2 with two questions each
// and one Part B section with one question.
func twoSectionGateway() *fakeGateway {
	return &fakeGateway{
		sectionsA: []models.Section{
			{ID: 1, Name: "S1", FormType: models.FormTypeA, Ordinal: 0},
			{ID: 2, Name: "S2", FormType: models.FormTypeA, Ordinal: 1},
		},
		sectionsB: []models.Section{
			{ID: 10, Name: "B1", FormType: models.FormTypeB, Ordinal: 0},
		},
		questions: map[int64][]models.Question{
			1:  {{ID: 11, SectionID: 1, Text: "q11"}, {ID: 12, SectionID: 1, Text: "q12"}},
			2:  {{ID: 21, SectionID: 2, Text: "q21"}, {ID: 22, SectionID: 2, Text: "q22"}},
			10: {{ID: 101, SectionID: 10, Text: "q101"}},
		},
	}
}

type recordingNotifier struct {
	successes, warnings, errs []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Warning(msg string) { n.warnings = append(n.warnings, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errs = append(n.errs, msg) }

func answerAllNA(t *testing.T, c *Controller) {
	t.Helper()
	for _, q := range c.Questions() {
		if err := c.SetAnswer(q.ID, models.AnswerNA); err != nil {
			t.Fatalf("SetAnswer(%d) error = %v", q.ID, err)
		}
	}
}

func TestControllerLoadEntersPartA(t *testing.T) {
	gw := twoSectionGateway()
	c := NewController(gw, "R1", nil)

	if c.State() != StateLoading {
		t.Fatalf("State = %v, want loading", c.State())
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.State() != StatePartAEditing {
		t.Errorf("State = %v, want part_a_editing", c.State())
	}
	sec, _ := c.CurrentSection()
	if sec.ID != 1 {
		t.Errorf("current section = %d, want 1", sec.ID)
	}
	if len(c.Questions()) != 2 {
		t.Errorf("questions = %d, want 2", len(c.Questions()))
	}
}

func TestControllerLoadReconcilesDraft(t *testing.T) {
	gw := twoSectionGateway()
	gw.records = []models.AnswerRecord{
		{QuestionID: 11, Value: models.AnswerYes, Notes: "resumed note", Question: &models.Question{ID: 11, SectionID: 1}},
		{QuestionID: 101, Value: models.AnswerNA, Question: &models.Question{ID: 101, SectionID: 10}},
		{QuestionID: 999, Value: models.AnswerNo, Notes: "orphan", Question: &models.Question{ID: 999, SectionID: 55}},
	}
	c := NewController(gw, "R1", nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Part A store holds its own answer plus the unclassifiable default.
	if a, ok := c.Answer(11); !ok || a.Notes != "resumed note" {
		t.Errorf("Answer(11) = %v, %v", a, ok)
	}
	if a, ok := c.Answer(999); !ok || a.Value != models.AnswerNo {
		t.Errorf("Answer(999) = %v, %v, orphan should default to Part A", a, ok)
	}
	// Part B answer is not visible while editing Part A.
	if _, ok := c.Answer(101); ok {
		t.Error("Part B answer leaked into Part A store")
	}
}

func TestControllerLoadPartBFailureNonFatal(t *testing.T) {
	gw := twoSectionGateway()
	gw.sectionsBErr = errors.New("boom")
	c := NewController(gw, "R1", nil)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v, Part B failure must not block loading", err)
	}
	if c.State() != StatePartAEditing {
		t.Errorf("State = %v", c.State())
	}
}

func TestControllerNextSectionBlockedByValidation(t *testing.T) {
	gw := twoSectionGateway()
	c := NewController(gw, "R1", nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Yes without notes: both questions unanswered except q11 missing notes.
	if err := c.SetAnswer(11, models.AnswerYes); err != nil {
		t.Fatal(err)
	}

	err := c.NextSection(context.Background())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if len(ve.Result.MissingNotes) != 1 || ve.Result.MissingNotes[0] != 11 {
		t.Errorf("MissingNotes = %v, want [11]", ve.Result.MissingNotes)
	}
	if len(ve.Result.MissingAnswers) != 1 || ve.Result.MissingAnswers[0] != 12 {
		t.Errorf("MissingAnswers = %v, want [12]", ve.Result.MissingAnswers)
	}
	// Answer errors take precedence for the focus target.
	if first, _ := ve.Result.First(); first != 12 {
		t.Errorf("First() = %d, want 12", first)
	}
	if len(gw.saves) != 0 {
		t.Error("failed validation must not reach the gateway")
	}
	if c.SectionIndex() != 0 {
		t.Error("failed validation must not advance")
	}

	// Filling in the notes and the missing answer unblocks the transition.
	if err := c.SetNotes(11, "documented"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetAnswer(12, models.AnswerNA); err != nil {
		t.Fatal(err)
	}
	if res := c.ValidationErrors(); !res.Complete() {
		t.Errorf("marks not cleared by edits: %+v", res)
	}
	if err := c.NextSection(context.Background()); err != nil {
		t.Fatalf("NextSection() error = %v", err)
	}
	if c.SectionIndex() != 1 {
		t.Errorf("SectionIndex = %d, want 1", c.SectionIndex())
	}
}

func TestControllerSaveFailureBlocksAdvance(t *testing.T) {
	gw := twoSectionGateway()
	gw.saveErr = func(int) error { return fmt.Errorf("connection refused") }
	c := NewController(gw, "R1", nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	answerAllNA(t, c)

	err := c.NextSection(context.Background())
	if err == nil {
		t.Fatal("NextSection() should propagate the save failure")
	}
	if c.SectionIndex() != 0 {
		t.Error("save failure must not advance the cursor")
	}
	if c.State() != StatePartAEditing {
		t.Errorf("State = %v, must stay editing", c.State())
	}
}

func TestControllerFullPartAFlowAllNA(t *testing.T) {
	gw := twoSectionGateway()
	notify := &recordingNotifier{}
	c := NewController(gw, "R1", notify)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	// Section S1: all NA, no note prompts.
	answerAllNA(t, c)
	if err := c.NextSection(context.Background()); err != nil {
		t.Fatalf("NextSection() error = %v", err)
	}

	// Section S2 (last): all NA, submit.
	answerAllNA(t, c)
	if !c.IsLastSection() {
		t.Fatal("should be at last section")
	}
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if c.State() != StateBranchDecision {
		t.Fatalf("State = %v, want branch_decision", c.State())
	}

	// Declining Part B finishes the questionnaire.
	if err := c.FinishNow(); err != nil {
		t.Fatalf("FinishNow() error = %v", err)
	}
	if c.State() != StateDone {
		t.Errorf("State = %v, want done", c.State())
	}

	// Each section was saved exactly once, with only its own answers.
	if len(gw.saves) != 2 {
		t.Fatalf("saves = %d, want 2", len(gw.saves))
	}
	if len(gw.saves[0].answers) != 2 || gw.saves[0].answers[0].QuestionID != 11 {
		t.Errorf("first save = %+v", gw.saves[0].answers)
	}
	if len(gw.saves[1].answers) != 2 || gw.saves[1].answers[0].QuestionID != 21 {
		t.Errorf("second save = %+v", gw.saves[1].answers)
	}
	for _, s := range gw.saves {
		if s.reportID != "R1" {
			t.Errorf("reportID = %q", s.reportID)
		}
	}
}

func TestControllerSubmitRequiresLastSection(t *testing.T) {
	gw := twoSectionGateway()
	c := NewController(gw, "R1", nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	answerAllNA(t, c)

	if err := c.Submit(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Submit() on first of two sections = %v, want ErrInvalidState", err)
	}
}

func TestControllerFillPartB(t *testing.T) {
	gw := twoSectionGateway()
	c := NewController(gw, "R1", nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	answerAllNA(t, c)
	if err := c.NextSection(context.Background()); err != nil {
		t.Fatal(err)
	}
	answerAllNA(t, c)
	if err := c.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	gw.questionCalls = nil
	if err := c.FillPartB(context.Background()); err != nil {
		t.Fatalf("FillPartB() error = %v", err)
	}
	if c.State() != StatePartBEditing {
		t.Fatalf("State = %v, want part_b_editing", c.State())
	}
	if c.SectionIndex() != 0 {
		t.Errorf("cursor = %d, want reset to 0", c.SectionIndex())
	}
	sec, _ := c.CurrentSection()
	if sec.ID != 10 {
		t.Errorf("current section = %d, want Part B section 10", sec.ID)
	}
	// The question load after the switch must target the new section list,
	// never a stale Part A section.
	if len(gw.questionCalls) != 1 || gw.questionCalls[0] != 10 {
		t.Errorf("question loads after switch = %v, want [10]", gw.questionCalls)
	}

	// Completing Part B's single (and last) section ends at Done.
	answerAllNA(t, c)
	if err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if c.State() != StateDone {
		t.Errorf("State = %v, want done", c.State())
	}
	// Part B's save carries only Part B answers.
	last := gw.saves[len(gw.saves)-1]
	if len(last.answers) != 1 || last.answers[0].QuestionID != 101 {
		t.Errorf("Part B save = %+v", last.answers)
	}
}

func TestControllerFillPartBEmptyDegrades(t *testing.T) {
	gw := twoSectionGateway()
	gw.sectionsB = nil
	notify := &recordingNotifier{}
	c := NewController(gw, "R1", notify)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	answerAllNA(t, c)
	if err := c.NextSection(context.Background()); err != nil {
		t.Fatal(err)
	}
	answerAllNA(t, c)
	if err := c.Submit(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := c.FillPartB(context.Background()); err != nil {
		t.Fatalf("FillPartB() with no sections error = %v", err)
	}
	if c.State() != StatePartBEditing {
		t.Errorf("State = %v", c.State())
	}
	if len(c.Questions()) != 0 {
		t.Error("degraded Part B should have no questions")
	}
	if len(notify.warnings) == 0 {
		t.Error("degraded Part B should warn the user")
	}

	// The user can return to Part A from the degraded state.
	if err := c.BackToPartA(context.Background()); err != nil {
		t.Fatalf("BackToPartA() error = %v", err)
	}
	if c.State() != StatePartAEditing || c.SectionIndex() != 0 {
		t.Errorf("State = %v, index = %d", c.State(), c.SectionIndex())
	}
}

func TestControllerQuestionLoadFailureRecoverable(t *testing.T) {
	gw := twoSectionGateway()
	gw.questionsErr = map[int64]error{1: errors.New("timeout")}
	notify := &recordingNotifier{}
	c := NewController(gw, "R1", notify)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v, question failure is recoverable", err)
	}
	if c.State() != StatePartAEditing {
		t.Errorf("State = %v", c.State())
	}
	if len(c.Questions()) != 0 {
		t.Error("questions should be empty after failed load")
	}
	if len(notify.errs) == 0 {
		t.Error("question load failure should be surfaced")
	}

	// Once the backend recovers, an explicit reload succeeds.
	gw.questionsErr = nil
	if err := c.ReloadQuestions(context.Background()); err != nil {
		t.Fatalf("ReloadQuestions() error = %v", err)
	}
	if len(c.Questions()) != 2 {
		t.Errorf("questions = %d, want 2", len(c.Questions()))
	}
}

func TestControllerStateGuards(t *testing.T) {
	gw := twoSectionGateway()
	c := NewController(gw, "R1", nil)

	// Nothing but Load is legal before loading completes.
	if err := c.SetAnswer(11, models.AnswerYes); !errors.Is(err, ErrInvalidState) {
		t.Errorf("SetAnswer before load = %v", err)
	}
	if err := c.FinishNow(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("FinishNow before load = %v", err)
	}
	if err := c.FillPartB(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("FillPartB before load = %v", err)
	}

	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := c.SetAnswer(11, "Maybe"); !errors.Is(err, ErrInvalidAnswer) {
		t.Errorf("SetAnswer with bad value = %v", err)
	}
	if err := c.Load(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Load = %v", err)
	}
}

func TestControllerPrevSection(t *testing.T) {
	gw := twoSectionGateway()
	c := NewController(gw, "R1", nil)
	if err := c.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	answerAllNA(t, c)
	if err := c.NextSection(context.Background()); err != nil {
		t.Fatal(err)
	}
	saves := len(gw.saves)

	if err := c.PrevSection(context.Background()); err != nil {
		t.Fatalf("PrevSection() error = %v", err)
	}
	if c.SectionIndex() != 0 {
		t.Errorf("SectionIndex = %d, want 0", c.SectionIndex())
	}
	if len(gw.saves) != saves {
		t.Error("PrevSection must not save")
	}
	// Answers from the earlier visit are still there.
	if a, ok := c.Answer(11); !ok || a.Value != models.AnswerNA {
		t.Errorf("Answer(11) = %v, %v", a, ok)
	}
}
