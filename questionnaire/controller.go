// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"fieldcheck/models"
)

// State is the controller's explicit position in the questionnaire flow.
// Part-switching and cursor reset are atomic with respect to question
// loading: the state and section list change first, then questions load.
type State int

const (
	StateLoading State = iota
	StatePartAEditing
	StateBranchDecision
	StatePartBEditing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StatePartAEditing:
		return "part_a_editing"
	case StateBranchDecision:
		return "branch_decision"
	case StatePartBEditing:
		return "part_b_editing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	ErrInvalidState  = errors.New("operation not valid in current state")
	ErrInvalidAnswer = errors.New(`answer must be "Yes", "No", or "NA"`)
)

// LoadError wraps a failed fetch of sections, questions, or answers. It is
// recoverable: the caller reports it and the flow stays where it was.
type LoadError struct {
	What string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.What, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Gateway is the backend surface the controller depends on.
type Gateway interface {
	GetSections(ctx context.Context, formType string) ([]models.Section, error)
	GetQuestions(ctx context.Context, sectionID int64) ([]models.Question, error)
	GetAnswers(ctx context.Context, reportID string) ([]models.AnswerRecord, error)
	SaveSection(ctx context.Context, reportID string, answers []models.SectionAnswer) error
}

// Notifier surfaces user-facing messages as the flow progresses.
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Warning(string) {}
func (nopNotifier) Error(string)   {}

// Controller drives one questionnaire session: load and reconcile a draft,
// edit Part A section by section, branch into the optional Part B, and reach
// Done only once the last visible section has validated and saved.
type Controller struct {
	gw       Gateway
	reportID string
	notify   Notifier

	state State

	partASections []models.Section
	partBSections []models.Section

	nav    *Navigator
	storeA *AnswerStore
	storeB *AnswerStore

	questions  []models.Question
	validation Result
}

// NewController builds a controller for the given report. notify may be nil.
func NewController(gw Gateway, reportID string, notify Notifier) *Controller {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &Controller{
		gw:       gw,
		reportID: reportID,
		notify:   notify,
		state:    StateLoading,
		nav:      NewNavigator(nil),
		storeA:   NewAnswerStore(),
		storeB:   NewAnswerStore(),
	}
}

// Load fetches Part A sections, Part B sections (best effort), and any
// persisted answers, reconciles the answers into the two stores, and enters
// Part A editing. On failure the controller stays in the loading state so
// Load can be retried.
func (c *Controller) Load(ctx context.Context) error {
	if c.state != StateLoading {
		return ErrInvalidState
	}

	partA, err := c.gw.GetSections(ctx, models.FormTypeA)
	if err != nil {
		c.notify.Error("Failed to load inspection sections. Please try again.")
		return &LoadError{What: "sections", Err: err}
	}
	c.partASections = partA

	// Part B sections are only needed for classification here; a failure
	// does not block the inspection, it just empties Part B's id set.
	partB, err := c.gw.GetSections(ctx, models.FormTypeB)
	if err != nil {
		slog.Warn("could not load Part B sections", "report_id", c.reportID, "error", err)
		partB = nil
	}
	c.partBSections = partB

	records, err := c.gw.GetAnswers(ctx, c.reportID)
	if err != nil {
		slog.Warn("could not load existing answers", "report_id", c.reportID, "error", err)
	} else if len(records) > 0 {
		a, b := Classify(records, SectionIDSet(partA), SectionIDSet(partB))
		c.storeA.Replace(a)
		c.storeB.Replace(b)
		slog.Info("resumed draft answers",
			"report_id", c.reportID,
			"part_a", len(a),
			"part_b", len(b),
		)
	}

	c.state = StatePartAEditing
	c.nav.Reset(partA)
	c.loadQuestions(ctx)
	return nil
}

// loadQuestions fetches the questions of the section under the cursor.
// Failure is recoverable: the questions list is left empty and the user is
// told, but the editing state is unchanged.
func (c *Controller) loadQuestions(ctx context.Context) {
	c.questions = nil

	sec, ok := c.nav.Current()
	if !ok {
		return
	}
	qs, err := c.gw.GetQuestions(ctx, sec.ID)
	if err != nil {
		slog.Error("failed to load questions", "section_id", sec.ID, "error", err)
		c.notify.Error("Failed to load questions for this section. Please try again.")
		return
	}
	c.questions = qs
}

// ReloadQuestions retries the question fetch for the current section.
func (c *Controller) ReloadQuestions(ctx context.Context) error {
	if !c.editing() {
		return ErrInvalidState
	}
	c.loadQuestions(ctx)
	if c.questions == nil {
		sec, _ := c.nav.Current()
		return &LoadError{What: "questions", Err: fmt.Errorf("section %d", sec.ID)}
	}
	return nil
}

func (c *Controller) editing() bool {
	return c.state == StatePartAEditing || c.state == StatePartBEditing
}

func (c *Controller) activeStore() *AnswerStore {
	if c.state == StatePartBEditing {
		return c.storeB
	}
	return c.storeA
}

// SetAnswer records a value selection and clears this question's validation
// marks that the selection resolves.
func (c *Controller) SetAnswer(questionID int64, value string) error {
	if !c.editing() {
		return ErrInvalidState
	}
	if value != models.AnswerYes && value != models.AnswerNo && value != models.AnswerNA {
		return ErrInvalidAnswer
	}

	c.activeStore().SetValue(questionID, value)

	c.validation.MissingAnswers = removeID(c.validation.MissingAnswers, questionID)
	if value == models.AnswerNA {
		c.validation.MissingNotes = removeID(c.validation.MissingNotes, questionID)
	}
	return nil
}

// SetNotes records notes text and clears the note mark once non-blank.
func (c *Controller) SetNotes(questionID int64, notes string) error {
	if !c.editing() {
		return ErrInvalidState
	}

	c.activeStore().SetNotes(questionID, notes)

	if strings.TrimSpace(notes) != "" {
		c.validation.MissingNotes = removeID(c.validation.MissingNotes, questionID)
	}
	return nil
}

// NextSection validates the current section, saves it with retry, and on
// success advances the cursor and loads the next section's questions. Any
// failure keeps the user on the current section.
func (c *Controller) NextSection(ctx context.Context) error {
	if !c.editing() {
		return ErrInvalidState
	}
	if err := c.validateAndSave(ctx); err != nil {
		return err
	}

	sec, _ := c.nav.Current()
	c.notify.Success(fmt.Sprintf("Section %q saved successfully!", sec.Name))

	if c.nav.Advance() {
		c.validation = Result{}
		c.loadQuestions(ctx)
	}
	return nil
}

// PrevSection moves back without saving; earlier sections were already
// persisted when they were left.
func (c *Controller) PrevSection(ctx context.Context) error {
	if !c.editing() {
		return ErrInvalidState
	}
	if c.nav.Retreat() {
		c.validation = Result{}
		c.loadQuestions(ctx)
	}
	return nil
}

// Submit runs the validate → save pipeline on the final section. For Part A
// it then presents the branch decision; for Part B it completes the
// questionnaire. Valid answers are always durably saved before the state
// leaves editing.
func (c *Controller) Submit(ctx context.Context) error {
	if !c.editing() {
		return ErrInvalidState
	}
	if !c.nav.IsLast() {
		return fmt.Errorf("submit is only available on the last section: %w", ErrInvalidState)
	}
	if err := c.validateAndSave(ctx); err != nil {
		return err
	}

	c.notify.Success("All sections saved successfully!")
	if c.state == StatePartAEditing {
		c.state = StateBranchDecision
	} else {
		c.state = StateDone
	}
	return nil
}

// validateAndSave is the shared transition pipeline: section validation,
// then the bounded-retry save of exactly this section's answers.
func (c *Controller) validateAndSave(ctx context.Context) error {
	res := Check(c.questions, c.activeStore())
	if !res.Complete() {
		c.validation = res
		return &ValidationError{Result: res}
	}
	c.validation = Result{}

	sec, ok := c.nav.Current()
	if !ok {
		// Degraded part with no sections: nothing to validate or save.
		return nil
	}

	answers := c.activeStore().ForSection(c.questions, sec.ID)
	if err := c.gw.SaveSection(ctx, c.reportID, answers); err != nil {
		c.notify.Error("Failed to save section after multiple attempts. Please check your connection and try again.")
		return err
	}
	return nil
}

// FinishNow resolves the branch decision by skipping Part B.
func (c *Controller) FinishNow() error {
	if c.state != StateBranchDecision {
		return ErrInvalidState
	}
	c.state = StateDone
	return nil
}

// FillPartB resolves the branch decision by entering Part B. The section
// list swap and cursor reset happen strictly before the first Part B
// question load, so a stale Part A list can never be observed.
func (c *Controller) FillPartB(ctx context.Context) error {
	if c.state != StateBranchDecision {
		return ErrInvalidState
	}

	sections, err := c.gw.GetSections(ctx, models.FormTypeB)
	if err != nil {
		c.notify.Error("Failed to load Part B sections. Please try again.")
		return &LoadError{What: "Part B sections", Err: err}
	}

	if len(sections) == 0 {
		c.notify.Warning("No Part B sections available for this inspection.")
		c.partBSections = nil
		c.nav.Reset(nil)
		c.questions = nil
		c.validation = Result{}
		c.state = StatePartBEditing
		return nil
	}

	c.partBSections = sections
	c.validation = Result{}
	c.nav.Reset(sections)
	c.state = StatePartBEditing
	c.loadQuestions(ctx)
	c.notify.Success(fmt.Sprintf("Loaded %d Part B sections for detailed inspection", len(sections)))
	return nil
}

// BackToPartA leaves Part B (typically the degraded no-sections state) and
// returns to the start of Part A.
func (c *Controller) BackToPartA(ctx context.Context) error {
	if c.state != StatePartBEditing {
		return ErrInvalidState
	}
	c.state = StatePartAEditing
	c.validation = Result{}
	c.nav.Reset(c.partASections)
	c.loadQuestions(ctx)
	return nil
}

// Accessors

func (c *Controller) State() State { return c.state }

func (c *Controller) ReportID() string { return c.reportID }

// ActivePart returns "A" or "B" for the part currently being edited.
func (c *Controller) ActivePart() string {
	if c.state == StatePartBEditing {
		return models.FormTypeB
	}
	return models.FormTypeA
}

func (c *Controller) CurrentSection() (models.Section, bool) {
	return c.nav.Current()
}

func (c *Controller) Questions() []models.Question {
	out := make([]models.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// Answer returns the stored answer for a question in the active part.
func (c *Controller) Answer(questionID int64) (models.Answer, bool) {
	return c.activeStore().Get(questionID)
}

func (c *Controller) SectionIndex() int { return c.nav.Index() }

func (c *Controller) SectionCount() int { return c.nav.Len() }

func (c *Controller) IsLastSection() bool { return c.nav.IsLast() }

func (c *Controller) IsFirstSection() bool { return c.nav.IsFirst() }

func (c *Controller) Progress() float64 { return c.nav.Progress() }

// ValidationErrors returns the marks from the most recent failed transition.
func (c *Controller) ValidationErrors() Result { return c.validation }

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
