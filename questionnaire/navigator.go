// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import "fieldcheck/models"

// Navigator sequences the sections of the active part. The cursor is
// zero-based and never wraps. Validation gating happens in the controller:
// Advance is only called after the current section validated and saved.
type Navigator struct {
	sections []models.Section
	cursor   int
}

func NewNavigator(sections []models.Section) *Navigator {
	return &Navigator{sections: sections}
}

// Reset swaps the active section sequence and returns the cursor to the
// first section. Used when switching parts; callers must Reset before
// loading questions for the new part.
func (n *Navigator) Reset(sections []models.Section) {
	n.sections = sections
	n.cursor = 0
}

// Current returns the section under the cursor.
func (n *Navigator) Current() (models.Section, bool) {
	if len(n.sections) == 0 {
		return models.Section{}, false
	}
	return n.sections[n.cursor], true
}

// Advance moves to the next section. Returns false at the last section.
func (n *Navigator) Advance() bool {
	if n.IsLast() || len(n.sections) == 0 {
		return false
	}
	n.cursor++
	return true
}

// Retreat moves to the previous section. Returns false at the first.
func (n *Navigator) Retreat() bool {
	if n.cursor == 0 {
		return false
	}
	n.cursor--
	return true
}

func (n *Navigator) IsFirst() bool {
	return n.cursor == 0
}

func (n *Navigator) IsLast() bool {
	return len(n.sections) == 0 || n.cursor == len(n.sections)-1
}

func (n *Navigator) Empty() bool {
	return len(n.sections) == 0
}

func (n *Navigator) Index() int {
	return n.cursor
}

func (n *Navigator) Len() int {
	return len(n.sections)
}

// Progress is the fraction of sections already passed, cursor / length.
func (n *Navigator) Progress() float64 {
	if len(n.sections) == 0 {
		return 0
	}
	return float64(n.cursor) / float64(len(n.sections))
}
