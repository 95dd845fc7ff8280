// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package review

import (
	"context"
	"fmt"
	"log/slog"

	"fieldcheck/models"
	"fieldcheck/questionnaire"
)

// Gateway is the backend surface the assembler reads from.
type Gateway interface {
	GetSections(ctx context.Context, formType string) ([]models.Section, error)
	GetQuestions(ctx context.Context, sectionID int64) ([]models.Question, error)
	GetAnswers(ctx context.Context, reportID string) ([]models.AnswerRecord, error)
}

// Item pairs a question with the answer recorded for it.
type Item struct {
	Question models.Question
	Answer   models.Answer
}

// SectionView is one section of the summary, holding only answered questions.
type SectionView struct {
	Section models.Section
	Items   []Item
}

// Review is the assembled pre-submission summary. IsPartB reports whether any
// persisted answer was classified into Part B; callers use it to decide which
// halves of the summary to render.
type Review struct {
	ReportID string
	IsPartB  bool
	PartA    []SectionView
	PartB    []SectionView
}

// Empty reports whether no answered question appears in either part.
func (r *Review) Empty() bool {
	return len(r.PartA) == 0 && len(r.PartB) == 0
}

// Assemble fetches the persisted answers and the full section and question
// structure, and builds the summary from the backend's truth rather than any
// in-memory editing state. Persisted answers and Part A structure are
// required; a Part B structure failure only drops the Part B half.
func Assemble(ctx context.Context, gw Gateway, reportID string) (*Review, error) {
	records, err := gw.GetAnswers(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("loading answers for review: %w", err)
	}

	partA, err := gw.GetSections(ctx, models.FormTypeA)
	if err != nil {
		return nil, fmt.Errorf("loading sections for review: %w", err)
	}

	partB, err := gw.GetSections(ctx, models.FormTypeB)
	if err != nil {
		slog.Warn("review proceeding without Part B structure", "report_id", reportID, "error", err)
		partB = nil
	}

	answersA, answersB := questionnaire.Classify(
		records,
		questionnaire.SectionIDSet(partA),
		questionnaire.SectionIDSet(partB),
	)

	rev := &Review{
		ReportID: reportID,
		IsPartB:  len(answersB) > 0,
	}

	rev.PartA, err = assemblePart(ctx, gw, partA, answersA)
	if err != nil {
		return nil, err
	}
	if rev.IsPartB {
		rev.PartB, err = assemblePart(ctx, gw, partB, answersB)
		if err != nil {
			return nil, err
		}
	}
	return rev, nil
}

// assemblePart walks the sections in order and keeps each section's answered
// questions, in question order. Sections with no answered questions are
// omitted. A question fetch failure is fatal: a summary with silently missing
// sections would misrepresent what is about to be submitted.
func assemblePart(ctx context.Context, gw Gateway, sections []models.Section, answers map[int64]models.Answer) ([]SectionView, error) {
	var views []SectionView
	for _, sec := range sections {
		qs, err := gw.GetQuestions(ctx, sec.ID)
		if err != nil {
			return nil, fmt.Errorf("loading questions for section %q: %w", sec.Name, err)
		}
		var items []Item
		for _, q := range qs {
			if a, ok := answers[q.ID]; ok && a.Value != "" {
				items = append(items, Item{Question: q, Answer: a})
			}
		}
		if len(items) > 0 {
			views = append(views, SectionView{Section: sec, Items: items})
		}
	}
	return views, nil
}
