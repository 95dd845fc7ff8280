// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import "fieldcheck/models"

// SectionIDSet builds the id set of a section list for classification.
func SectionIDSet(sections []models.Section) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(sections))
	for _, s := range sections {
		ids[s.ID] = struct{}{}
	}
	return ids
}

// Classify splits persisted answer records into Part A and Part B answer
// maps by looking up each record's embedded question section against the two
// id sets. Every answer lands in exactly one part.
//
// Records whose section is in neither set, and records with no embedded
// question at all, default to Part A. Section lists can be incomplete at
// load time, so this default is deliberate and must be kept.
func Classify(records []models.AnswerRecord, partA, partB map[int64]struct{}) (a, b map[int64]models.Answer) {
	a = make(map[int64]models.Answer)
	b = make(map[int64]models.Answer)

	for _, rec := range records {
		ans := models.Answer{Value: rec.Value, Notes: rec.Notes}

		if rec.Question != nil {
			if _, ok := partA[rec.Question.SectionID]; ok {
				a[rec.QuestionID] = ans
				continue
			}
			if _, ok := partB[rec.Question.SectionID]; ok {
				b[rec.QuestionID] = ans
				continue
			}
		}
		a[rec.QuestionID] = ans
	}
	return a, b
}
