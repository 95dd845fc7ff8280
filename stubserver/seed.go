// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stubserver

import (
	"fmt"
	"log/slog"
)

// DemoEmail and DemoPassword are the credentials of the seeded officer.
const (
	DemoEmail    = "officer@fieldcheck.local"
	DemoPassword = "inspect123"
)

type seedSection struct {
	id        int64
	name      string
	formType  string
	ordinal   int
	questions []string
}

var seedSections = []seedSection{
	{1, "General Information", "A", 0, []string{
		"Is the factory license displayed at the premises?",
		"Does the number of workers match the registered count?",
	}},
	{2, "Premises & Hygiene", "A", 1, []string{
		"Are the floors and walls clean and in good repair?",
		"Is adequate drinking water available to workers?",
		"Are washrooms maintained in sanitary condition?",
	}},
	{3, "Safety Equipment", "A", 2, []string{
		"Are fire extinguishers present and within their service date?",
		"Are emergency exits unobstructed and clearly marked?",
	}},
	{10, "Detailed Machinery Assessment", "B", 0, []string{
		"Are all machine guards fitted and functional?",
		"Is the pressure vessel certification current?",
	}},
	{11, "Records & Documentation", "B", 1, []string{
		"Is the accident register maintained and up to date?",
		"Are worker wage records available for inspection?",
	}},
}

// Seed inserts the demo officer and the questionnaire structure. Safe to
// call multiple times.
func Seed(db *DB) error {
	_, err := db.Exec(`
		INSERT INTO officer (id, email, password, name, role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO NOTHING
	`, "officer-1", DemoEmail, DemoPassword, "Demo Officer", "field_officer")
	if err != nil {
		return fmt.Errorf("seeding officer: %w", err)
	}

	nextQuestionID := int64(1)
	for _, sec := range seedSections {
		_, err := db.Exec(`
			INSERT INTO section (id, name, form_type, ordinal)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO NOTHING
		`, sec.id, sec.name, sec.formType, sec.ordinal)
		if err != nil {
			return fmt.Errorf("seeding section %q: %w", sec.name, err)
		}
		for _, text := range sec.questions {
			_, err := db.Exec(`
				INSERT INTO question (id, section_id, text)
				VALUES (?, ?, ?)
				ON CONFLICT (id) DO NOTHING
			`, nextQuestionID, sec.id, text)
			if err != nil {
				return fmt.Errorf("seeding question: %w", err)
			}
			nextQuestionID++
		}
	}

	slog.Info("stub database seeded", "sections", len(seedSections), "officer", DemoEmail)
	return nil
}
