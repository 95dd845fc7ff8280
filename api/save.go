// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fieldcheck/models"
)

// Save retry policy. Each attempt is a full re-invocation of the section
// upsert; the delay grows by the multiplier after every failed attempt.
const (
	saveAttempts   = 3
	saveBaseDelay  = 1000 * time.Millisecond
	saveMultiplier = 1.5
)

// SaveSection persists the answers of a single section with bounded retry.
// On success the section's answers are durably upserted. On failure it
// returns a *PersistenceFailure wrapping the last attempt's error; the
// caller must not advance navigation.
//
// An empty answer slice is a no-op: answers are never partially saved
// across sections, and a section with nothing entered sends nothing.
func (c *Client) SaveSection(ctx context.Context, reportID string, answers []models.SectionAnswer) error {
	if len(answers) == 0 {
		slog.Warn("no answers to save for section", "report_id", reportID)
		return nil
	}

	var lastErr error
	delay := saveBaseDelay

	for attempt := 1; attempt <= saveAttempts; attempt++ {
		err := c.SubmitAnswers(ctx, reportID, answers)
		if err == nil {
			if attempt > 1 {
				slog.Info("section save succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		lastErr = err

		// An expired session cannot recover by retrying.
		if errors.Is(err, ErrAuthExpired) {
			return err
		}

		slog.Warn("section save failed",
			"report_id", reportID,
			"attempt", attempt,
			"error", err,
		)

		if attempt == saveAttempts {
			break
		}
		if attempt == 1 && c.OnRetryWarning != nil {
			c.OnRetryWarning(attempt+1, err)
		}
		if err := c.sleep(ctx, delay); err != nil {
			return &PersistenceFailure{Attempts: attempt, Err: err}
		}
		delay = time.Duration(float64(delay) * saveMultiplier)
	}

	return &PersistenceFailure{Attempts: saveAttempts, Err: lastErr}
}
