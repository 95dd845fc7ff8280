// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fieldcheck/location"
	"fieldcheck/models"
)

// Gateway is the backend surface the finalizer writes to.
type Gateway interface {
	SubmitInspectionReport(ctx context.Context, reportID string, coords models.Coordinates) error
}

// A LocationError aborted the submission before any backend call was made.
// Message is the cause-specific instruction to show the officer.
type LocationError struct {
	Message string
	Err     error
}

func (e *LocationError) Error() string { return e.Message }

func (e *LocationError) Unwrap() error { return e.Err }

// ErrSubmitFailed marks a backend rejection of an otherwise complete
// submission. The report stays in review and the officer may retry.
var ErrSubmitFailed = errors.New("report submission failed")

// Finalizer performs the one irreversible step of an inspection: geotagging
// the report and submitting it.
type Finalizer struct {
	gw  Gateway
	loc location.Provider
}

// NewFinalizer builds a finalizer using the given location provider.
func NewFinalizer(gw Gateway, loc location.Provider) *Finalizer {
	return &Finalizer{gw: gw, loc: loc}
}

// Finalize acquires coordinates and submits the report. Location acquisition
// strictly precedes the backend call: if it fails, no request leaves the
// device and the returned *LocationError names the cause. A backend failure
// after successful acquisition wraps ErrSubmitFailed.
func (f *Finalizer) Finalize(ctx context.Context, reportID string) (models.Coordinates, error) {
	coords, err := location.GetWithRetry(ctx, f.loc)
	if err != nil {
		slog.Warn("submission aborted, no location fix", "report_id", reportID, "error", err)
		return models.Coordinates{}, &LocationError{Message: location.Describe(err), Err: err}
	}

	if err := f.gw.SubmitInspectionReport(ctx, reportID, coords); err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	slog.Info("inspection report submitted",
		"report_id", reportID,
		"latitude", coords.Latitude,
		"longitude", coords.Longitude,
	)
	return coords, nil
}
