// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fieldcheck/models"
)

// Acquisition failure causes. Callers branch on these to give the officer a
// cause-specific instruction instead of a generic failure.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrUnavailable      = errors.New("location unavailable")
	ErrTimeout          = errors.New("location request timed out")
)

const (
	// AcquireTimeout bounds a single acquisition attempt.
	AcquireTimeout = 30 * time.Second

	// maxRetries is the number of additional attempts made after the first
	// one times out. Only timeouts are retried; denial and unavailability
	// are stable conditions a retry cannot fix.
	maxRetries = 2
)

// Provider acquires the device's current coordinates. Implementations must
// honor ctx cancellation and return one of the package's sentinel errors
// (possibly wrapped) on failure.
type Provider interface {
	Current(ctx context.Context) (models.Coordinates, error)
}

// Get runs a single acquisition attempt under the hard timeout.
func Get(ctx context.Context, p Provider) (models.Coordinates, error) {
	ctx, cancel := context.WithTimeout(ctx, AcquireTimeout)
	defer cancel()

	coords, err := p.Current(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Coordinates{}, ErrTimeout
		}
		return models.Coordinates{}, err
	}
	return coords, nil
}

// GetWithRetry acquires coordinates, retrying on timeout up to two more
// times. Any other failure is returned immediately.
func GetWithRetry(ctx context.Context, p Provider) (models.Coordinates, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		coords, err := Get(ctx, p)
		if err == nil {
			if attempt > 0 {
				slog.Info("location acquired after retry", "attempt", attempt+1)
			}
			return coords, nil
		}
		lastErr = err
		if !errors.Is(err, ErrTimeout) {
			return models.Coordinates{}, err
		}
		slog.Warn("location request timed out", "attempt", attempt+1)
	}
	return models.Coordinates{}, fmt.Errorf("after %d attempts: %w", maxRetries+1, lastErr)
}

// Describe translates an acquisition failure into the instruction shown to
// the officer.
func Describe(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Location access denied. Please enable location permissions and try again."
	case errors.Is(err, ErrTimeout):
		return "Location request timed out. Please move to an open area and try again."
	case errors.Is(err, ErrUnavailable):
		return "Location information is unavailable. Please check your device's location settings."
	default:
		return "Unable to determine your location. Please try again."
	}
}

// Static is a Provider with fixed coordinates, for officers entering a
// position by hand and for tests.
type Static struct {
	Coords models.Coordinates
}

func (s Static) Current(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, err
	}
	return s.Coords, nil
}
