// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fieldcheck/models"
)

// Beacon reads coordinates from a local positioning endpoint, such as a GPS
// daemon or a paired device exposing a small HTTP API. The endpoint answers
// GET with {"latitude": ..., "longitude": ...}; HTTP status codes map onto
// the package's failure causes.
type Beacon struct {
	URL string
	hc  *http.Client
}

// NewBeacon builds a provider for the given endpoint URL.
func NewBeacon(url string) *Beacon {
	return &Beacon{
		URL: url,
		// Per-attempt deadlines come from the caller's context; this is
		// only a backstop against a wedged connection.
		hc: &http.Client{Timeout: AcquireTimeout + 5*time.Second},
	}
}

func (b *Beacon) Current(ctx context.Context) (models.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("building beacon request: %w", err)
	}

	resp, err := b.hc.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return models.Coordinates{}, context.DeadlineExceeded
		}
		return models.Coordinates{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return models.Coordinates{}, ErrPermissionDenied
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusNotFound:
		return models.Coordinates{}, ErrUnavailable
	case resp.StatusCode != http.StatusOK:
		return models.Coordinates{}, fmt.Errorf("%w: beacon returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var coords models.Coordinates
	if err := json.NewDecoder(resp.Body).Decode(&coords); err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: decoding beacon response: %v", ErrUnavailable, err)
	}
	return coords, nil
}
