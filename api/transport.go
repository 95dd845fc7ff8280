// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"fieldcheck/session"
)

// authTransport decorates every outgoing request with the bearer credential
// and a request id, and watches every response for authentication failure.
// Because it sits below all client methods, the 401/403 handling is uniform
// no matter which component issued the call.
type authTransport struct {
	sess      *session.Session
	next      http.RoundTripper
	onExpired func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if tok := t.sess.Token(); tok != "" {
		clone.Header.Set("Authorization", "Bearer "+tok)
	}
	clone.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := t.next.RoundTrip(clone)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		slog.Warn("authentication rejected",
			"status", resp.StatusCode,
			"path", req.URL.Path,
		)
		if err := t.sess.Invalidate(); err != nil {
			slog.Error("failed to clear session", "error", err)
		}
		if t.onExpired != nil {
			t.onExpired()
		}
	}

	return resp, nil
}
