// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stubserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fieldcheck/models"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		next(w, r)

		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   message,
		Message: http.StatusText(statusCode),
	})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

type contextKey string

const officerKey contextKey = "officer"

// WithAuth resolves the bearer token to an officer and rejects the request
// with 401 when the token is missing, unknown, or revoked.
func WithAuth(db *DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
			return
		}

		var officer models.User
		err := db.QueryRow(`
			SELECT o.id, o.name, o.email, o.role
			FROM auth_token t
			JOIN officer o ON o.id = t.officer_id
			WHERE t.token = ?
		`, token).Scan(&officer.ID, &officer.Name, &officer.Email, &officer.Role)
		if err == sql.ErrNoRows {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if err != nil {
			slog.Error("failed to resolve token", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), officerKey, officer)))
	}
}

// OfficerFrom returns the authenticated officer stored by WithAuth.
func OfficerFrom(r *http.Request) (models.User, bool) {
	officer, ok := r.Context().Value(officerKey).(models.User)
	return officer, ok
}
