// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stubserver

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fieldcheck/models"
)

type AuthHandler struct {
	db *DB
}

func NewAuthHandler(db *DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var officer models.User
	var password string
	err := h.db.QueryRow(`
		SELECT id, name, email, role, password
		FROM officer
		WHERE email = ?
	`, req.Email).Scan(&officer.ID, &officer.Name, &officer.Email, &officer.Role, &password)
	if err == sql.ErrNoRows || (err == nil && password != req.Password) {
		ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("failed to query officer", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	token := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO auth_token (token, officer_id, created_at)
		VALUES (?, ?, ?)
	`, token, officer.ID, time.Now())
	if err != nil {
		slog.Error("failed to insert token", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("officer logged in", "officer_id", officer.ID, "email", officer.Email)

	JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token: token,
		User:  officer,
	})
}
