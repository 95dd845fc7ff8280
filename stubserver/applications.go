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

type ApplicationHandler struct {
	db *DB
}

func NewApplicationHandler(db *DB) *ApplicationHandler {
	return &ApplicationHandler{db: db}
}

// Create handles POST /applications. An application is derived from exactly
// one completed inspection report and starts in the first phase of the
// regulatory pipeline.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitApplicationRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.InspectionReportID == "" {
		ErrorResponse(w, http.StatusBadRequest, "inspectionReportId is required")
		return
	}
	if req.ExternalID == "" {
		ErrorResponse(w, http.StatusBadRequest, "externalId is required")
		return
	}

	var status string
	err := h.db.QueryRow("SELECT status FROM inspection_report WHERE id = ?", req.InspectionReportID).Scan(&status)
	if err == sql.ErrNoRows {
		ErrorResponse(w, http.StatusNotFound, "Inspection report not found")
		return
	}
	if err != nil {
		slog.Error("failed to query report", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if status != models.StatusCompleted {
		ErrorResponse(w, http.StatusConflict, "Inspection report is not completed")
		return
	}

	var existing string
	err = h.db.QueryRow("SELECT id FROM application WHERE inspection_report_id = ?", req.InspectionReportID).Scan(&existing)
	if err == nil {
		ErrorResponse(w, http.StatusConflict, "Application already exists for this inspection report")
		return
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to query application", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	app := models.Application{
		ID:                 uuid.NewString(),
		ExternalID:         req.ExternalID,
		InspectionReportID: req.InspectionReportID,
		CurrentStatus:      models.PhaseShowCauseNotice,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(h.db.rebind(`
		INSERT INTO application (id, external_id, inspection_report_id, current_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), app.ID, app.ExternalID, app.InspectionReportID, app.CurrentStatus, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		slog.Error("failed to insert application", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to create application")
		return
	}

	_, err = tx.Exec(h.db.rebind(`
		INSERT INTO application_status_history (id, application_id, status, comment, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), uuid.NewString(), app.ID, app.CurrentStatus, "Application created", app.CreatedAt)
	if err != nil {
		slog.Error("failed to insert history", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to create application")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to create application")
		return
	}

	slog.Info("application created", "application_id", app.ID, "report_id", app.InspectionReportID)

	JSONResponse(w, http.StatusCreated, app)
}

// List handles GET /applications?page=&limit=&status=
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)

	where := ""
	args := []any{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidPhase(status) {
			ErrorResponse(w, http.StatusBadRequest, "unknown application status")
			return
		}
		where = "WHERE current_status = ?"
		args = append(args, status)
	}

	var total int
	countArgs := append([]any{}, args...)
	err := h.db.QueryRow("SELECT COUNT(*) FROM application "+where, countArgs...).Scan(&total)
	if err != nil {
		slog.Error("failed to count applications", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := h.db.Query(`
		SELECT id, external_id, inspection_report_id, current_status, created_at, updated_at
		FROM application
		`+where+`
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		slog.Error("failed to query applications", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		var app models.Application
		if err := rows.Scan(&app.ID, &app.ExternalID, &app.InspectionReportID,
			&app.CurrentStatus, &app.CreatedAt, &app.UpdatedAt); err != nil {
			slog.Error("failed to scan application", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		apps = append(apps, app)
	}

	JSONResponse(w, http.StatusOK, map[string]any{
		"data":  apps,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateStatus handles PUT /applications/{id}/status
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("id")

	var req models.UpdateStatusRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !models.ValidPhase(req.Status) {
		ErrorResponse(w, http.StatusBadRequest, "unknown application status")
		return
	}

	var current string
	err := h.db.QueryRow("SELECT current_status FROM application WHERE id = ?", appID).Scan(&current)
	if err == sql.ErrNoRows {
		ErrorResponse(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		slog.Error("failed to query application", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if current == req.Status {
		ErrorResponse(w, http.StatusConflict, "Application is already in that status")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	now := time.Now()
	_, err = tx.Exec(h.db.rebind(`
		UPDATE application SET current_status = ?, updated_at = ? WHERE id = ?
	`), req.Status, now, appID)
	if err != nil {
		slog.Error("failed to update application", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	_, err = tx.Exec(h.db.rebind(`
		INSERT INTO application_status_history (id, application_id, status, comment, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), uuid.NewString(), appID, req.Status, req.Comment, now)
	if err != nil {
		slog.Error("failed to insert history", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	slog.Info("application status updated", "application_id", appID, "status", req.Status)

	JSONResponse(w, http.StatusOK, map[string]string{"currentStatus": req.Status})
}

// GetStatusHistory handles GET /applications/{id}/status-history
func (h *ApplicationHandler) GetStatusHistory(w http.ResponseWriter, r *http.Request) {
	appID := r.PathValue("id")

	var exists string
	err := h.db.QueryRow("SELECT id FROM application WHERE id = ?", appID).Scan(&exists)
	if err == sql.ErrNoRows {
		ErrorResponse(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		slog.Error("failed to query application", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, application_id, status, comment, created_at
		FROM application_status_history
		WHERE application_id = ?
		ORDER BY created_at
	`, appID)
	if err != nil {
		slog.Error("failed to query history", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	entries := []models.StatusHistoryEntry{}
	for rows.Next() {
		var e models.StatusHistoryEntry
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.Status, &e.Comment, &e.CreatedAt); err != nil {
			slog.Error("failed to scan history entry", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		entries = append(entries, e)
	}

	JSONResponse(w, http.StatusOK, entries)
}

// GetStatusSummary handles GET /applications/status-summary
func (h *ApplicationHandler) GetStatusSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT current_status, COUNT(*)
		FROM application
		GROUP BY current_status
	`)
	if err != nil {
		slog.Error("failed to query status summary", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	byStatus := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			slog.Error("failed to scan status count", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		byStatus[status] = count
	}

	// Every phase appears in the summary, zero or not, in pipeline order.
	counts := []models.StatusCount{}
	for _, phase := range models.Phases() {
		counts = append(counts, models.StatusCount{Status: phase, Count: byStatus[phase]})
	}

	JSONResponse(w, http.StatusOK, counts)
}
