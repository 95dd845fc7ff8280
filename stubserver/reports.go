// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stubserver

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldcheck/models"
)

type ReportHandler struct {
	db *DB
}

func NewReportHandler(db *DB) *ReportHandler {
	return &ReportHandler{db: db}
}

// StartInspection handles POST /inspection-reports/start. The factory fields
// are optional; a report may be started before the factory details are known.
func (h *ReportHandler) StartInspection(w http.ResponseWriter, r *http.Request) {
	officer, ok := OfficerFrom(r)
	if !ok {
		ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req struct {
		FactoryName               string `json:"factoryName"`
		FactoryRegistrationNumber string `json:"factoryRegistrationNumber"`
		FactoryAddress            string `json:"factoryAddress"`
	}
	// An empty body is fine: the factory details can be filled in later.
	if err := ParseJSONBody(r, &req); err != nil && err != io.EOF {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	report := models.InspectionReport{
		ID:                        uuid.NewString(),
		Status:                    models.StatusDraft,
		FactoryName:               req.FactoryName,
		FactoryRegistrationNumber: req.FactoryRegistrationNumber,
		FactoryAddress:            req.FactoryAddress,
		CreatedAt:                 time.Now(),
		UpdatedAt:                 time.Now(),
	}

	_, err := h.db.Exec(`
		INSERT INTO inspection_report
			(id, officer_id, status, factory_name, factory_registration_number, factory_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, officer.ID, report.Status, report.FactoryName,
		report.FactoryRegistrationNumber, report.FactoryAddress, report.CreatedAt, report.UpdatedAt)
	if err != nil {
		slog.Error("failed to insert report", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to start inspection")
		return
	}

	slog.Info("inspection started", "report_id", report.ID, "officer_id", officer.ID)

	JSONResponse(w, http.StatusCreated, report)
}

// Submit handles POST /inspection-reports/submit. Coordinates are mandatory;
// submission completes the report and is terminal.
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitReportRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.InspectionReportID == "" {
		ErrorResponse(w, http.StatusBadRequest, "inspectionReportId is required")
		return
	}
	if req.Coordinates.Latitude == 0 && req.Coordinates.Longitude == 0 {
		ErrorResponse(w, http.StatusBadRequest, "coordinates are required")
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
	if status == models.StatusCompleted {
		ErrorResponse(w, http.StatusConflict, "Report already submitted")
		return
	}

	_, err = h.db.Exec(`
		UPDATE inspection_report
		SET status = ?, latitude = ?, longitude = ?, updated_at = ?
		WHERE id = ?
	`, models.StatusCompleted, req.Coordinates.Latitude, req.Coordinates.Longitude,
		time.Now(), req.InspectionReportID)
	if err != nil {
		slog.Error("failed to submit report", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to submit report")
		return
	}

	slog.Info("report submitted",
		"report_id", req.InspectionReportID,
		"latitude", req.Coordinates.Latitude,
		"longitude", req.Coordinates.Longitude,
	)

	JSONResponse(w, http.StatusOK, map[string]string{"status": models.StatusCompleted})
}

// GetReport handles GET /inspection-reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("id")
	report, err := h.fetchReport(reportID)
	if err == sql.ErrNoRows {
		ErrorResponse(w, http.StatusNotFound, "Inspection report not found")
		return
	}
	if err != nil {
		slog.Error("failed to query report", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	JSONResponse(w, http.StatusOK, report)
}

func (h *ReportHandler) fetchReport(reportID string) (models.InspectionReport, error) {
	var report models.InspectionReport
	err := h.db.QueryRow(`
		SELECT id, status, factory_name, factory_registration_number, factory_address, created_at, updated_at
		FROM inspection_report
		WHERE id = ?
	`, reportID).Scan(
		&report.ID, &report.Status, &report.FactoryName,
		&report.FactoryRegistrationNumber, &report.FactoryAddress,
		&report.CreatedAt, &report.UpdatedAt,
	)
	return report, err
}

// GetActive handles GET /inspection-reports/active: the officer's reports
// that can still be worked on, newest first, in a paged envelope.
func (h *ReportHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	officer, ok := OfficerFrom(r)
	if !ok {
		ErrorResponse(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	page, limit := pageParams(r)

	h.listReports(w, page, limit, `
		WHERE officer_id = ? AND status != 'completed'
	`, officer.ID)
}

// GetFiltered handles GET /inspection-reports/filter?status=S
func (h *ReportHandler) GetFiltered(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	switch status {
	case models.StatusYetToStart, models.StatusDraft, models.StatusInProgress, models.StatusCompleted:
	default:
		ErrorResponse(w, http.StatusBadRequest, "unknown status filter")
		return
	}
	page, limit := pageParams(r)

	h.listReports(w, page, limit, "WHERE status = ?", status)
}

func (h *ReportHandler) listReports(w http.ResponseWriter, page, limit int, where string, args ...any) {
	var total int
	countArgs := append([]any{}, args...)
	err := h.db.QueryRow("SELECT COUNT(*) FROM inspection_report "+where, countArgs...).Scan(&total)
	if err != nil {
		slog.Error("failed to count reports", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := h.db.Query(`
		SELECT id, status, factory_name, factory_registration_number, factory_address, created_at, updated_at
		FROM inspection_report
		`+where+`
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		slog.Error("failed to query reports", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	reports := []models.InspectionReport{}
	for rows.Next() {
		var rep models.InspectionReport
		if err := rows.Scan(&rep.ID, &rep.Status, &rep.FactoryName,
			&rep.FactoryRegistrationNumber, &rep.FactoryAddress,
			&rep.CreatedAt, &rep.UpdatedAt); err != nil {
			slog.Error("failed to scan report", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		reports = append(reports, rep)
	}

	JSONResponse(w, http.StatusOK, map[string]any{
		"data":  reports,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetStatusSummary handles GET /inspection-reports/status-summary
func (h *ReportHandler) GetStatusSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT status, COUNT(*)
		FROM inspection_report
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		slog.Error("failed to query status summary", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	counts := []models.StatusCount{}
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			slog.Error("failed to scan status count", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		counts = append(counts, c)
	}

	JSONResponse(w, http.StatusOK, counts)
}

// Download handles GET /download/inspection-report/{id}. The stub renders a
// plain-text document rather than a PDF.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	reportID := r.PathValue("id")
	report, err := h.fetchReport(reportID)
	if err == sql.ErrNoRows {
		ErrorResponse(w, http.StatusNotFound, "Inspection report not found")
		return
	}
	if err != nil {
		slog.Error("failed to query report", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT s.name, q.text, a.value, a.notes
		FROM answer a
		JOIN question q ON q.id = a.question_id
		JOIN section s ON s.id = q.section_id
		WHERE a.inspection_report_id = ?
		ORDER BY s.form_type, s.ordinal, q.id
	`, reportID)
	if err != nil {
		slog.Error("failed to query answers", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "Inspection Report %s\n", report.ID)
	fmt.Fprintf(&b, "Factory: %s (%s)\n", report.FactoryName, report.FactoryRegistrationNumber)
	fmt.Fprintf(&b, "Address: %s\n", report.FactoryAddress)
	fmt.Fprintf(&b, "Status:  %s\n\n", report.Status)

	lastSection := ""
	for rows.Next() {
		var section, text, value, notes string
		if err := rows.Scan(&section, &text, &value, &notes); err != nil {
			slog.Error("failed to scan answer", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if section != lastSection {
			fmt.Fprintf(&b, "== %s ==\n", section)
			lastSection = section
		}
		fmt.Fprintf(&b, "%s: %s", text, value)
		if notes != "" {
			fmt.Fprintf(&b, " (%s)", notes)
		}
		b.WriteByte('\n')
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "inspection-report-"+reportID+".txt"))
	w.Write([]byte(b.String()))
}

func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}
