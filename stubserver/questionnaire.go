// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stubserver

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"fieldcheck/models"
)

type QuestionnaireHandler struct {
	db *DB
}

func NewQuestionnaireHandler(db *DB) *QuestionnaireHandler {
	return &QuestionnaireHandler{db: db}
}

// GetSections handles GET /sections?formType=A|B
func (h *QuestionnaireHandler) GetSections(w http.ResponseWriter, r *http.Request) {
	formType := r.URL.Query().Get("formType")
	if formType != models.FormTypeA && formType != models.FormTypeB {
		ErrorResponse(w, http.StatusBadRequest, "formType must be A or B")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, name, form_type, ordinal
		FROM section
		WHERE form_type = ?
		ORDER BY ordinal
	`, formType)
	if err != nil {
		slog.Error("failed to query sections", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	sections := []models.Section{}
	for rows.Next() {
		var sec models.Section
		if err := rows.Scan(&sec.ID, &sec.Name, &sec.FormType, &sec.Ordinal); err != nil {
			slog.Error("failed to scan section", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		sections = append(sections, sec)
	}

	JSONResponse(w, http.StatusOK, sections)
}

// GetQuestions handles GET /questions?sectionId=N
func (h *QuestionnaireHandler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	sectionID, err := strconv.ParseInt(r.URL.Query().Get("sectionId"), 10, 64)
	if err != nil {
		ErrorResponse(w, http.StatusBadRequest, "sectionId is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, section_id, text
		FROM question
		WHERE section_id = ?
		ORDER BY id
	`, sectionID)
	if err != nil {
		slog.Error("failed to query questions", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.SectionID, &q.Text); err != nil {
			slog.Error("failed to scan question", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		questions = append(questions, q)
	}

	JSONResponse(w, http.StatusOK, questions)
}

// GetAnswers handles GET /answers?inspectionReportId=R
// Each record embeds its question so the client can classify it by part.
func (h *QuestionnaireHandler) GetAnswers(w http.ResponseWriter, r *http.Request) {
	reportID := r.URL.Query().Get("inspectionReportId")
	if reportID == "" {
		ErrorResponse(w, http.StatusBadRequest, "inspectionReportId is required")
		return
	}

	rows, err := h.db.Query(`
		SELECT a.question_id, a.value, a.notes, q.id, q.section_id, q.text
		FROM answer a
		JOIN question q ON q.id = a.question_id
		WHERE a.inspection_report_id = ?
		ORDER BY a.question_id
	`, reportID)
	if err != nil {
		slog.Error("failed to query answers", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	records := []models.AnswerRecord{}
	for rows.Next() {
		var rec models.AnswerRecord
		var q models.Question
		if err := rows.Scan(&rec.QuestionID, &rec.Value, &rec.Notes, &q.ID, &q.SectionID, &q.Text); err != nil {
			slog.Error("failed to scan answer", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		rec.Question = &q
		records = append(records, rec)
	}

	JSONResponse(w, http.StatusOK, records)
}

// SubmitAnswers handles POST /answers/section (upsert of one section's
// answers). A report that receives answers moves to in_progress unless it is
// already completed.
func (h *QuestionnaireHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitAnswersRequest
	if err := ParseJSONBody(r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.InspectionReportID == "" {
		ErrorResponse(w, http.StatusBadRequest, "inspectionReportId is required")
		return
	}
	if len(req.Answers) == 0 {
		ErrorResponse(w, http.StatusBadRequest, "answers must not be empty")
		return
	}
	for _, a := range req.Answers {
		if a.Value != models.AnswerYes && a.Value != models.AnswerNo && a.Value != models.AnswerNA {
			ErrorResponse(w, http.StatusBadRequest, "answer value must be Yes, No, or NA")
			return
		}
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
		ErrorResponse(w, http.StatusConflict, "Cannot modify a completed report")
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
	for _, a := range req.Answers {
		_, err := tx.Exec(h.db.rebind(`
			INSERT INTO answer (inspection_report_id, question_id, value, notes, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (inspection_report_id, question_id)
			DO UPDATE SET value = excluded.value, notes = excluded.notes, updated_at = excluded.updated_at
		`), req.InspectionReportID, a.QuestionID, a.Value, a.Notes, now)
		if err != nil {
			slog.Error("failed to upsert answer", "question_id", a.QuestionID, "error", err)
			ErrorResponse(w, http.StatusInternalServerError, "Failed to save answers")
			return
		}
	}

	_, err = tx.Exec(h.db.rebind(`
		UPDATE inspection_report
		SET status = ?, updated_at = ?
		WHERE id = ?
	`), models.StatusInProgress, now, req.InspectionReportID)
	if err != nil {
		slog.Error("failed to update report status", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to save answers")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Failed to save answers")
		return
	}

	slog.Info("section answers saved",
		"report_id", req.InspectionReportID,
		"count", len(req.Answers),
	)

	JSONResponse(w, http.StatusOK, map[string]int{"saved": len(req.Answers)})
}
