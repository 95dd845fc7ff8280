// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stubserver

import (
	"net/http"
)

func NewRouter(db *DB) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := NewAuthHandler(db)
	questionnaireHandler := NewQuestionnaireHandler(db)
	reportHandler := NewReportHandler(db)
	applicationHandler := NewApplicationHandler(db)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Authentication (public)
	mux.HandleFunc("POST /auth/login", WithLogging(authHandler.Login))

	// Questionnaire structure and answers
	mux.HandleFunc("GET /sections", WithLogging(WithAuth(db, questionnaireHandler.GetSections)))
	mux.HandleFunc("GET /questions", WithLogging(WithAuth(db, questionnaireHandler.GetQuestions)))
	mux.HandleFunc("GET /answers", WithLogging(WithAuth(db, questionnaireHandler.GetAnswers)))
	mux.HandleFunc("POST /answers/section", WithLogging(WithAuth(db, questionnaireHandler.SubmitAnswers)))

	// Inspection reports
	mux.HandleFunc("POST /inspection-reports/start", WithLogging(WithAuth(db, reportHandler.StartInspection)))
	mux.HandleFunc("POST /inspection-reports/submit", WithLogging(WithAuth(db, reportHandler.Submit)))
	mux.HandleFunc("GET /inspection-reports/active", WithLogging(WithAuth(db, reportHandler.GetActive)))
	mux.HandleFunc("GET /inspection-reports/filter", WithLogging(WithAuth(db, reportHandler.GetFiltered)))
	mux.HandleFunc("GET /inspection-reports/status-summary", WithLogging(WithAuth(db, reportHandler.GetStatusSummary)))
	mux.HandleFunc("GET /inspection-reports/{id}", WithLogging(WithAuth(db, reportHandler.GetReport)))
	mux.HandleFunc("GET /download/inspection-report/{id}", WithLogging(WithAuth(db, reportHandler.Download)))

	// Applications
	mux.HandleFunc("GET /applications", WithLogging(WithAuth(db, applicationHandler.List)))
	mux.HandleFunc("POST /applications", WithLogging(WithAuth(db, applicationHandler.Create)))
	mux.HandleFunc("GET /applications/status-summary", WithLogging(WithAuth(db, applicationHandler.GetStatusSummary)))
	mux.HandleFunc("PUT /applications/{id}/status", WithLogging(WithAuth(db, applicationHandler.UpdateStatus)))
	mux.HandleFunc("GET /applications/{id}/status-history", WithLogging(WithAuth(db, applicationHandler.GetStatusHistory)))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fieldcheck stub API v1"))
	})

	return mux
}
