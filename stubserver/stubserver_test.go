// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stubserver_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fieldcheck/models"
	"fieldcheck/stubserver"
	"fieldcheck/testutil"
)

func serve(t *testing.T, db *stubserver.DB, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	stubserver.NewRouter(db).ServeHTTP(w, req)
	return w
}

func authed(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)

	req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
		Email:    stubserver.DemoEmail,
		Password: stubserver.DemoPassword,
	}, nil)
	w := serve(t, db, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.LoginResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.User.Email != stubserver.DemoEmail {
		t.Errorf("user = %+v", resp.User)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)

	req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
		Email:    stubserver.DemoEmail,
		Password: "wrong",
	}, nil)
	w := serve(t, db, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestAuthRequired(t *testing.T) {
	db := testutil.SetupTestDB(t)

	paths := []struct{ method, path string }{
		{"GET", "/sections?formType=A"},
		{"GET", "/questions?sectionId=1"},
		{"POST", "/inspection-reports/start"},
		{"GET", "/applications"},
	}
	for _, p := range paths {
		w := serve(t, db, testutil.MakeRequest(p.method, p.path, nil, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status %d, want 401", p.method, p.path, w.Code)
		}
	}

	w := serve(t, db, testutil.MakeRequest("GET", "/sections?formType=A", nil, authed("bogus")))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestGetSectionsOrdered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)

	w := serve(t, db, testutil.MakeRequest("GET", "/sections?formType=A", nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var sections []models.Section
	testutil.AssertJSON(t, w, &sections)
	if len(sections) != 3 {
		t.Fatalf("Part A sections = %d, want 3", len(sections))
	}
	for i := 1; i < len(sections); i++ {
		if sections[i].Ordinal < sections[i-1].Ordinal {
			t.Errorf("sections out of order: %+v", sections)
		}
	}

	w = serve(t, db, testutil.MakeRequest("GET", "/sections?formType=B", nil, authed(token)))
	var partB []models.Section
	testutil.AssertJSON(t, w, &partB)
	if len(partB) != 2 {
		t.Errorf("Part B sections = %d, want 2", len(partB))
	}

	w = serve(t, db, testutil.MakeRequest("GET", "/sections?formType=C", nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetQuestions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)

	w := serve(t, db, testutil.MakeRequest("GET", "/questions?sectionId=2", nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var questions []models.Question
	testutil.AssertJSON(t, w, &questions)
	if len(questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(questions))
	}
	for _, q := range questions {
		if q.SectionID != 2 {
			t.Errorf("question %d has sectionId %d", q.ID, q.SectionID)
		}
	}
}

func TestSubmitAnswersUpsertAndStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)
	reportID := testutil.CreateTestReport(t, db, models.StatusDraft)

	req := testutil.MakeRequest("POST", "/answers/section", models.SubmitAnswersRequest{
		InspectionReportID: reportID,
		Answers: []models.SectionAnswer{
			{QuestionID: 1, Value: models.AnswerNo, Notes: "license missing"},
			{QuestionID: 2, Value: models.AnswerNA},
		},
	}, authed(token))
	testutil.AssertStatus(t, serve(t, db, req), http.StatusOK)

	// Saving moved the report to in_progress.
	var status string
	if err := db.QueryRow("SELECT status FROM inspection_report WHERE id = ?", reportID).Scan(&status); err != nil {
		t.Fatal(err)
	}
	if status != models.StatusInProgress {
		t.Errorf("status = %q, want in_progress", status)
	}

	// Re-saving the same question overwrites, not duplicates.
	req = testutil.MakeRequest("POST", "/answers/section", models.SubmitAnswersRequest{
		InspectionReportID: reportID,
		Answers: []models.SectionAnswer{
			{QuestionID: 1, Value: models.AnswerYes, Notes: "license found on revisit"},
		},
	}, authed(token))
	testutil.AssertStatus(t, serve(t, db, req), http.StatusOK)

	w := serve(t, db, testutil.MakeRequest("GET", "/answers?inspectionReportId="+reportID, nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var records []models.AnswerRecord
	testutil.AssertJSON(t, w, &records)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Value != models.AnswerYes || records[0].Notes != "license found on revisit" {
		t.Errorf("record 0 = %+v, want the upserted value", records[0])
	}
	if records[0].Question == nil || records[0].Question.SectionID != 1 {
		t.Errorf("record 0 question = %+v, want embedded question", records[0].Question)
	}
}

func TestSubmitAnswersRejectsBadValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)
	reportID := testutil.CreateTestReport(t, db, models.StatusDraft)

	req := testutil.MakeRequest("POST", "/answers/section", models.SubmitAnswersRequest{
		InspectionReportID: reportID,
		Answers:            []models.SectionAnswer{{QuestionID: 1, Value: "Perhaps"}},
	}, authed(token))
	testutil.AssertStatus(t, serve(t, db, req), http.StatusBadRequest)
}

func TestSubmitAnswersCompletedReportConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)
	reportID := testutil.CreateTestReport(t, db, models.StatusCompleted)

	req := testutil.MakeRequest("POST", "/answers/section", models.SubmitAnswersRequest{
		InspectionReportID: reportID,
		Answers:            []models.SectionAnswer{{QuestionID: 1, Value: models.AnswerNA}},
	}, authed(token))
	testutil.AssertStatus(t, serve(t, db, req), http.StatusConflict)
}

func TestStartAndSubmitReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)

	w := serve(t, db, testutil.MakeRequest("POST", "/inspection-reports/start", map[string]string{
		"factoryName": "Jute Works",
	}, authed(token)))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var report models.InspectionReport
	testutil.AssertJSON(t, w, &report)
	if report.Status != models.StatusDraft || report.FactoryName != "Jute Works" {
		t.Errorf("report = %+v", report)
	}

	// Submission without coordinates is rejected.
	req := testutil.MakeRequest("POST", "/inspection-reports/submit", models.SubmitReportRequest{
		InspectionReportID: report.ID,
	}, authed(token))
	testutil.AssertStatus(t, serve(t, db, req), http.StatusBadRequest)

	req = testutil.MakeRequest("POST", "/inspection-reports/submit", models.SubmitReportRequest{
		InspectionReportID: report.ID,
		Coordinates:        models.Coordinates{Latitude: 23.8, Longitude: 90.4},
	}, authed(token))
	testutil.AssertStatus(t, serve(t, db, req), http.StatusOK)

	// Submission is terminal.
	req = testutil.MakeRequest("POST", "/inspection-reports/submit", models.SubmitReportRequest{
		InspectionReportID: report.ID,
		Coordinates:        models.Coordinates{Latitude: 23.8, Longitude: 90.4},
	}, authed(token))
	testutil.AssertStatus(t, serve(t, db, req), http.StatusConflict)

	w = serve(t, db, testutil.MakeRequest("GET", "/inspection-reports/"+report.ID, nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &report)
	if report.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", report.Status)
	}
}

func TestActiveReportsEnvelope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)
	testutil.CreateTestReport(t, db, models.StatusDraft)
	testutil.CreateTestReport(t, db, models.StatusInProgress)
	testutil.CreateTestReport(t, db, models.StatusCompleted)

	w := serve(t, db, testutil.MakeRequest("GET", "/inspection-reports/active?page=1&limit=10", nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var envelope struct {
		Data  []models.InspectionReport `json:"data"`
		Total int                       `json:"total"`
		Page  int                       `json:"page"`
		Limit int                       `json:"limit"`
	}
	testutil.AssertJSON(t, w, &envelope)
	if envelope.Total != 2 || len(envelope.Data) != 2 {
		t.Errorf("envelope = %+v, completed reports must be excluded", envelope)
	}
	if envelope.Page != 1 || envelope.Limit != 10 {
		t.Errorf("paging = %d/%d", envelope.Page, envelope.Limit)
	}
}

func TestReportStatusSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)
	testutil.CreateTestReport(t, db, models.StatusDraft)
	testutil.CreateTestReport(t, db, models.StatusDraft)
	testutil.CreateTestReport(t, db, models.StatusCompleted)

	w := serve(t, db, testutil.MakeRequest("GET", "/inspection-reports/status-summary", nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var counts []models.StatusCount
	testutil.AssertJSON(t, w, &counts)
	byStatus := map[string]int{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	if byStatus[models.StatusDraft] != 2 || byStatus[models.StatusCompleted] != 1 {
		t.Errorf("summary = %v", byStatus)
	}
}

func TestApplicationLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)
	reportID := testutil.CreateTestReport(t, db, models.StatusCompleted)

	// Create
	w := serve(t, db, testutil.MakeRequest("POST", "/applications", models.SubmitApplicationRequest{
		InspectionReportID: reportID,
		ExternalID:         "APP-2026-001",
	}, authed(token)))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var app models.Application
	testutil.AssertJSON(t, w, &app)
	if app.CurrentStatus != models.PhaseShowCauseNotice {
		t.Errorf("initial status = %q, want %q", app.CurrentStatus, models.PhaseShowCauseNotice)
	}

	// One application per report.
	w = serve(t, db, testutil.MakeRequest("POST", "/applications", models.SubmitApplicationRequest{
		InspectionReportID: reportID,
		ExternalID:         "APP-2026-002",
	}, authed(token)))
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Phase transition with comment.
	w = serve(t, db, testutil.MakeRequest("PUT", "/applications/"+app.ID+"/status", models.UpdateStatusRequest{
		Status:  models.PhaseImprovement,
		Comment: "Deadline set for corrective work",
	}, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Unknown phase rejected.
	w = serve(t, db, testutil.MakeRequest("PUT", "/applications/"+app.ID+"/status", models.UpdateStatusRequest{
		Status: "Lost In Mail",
	}, authed(token)))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// History shows creation plus the transition, oldest first.
	w = serve(t, db, testutil.MakeRequest("GET", "/applications/"+app.ID+"/status-history", nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var history []models.StatusHistoryEntry
	testutil.AssertJSON(t, w, &history)
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want 2", len(history))
	}
	if history[0].Status != models.PhaseShowCauseNotice || history[1].Status != models.PhaseImprovement {
		t.Errorf("history order = %q, %q", history[0].Status, history[1].Status)
	}
	if history[1].Comment != "Deadline set for corrective work" {
		t.Errorf("comment = %q", history[1].Comment)
	}
}

func TestApplicationRequiresCompletedReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)
	reportID := testutil.CreateTestReport(t, db, models.StatusInProgress)

	w := serve(t, db, testutil.MakeRequest("POST", "/applications", models.SubmitApplicationRequest{
		InspectionReportID: reportID,
		ExternalID:         "APP-2026-003",
	}, authed(token)))
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestApplicationListFilterAndSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)

	for i := 0; i < 3; i++ {
		reportID := testutil.CreateTestReport(t, db, models.StatusCompleted)
		w := serve(t, db, testutil.MakeRequest("POST", "/applications", models.SubmitApplicationRequest{
			InspectionReportID: reportID,
			ExternalID:         "APP-X",
		}, authed(token)))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	w := serve(t, db, testutil.MakeRequest("GET", "/applications?page=1&limit=2", nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var envelope struct {
		Data  []models.Application `json:"data"`
		Total int                  `json:"total"`
	}
	testutil.AssertJSON(t, w, &envelope)
	if envelope.Total != 3 || len(envelope.Data) != 2 {
		t.Errorf("total = %d, page size = %d", envelope.Total, len(envelope.Data))
	}

	// Filter on a phase nothing is in.
	w = serve(t, db, testutil.MakeRequest("GET", "/applications?status="+
		"Disposal", nil, authed(token)))
	testutil.AssertJSON(t, w, &envelope)
	if envelope.Total != 0 {
		t.Errorf("Disposal total = %d, want 0", envelope.Total)
	}

	// Summary lists every phase in pipeline order.
	w = serve(t, db, testutil.MakeRequest("GET", "/applications/status-summary", nil, authed(token)))
	var counts []models.StatusCount
	testutil.AssertJSON(t, w, &counts)
	if len(counts) != 7 {
		t.Fatalf("summary phases = %d, want 7", len(counts))
	}
	if counts[0].Status != models.PhaseShowCauseNotice || counts[0].Count != 3 {
		t.Errorf("first phase = %+v", counts[0])
	}
}

func TestDownloadReport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	token := testutil.CreateTestToken(t, db)
	reportID := testutil.CreateTestReport(t, db, models.StatusCompleted)

	req := testutil.MakeRequest("POST", "/answers/section", models.SubmitAnswersRequest{
		InspectionReportID: reportID,
		Answers:            []models.SectionAnswer{{QuestionID: 3, Value: models.AnswerNo, Notes: "cracked tiles"}},
	}, authed(token))
	// The completed-report guard applies; reopen via a draft report instead.
	testutil.AssertStatus(t, serve(t, db, req), http.StatusConflict)

	draftID := testutil.CreateTestReport(t, db, models.StatusDraft)
	req = testutil.MakeRequest("POST", "/answers/section", models.SubmitAnswersRequest{
		InspectionReportID: draftID,
		Answers:            []models.SectionAnswer{{QuestionID: 3, Value: models.AnswerNo, Notes: "cracked tiles"}},
	}, authed(token))
	testutil.AssertStatus(t, serve(t, db, req), http.StatusOK)

	w := serve(t, db, testutil.MakeRequest("GET", "/download/inspection-report/"+draftID, nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusOK)
	body := w.Body.String()
	if !strings.Contains(body, "Test Mills Ltd") || !strings.Contains(body, "cracked tiles") {
		t.Errorf("download body missing report content:\n%s", body)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	w = serve(t, db, testutil.MakeRequest("GET", "/download/inspection-report/nope", nil, authed(token)))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
