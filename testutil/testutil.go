// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"fieldcheck/api"
	"fieldcheck/cliparse"
	"fieldcheck/session"
	"fieldcheck/stubserver"
)

// SetupTestDB creates a fresh seeded SQLite database in a per-test temp dir.
func SetupTestDB(t *testing.T) *stubserver.DB {
	t.Helper()

	cfg := cliparse.Config{
		DatabaseType: "sqlite",
		DatabaseURL:  filepath.Join(t.TempDir(), "stub.db"),
	}
	db, err := stubserver.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := stubserver.Seed(db); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return db
}

// StartStub runs the full stub backend over httptest.
func StartStub(t *testing.T) (*httptest.Server, *stubserver.DB) {
	t.Helper()

	db := SetupTestDB(t)
	srv := httptest.NewServer(stubserver.NewRouter(db))
	t.Cleanup(srv.Close)
	return srv, db
}

// NewSession creates an empty session stored in a per-test temp dir.
func NewSession(t *testing.T) *session.Session {
	t.Helper()
	return session.New(filepath.Join(t.TempDir(), "session.json"))
}

// LoggedInClient builds an API client against baseURL and logs it in with
// the seeded demo officer.
func LoggedInClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()

	client := api.NewClient(baseURL, NewSession(t), 10*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := client.Login(ctx, stubserver.DemoEmail, stubserver.DemoPassword); err != nil {
		t.Fatalf("Failed to log in test client: %v", err)
	}
	return client
}

// CreateTestReport inserts an inspection report for the seeded officer and
// returns its ID. status should be one of the report status constants.
func CreateTestReport(t *testing.T, db *stubserver.DB, status string) string {
	t.Helper()

	reportID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO inspection_report
			(id, officer_id, status, factory_name, factory_registration_number, factory_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, reportID, "officer-1", status, "Test Mills Ltd", "REG-042", "12 Industrial Road", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("Failed to create test report: %v", err)
	}
	return reportID
}

// CreateTestToken inserts a bearer token for the seeded officer.
func CreateTestToken(t *testing.T, db *stubserver.DB) string {
	t.Helper()

	token := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO auth_token (token, officer_id, created_at)
		VALUES (?, ?, ?)
	`, token, "officer-1", time.Now())
	if err != nil {
		t.Fatalf("Failed to create test token: %v", err)
	}
	return token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
