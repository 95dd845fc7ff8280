// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fieldcheck/models"
	"fieldcheck/session"
)

// Client is the persistence gateway to the inspection backend. All REST
// operations go through it; the embedded transport injects the credential
// and enforces the global auth-expiry behavior.
type Client struct {
	base string
	hc   *http.Client
	sess *session.Session

	// OnRetryWarning is invoked once per SaveSection, after the first failed
	// attempt and before the first retry. nextAttempt is the attempt about
	// to run.
	OnRetryWarning func(nextAttempt int, err error)

	// OnAuthExpired is invoked after the session has been invalidated by a
	// 401/403 response, so the caller can direct the user back to login.
	OnAuthExpired func()

	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client for the backend at baseURL using the given
// session for credentials.
func NewClient(baseURL string, sess *session.Session, timeout time.Duration) *Client {
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		sess:  sess,
		sleep: sleepCtx,
	}
	c.hc = &http.Client{
		Timeout: timeout,
		Transport: &authTransport{
			sess: sess,
			next: http.DefaultTransport,
			onExpired: func() {
				if c.OnAuthExpired != nil {
					c.OnAuthExpired()
				}
			},
		},
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// do issues one request and returns the raw response body on success.
// Backend rejections come back as ErrAuthExpired or *StatusError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrAuthExpired
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Message: backendMessage(data)}
	}

	return data, nil
}

// backendMessage pulls the human-readable error out of an error body,
// preferring "error" over "message".
func backendMessage(data []byte) string {
	var er models.ErrorResponse
	if err := json.Unmarshal(data, &er); err != nil {
		return ""
	}
	if er.Error != "" {
		return er.Error
	}
	return er.Message
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Login authenticates and stores the returned identity in the session.
func (c *Client) Login(ctx context.Context, email, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	data, err := c.do(ctx, http.MethodPost, "/auth/login", nil, models.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return resp, fmt.Errorf("decoding login response: %w", err)
	}
	if err := c.sess.SetIdentity(resp.Token, resp.User); err != nil {
		return resp, fmt.Errorf("storing session: %w", err)
	}
	return resp, nil
}

// StartInspection creates a fresh inspection report assigned to the officer.
func (c *Client) StartInspection(ctx context.Context) (models.InspectionReport, error) {
	var report models.InspectionReport
	data, err := c.do(ctx, http.MethodPost, "/inspection-reports/start", nil, struct{}{})
	if err != nil {
		return report, err
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("decoding report: %w", err)
	}
	return report, nil
}

// GetSections fetches the ordered section list for one part of the form.
func (c *Client) GetSections(ctx context.Context, formType string) ([]models.Section, error) {
	data, err := c.do(ctx, http.MethodGet, "/sections", url.Values{"formType": {formType}}, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage[models.Section](data)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// GetQuestions fetches the questions of one section.
func (c *Client) GetQuestions(ctx context.Context, sectionID int64) ([]models.Question, error) {
	q := url.Values{"sectionId": {strconv.FormatInt(sectionID, 10)}}
	data, err := c.do(ctx, http.MethodGet, "/questions", q, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage[models.Question](data)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// GetAnswers fetches every persisted answer of a report, with each answer's
// question embedded for part classification.
func (c *Client) GetAnswers(ctx context.Context, reportID string) ([]models.AnswerRecord, error) {
	q := url.Values{"inspectionReportId": {reportID}}
	data, err := c.do(ctx, http.MethodGet, "/answers", q, nil)
	if err != nil {
		return nil, err
	}
	page, err := decodePage[models.AnswerRecord](data)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// SubmitAnswers upserts the answers of a single section. Callers normally go
// through SaveSection, which adds the retry policy.
func (c *Client) SubmitAnswers(ctx context.Context, reportID string, answers []models.SectionAnswer) error {
	_, err := c.do(ctx, http.MethodPost, "/answers/section", nil, models.SubmitAnswersRequest{
		InspectionReportID: reportID,
		Answers:            answers,
	})
	return err
}

// SubmitInspectionReport finalizes a report with its mandatory coordinates.
func (c *Client) SubmitInspectionReport(ctx context.Context, reportID string, coords models.Coordinates) error {
	_, err := c.do(ctx, http.MethodPost, "/inspection-reports/submit", nil, models.SubmitReportRequest{
		InspectionReportID: reportID,
		Coordinates:        coords,
	})
	return err
}

// GetReport fetches a single inspection report.
func (c *Client) GetReport(ctx context.Context, reportID string) (models.InspectionReport, error) {
	var report models.InspectionReport
	err := c.getJSON(ctx, "/inspection-reports/"+url.PathEscape(reportID), nil, &report)
	return report, err
}

// GetActiveReports lists reports the officer can still work on.
func (c *Client) GetActiveReports(ctx context.Context, page, limit int) (Page[models.InspectionReport], error) {
	q := pageQuery(page, limit)
	data, err := c.do(ctx, http.MethodGet, "/inspection-reports/active", q, nil)
	if err != nil {
		return Page[models.InspectionReport]{}, err
	}
	return decodePage[models.InspectionReport](data)
}

// GetReportsByStatus lists reports filtered on a backend status.
func (c *Client) GetReportsByStatus(ctx context.Context, status string, page, limit int) (Page[models.InspectionReport], error) {
	q := pageQuery(page, limit)
	q.Set("status", status)
	data, err := c.do(ctx, http.MethodGet, "/inspection-reports/filter", q, nil)
	if err != nil {
		return Page[models.InspectionReport]{}, err
	}
	return decodePage[models.InspectionReport](data)
}

// GetStatusSummary returns per-status report counts for the dashboard.
func (c *Client) GetStatusSummary(ctx context.Context) ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := c.getJSON(ctx, "/inspection-reports/status-summary", nil, &counts)
	return counts, err
}

// GetApplications lists applications, optionally filtered to one phase.
func (c *Client) GetApplications(ctx context.Context, page, limit int, status string) (Page[models.Application], error) {
	q := pageQuery(page, limit)
	if status != "" {
		q.Set("status", status)
	}
	data, err := c.do(ctx, http.MethodGet, "/applications", q, nil)
	if err != nil {
		return Page[models.Application]{}, err
	}
	return decodePage[models.Application](data)
}

// GetApplicationsStatusSummary returns per-phase application counts.
func (c *Client) GetApplicationsStatusSummary(ctx context.Context) ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := c.getJSON(ctx, "/applications/status-summary", nil, &counts)
	return counts, err
}

// SubmitApplication derives an application from a completed report. Backend
// error text is passed through verbatim for display.
func (c *Client) SubmitApplication(ctx context.Context, reportID, externalID string) (models.Application, error) {
	var app models.Application
	data, err := c.do(ctx, http.MethodPost, "/applications", nil, models.SubmitApplicationRequest{
		InspectionReportID: reportID,
		ExternalID:         externalID,
	})
	if err != nil {
		return app, err
	}
	if err := json.Unmarshal(data, &app); err != nil {
		return app, fmt.Errorf("decoding application: %w", err)
	}
	return app, nil
}

// UpdateApplicationStatus requests a phase transition with a comment.
func (c *Client) UpdateApplicationStatus(ctx context.Context, applicationID, status, comment string) error {
	path := "/applications/" + url.PathEscape(applicationID) + "/status"
	_, err := c.do(ctx, http.MethodPut, path, nil, models.UpdateStatusRequest{
		Status:  status,
		Comment: comment,
	})
	return err
}

// GetApplicationStatusHistory returns the phase transitions of an application.
func (c *Client) GetApplicationStatusHistory(ctx context.Context, applicationID string) ([]models.StatusHistoryEntry, error) {
	var entries []models.StatusHistoryEntry
	path := "/applications/" + url.PathEscape(applicationID) + "/status-history"
	err := c.getJSON(ctx, path, nil, &entries)
	return entries, err
}

// DownloadInspectionReport streams the report PDF into w and returns the
// number of bytes written.
func (c *Client) DownloadInspectionReport(ctx context.Context, reportID string, w io.Writer) (int64, error) {
	u := c.base + "/download/inspection-report/" + url.PathEscape(reportID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("downloading report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return 0, ErrAuthExpired
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		return 0, &StatusError{Code: resp.StatusCode, Message: backendMessage(data)}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("writing report: %w", err)
	}
	return n, nil
}

func pageQuery(page, limit int) url.Values {
	return url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(limit)},
	}
}
