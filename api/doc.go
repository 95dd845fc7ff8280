// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package api implements the REST gateway to the inspection backend.

# Client

Client exposes one method per backend operation: authentication
(Login), questionnaire data (GetSections, GetQuestions, GetAnswers,
SubmitAnswers, SaveSection), report lifecycle (StartInspection, GetReport,
GetActiveReports, GetReportsByStatus, GetStatusSummary,
SubmitInspectionReport, DownloadInspectionReport), and the application
pipeline (GetApplications, GetApplicationsStatusSummary, SubmitApplication,
UpdateApplicationStatus, GetApplicationStatusHistory).

# Cross-cutting behavior

Every request passes through an internal round-tripper that injects the
bearer token and an X-Request-Id, and inspects every response. A 401 or 403
on any call invalidates the session before the caller sees ErrAuthExpired;
this is the single enforcement point for session expiry.

List endpoints are inconsistent on the wire (bare array vs paged envelope);
both shapes are normalized into Page[T] inside this package.

# Save retry

SaveSection retries a failed section upsert up to 3 attempts with delays of
1000ms then 1500ms. The OnRetryWarning hook fires once, after the first
failure, so the user can be told a retry is in flight. Exhausted retries
surface as *PersistenceFailure carrying the last error.
*/
package api
