// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the wire and domain types shared by the client.

# Domain Types

  - Section: named question group within Part A or Part B
  - Question: a single inspection question, owned by one section
  - Answer: editable Yes/No/NA value plus notes
  - AnswerRecord: persisted answer as returned by the backend, with the
    embedded Question used to classify it into a part
  - InspectionReport: report identity plus backend-reported status
  - Application: derived regulatory entity with its current phase
  - StatusHistoryEntry: one phase transition with comment
  - Coordinates: latitude/longitude pair attached to a final submission

# Request and Response Types

JSON bodies for the backend endpoints: LoginRequest/LoginResponse,
SubmitAnswersRequest (one section at a time, upsert), SubmitReportRequest
(final geotagged submission), UpdateStatusRequest, SubmitApplicationRequest,
ErrorResponse.

# Constants

Answer values:

	AnswerYes = "Yes"
	AnswerNo  = "No"
	AnswerNA  = "NA"

Form types:

	FormTypeA = "A"
	FormTypeB = "B"

Report statuses (backend-owned):

	StatusYetToStart = "yettostart"
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

Application phases: the seven fixed regulatory phases, from
PhaseShowCauseNotice through PhaseDisposal. Phases returns them in pipeline
order and ValidPhase checks membership.
*/
package models
