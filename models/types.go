// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Answer value constants
const (
	AnswerYes = "Yes"
	AnswerNo  = "No"
	AnswerNA  = "NA"
)

// Questionnaire form types
const (
	FormTypeA = "A"
	FormTypeB = "B"
)

// Inspection report status constants (reported by the backend)
const (
	StatusYetToStart = "yettostart"
	StatusDraft      = "draft"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Application phase constants. An application moves through a fixed set of
// regulatory phases; the backend owns transitions, the client displays and
// requests them.
const (
	PhaseShowCauseNotice  = "Show Cause Notice"
	PhaseImprovement      = "Improvement Notice"
	PhaseProposal         = "Proposal by Field Officer"
	PhaseActionAtDirector = "Action at Director"
	PhaseGovernment       = "Government"
	PhaseComplaintFiled   = "Complaint Filed"
	PhaseDisposal         = "Disposal"
)

// Phases returns the seven application phases in pipeline order.
func Phases() []string {
	return []string{
		PhaseShowCauseNotice,
		PhaseImprovement,
		PhaseProposal,
		PhaseActionAtDirector,
		PhaseGovernment,
		PhaseComplaintFiled,
		PhaseDisposal,
	}
}

// ValidPhase reports whether s is one of the seven application phases.
func ValidPhase(s string) bool {
	for _, p := range Phases() {
		if p == s {
			return true
		}
	}
	return false
}

// Request types

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SectionAnswer is one answer as sent to the backend. The submit endpoint
// accepts answers for a single section at a time (upsert semantics).
type SectionAnswer struct {
	QuestionID int64  `json:"questionId"`
	Value      string `json:"value"`
	Notes      string `json:"notes"`
}

type SubmitAnswersRequest struct {
	InspectionReportID string          `json:"inspectionReportId"`
	Answers            []SectionAnswer `json:"answers"`
}

type SubmitReportRequest struct {
	InspectionReportID string      `json:"inspectionReportId"`
	Coordinates        Coordinates `json:"coordinates"`
}

type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type SubmitApplicationRequest struct {
	InspectionReportID string `json:"inspectionReportId"`
	ExternalID         string `json:"externalId"`
}

// Response types

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Section is a named grouping of questions within one part of the
// questionnaire. Ordering within a part follows fetch order.
type Section struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FormType string `json:"formType"`
	Ordinal  int    `json:"ordinal"`
}

type Question struct {
	ID        int64  `json:"id"`
	SectionID int64  `json:"sectionId"`
	Text      string `json:"text"`
}

// Answer is the editable response to a question: a Yes/No/NA value plus
// notes. Notes are required for Yes and No, and cleared for NA.
type Answer struct {
	Value string `json:"value"`
	Notes string `json:"notes"`
}

// AnswerRecord is an answer as returned by the backend. The embedded
// Question (capitalized key on the wire) carries the section id used to
// classify the answer into Part A or Part B.
type AnswerRecord struct {
	QuestionID int64     `json:"questionId"`
	Value      string    `json:"value"`
	Notes      string    `json:"notes"`
	Question   *Question `json:"Question,omitempty"`
}

type InspectionReport struct {
	ID                        string    `json:"id"`
	Status                    string    `json:"status"`
	FactoryName               string    `json:"factoryName,omitempty"`
	FactoryRegistrationNumber string    `json:"factoryRegistrationNumber,omitempty"`
	FactoryAddress            string    `json:"factoryAddress,omitempty"`
	CreatedAt                 time.Time `json:"createdAt"`
	UpdatedAt                 time.Time `json:"updatedAt"`
}

// Application is the regulatory-pipeline entity derived from a completed
// inspection report. Read-only to this client apart from requested status
// transitions.
type Application struct {
	ID                 string    `json:"id"`
	ExternalID         string    `json:"externalId"`
	InspectionReportID string    `json:"inspectionReportId"`
	CurrentStatus      string    `json:"currentStatus"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type StatusHistoryEntry struct {
	ID            string    `json:"id"`
	ApplicationID string    `json:"applicationId"`
	Status        string    `json:"status"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StatusCount is one row of a status-summary response.
type StatusCount struct {
	Status string `json:"currentStatus"`
	Count  int    `json:"count"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
