package models

import "time"

type ReportStatus string

const (
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusReviewed  ReportStatus = "reviewed"
)

// UnitReport is a per-responder account of what was done on scene. At most
// one row exists per (incident, responder) pair; repeated submissions
// overwrite the narrative in place.
type UnitReport struct {
	ID           string       `json:"id" bson:"_id,omitempty"`
	IncidentID   string       `json:"incident_id" bson:"incident_id"`
	ResponderID  string       `json:"responder_id" bson:"responder_id"`
	StationID    string       `json:"station_id,omitempty" bson:"station_id,omitempty"`
	AgencyType   string       `json:"agency_type,omitempty" bson:"agency_type,omitempty"`
	Title        string       `json:"title" bson:"title"`
	ActionsTaken string       `json:"actions_taken,omitempty" bson:"actions_taken,omitempty"`
	Notes        string       `json:"notes,omitempty" bson:"notes,omitempty"`
	Status       ReportStatus `json:"status" bson:"status"`
	SubmittedAt  time.Time    `json:"submitted_at" bson:"submitted_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

type DraftStatus string

const (
	DraftStatusDraft          DraftStatus = "draft"
	DraftStatusReadyForReview DraftStatus = "ready_for_review"
)

// FinalReportDraft is the singleton working copy of an incident's final
// report. One row per incident; edits overwrite whatever is there.
type FinalReportDraft struct {
	ID         string      `json:"id" bson:"_id,omitempty"`
	IncidentID string      `json:"incident_id" bson:"incident_id"`
	AgencyType string      `json:"agency_type" bson:"agency_type"`
	Title      string      `json:"title" bson:"title"`
	Summary    string      `json:"summary,omitempty" bson:"summary,omitempty"`
	Outcome    string      `json:"outcome,omitempty" bson:"outcome,omitempty"`
	Status     DraftStatus `json:"status" bson:"status"`
	AuthorID   string      `json:"author_id,omitempty" bson:"author_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" bson:"updated_at"`
}

// FinalReport is the published closing report for an incident. One row per
// incident; re-publishing replaces the previous content and records who
// completed it last.
type FinalReport struct {
	ID                string    `json:"id" bson:"_id,omitempty"`
	IncidentID        string    `json:"incident_id" bson:"incident_id"`
	AgencyType        string    `json:"agency_type" bson:"agency_type"`
	Title             string    `json:"title" bson:"title"`
	Summary           string    `json:"summary,omitempty" bson:"summary,omitempty"`
	Outcome           string    `json:"outcome,omitempty" bson:"outcome,omitempty"`
	CompletedByUserID string    `json:"completed_by_user_id,omitempty" bson:"completed_by_user_id,omitempty"`
	CompletedAt       time.Time `json:"completed_at" bson:"completed_at"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}
