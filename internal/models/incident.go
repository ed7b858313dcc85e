package models

import (
	"time"
)

type IncidentStatus string

const (
	IncidentStatusPending    IncidentStatus = "pending"
	IncidentStatusAssigned   IncidentStatus = "assigned"
	IncidentStatusInProgress IncidentStatus = "in_progress"
	IncidentStatusResponding IncidentStatus = "responding"
	IncidentStatusResolved   IncidentStatus = "resolved"
	IncidentStatusClosed     IncidentStatus = "closed"
	IncidentStatusRejected   IncidentStatus = "rejected"
)

// The store does not enforce status as a closed enum; validation happens in
// the lifecycle service before any write.
func (s IncidentStatus) IsValid() bool {
	switch s {
	case IncidentStatusPending, IncidentStatusAssigned, IncidentStatusInProgress,
		IncidentStatusResponding, IncidentStatusResolved, IncidentStatusClosed,
		IncidentStatusRejected:
		return true
	}
	return false
}

// IsResponse reports whether the status marks a responder actively working
// the incident.
func (s IncidentStatus) IsResponse() bool {
	return s == IncidentStatusInProgress || s == IncidentStatusResponding
}

// IsTerminal reports whether the status ends the response (resolved or closed).
func (s IncidentStatus) IsTerminal() bool {
	return s == IncidentStatusResolved || s == IncidentStatusClosed
}

type Incident struct {
	ID                  string         `json:"id" bson:"_id,omitempty"`
	Status              IncidentStatus `json:"status" bson:"status"`
	AgencyType          string         `json:"agency_type" bson:"agency_type"`
	Description         string         `json:"description,omitempty" bson:"description,omitempty"`
	ReporterID          string         `json:"reporter_id,omitempty" bson:"reporter_id,omitempty"`
	ReporterName        string         `json:"reporter_name,omitempty" bson:"reporter_name,omitempty"`
	LocationAddress     string         `json:"location_address,omitempty" bson:"location_address,omitempty"`
	Latitude            *float64       `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude           *float64       `json:"longitude,omitempty" bson:"longitude,omitempty"`
	MediaURLs           []string       `json:"media_urls,omitempty" bson:"media_urls,omitempty"`
	AssignedOfficerID   string         `json:"assigned_officer_id,omitempty" bson:"assigned_officer_id,omitempty"`
	AssignedOfficerIDs  []string       `json:"assigned_officer_ids,omitempty" bson:"assigned_officer_ids,omitempty"`
	AssignedOfficerName string         `json:"assigned_officer_name,omitempty" bson:"assigned_officer_name,omitempty"`
	UpdatedBy           string         `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
	CreatedAt           time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" bson:"updated_at"`
	ResolvedAt          *time.Time     `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	FirstResponseAt     *time.Time     `json:"first_response_at,omitempty" bson:"first_response_at,omitempty"`
}
