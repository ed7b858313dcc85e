package models

import "time"

// StatusHistory is an append-only audit row recorded for every status
// transition. ChangedBy falls back to "system" when no actor is known.
type StatusHistory struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	IncidentID string    `json:"incident_id" bson:"incident_id"`
	Status     string    `json:"status" bson:"status"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	ChangedBy  string    `json:"changed_by" bson:"changed_by"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// IncidentUpdate is a free-form timeline note attached to an incident,
// written both by people and by lifecycle side effects.
type IncidentUpdate struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	IncidentID string    `json:"incident_id" bson:"incident_id"`
	AuthorID   string    `json:"author_id,omitempty" bson:"author_id,omitempty"`
	AuthorName string    `json:"author_name,omitempty" bson:"author_name,omitempty"`
	Note       string    `json:"note" bson:"note"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
