package models

import "time"

// Notification is a per-user inbox row. IDs are numeric and assigned by a
// store-side counter so clients can page by id.
type Notification struct {
	ID          int64     `json:"id" bson:"_id"`
	RecipientID string    `json:"recipient_id" bson:"recipient_id"`
	IncidentID  string    `json:"incident_id,omitempty" bson:"incident_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Body        string    `json:"body,omitempty" bson:"body,omitempty"`
	IsRead      bool      `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
