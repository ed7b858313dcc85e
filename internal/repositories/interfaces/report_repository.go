package interfaces

import (
	"context"

	"irespond/internal/models"
	"irespond/internal/utils"
)

type UnitReportRepository interface {
	// Upsert writes the report keyed by (incident_id, responder_id). A unique
	// index backs the key, so concurrent submissions for the same pair settle
	// on a single row with the last writer's narrative.
	Upsert(ctx context.Context, report *models.UnitReport) (*models.UnitReport, error)

	GetByID(ctx context.Context, id string) (*models.UnitReport, error)
	GetByIncident(ctx context.Context, incidentID string) ([]*models.UnitReport, error)

	// GetByIncidentAndResponder returns the responder's single report for
	// the incident.
	GetByIncidentAndResponder(ctx context.Context, incidentID, responderID string) (*models.UnitReport, error)

	GetByResponder(ctx context.Context, responderID string, params *utils.PaginationParams) ([]*models.UnitReport, int64, error)
	GetByResponderAndAgency(ctx context.Context, responderID, agencyType string, params *utils.PaginationParams) ([]*models.UnitReport, int64, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error
	Delete(ctx context.Context, id string) error
}

type FinalReportDraftRepository interface {
	// Upsert writes the draft keyed by incident_id, the singleton row per
	// incident.
	Upsert(ctx context.Context, draft *models.FinalReportDraft) (*models.FinalReportDraft, error)

	GetByIncident(ctx context.Context, incidentID string) (*models.FinalReportDraft, error)

	// MarkReadyForReview flips the draft's status and reports whether a draft
	// existed to flip.
	MarkReadyForReview(ctx context.Context, incidentID string) (bool, error)

	// DeleteByIncident removes the draft if present. Absent drafts are not an
	// error.
	DeleteByIncident(ctx context.Context, incidentID string) error
}

type FinalReportRepository interface {
	// Upsert publishes the final report keyed by incident_id, replacing any
	// previous publication.
	Upsert(ctx context.Context, report *models.FinalReport) (*models.FinalReport, error)

	GetByIncident(ctx context.Context, incidentID string) (*models.FinalReport, error)
	GetByAgency(ctx context.Context, agencyType string, params *utils.PaginationParams) ([]*models.FinalReport, int64, error)
}
