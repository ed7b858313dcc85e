package interfaces

import (
	"context"

	"irespond/internal/models"
	"irespond/internal/utils"
)

type IncidentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	// Listing
	GetByAgency(ctx context.Context, agencyType string, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error)
	GetByReporter(ctx context.Context, reporterID string, params *utils.PaginationParams) ([]*models.Incident, int64, error)

	// Assigned returns incidents where the officer is either the primary
	// assignee or a member of the assigned set, limited to the given
	// statuses (active statuses when empty).
	GetAssigned(ctx context.Context, officerID string, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error)

	CountByStatus(ctx context.Context, agencyType string) (map[models.IncidentStatus]int64, error)
}
