package interfaces

import (
	"context"

	"irespond/internal/models"
)

type StatusHistoryRepository interface {
	Append(ctx context.Context, entry *models.StatusHistory) error
	GetByIncident(ctx context.Context, incidentID string) ([]*models.StatusHistory, error)
}

type IncidentUpdateRepository interface {
	Append(ctx context.Context, update *models.IncidentUpdate) error
	GetByIncident(ctx context.Context, incidentID string) ([]*models.IncidentUpdate, error)
}
