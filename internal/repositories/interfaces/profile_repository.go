package interfaces

import (
	"context"

	"irespond/internal/models"
	"irespond/internal/utils"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error

	// Officer queries
	GetOfficersByStation(ctx context.Context, stationID string, params *utils.PaginationParams) ([]*models.Profile, int64, error)
	GetAvailableOfficers(ctx context.Context, agencyType string) ([]*models.Profile, error)
	SetOfficerStatus(ctx context.Context, id string, status models.OfficerStatus) error
}

type StationRepository interface {
	Create(ctx context.Context, station *models.Station) error
	GetByID(ctx context.Context, id string) (*models.Station, error)
	GetByAgency(ctx context.Context, agencyType string) ([]*models.Station, error)
}
