package services

import (
	"context"
	"fmt"

	"irespond/internal/identity"
	"irespond/internal/models"
	"irespond/internal/repositories/interfaces"
	"irespond/internal/utils"
	"irespond/pkg/logger"
)

type ProfileService interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetMyProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error

	// Responder availability
	GetAvailableOfficers(ctx context.Context, agencyType string) ([]*models.Profile, error)
	GetOfficersByStation(ctx context.Context, stationID string, params *utils.PaginationParams) ([]*models.Profile, int64, error)
	SetMyStatus(ctx context.Context, status models.OfficerStatus) error

	// Device tokens for push delivery
	RegisterDeviceToken(ctx context.Context, platform, token string) error

	GetStations(ctx context.Context, agencyType string) ([]*models.Station, error)
}

type profileService struct {
	profileRepo interfaces.ProfileRepository
	stationRepo interfaces.StationRepository
	identity    identity.Provider
	logger      *logger.Logger
}

func NewProfileService(
	profileRepo interfaces.ProfileRepository,
	stationRepo interfaces.StationRepository,
	identityProvider identity.Provider,
	logger *logger.Logger,
) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		stationRepo: stationRepo,
		identity:    identityProvider,
		logger:      logger,
	}
}

func (s *profileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

func (s *profileService) GetMyProfile(ctx context.Context) (*models.Profile, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, utils.ErrNotAuthenticated
	}
	return s.profileRepo.GetByID(ctx, actor.ID)
}

func (s *profileService) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error {
	return s.profileRepo.Update(ctx, id, updates)
}

func (s *profileService) GetAvailableOfficers(ctx context.Context, agencyType string) ([]*models.Profile, error) {
	return s.profileRepo.GetAvailableOfficers(ctx, utils.NormalizeAgencyType(agencyType))
}

func (s *profileService) GetOfficersByStation(ctx context.Context, stationID string, params *utils.PaginationParams) ([]*models.Profile, int64, error) {
	return s.profileRepo.GetOfficersByStation(ctx, stationID, params)
}

func (s *profileService) SetMyStatus(ctx context.Context, status models.OfficerStatus) error {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return utils.ErrNotAuthenticated
	}

	if !status.IsValid() {
		return fmt.Errorf("%w: invalid officer status %q", utils.ErrInvalidStatus, status)
	}

	if err := s.profileRepo.SetOfficerStatus(ctx, actor.ID, status); err != nil {
		s.logger.WithError(err).WithField("officer_id", actor.ID).Error("Failed to set officer status")
		return err
	}

	return nil
}

func (s *profileService) RegisterDeviceToken(ctx context.Context, platform, token string) error {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return utils.ErrNotAuthenticated
	}

	field := "fcm_token"
	if platform == "ios" {
		field = "apns_token"
	}

	return s.profileRepo.Update(ctx, actor.ID, map[string]interface{}{field: token})
}

func (s *profileService) GetStations(ctx context.Context, agencyType string) ([]*models.Station, error) {
	return s.stationRepo.GetByAgency(ctx, utils.NormalizeAgencyType(agencyType))
}
