package services

import (
	"context"
	"fmt"
	"time"

	"irespond/internal/identity"
	"irespond/internal/models"
	"irespond/internal/repositories/interfaces"
	"irespond/internal/utils"
	"irespond/pkg/logger"
)

// StatusChangeResult reports the outcome of a lifecycle mutation. The primary
// write either succeeded or the operation returned an error; Warnings lists
// secondary effects (audit trail, officer availability, timeline notes) that
// failed without failing the operation.
type StatusChangeResult struct {
	Incident *models.Incident `json:"incident"`
	Warnings []string         `json:"warnings,omitempty"`
}

type CreateIncidentRequest struct {
	AgencyType      string   `json:"agency_type" binding:"required"`
	Description     string   `json:"description"`
	LocationAddress string   `json:"location_address"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	MediaURLs       []string `json:"media_urls"`
}

type IncidentService interface {
	CreateIncident(ctx context.Context, req *CreateIncidentRequest) (*models.Incident, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	GetIncidentsByAgency(ctx context.Context, agencyType string, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error)
	GetMyIncidents(ctx context.Context, params *utils.PaginationParams) ([]*models.Incident, int64, error)

	// GetAssignedIncidents returns the incidents assigned to the current
	// identity. With no identity it returns an empty list, not an error.
	GetAssignedIncidents(ctx context.Context, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error)

	ChangeStatus(ctx context.Context, incidentID string, newStatus models.IncidentStatus) (*StatusChangeResult, error)
	AssignIncident(ctx context.Context, incidentID, officerID, officerName string) (*StatusChangeResult, error)

	GetStatusHistory(ctx context.Context, incidentID string) ([]*models.StatusHistory, error)
	GetIncidentUpdates(ctx context.Context, incidentID string) ([]*models.IncidentUpdate, error)
	AddIncidentUpdate(ctx context.Context, incidentID, note string) (*models.IncidentUpdate, error)
}

type incidentService struct {
	incidentRepo interfaces.IncidentRepository
	profileRepo  interfaces.ProfileRepository
	historyRepo  interfaces.StatusHistoryRepository
	updateRepo   interfaces.IncidentUpdateRepository
	notifier     NotificationService
	identity     identity.Provider
	logger       *logger.Logger
}

func NewIncidentService(
	incidentRepo interfaces.IncidentRepository,
	profileRepo interfaces.ProfileRepository,
	historyRepo interfaces.StatusHistoryRepository,
	updateRepo interfaces.IncidentUpdateRepository,
	notifier NotificationService,
	identityProvider identity.Provider,
	logger *logger.Logger,
) IncidentService {
	return &incidentService{
		incidentRepo: incidentRepo,
		profileRepo:  profileRepo,
		historyRepo:  historyRepo,
		updateRepo:   updateRepo,
		notifier:     notifier,
		identity:     identityProvider,
		logger:       logger,
	}
}

func (s *incidentService) CreateIncident(ctx context.Context, req *CreateIncidentRequest) (*models.Incident, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, utils.ErrNotAuthenticated
	}

	incident := &models.Incident{
		Status:          models.IncidentStatusPending,
		AgencyType:      req.AgencyType,
		Description:     req.Description,
		ReporterID:      actor.ID,
		ReporterName:    actor.Name,
		LocationAddress: req.LocationAddress,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		MediaURLs:       req.MediaURLs,
	}

	if err := s.incidentRepo.Create(ctx, incident); err != nil {
		s.logger.WithError(err).Error("Failed to create incident")
		return nil, err
	}

	s.logger.WithField("incident_id", incident.ID).Info("Incident created")

	return incident, nil
}

func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	return s.incidentRepo.GetByID(ctx, id)
}

func (s *incidentService) GetIncidentsByAgency(ctx context.Context, agencyType string, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	return s.incidentRepo.GetByAgency(ctx, agencyType, statuses, params)
}

func (s *incidentService) GetMyIncidents(ctx context.Context, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, 0, nil
	}
	return s.incidentRepo.GetByReporter(ctx, actor.ID, params)
}

func (s *incidentService) GetAssignedIncidents(ctx context.Context, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, 0, nil
	}
	return s.incidentRepo.GetAssigned(ctx, actor.ID, statuses, params)
}

// ChangeStatus applies the primary status mutation, then runs the audit and
// officer-availability side effects. Side-effect failures are logged and
// returned as warnings; only the primary write can fail the call.
func (s *incidentService) ChangeStatus(ctx context.Context, incidentID string, newStatus models.IncidentStatus) (*StatusChangeResult, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %q", utils.ErrInvalidStatus, newStatus)
	}

	actorID := s.actorID(ctx)

	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_by": actorID,
	}
	if newStatus.IsTerminal() {
		updates["resolved_at"] = time.Now()
	}
	if newStatus.IsResponse() {
		// Stamped on every such transition, restarting the response clock.
		updates["first_response_at"] = time.Now()
	}

	if err := s.incidentRepo.Update(ctx, incidentID, updates); err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Error("Failed to update incident status")
		return nil, err
	}

	result := &StatusChangeResult{}

	if err := s.historyRepo.Append(ctx, &models.StatusHistory{
		IncidentID: incidentID,
		Status:     string(newStatus),
		Notes:      fmt.Sprintf("Status updated to %s", newStatus),
		ChangedBy:  actorID,
	}); err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Warn("Failed to record status history")
		result.Warnings = append(result.Warnings, "status history not recorded")
	}

	if err := s.syncOfficerAvailability(ctx, incidentID, newStatus); err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Warn("Failed to sync officer availability")
		result.Warnings = append(result.Warnings, "officer availability not updated")
	}

	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Warn("Failed to reload incident after status change")
	}
	result.Incident = incident

	if s.notifier != nil && incident != nil && incident.ReporterID != "" {
		body := fmt.Sprintf("Your incident is now %s", newStatus)
		if _, err := s.notifier.Notify(ctx, incident.ReporterID, incidentID, "Incident Update", body); err != nil {
			s.logger.WithError(err).WithField("incident_id", incidentID).Warn("Failed to notify reporter of status change")
		}
	}

	return result, nil
}

// AssignIncident marks the incident assigned to the officer. It trusts the
// caller to have picked a valid candidate; eligibility and capacity are not
// checked here.
func (s *incidentService) AssignIncident(ctx context.Context, incidentID, officerID, officerName string) (*StatusChangeResult, error) {
	actorID := s.actorID(ctx)

	updates := map[string]interface{}{
		"status":                models.IncidentStatusAssigned,
		"assigned_officer_id":   officerID,
		"assigned_officer_name": officerName,
		"updated_by":            actorID,
	}

	if err := s.incidentRepo.Update(ctx, incidentID, updates); err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Error("Failed to assign incident")
		return nil, err
	}

	result := &StatusChangeResult{}

	if err := s.historyRepo.Append(ctx, &models.StatusHistory{
		IncidentID: incidentID,
		Status:     string(models.IncidentStatusAssigned),
		Notes:      fmt.Sprintf("Assigned to officer: %s", officerName),
		ChangedBy:  actorID,
	}); err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Warn("Failed to record assignment history")
		result.Warnings = append(result.Warnings, "status history not recorded")
	}

	if err := s.updateRepo.Append(ctx, &models.IncidentUpdate{
		IncidentID: incidentID,
		AuthorID:   actorID,
		Note:       fmt.Sprintf("Incident assigned to %s", officerName),
	}); err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Warn("Failed to record assignment note")
		result.Warnings = append(result.Warnings, "timeline note not recorded")
	}

	if err := s.profileRepo.SetOfficerStatus(ctx, officerID, models.OfficerStatusBusy); err != nil {
		s.logger.WithError(err).WithField("officer_id", officerID).Warn("Failed to mark officer busy")
		result.Warnings = append(result.Warnings, "officer availability not updated")
	}

	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Warn("Failed to reload incident after assignment")
	}
	result.Incident = incident

	if s.notifier != nil {
		if _, err := s.notifier.Notify(ctx, officerID, incidentID, "Incident Assigned", "You have a new case"); err != nil {
			s.logger.WithError(err).WithField("officer_id", officerID).Warn("Failed to notify assigned officer")
		}
	}

	s.logger.WithField("incident_id", incidentID).WithField("officer_id", officerID).Info("Incident assigned")

	return result, nil
}

func (s *incidentService) GetStatusHistory(ctx context.Context, incidentID string) ([]*models.StatusHistory, error) {
	return s.historyRepo.GetByIncident(ctx, incidentID)
}

func (s *incidentService) GetIncidentUpdates(ctx context.Context, incidentID string) ([]*models.IncidentUpdate, error) {
	return s.updateRepo.GetByIncident(ctx, incidentID)
}

func (s *incidentService) AddIncidentUpdate(ctx context.Context, incidentID, note string) (*models.IncidentUpdate, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, utils.ErrNotAuthenticated
	}

	update := &models.IncidentUpdate{
		IncidentID: incidentID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Note:       note,
	}

	if err := s.updateRepo.Append(ctx, update); err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Error("Failed to add incident update")
		return nil, err
	}

	return update, nil
}

// syncOfficerAvailability mirrors the incident status onto the assigned
// officer: busy while responding, available again once the incident closes.
func (s *incidentService) syncOfficerAvailability(ctx context.Context, incidentID string, newStatus models.IncidentStatus) error {
	var officerStatus models.OfficerStatus
	switch {
	case newStatus.IsResponse():
		officerStatus = models.OfficerStatusBusy
	case newStatus.IsTerminal():
		officerStatus = models.OfficerStatusAvailable
	default:
		return nil
	}

	incident, err := s.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return err
	}
	if incident.AssignedOfficerID == "" {
		return nil
	}

	return s.profileRepo.SetOfficerStatus(ctx, incident.AssignedOfficerID, officerStatus)
}

func (s *incidentService) actorID(ctx context.Context) string {
	if actor, ok := s.identity.Current(ctx); ok {
		return actor.ID
	}
	return "system"
}
