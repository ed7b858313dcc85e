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

// ReportResult carries the settled per-responder report plus warnings for
// secondary writes (final report mirror, timeline note) that failed.
type ReportResult struct {
	Report   *models.UnitReport `json:"report"`
	Warnings []string           `json:"warnings,omitempty"`
}

type SubmitReportRequest struct {
	IncidentID   string `json:"incident_id" binding:"required"`
	AgencyType   string `json:"agency_type"`
	Title        string `json:"title" binding:"required"`
	ActionsTaken string `json:"actions_taken"`
	Notes        string `json:"notes"`
}

type SaveDraftRequest struct {
	IncidentID string `json:"incident_id" binding:"required"`
	AgencyType string `json:"agency_type"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Outcome    string `json:"outcome"`

	// Status defaults to draft when omitted. Saving with ready_for_review
	// keeps a promoted draft promoted.
	Status models.DraftStatus `json:"status"`
}

type ReportService interface {
	// CreateOrUpdateReport settles the responder's report for the incident
	// and mirrors it into the incident-level final report. The mirror always
	// reflects the most recent submission from any responder.
	CreateOrUpdateReport(ctx context.Context, req *SubmitReportRequest) (*ReportResult, error)

	GetIncidentReports(ctx context.Context, incidentID string) ([]*models.UnitReport, error)
	GetMyReports(ctx context.Context, params *utils.PaginationParams) ([]*models.UnitReport, int64, error)

	// GetMyIncidentReport returns the current responder's report for the
	// incident, not the incident-wide list.
	GetMyIncidentReport(ctx context.Context, incidentID string) (*models.UnitReport, error)
	GetMyAgencyReports(ctx context.Context, agencyType string, params *utils.PaginationParams) ([]*models.UnitReport, int64, error)

	GetDraft(ctx context.Context, incidentID string) (*models.FinalReportDraft, error)
	SaveDraft(ctx context.Context, req *SaveDraftRequest) (*models.FinalReportDraft, error)

	// PromoteDraftToFinal flips the draft to ready_for_review. Returns false
	// with no mutation when the incident has no draft.
	PromoteDraftToFinal(ctx context.Context, incidentID string) (bool, error)

	DeleteDraft(ctx context.Context, incidentID string) error

	GetFinalReport(ctx context.Context, incidentID string) (*models.FinalReport, error)
	GetFinalReportsByAgency(ctx context.Context, agencyType string, params *utils.PaginationParams) ([]*models.FinalReport, int64, error)
}

type reportService struct {
	unitReportRepo  interfaces.UnitReportRepository
	draftRepo       interfaces.FinalReportDraftRepository
	finalReportRepo interfaces.FinalReportRepository
	updateRepo      interfaces.IncidentUpdateRepository
	identity        identity.Provider
	logger          *logger.Logger
}

func NewReportService(
	unitReportRepo interfaces.UnitReportRepository,
	draftRepo interfaces.FinalReportDraftRepository,
	finalReportRepo interfaces.FinalReportRepository,
	updateRepo interfaces.IncidentUpdateRepository,
	identityProvider identity.Provider,
	logger *logger.Logger,
) ReportService {
	return &reportService{
		unitReportRepo:  unitReportRepo,
		draftRepo:       draftRepo,
		finalReportRepo: finalReportRepo,
		updateRepo:      updateRepo,
		identity:        identityProvider,
		logger:          logger,
	}
}

func (s *reportService) CreateOrUpdateReport(ctx context.Context, req *SubmitReportRequest) (*ReportResult, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, utils.ErrNotAuthenticated
	}

	report := &models.UnitReport{
		IncidentID:   req.IncidentID,
		ResponderID:  actor.ID,
		AgencyType:   req.AgencyType,
		Title:        req.Title,
		ActionsTaken: req.ActionsTaken,
		Notes:        req.Notes,
	}

	saved, err := s.unitReportRepo.Upsert(ctx, report)
	if err != nil {
		s.logger.WithError(err).WithField("incident_id", req.IncidentID).Error("Failed to save unit report")
		return nil, err
	}

	result := &ReportResult{Report: saved}

	if _, err := s.finalReportRepo.Upsert(ctx, &models.FinalReport{
		IncidentID:        req.IncidentID,
		AgencyType:        req.AgencyType,
		Title:             req.Title,
		Summary:           req.ActionsTaken,
		Outcome:           req.Notes,
		CompletedByUserID: actor.ID,
	}); err != nil {
		s.logger.WithError(err).WithField("incident_id", req.IncidentID).Warn("Failed to mirror final report")
		result.Warnings = append(result.Warnings, "final report not updated")
	}

	if err := s.updateRepo.Append(ctx, &models.IncidentUpdate{
		IncidentID: req.IncidentID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Note:       fmt.Sprintf("Report submitted: %s", req.Title),
	}); err != nil {
		s.logger.WithError(err).WithField("incident_id", req.IncidentID).Warn("Failed to record report note")
		result.Warnings = append(result.Warnings, "timeline note not recorded")
	}

	return result, nil
}

func (s *reportService) GetIncidentReports(ctx context.Context, incidentID string) ([]*models.UnitReport, error) {
	return s.unitReportRepo.GetByIncident(ctx, incidentID)
}

func (s *reportService) GetMyReports(ctx context.Context, params *utils.PaginationParams) ([]*models.UnitReport, int64, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, 0, nil
	}
	return s.unitReportRepo.GetByResponder(ctx, actor.ID, params)
}

func (s *reportService) GetMyIncidentReport(ctx context.Context, incidentID string) (*models.UnitReport, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, utils.ErrNotAuthenticated
	}
	return s.unitReportRepo.GetByIncidentAndResponder(ctx, incidentID, actor.ID)
}

func (s *reportService) GetMyAgencyReports(ctx context.Context, agencyType string, params *utils.PaginationParams) ([]*models.UnitReport, int64, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, 0, nil
	}
	return s.unitReportRepo.GetByResponderAndAgency(ctx, actor.ID, utils.NormalizeAgencyType(agencyType), params)
}

// GetDraft maps any store failure to "no draft" so the editor always opens.
func (s *reportService) GetDraft(ctx context.Context, incidentID string) (*models.FinalReportDraft, error) {
	draft, err := s.draftRepo.GetByIncident(ctx, incidentID)
	if err != nil {
		if err != utils.ErrDraftNotFound {
			s.logger.WithError(err).WithField("incident_id", incidentID).Warn("Failed to load draft")
		}
		return nil, nil
	}
	return draft, nil
}

func (s *reportService) SaveDraft(ctx context.Context, req *SaveDraftRequest) (*models.FinalReportDraft, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, utils.ErrNotAuthenticated
	}

	status := req.Status
	if status == "" {
		status = models.DraftStatusDraft
	}
	if status != models.DraftStatusDraft && status != models.DraftStatusReadyForReview {
		return nil, fmt.Errorf("%w: invalid draft status %q", utils.ErrInvalidStatus, status)
	}

	draft := &models.FinalReportDraft{
		IncidentID: req.IncidentID,
		AgencyType: utils.NormalizeAgencyType(req.AgencyType),
		Title:      req.Title,
		Summary:    req.Summary,
		Outcome:    req.Outcome,
		Status:     status,
		AuthorID:   actor.ID,
	}

	saved, err := s.draftRepo.Upsert(ctx, draft)
	if err != nil {
		s.logger.WithError(err).WithField("incident_id", req.IncidentID).Error("Failed to save draft")
		return nil, err
	}

	return saved, nil
}

func (s *reportService) PromoteDraftToFinal(ctx context.Context, incidentID string) (bool, error) {
	promoted, err := s.draftRepo.MarkReadyForReview(ctx, incidentID)
	if err != nil {
		s.logger.WithError(err).WithField("incident_id", incidentID).Error("Failed to promote draft")
		return false, err
	}

	return promoted, nil
}

func (s *reportService) DeleteDraft(ctx context.Context, incidentID string) error {
	return s.draftRepo.DeleteByIncident(ctx, incidentID)
}

func (s *reportService) GetFinalReport(ctx context.Context, incidentID string) (*models.FinalReport, error) {
	return s.finalReportRepo.GetByIncident(ctx, incidentID)
}

func (s *reportService) GetFinalReportsByAgency(ctx context.Context, agencyType string, params *utils.PaginationParams) ([]*models.FinalReport, int64, error) {
	return s.finalReportRepo.GetByAgency(ctx, agencyType, params)
}
