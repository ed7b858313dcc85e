package services

import (
	"context"
	"fmt"
	"testing"

	"irespond/internal/models"
	"irespond/internal/utils"
	"irespond/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}

type fakeIncidentRepo struct {
	incidents map[string]*models.Incident
	updates   []map[string]interface{}
	updateErr error
	getErr    error
}

func newFakeIncidentRepo(incidents ...*models.Incident) *fakeIncidentRepo {
	repo := &fakeIncidentRepo{incidents: make(map[string]*models.Incident)}
	for _, incident := range incidents {
		repo.incidents[incident.ID] = incident
	}
	return repo
}

func (r *fakeIncidentRepo) Create(ctx context.Context, incident *models.Incident) error {
	if incident.ID == "" {
		incident.ID = fmt.Sprintf("incident-%d", len(r.incidents)+1)
	}
	r.incidents[incident.ID] = incident
	return nil
}

func (r *fakeIncidentRepo) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	incident, ok := r.incidents[id]
	if !ok {
		return nil, utils.ErrIncidentNotFound
	}
	return incident, nil
}

func (r *fakeIncidentRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, updates)

	incident, ok := r.incidents[id]
	if !ok {
		return utils.ErrIncidentNotFound
	}
	if status, ok := updates["status"].(models.IncidentStatus); ok {
		incident.Status = status
	}
	if officerID, ok := updates["assigned_officer_id"].(string); ok {
		incident.AssignedOfficerID = officerID
	}
	if officerName, ok := updates["assigned_officer_name"].(string); ok {
		incident.AssignedOfficerName = officerName
	}
	return nil
}

func (r *fakeIncidentRepo) Delete(ctx context.Context, id string) error {
	delete(r.incidents, id)
	return nil
}

func (r *fakeIncidentRepo) GetByAgency(ctx context.Context, agencyType string, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	return nil, 0, nil
}

func (r *fakeIncidentRepo) GetByReporter(ctx context.Context, reporterID string, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	var out []*models.Incident
	for _, incident := range r.incidents {
		if incident.ReporterID == reporterID {
			out = append(out, incident)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeIncidentRepo) GetAssigned(ctx context.Context, officerID string, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	var out []*models.Incident
	for _, incident := range r.incidents {
		if incident.AssignedOfficerID == officerID {
			out = append(out, incident)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeIncidentRepo) CountByStatus(ctx context.Context, agencyType string) (map[models.IncidentStatus]int64, error) {
	return nil, nil
}

type officerStatusCall struct {
	OfficerID string
	Status    models.OfficerStatus
}

type fakeProfileRepo struct {
	profiles    map[string]*models.Profile
	statusCalls []officerStatusCall
	statusErr   error
}

func newFakeProfileRepo(profiles ...*models.Profile) *fakeProfileRepo {
	repo := &fakeProfileRepo{profiles: make(map[string]*models.Profile)}
	for _, profile := range profiles {
		repo.profiles[profile.ID] = profile
	}
	return repo
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	r.profiles[profile.ID] = profile
	return nil
}

func (r *fakeProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, utils.ErrProfileNotFound
	}
	return profile, nil
}

func (r *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	for _, profile := range r.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return nil, utils.ErrProfileNotFound
}

func (r *fakeProfileRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return nil
}

func (r *fakeProfileRepo) GetOfficersByStation(ctx context.Context, stationID string, params *utils.PaginationParams) ([]*models.Profile, int64, error) {
	return nil, 0, nil
}

func (r *fakeProfileRepo) GetAvailableOfficers(ctx context.Context, agencyType string) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, profile := range r.profiles {
		if profile.AgencyType == agencyType && profile.OfficerStatus == models.OfficerStatusAvailable {
			out = append(out, profile)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) SetOfficerStatus(ctx context.Context, id string, status models.OfficerStatus) error {
	if r.statusErr != nil {
		return r.statusErr
	}
	r.statusCalls = append(r.statusCalls, officerStatusCall{OfficerID: id, Status: status})
	if profile, ok := r.profiles[id]; ok {
		profile.OfficerStatus = status
	}
	return nil
}

type fakeHistoryRepo struct {
	entries   []*models.StatusHistory
	appendErr error
}

func (r *fakeHistoryRepo) Append(ctx context.Context, entry *models.StatusHistory) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeHistoryRepo) GetByIncident(ctx context.Context, incidentID string) ([]*models.StatusHistory, error) {
	var out []*models.StatusHistory
	for _, entry := range r.entries {
		if entry.IncidentID == incidentID {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeUpdateRepo struct {
	notes     []*models.IncidentUpdate
	appendErr error
}

func (r *fakeUpdateRepo) Append(ctx context.Context, update *models.IncidentUpdate) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.notes = append(r.notes, update)
	return nil
}

func (r *fakeUpdateRepo) GetByIncident(ctx context.Context, incidentID string) ([]*models.IncidentUpdate, error) {
	var out []*models.IncidentUpdate
	for _, note := range r.notes {
		if note.IncidentID == incidentID {
			out = append(out, note)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
	unreadCount   int64
	createErr     error
	countErr      error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	notification.ID = int64(len(r.notifications) + 1)
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	for _, notification := range r.notifications {
		if notification.ID == id {
			return notification, nil
		}
	}
	return nil, utils.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) GetByRecipient(ctx context.Context, recipientID string, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	var out []*models.Notification
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID {
			out = append(out, notification)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return r.unreadCount, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return r.GetUnreadCount(ctx, recipientID)
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id int64) error {
	for _, notification := range r.notifications {
		if notification.ID == id {
			notification.IsRead = true
			return nil
		}
	}
	return utils.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipientID string) error {
	for _, notification := range r.notifications {
		if notification.RecipientID == recipientID {
			notification.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type fakeUnitReportRepo struct {
	reports   map[string]*models.UnitReport
	upsertErr error
}

func newFakeUnitReportRepo() *fakeUnitReportRepo {
	return &fakeUnitReportRepo{reports: make(map[string]*models.UnitReport)}
}

func reportKey(incidentID, responderID string) string {
	return incidentID + "/" + responderID
}

func (r *fakeUnitReportRepo) Upsert(ctx context.Context, report *models.UnitReport) (*models.UnitReport, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	key := reportKey(report.IncidentID, report.ResponderID)
	if existing, ok := r.reports[key]; ok {
		existing.Title = report.Title
		existing.ActionsTaken = report.ActionsTaken
		existing.Notes = report.Notes
		return existing, nil
	}
	report.ID = key
	report.Status = models.ReportStatusSubmitted
	r.reports[key] = report
	return report, nil
}

func (r *fakeUnitReportRepo) GetByID(ctx context.Context, id string) (*models.UnitReport, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, utils.ErrReportNotFound
	}
	return report, nil
}

func (r *fakeUnitReportRepo) GetByIncident(ctx context.Context, incidentID string) ([]*models.UnitReport, error) {
	var out []*models.UnitReport
	for _, report := range r.reports {
		if report.IncidentID == incidentID {
			out = append(out, report)
		}
	}
	return out, nil
}

func (r *fakeUnitReportRepo) GetByIncidentAndResponder(ctx context.Context, incidentID, responderID string) (*models.UnitReport, error) {
	report, ok := r.reports[reportKey(incidentID, responderID)]
	if !ok {
		return nil, utils.ErrReportNotFound
	}
	return report, nil
}

func (r *fakeUnitReportRepo) GetByResponder(ctx context.Context, responderID string, params *utils.PaginationParams) ([]*models.UnitReport, int64, error) {
	var out []*models.UnitReport
	for _, report := range r.reports {
		if report.ResponderID == responderID {
			out = append(out, report)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUnitReportRepo) GetByResponderAndAgency(ctx context.Context, responderID, agencyType string, params *utils.PaginationParams) ([]*models.UnitReport, int64, error) {
	var out []*models.UnitReport
	for _, report := range r.reports {
		if report.ResponderID == responderID && report.AgencyType == agencyType {
			out = append(out, report)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUnitReportRepo) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	report, ok := r.reports[id]
	if !ok {
		return utils.ErrReportNotFound
	}
	report.Status = status
	return nil
}

func (r *fakeUnitReportRepo) Delete(ctx context.Context, id string) error {
	delete(r.reports, id)
	return nil
}

type fakeDraftRepo struct {
	drafts map[string]*models.FinalReportDraft
	getErr error
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[string]*models.FinalReportDraft)}
}

func (r *fakeDraftRepo) Upsert(ctx context.Context, draft *models.FinalReportDraft) (*models.FinalReportDraft, error) {
	if draft.Status == "" {
		draft.Status = models.DraftStatusDraft
	}
	if existing, ok := r.drafts[draft.IncidentID]; ok {
		existing.Title = draft.Title
		existing.Summary = draft.Summary
		existing.Outcome = draft.Outcome
		existing.Status = draft.Status
		existing.AuthorID = draft.AuthorID
		return existing, nil
	}
	r.drafts[draft.IncidentID] = draft
	return draft, nil
}

func (r *fakeDraftRepo) GetByIncident(ctx context.Context, incidentID string) (*models.FinalReportDraft, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	draft, ok := r.drafts[incidentID]
	if !ok {
		return nil, utils.ErrDraftNotFound
	}
	return draft, nil
}

func (r *fakeDraftRepo) MarkReadyForReview(ctx context.Context, incidentID string) (bool, error) {
	draft, ok := r.drafts[incidentID]
	if !ok {
		return false, nil
	}
	draft.Status = models.DraftStatusReadyForReview
	return true, nil
}

func (r *fakeDraftRepo) DeleteByIncident(ctx context.Context, incidentID string) error {
	delete(r.drafts, incidentID)
	return nil
}

type fakeFinalReportRepo struct {
	reports   map[string]*models.FinalReport
	upsertErr error
}

func newFakeFinalReportRepo() *fakeFinalReportRepo {
	return &fakeFinalReportRepo{reports: make(map[string]*models.FinalReport)}
}

func (r *fakeFinalReportRepo) Upsert(ctx context.Context, report *models.FinalReport) (*models.FinalReport, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	if existing, ok := r.reports[report.IncidentID]; ok {
		existing.Title = report.Title
		existing.Summary = report.Summary
		existing.Outcome = report.Outcome
		existing.CompletedByUserID = report.CompletedByUserID
		return existing, nil
	}
	r.reports[report.IncidentID] = report
	return report, nil
}

func (r *fakeFinalReportRepo) GetByIncident(ctx context.Context, incidentID string) (*models.FinalReport, error) {
	report, ok := r.reports[incidentID]
	if !ok {
		return nil, utils.ErrReportNotFound
	}
	return report, nil
}

func (r *fakeFinalReportRepo) GetByAgency(ctx context.Context, agencyType string, params *utils.PaginationParams) ([]*models.FinalReport, int64, error) {
	var out []*models.FinalReport
	for _, report := range r.reports {
		if report.AgencyType == agencyType {
			out = append(out, report)
		}
	}
	return out, int64(len(out)), nil
}
