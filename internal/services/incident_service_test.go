package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"irespond/internal/identity"
	"irespond/internal/models"
	"irespond/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIncidentStack(t *testing.T, actor *identity.Identity, incidents ...*models.Incident) (IncidentService, *fakeIncidentRepo, *fakeProfileRepo, *fakeHistoryRepo, *fakeUpdateRepo, *fakeNotificationRepo) {
	t.Helper()

	incidentRepo := newFakeIncidentRepo(incidents...)
	profileRepo := newFakeProfileRepo()
	historyRepo := &fakeHistoryRepo{}
	updateRepo := &fakeUpdateRepo{}
	notificationRepo := &fakeNotificationRepo{}

	log := testLogger(t)
	provider := identity.StaticProvider{Identity: actor}
	notifier := NewNotificationService(notificationRepo, provider, log)

	service := NewIncidentService(incidentRepo, profileRepo, historyRepo, updateRepo, notifier, provider, log)
	return service, incidentRepo, profileRepo, historyRepo, updateRepo, notificationRepo
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	service, incidentRepo, _, _, _, _ := newIncidentStack(t, &identity.Identity{ID: "officer-1"})

	_, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatus("teleported"))

	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrInvalidStatus)
	assert.Empty(t, incidentRepo.updates)
}

func TestChangeStatusRecordsHistoryNote(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusAssigned, ReporterID: "citizen-1"}
	service, _, _, historyRepo, _, _ := newIncidentStack(t, &identity.Identity{ID: "officer-1"}, incident)

	result, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusInProgress)

	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	require.Len(t, historyRepo.entries, 1)
	assert.Equal(t, "Status updated to in_progress", historyRepo.entries[0].Notes)
	assert.Equal(t, "officer-1", historyRepo.entries[0].ChangedBy)
}

func TestChangeStatusFallsBackToSystemActor(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusAssigned}
	service, _, _, historyRepo, _, _ := newIncidentStack(t, nil, incident)

	_, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusResolved)

	require.NoError(t, err)
	require.Len(t, historyRepo.entries, 1)
	assert.Equal(t, "system", historyRepo.entries[0].ChangedBy)
}

func TestChangeStatusStampsResolvedAtOnEveryTerminalTransition(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusInProgress}
	service, incidentRepo, _, _, _, _ := newIncidentStack(t, &identity.Identity{ID: "officer-1"}, incident)

	_, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusResolved)
	require.NoError(t, err)
	_, err = service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusResolved)
	require.NoError(t, err)

	require.Len(t, incidentRepo.updates, 2)
	first, ok := incidentRepo.updates[0]["resolved_at"].(time.Time)
	require.True(t, ok)
	second, ok := incidentRepo.updates[1]["resolved_at"].(time.Time)
	require.True(t, ok)
	assert.False(t, second.Before(first))
}

func TestChangeStatusStampsFirstResponseAtOnEveryResponseTransition(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusAssigned}
	service, incidentRepo, _, _, _, _ := newIncidentStack(t, &identity.Identity{ID: "officer-1"}, incident)

	_, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusInProgress)
	require.NoError(t, err)
	_, err = service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusResponding)
	require.NoError(t, err)

	require.Len(t, incidentRepo.updates, 2)
	_, ok := incidentRepo.updates[0]["first_response_at"]
	assert.True(t, ok)
	_, ok = incidentRepo.updates[1]["first_response_at"]
	assert.True(t, ok)
}

func TestChangeStatusSyncsOfficerAvailability(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusAssigned, AssignedOfficerID: "officer-9"}
	service, _, profileRepo, _, _, _ := newIncidentStack(t, &identity.Identity{ID: "officer-9"}, incident)

	_, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusInProgress)
	require.NoError(t, err)
	_, err = service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusResolved)
	require.NoError(t, err)

	require.Len(t, profileRepo.statusCalls, 2)
	assert.Equal(t, officerStatusCall{OfficerID: "officer-9", Status: models.OfficerStatusBusy}, profileRepo.statusCalls[0])
	assert.Equal(t, officerStatusCall{OfficerID: "officer-9", Status: models.OfficerStatusAvailable}, profileRepo.statusCalls[1])
}

func TestChangeStatusSkipsAvailabilitySyncWithoutAssignee(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusPending}
	service, _, profileRepo, _, _, _ := newIncidentStack(t, &identity.Identity{ID: "officer-1"}, incident)

	_, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusInProgress)

	require.NoError(t, err)
	assert.Empty(t, profileRepo.statusCalls)
}

func TestChangeStatusPrimaryFailureFailsTheCall(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusAssigned}
	service, incidentRepo, _, historyRepo, _, _ := newIncidentStack(t, &identity.Identity{ID: "officer-1"}, incident)
	incidentRepo.updateErr = errors.New("connection reset")

	_, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusResolved)

	require.Error(t, err)
	assert.Empty(t, historyRepo.entries)
}

func TestChangeStatusSecondaryFailuresBecomeWarnings(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusAssigned, AssignedOfficerID: "officer-9"}
	service, _, profileRepo, historyRepo, _, _ := newIncidentStack(t, &identity.Identity{ID: "officer-1"}, incident)
	historyRepo.appendErr = errors.New("history collection unavailable")
	profileRepo.statusErr = errors.New("profiles collection unavailable")

	result, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusInProgress)

	require.NoError(t, err)
	require.NotNil(t, result.Incident)
	assert.Equal(t, models.IncidentStatusInProgress, result.Incident.Status)
	assert.Contains(t, result.Warnings, "status history not recorded")
	assert.Contains(t, result.Warnings, "officer availability not updated")
}

func TestChangeStatusNotifiesReporter(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusAssigned, ReporterID: "citizen-1"}
	service, _, _, _, _, notificationRepo := newIncidentStack(t, &identity.Identity{ID: "officer-1"}, incident)

	_, err := service.ChangeStatus(context.Background(), "incident-1", models.IncidentStatusResolved)

	require.NoError(t, err)
	require.Len(t, notificationRepo.notifications, 1)
	assert.Equal(t, "citizen-1", notificationRepo.notifications[0].RecipientID)
	assert.Equal(t, "incident-1", notificationRepo.notifications[0].IncidentID)
}

func TestAssignIncidentSetsAssignmentAndMarksOfficerBusy(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusPending}
	service, _, profileRepo, historyRepo, updateRepo, notificationRepo := newIncidentStack(t, &identity.Identity{ID: "dispatcher-1"}, incident)

	result, err := service.AssignIncident(context.Background(), "incident-1", "officer-9", "Jordan Reyes")

	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	require.NotNil(t, result.Incident)
	assert.Equal(t, models.IncidentStatusAssigned, result.Incident.Status)
	assert.Equal(t, "officer-9", result.Incident.AssignedOfficerID)
	assert.Equal(t, "Jordan Reyes", result.Incident.AssignedOfficerName)

	require.Len(t, historyRepo.entries, 1)
	assert.Equal(t, "Assigned to officer: Jordan Reyes", historyRepo.entries[0].Notes)

	require.Len(t, updateRepo.notes, 1)
	assert.Equal(t, "Incident assigned to Jordan Reyes", updateRepo.notes[0].Note)

	require.Len(t, profileRepo.statusCalls, 1)
	assert.Equal(t, officerStatusCall{OfficerID: "officer-9", Status: models.OfficerStatusBusy}, profileRepo.statusCalls[0])

	require.Len(t, notificationRepo.notifications, 1)
	assert.Equal(t, "officer-9", notificationRepo.notifications[0].RecipientID)
	assert.Equal(t, "Incident Assigned", notificationRepo.notifications[0].Title)
}

func TestAssignIncidentCollectsAllSecondaryWarnings(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusPending}
	service, _, profileRepo, historyRepo, updateRepo, _ := newIncidentStack(t, &identity.Identity{ID: "dispatcher-1"}, incident)
	historyRepo.appendErr = errors.New("down")
	updateRepo.appendErr = errors.New("down")
	profileRepo.statusErr = errors.New("down")

	result, err := service.AssignIncident(context.Background(), "incident-1", "officer-9", "Jordan Reyes")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"status history not recorded",
		"timeline note not recorded",
		"officer availability not updated",
	}, result.Warnings)
}

func TestCreateIncidentRequiresIdentity(t *testing.T) {
	service, _, _, _, _, _ := newIncidentStack(t, nil)

	_, err := service.CreateIncident(context.Background(), &CreateIncidentRequest{AgencyType: "police"})

	assert.ErrorIs(t, err, utils.ErrNotAuthenticated)
}

func TestGetAssignedIncidentsWithoutIdentityReturnsEmpty(t *testing.T) {
	service, _, _, _, _, _ := newIncidentStack(t, nil)

	incidents, total, err := service.GetAssignedIncidents(context.Background(), nil, &utils.PaginationParams{Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Empty(t, incidents)
	assert.Zero(t, total)
}

func TestAddIncidentUpdateRecordsAuthor(t *testing.T) {
	incident := &models.Incident{ID: "incident-1", Status: models.IncidentStatusAssigned}
	service, _, _, _, updateRepo, _ := newIncidentStack(t, &identity.Identity{ID: "officer-1", Name: "Sam Okafor"}, incident)

	update, err := service.AddIncidentUpdate(context.Background(), "incident-1", "On scene, assessing")

	require.NoError(t, err)
	assert.Equal(t, "officer-1", update.AuthorID)
	assert.Equal(t, "Sam Okafor", update.AuthorName)
	require.Len(t, updateRepo.notes, 1)
}
