package services

import (
	"context"
	"errors"
	"testing"

	"irespond/internal/identity"
	"irespond/internal/models"
	"irespond/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportStack(t *testing.T, actor *identity.Identity) (ReportService, *fakeUnitReportRepo, *fakeDraftRepo, *fakeFinalReportRepo, *fakeUpdateRepo) {
	t.Helper()

	unitReportRepo := newFakeUnitReportRepo()
	draftRepo := newFakeDraftRepo()
	finalReportRepo := newFakeFinalReportRepo()
	updateRepo := &fakeUpdateRepo{}

	service := NewReportService(unitReportRepo, draftRepo, finalReportRepo, updateRepo, identity.StaticProvider{Identity: actor}, testLogger(t))
	return service, unitReportRepo, draftRepo, finalReportRepo, updateRepo
}

func TestCreateOrUpdateReportRequiresIdentity(t *testing.T) {
	service, _, _, _, _ := newReportStack(t, nil)

	_, err := service.CreateOrUpdateReport(context.Background(), &SubmitReportRequest{
		IncidentID: "incident-1",
		Title:      "Patrol report",
	})

	assert.ErrorIs(t, err, utils.ErrNotAuthenticated)
}

func TestCreateOrUpdateReportSettlesOnOneRowPerResponder(t *testing.T) {
	service, unitReportRepo, _, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1", Name: "Sam Okafor"})

	first, err := service.CreateOrUpdateReport(context.Background(), &SubmitReportRequest{
		IncidentID:   "incident-1",
		Title:        "Initial sweep",
		ActionsTaken: "Secured perimeter",
	})
	require.NoError(t, err)

	second, err := service.CreateOrUpdateReport(context.Background(), &SubmitReportRequest{
		IncidentID:   "incident-1",
		Title:        "Final sweep",
		ActionsTaken: "Handed over to medics",
	})
	require.NoError(t, err)

	assert.Len(t, unitReportRepo.reports, 1)
	assert.Equal(t, first.Report.ID, second.Report.ID)
	assert.Equal(t, "Final sweep", second.Report.Title)
	assert.Equal(t, "Handed over to medics", second.Report.ActionsTaken)
}

func TestCreateOrUpdateReportMirrorsFinalReport(t *testing.T) {
	service, _, _, finalReportRepo, updateRepo := newReportStack(t, &identity.Identity{ID: "officer-1", Name: "Sam Okafor"})

	result, err := service.CreateOrUpdateReport(context.Background(), &SubmitReportRequest{
		IncidentID:   "incident-1",
		AgencyType:   "police",
		Title:        "Closing report",
		ActionsTaken: "Suspect detained",
		Notes:        "No injuries",
	})

	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	final, ok := finalReportRepo.reports["incident-1"]
	require.True(t, ok)
	assert.Equal(t, "Closing report", final.Title)
	assert.Equal(t, "Suspect detained", final.Summary)
	assert.Equal(t, "No injuries", final.Outcome)
	assert.Equal(t, "officer-1", final.CompletedByUserID)

	require.Len(t, updateRepo.notes, 1)
	assert.Equal(t, "Report submitted: Closing report", updateRepo.notes[0].Note)
}

func TestCreateOrUpdateReportMirrorFailureIsAWarning(t *testing.T) {
	service, unitReportRepo, _, finalReportRepo, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})
	finalReportRepo.upsertErr = errors.New("final reports unavailable")

	result, err := service.CreateOrUpdateReport(context.Background(), &SubmitReportRequest{
		IncidentID: "incident-1",
		Title:      "Patrol report",
	})

	require.NoError(t, err)
	assert.Len(t, unitReportRepo.reports, 1)
	assert.Contains(t, result.Warnings, "final report not updated")
}

func TestCreateOrUpdateReportPrimaryFailureFailsTheCall(t *testing.T) {
	service, unitReportRepo, _, finalReportRepo, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})
	unitReportRepo.upsertErr = errors.New("unit reports unavailable")

	_, err := service.CreateOrUpdateReport(context.Background(), &SubmitReportRequest{
		IncidentID: "incident-1",
		Title:      "Patrol report",
	})

	require.Error(t, err)
	assert.Empty(t, finalReportRepo.reports)
}

func TestGetMyIncidentReportReturnsOwnReportOnly(t *testing.T) {
	service, unitReportRepo, _, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1", Name: "Sam Okafor"})

	_, err := service.CreateOrUpdateReport(context.Background(), &SubmitReportRequest{
		IncidentID:   "incident-1",
		Title:        "Perimeter check",
		ActionsTaken: "Secured perimeter",
	})
	require.NoError(t, err)

	unitReportRepo.reports[reportKey("incident-1", "officer-2")] = &models.UnitReport{
		ID:          reportKey("incident-1", "officer-2"),
		IncidentID:  "incident-1",
		ResponderID: "officer-2",
		Title:       "Medical assessment",
	}

	report, err := service.GetMyIncidentReport(context.Background(), "incident-1")

	require.NoError(t, err)
	assert.Equal(t, "officer-1", report.ResponderID)
	assert.Equal(t, "Perimeter check", report.Title)
}

func TestGetMyIncidentReportAbsentReturnsNotFound(t *testing.T) {
	service, _, _, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	_, err := service.GetMyIncidentReport(context.Background(), "incident-1")

	assert.ErrorIs(t, err, utils.ErrReportNotFound)
}

func TestGetMyIncidentReportRequiresIdentity(t *testing.T) {
	service, _, _, _, _ := newReportStack(t, nil)

	_, err := service.GetMyIncidentReport(context.Background(), "incident-1")

	assert.ErrorIs(t, err, utils.ErrNotAuthenticated)
}

func TestGetMyAgencyReportsFiltersByResponderAndAgency(t *testing.T) {
	service, unitReportRepo, _, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	unitReportRepo.reports[reportKey("incident-1", "officer-1")] = &models.UnitReport{
		IncidentID:  "incident-1",
		ResponderID: "officer-1",
		AgencyType:  "police",
		Title:       "Arrest report",
	}
	unitReportRepo.reports[reportKey("incident-2", "officer-1")] = &models.UnitReport{
		IncidentID:  "incident-2",
		ResponderID: "officer-1",
		AgencyType:  "fire",
		Title:       "Scene support",
	}
	unitReportRepo.reports[reportKey("incident-1", "officer-2")] = &models.UnitReport{
		IncidentID:  "incident-1",
		ResponderID: "officer-2",
		AgencyType:  "police",
		Title:       "Crowd control",
	}

	reports, total, err := service.GetMyAgencyReports(context.Background(), "Police", &utils.PaginationParams{Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reports, 1)
	assert.Equal(t, "Arrest report", reports[0].Title)
}

func TestGetMyAgencyReportsWithoutIdentityReturnsEmpty(t *testing.T) {
	service, _, _, _, _ := newReportStack(t, nil)

	reports, total, err := service.GetMyAgencyReports(context.Background(), "police", &utils.PaginationParams{Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Zero(t, total)
}

func TestGetDraftSwallowsStoreErrors(t *testing.T) {
	service, _, draftRepo, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})
	draftRepo.getErr = errors.New("drafts unavailable")

	draft, err := service.GetDraft(context.Background(), "incident-1")

	assert.NoError(t, err)
	assert.Nil(t, draft)
}

func TestGetDraftReturnsNilWhenAbsent(t *testing.T) {
	service, _, _, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	draft, err := service.GetDraft(context.Background(), "incident-1")

	assert.NoError(t, err)
	assert.Nil(t, draft)
}

func TestSaveDraftOverwritesTheSingletonRow(t *testing.T) {
	service, _, draftRepo, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	_, err := service.SaveDraft(context.Background(), &SaveDraftRequest{
		IncidentID: "incident-1",
		AgencyType: "Police",
		Title:      "First pass",
	})
	require.NoError(t, err)

	saved, err := service.SaveDraft(context.Background(), &SaveDraftRequest{
		IncidentID: "incident-1",
		AgencyType: "Police",
		Title:      "Second pass",
	})
	require.NoError(t, err)

	assert.Len(t, draftRepo.drafts, 1)
	assert.Equal(t, "Second pass", saved.Title)
	assert.Equal(t, "police", draftRepo.drafts["incident-1"].AgencyType)
}

func TestSaveDraftDefaultsToDraftStatus(t *testing.T) {
	service, _, draftRepo, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	saved, err := service.SaveDraft(context.Background(), &SaveDraftRequest{IncidentID: "incident-1", Title: "Draft"})

	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusDraft, saved.Status)
	assert.Equal(t, models.DraftStatusDraft, draftRepo.drafts["incident-1"].Status)
}

func TestSaveDraftKeepsRequestedStatus(t *testing.T) {
	service, _, draftRepo, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	_, err := service.SaveDraft(context.Background(), &SaveDraftRequest{IncidentID: "incident-1", Title: "Draft"})
	require.NoError(t, err)

	saved, err := service.SaveDraft(context.Background(), &SaveDraftRequest{
		IncidentID: "incident-1",
		Title:      "Reviewed draft",
		Status:     models.DraftStatusReadyForReview,
	})

	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusReadyForReview, saved.Status)
	assert.Equal(t, models.DraftStatusReadyForReview, draftRepo.drafts["incident-1"].Status)
}

func TestSaveDraftRejectsUnknownStatus(t *testing.T) {
	service, _, draftRepo, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	_, err := service.SaveDraft(context.Background(), &SaveDraftRequest{
		IncidentID: "incident-1",
		Title:      "Draft",
		Status:     "archived",
	})

	assert.ErrorIs(t, err, utils.ErrInvalidStatus)
	assert.Empty(t, draftRepo.drafts)
}

func TestPromoteDraftToFinalWithoutDraftReturnsFalse(t *testing.T) {
	service, _, _, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	promoted, err := service.PromoteDraftToFinal(context.Background(), "incident-1")

	require.NoError(t, err)
	assert.False(t, promoted)
}

func TestPromoteDraftToFinalFlipsStatus(t *testing.T) {
	service, _, draftRepo, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	_, err := service.SaveDraft(context.Background(), &SaveDraftRequest{IncidentID: "incident-1", Title: "Draft"})
	require.NoError(t, err)

	promoted, err := service.PromoteDraftToFinal(context.Background(), "incident-1")

	require.NoError(t, err)
	assert.True(t, promoted)
	assert.Equal(t, models.DraftStatusReadyForReview, draftRepo.drafts["incident-1"].Status)
}

func TestDeleteDraftIsANoOpWhenAbsent(t *testing.T) {
	service, _, _, _, _ := newReportStack(t, &identity.Identity{ID: "officer-1"})

	err := service.DeleteDraft(context.Background(), "incident-1")

	assert.NoError(t, err)
}

func TestGetMyReportsWithoutIdentityReturnsEmpty(t *testing.T) {
	service, _, _, _, _ := newReportStack(t, nil)

	reports, total, err := service.GetMyReports(context.Background(), &utils.PaginationParams{Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Empty(t, reports)
	assert.Zero(t, total)
}
