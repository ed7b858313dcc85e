package mongodb

import (
	"context"
	"fmt"
	"time"

	"irespond/internal/models"
	"irespond/internal/repositories/interfaces"
	"irespond/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type unitReportRepository struct {
	collection *mongo.Collection
}

func NewUnitReportRepository(db *mongo.Database) interfaces.UnitReportRepository {
	return &unitReportRepository{
		collection: db.Collection("unit_reports"),
	}
}

func (r *unitReportRepository) Upsert(ctx context.Context, report *models.UnitReport) (*models.UnitReport, error) {
	now := time.Now()
	filter := bson.M{
		"incident_id":  report.IncidentID,
		"responder_id": report.ResponderID,
	}
	update := bson.M{
		"$set": bson.M{
			"title":         report.Title,
			"actions_taken": report.ActionsTaken,
			"notes":         report.Notes,
			"station_id":    report.StationID,
			"agency_type":   report.AgencyType,
			"status":        models.ReportStatusSubmitted,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"_id":          uuid.NewString(),
			"incident_id":  report.IncidentID,
			"responder_id": report.ResponderID,
			"submitted_at": now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.UnitReport
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert unit report: %w", err)
	}

	return &saved, nil
}

func (r *unitReportRepository) GetByID(ctx context.Context, id string) (*models.UnitReport, error) {
	var report models.UnitReport
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get unit report: %w", err)
	}

	return &report, nil
}

func (r *unitReportRepository) GetByIncident(ctx context.Context, incidentID string) ([]*models.UnitReport, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"incident_id": incidentID},
		options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find unit reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*models.UnitReport
	for cursor.Next(ctx) {
		var report models.UnitReport
		if err := cursor.Decode(&report); err != nil {
			return nil, fmt.Errorf("failed to decode unit report: %w", err)
		}
		reports = append(reports, &report)
	}

	return reports, nil
}

func (r *unitReportRepository) GetByIncidentAndResponder(ctx context.Context, incidentID, responderID string) (*models.UnitReport, error) {
	var report models.UnitReport
	err := r.collection.FindOne(ctx, bson.M{
		"incident_id":  incidentID,
		"responder_id": responderID,
	}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get unit report: %w", err)
	}

	return &report, nil
}

func (r *unitReportRepository) GetByResponder(ctx context.Context, responderID string, params *utils.PaginationParams) ([]*models.UnitReport, int64, error) {
	return r.findByFilter(ctx, bson.M{"responder_id": responderID}, params)
}

func (r *unitReportRepository) GetByResponderAndAgency(ctx context.Context, responderID, agencyType string, params *utils.PaginationParams) ([]*models.UnitReport, int64, error) {
	return r.findByFilter(ctx, bson.M{
		"responder_id": responderID,
		"agency_type":  agencyType,
	}, params)
}

func (r *unitReportRepository) findByFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.UnitReport, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count unit reports: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find unit reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*models.UnitReport
	for cursor.Next(ctx) {
		var report models.UnitReport
		if err := cursor.Decode(&report); err != nil {
			return nil, 0, fmt.Errorf("failed to decode unit report: %w", err)
		}
		reports = append(reports, &report)
	}

	return reports, total, nil
}

func (r *unitReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update unit report status: %w", err)
	}

	if result.MatchedCount == 0 {
		return utils.ErrReportNotFound
	}

	return nil
}

func (r *unitReportRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete unit report: %w", err)
	}

	return nil
}

type finalReportDraftRepository struct {
	collection *mongo.Collection
}

func NewFinalReportDraftRepository(db *mongo.Database) interfaces.FinalReportDraftRepository {
	return &finalReportDraftRepository{
		collection: db.Collection("final_report_drafts"),
	}
}

func (r *finalReportDraftRepository) Upsert(ctx context.Context, draft *models.FinalReportDraft) (*models.FinalReportDraft, error) {
	now := time.Now()
	status := draft.Status
	if status == "" {
		status = models.DraftStatusDraft
	}
	filter := bson.M{"incident_id": draft.IncidentID}
	update := bson.M{
		"$set": bson.M{
			"title":       draft.Title,
			"summary":     draft.Summary,
			"outcome":     draft.Outcome,
			"agency_type": draft.AgencyType,
			"status":      status,
			"author_id":   draft.AuthorID,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"_id":         uuid.NewString(),
			"incident_id": draft.IncidentID,
			"created_at":  now,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.FinalReportDraft
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert final report draft: %w", err)
	}

	return &saved, nil
}

func (r *finalReportDraftRepository) GetByIncident(ctx context.Context, incidentID string) (*models.FinalReportDraft, error) {
	var draft models.FinalReportDraft
	err := r.collection.FindOne(ctx, bson.M{"incident_id": incidentID}).Decode(&draft)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get final report draft: %w", err)
	}

	return &draft, nil
}

func (r *finalReportDraftRepository) MarkReadyForReview(ctx context.Context, incidentID string) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"incident_id": incidentID},
		bson.M{"$set": bson.M{"status": models.DraftStatusReadyForReview, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark draft ready for review: %w", err)
	}

	return result.MatchedCount > 0, nil
}

func (r *finalReportDraftRepository) DeleteByIncident(ctx context.Context, incidentID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"incident_id": incidentID})
	if err != nil {
		return fmt.Errorf("failed to delete final report draft: %w", err)
	}

	return nil
}

type finalReportRepository struct {
	collection *mongo.Collection
}

func NewFinalReportRepository(db *mongo.Database) interfaces.FinalReportRepository {
	return &finalReportRepository{
		collection: db.Collection("final_reports"),
	}
}

func (r *finalReportRepository) Upsert(ctx context.Context, report *models.FinalReport) (*models.FinalReport, error) {
	now := time.Now()
	filter := bson.M{"incident_id": report.IncidentID}
	update := bson.M{
		"$set": bson.M{
			"title":                report.Title,
			"summary":              report.Summary,
			"outcome":              report.Outcome,
			"agency_type":          report.AgencyType,
			"completed_by_user_id": report.CompletedByUserID,
			"completed_at":         now,
			"updated_at":           now,
		},
		"$setOnInsert": bson.M{
			"_id":         uuid.NewString(),
			"incident_id": report.IncidentID,
		},
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved models.FinalReport
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert final report: %w", err)
	}

	return &saved, nil
}

func (r *finalReportRepository) GetByIncident(ctx context.Context, incidentID string) (*models.FinalReport, error) {
	var report models.FinalReport
	err := r.collection.FindOne(ctx, bson.M{"incident_id": incidentID}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to get final report: %w", err)
	}

	return &report, nil
}

func (r *finalReportRepository) GetByAgency(ctx context.Context, agencyType string, params *utils.PaginationParams) ([]*models.FinalReport, int64, error) {
	filter := bson.M{"agency_type": agencyType}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count final reports: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find final reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*models.FinalReport
	for cursor.Next(ctx) {
		var report models.FinalReport
		if err := cursor.Decode(&report); err != nil {
			return nil, 0, fmt.Errorf("failed to decode final report: %w", err)
		}
		reports = append(reports, &report)
	}

	return reports, total, nil
}
