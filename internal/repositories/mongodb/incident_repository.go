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
)

type incidentRepository struct {
	collection *mongo.Collection
}

func NewIncidentRepository(db *mongo.Database) interfaces.IncidentRepository {
	return &incidentRepository{
		collection: db.Collection("incidents"),
	}
}

func (r *incidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
	if incident.Status == "" {
		incident.Status = models.IncidentStatusPending
	}
	incident.CreatedAt = time.Now()
	incident.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, incident)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}

	return nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	var incident models.Incident
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&incident)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrIncidentNotFound
		}
		return nil, fmt.Errorf("failed to get incident: %w", err)
	}

	return &incident, nil
}

func (r *incidentRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	if result.MatchedCount == 0 {
		return utils.ErrIncidentNotFound
	}

	return nil
}

func (r *incidentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}

	return nil
}

func (r *incidentRepository) GetByAgency(ctx context.Context, agencyType string, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	filter := bson.M{"agency_type": agencyType}
	if len(statuses) > 0 {
		filter["status"] = bson.M{"$in": statuses}
	}

	return r.findIncidentsWithFilter(ctx, filter, params)
}

func (r *incidentRepository) GetByReporter(ctx context.Context, reporterID string, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	filter := bson.M{"reporter_id": reporterID}
	return r.findIncidentsWithFilter(ctx, filter, params)
}

func (r *incidentRepository) GetAssigned(ctx context.Context, officerID string, statuses []models.IncidentStatus, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	if len(statuses) == 0 {
		statuses = []models.IncidentStatus{models.IncidentStatusAssigned, models.IncidentStatusInProgress}
	}

	// Matches both the primary assignee field and the multi-unit array.
	filter := bson.M{
		"status": bson.M{"$in": statuses},
		"$or": []bson.M{
			{"assigned_officer_id": officerID},
			{"assigned_officer_ids": officerID},
		},
	}

	return r.findIncidentsWithFilter(ctx, filter, params)
}

func (r *incidentRepository) CountByStatus(ctx context.Context, agencyType string) (map[models.IncidentStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"agency_type": agencyType}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count incidents by status: %w", err)
	}
	defer cursor.Close(ctx)

	counts := make(map[models.IncidentStatus]int64)
	for cursor.Next(ctx) {
		var row struct {
			Status models.IncidentStatus `bson:"_id"`
			Count  int64                 `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode status count: %w", err)
		}
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func (r *incidentRepository) findIncidentsWithFilter(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Incident, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count incidents: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find incidents: %w", err)
	}
	defer cursor.Close(ctx)

	var incidents []*models.Incident
	for cursor.Next(ctx) {
		var incident models.Incident
		if err := cursor.Decode(&incident); err != nil {
			return nil, 0, fmt.Errorf("failed to decode incident: %w", err)
		}
		incidents = append(incidents, &incident)
	}

	return incidents, total, nil
}
