package mongodb

import (
	"context"
	"fmt"
	"time"

	"irespond/internal/models"
	"irespond/internal/repositories/interfaces"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type statusHistoryRepository struct {
	collection *mongo.Collection
}

func NewStatusHistoryRepository(db *mongo.Database) interfaces.StatusHistoryRepository {
	return &statusHistoryRepository{
		collection: db.Collection("incident_status_history"),
	}
}

func (r *statusHistoryRepository) Append(ctx context.Context, entry *models.StatusHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ChangedBy == "" {
		entry.ChangedBy = "system"
	}
	entry.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	return nil
}

func (r *statusHistoryRepository) GetByIncident(ctx context.Context, incidentID string) ([]*models.StatusHistory, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"incident_id": incidentID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find status history: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.StatusHistory
	for cursor.Next(ctx) {
		var entry models.StatusHistory
		if err := cursor.Decode(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode status history: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

type incidentUpdateRepository struct {
	collection *mongo.Collection
}

func NewIncidentUpdateRepository(db *mongo.Database) interfaces.IncidentUpdateRepository {
	return &incidentUpdateRepository{
		collection: db.Collection("incident_updates"),
	}
}

func (r *incidentUpdateRepository) Append(ctx context.Context, update *models.IncidentUpdate) error {
	if update.ID == "" {
		update.ID = uuid.NewString()
	}
	update.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to append incident update: %w", err)
	}

	return nil
}

func (r *incidentUpdateRepository) GetByIncident(ctx context.Context, incidentID string) ([]*models.IncidentUpdate, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"incident_id": incidentID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find incident updates: %w", err)
	}
	defer cursor.Close(ctx)

	var updates []*models.IncidentUpdate
	for cursor.Next(ctx) {
		var update models.IncidentUpdate
		if err := cursor.Decode(&update); err != nil {
			return nil, fmt.Errorf("failed to decode incident update: %w", err)
		}
		updates = append(updates, &update)
	}

	return updates, nil
}
