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

type profileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) interfaces.ProfileRepository {
	return &profileRepository{
		collection: db.Collection("profiles"),
	}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, profile)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}

	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.MatchedCount == 0 {
		return utils.ErrProfileNotFound
	}

	return nil
}

func (r *profileRepository) GetOfficersByStation(ctx context.Context, stationID string, params *utils.PaginationParams) ([]*models.Profile, int64, error) {
	filter := bson.M{
		"station_id": stationID,
		"role":       models.RoleOfficer,
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count officers: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find officers: %w", err)
	}
	defer cursor.Close(ctx)

	var officers []*models.Profile
	for cursor.Next(ctx) {
		var officer models.Profile
		if err := cursor.Decode(&officer); err != nil {
			return nil, 0, fmt.Errorf("failed to decode officer: %w", err)
		}
		officers = append(officers, &officer)
	}

	return officers, total, nil
}

func (r *profileRepository) GetAvailableOfficers(ctx context.Context, agencyType string) ([]*models.Profile, error) {
	filter := bson.M{
		"role":           models.RoleOfficer,
		"agency_type":    agencyType,
		"officer_status": bson.M{"$in": []models.OfficerStatus{models.OfficerStatusAvailable, models.OfficerStatusOnDuty}},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find available officers: %w", err)
	}
	defer cursor.Close(ctx)

	var officers []*models.Profile
	for cursor.Next(ctx) {
		var officer models.Profile
		if err := cursor.Decode(&officer); err != nil {
			return nil, fmt.Errorf("failed to decode officer: %w", err)
		}
		officers = append(officers, &officer)
	}

	return officers, nil
}

func (r *profileRepository) SetOfficerStatus(ctx context.Context, id string, status models.OfficerStatus) error {
	return r.Update(ctx, id, map[string]interface{}{"officer_status": status})
}

type stationRepository struct {
	collection *mongo.Collection
}

func NewStationRepository(db *mongo.Database) interfaces.StationRepository {
	return &stationRepository{
		collection: db.Collection("agency_stations"),
	}
}

func (r *stationRepository) Create(ctx context.Context, station *models.Station) error {
	if station.ID == "" {
		station.ID = uuid.NewString()
	}
	station.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, station)
	if err != nil {
		return fmt.Errorf("failed to create station: %w", err)
	}

	return nil
}

func (r *stationRepository) GetByID(ctx context.Context, id string) (*models.Station, error) {
	var station models.Station
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&station)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("station not found")
		}
		return nil, fmt.Errorf("failed to get station: %w", err)
	}

	return &station, nil
}

func (r *stationRepository) GetByAgency(ctx context.Context, agencyType string) ([]*models.Station, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"agency_type": agencyType})
	if err != nil {
		return nil, fmt.Errorf("failed to find stations: %w", err)
	}
	defer cursor.Close(ctx)

	var stations []*models.Station
	for cursor.Next(ctx) {
		var station models.Station
		if err := cursor.Decode(&station); err != nil {
			return nil, fmt.Errorf("failed to decode station: %w", err)
		}
		stations = append(stations, &station)
	}

	return stations, nil
}
