package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
	Down        func(*mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
}

func NewMigrator(db *mongo.Database) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
	}
}

func (m *Migrator) Up() error {
	// Create migrations collection if it doesn't exist
	err := m.createMigrationsCollection()
	if err != nil {
		return err
	}

	// Get current version
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	// Run migrations
	for _, migration := range m.migrations {
		if migration.Version > currentVersion {
			log.Printf("Running migration %d: %s", migration.Version, migration.Description)

			err := migration.Up(m.db)
			if err != nil {
				return fmt.Errorf("migration %d failed: %w", migration.Version, err)
			}

			err = m.updateVersion(migration.Version)
			if err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}

			log.Printf("Migration %d completed successfully", migration.Version)
		}
	}

	return nil
}

func (m *Migrator) Down(targetVersion int) error {
	currentVersion, err := m.getCurrentVersion()
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version <= currentVersion && migration.Version > targetVersion {
			log.Printf("Reverting migration %d: %s", migration.Version, migration.Description)

			err := migration.Down(m.db)
			if err != nil {
				return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
			}

			previousVersion := targetVersion
			if i > 0 {
				previousVersion = m.migrations[i-1].Version
			}

			err = m.updateVersion(previousVersion)
			if err != nil {
				return fmt.Errorf("failed to update migration version: %w", err)
			}

			log.Printf("Migration %d reverted successfully", migration.Version)
		}
	}

	return nil
}

func (m *Migrator) createMigrationsCollection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collections, err := m.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return err
	}

	for _, name := range collections {
		if name == "migrations" {
			return nil
		}
	}

	return m.db.CreateCollection(ctx, "migrations")
}

func (m *Migrator) getCurrentVersion() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection("migrations").FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(version int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := m.db.Collection("migrations").ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)

	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create profiles collection with indexes",
			Up: func(db *mongo.Database) error {
				return createProfilesIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("profiles").Drop(context.Background())
			},
		},
		{
			Version:     2,
			Description: "Create incidents collection with indexes",
			Up: func(db *mongo.Database) error {
				return createIncidentsIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("incidents").Drop(context.Background())
			},
		},
		{
			Version:     3,
			Description: "Create report collections with unique per-key indexes",
			Up: func(db *mongo.Database) error {
				return createReportIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				if err := db.Collection("unit_reports").Drop(context.Background()); err != nil {
					return err
				}
				if err := db.Collection("final_report_drafts").Drop(context.Background()); err != nil {
					return err
				}
				return db.Collection("final_reports").Drop(context.Background())
			},
		},
		{
			Version:     4,
			Description: "Create incident history collections with indexes",
			Up: func(db *mongo.Database) error {
				return createHistoryIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				if err := db.Collection("incident_status_history").Drop(context.Background()); err != nil {
					return err
				}
				return db.Collection("incident_updates").Drop(context.Background())
			},
		},
		{
			Version:     5,
			Description: "Create notifications collection with indexes",
			Up: func(db *mongo.Database) error {
				return createNotificationsIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("notifications").Drop(context.Background())
			},
		},
		{
			Version:     6,
			Description: "Create agency stations collection with indexes",
			Up: func(db *mongo.Database) error {
				return createStationsIndexes(db)
			},
			Down: func(db *mongo.Database) error {
				return db.Collection("agency_stations").Drop(context.Background())
			},
		},
	}
}

func createProfilesIndexes(db *mongo.Database) error {
	ctx := context.Background()
	collection := db.Collection("profiles")

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "agency_type", Value: 1}, {Key: "officer_status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "station_id", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createIncidentsIndexes(db *mongo.Database) error {
	ctx := context.Background()
	collection := db.Collection("incidents")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "agency_type", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "reporter_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "assigned_officer_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "assigned_officer_ids", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// The unique indexes here back the atomic upserts in the report workflow:
// one unit report per (incident, responder), one draft and one final report
// per incident.
func createReportIndexes(db *mongo.Database) error {
	ctx := context.Background()

	_, err := db.Collection("unit_reports").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "incident_id", Value: 1}, {Key: "responder_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "responder_id", Value: 1}, {Key: "submitted_at", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("final_report_drafts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "incident_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("final_reports").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "incident_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "agency_type", Value: 1}, {Key: "completed_at", Value: -1}},
		},
	})
	return err
}

func createHistoryIndexes(db *mongo.Database) error {
	ctx := context.Background()

	_, err := db.Collection("incident_status_history").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "incident_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("incident_updates").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "incident_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func createNotificationsIndexes(db *mongo.Database) error {
	ctx := context.Background()
	collection := db.Collection("notifications")

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "is_read", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createStationsIndexes(db *mongo.Database) error {
	ctx := context.Background()

	_, err := db.Collection("agency_stations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "agency_type", Value: 1}},
	})
	return err
}
