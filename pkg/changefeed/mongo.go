package changefeed

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient implements Client over MongoDB change streams. Requires the
// deployment to be a replica set.
type MongoClient struct {
	db *mongo.Database
}

func NewMongoClient(db *mongo.Database) *MongoClient {
	return &MongoClient{db: db}
}

func (c *MongoClient) SubscribeInserts(ctx context.Context, collection string, filter map[string]interface{}) (InsertStream, error) {
	match := bson.M{"operationType": "insert"}
	for field, value := range filter {
		match["fullDocument."+field] = value
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
	}

	streamCtx, cancel := context.WithCancel(ctx)

	cs, err := c.db.Collection(collection).Watch(streamCtx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open change stream on %s: %w", collection, err)
	}

	s := &mongoStream{
		events: make(chan Event),
		cancel: cancel,
	}

	go s.pump(streamCtx, cs)

	return s, nil
}

type mongoStream struct {
	events    chan Event
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu  sync.Mutex
	err error
}

func (s *mongoStream) Events() <-chan Event {
	return s.events
}

func (s *mongoStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *mongoStream) Close() {
	s.closeOnce.Do(s.cancel)
}

func (s *mongoStream) pump(ctx context.Context, cs *mongo.ChangeStream) {
	defer close(s.events)
	defer cs.Close(context.Background())

	for cs.Next(ctx) {
		var change struct {
			FullDocument bson.M `bson:"fullDocument"`
		}
		if err := cs.Decode(&change); err != nil {
			// Skip the event, keep the stream alive.
			continue
		}

		select {
		case s.events <- Event(change.FullDocument):
		case <-ctx.Done():
			return
		}
	}

	if err := cs.Err(); err != nil && ctx.Err() == nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
}
