// Package changefeed exposes live insert events from the store as a stream
// of raw field maps. Consumers parse the maps defensively; a malformed event
// never terminates the stream.
package changefeed

import "context"

// Event is the inserted document as loosely typed fields.
type Event map[string]interface{}

// InsertStream is a live subscription to inserts on one collection.
type InsertStream interface {
	// Events yields inserted documents until the stream is closed. The
	// channel is closed when the subscription ends, whether by Close or by a
	// stream failure.
	Events() <-chan Event

	// Err reports why the stream ended, nil after a clean Close.
	Err() error

	// Close cancels the subscription immediately. Safe to call twice.
	Close()
}

// Client opens insert subscriptions. The filter matches equality on fields
// of the inserted document.
type Client interface {
	SubscribeInserts(ctx context.Context, collection string, filter map[string]interface{}) (InsertStream, error)
}

// String reads a string field, empty when absent or mistyped.
func (e Event) String(key string) string {
	if v, ok := e[key].(string); ok {
		return v
	}
	return ""
}

// Int64 reads a numeric field, 0 when absent or mistyped.
func (e Event) Int64(key string) int64 {
	switch v := e[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// Bool reads a boolean field, false when absent or mistyped.
func (e Event) Bool(key string) bool {
	if v, ok := e[key].(bool); ok {
		return v
	}
	return false
}
