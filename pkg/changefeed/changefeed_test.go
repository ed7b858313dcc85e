package changefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventStringDefaultsOnMismatch(t *testing.T) {
	event := Event{
		"title": "Incident Assigned",
		"body":  42,
	}

	assert.Equal(t, "Incident Assigned", event.String("title"))
	assert.Equal(t, "", event.String("body"))
	assert.Equal(t, "", event.String("missing"))
}

func TestEventInt64AcceptsNumericWireTypes(t *testing.T) {
	event := Event{
		"a": int64(5),
		"b": int32(6),
		"c": 7,
		"d": float64(8),
		"e": "9",
	}

	assert.Equal(t, int64(5), event.Int64("a"))
	assert.Equal(t, int64(6), event.Int64("b"))
	assert.Equal(t, int64(7), event.Int64("c"))
	assert.Equal(t, int64(8), event.Int64("d"))
	assert.Equal(t, int64(0), event.Int64("e"))
	assert.Equal(t, int64(0), event.Int64("missing"))
}

func TestEventBoolDefaultsToFalse(t *testing.T) {
	event := Event{
		"read":   true,
		"closed": "true",
	}

	assert.True(t, event.Bool("read"))
	assert.False(t, event.Bool("closed"))
	assert.False(t, event.Bool("missing"))
}
