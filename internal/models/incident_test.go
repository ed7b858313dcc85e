package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncidentStatusIsValid(t *testing.T) {
	for _, status := range []IncidentStatus{
		IncidentStatusPending,
		IncidentStatusAssigned,
		IncidentStatusInProgress,
		IncidentStatusResponding,
		IncidentStatusResolved,
		IncidentStatusClosed,
		IncidentStatusRejected,
	} {
		assert.True(t, status.IsValid(), "expected %s to be valid", status)
	}

	assert.False(t, IncidentStatus("escalated").IsValid())
	assert.False(t, IncidentStatus("").IsValid())
}

func TestIncidentStatusIsResponse(t *testing.T) {
	assert.True(t, IncidentStatusInProgress.IsResponse())
	assert.True(t, IncidentStatusResponding.IsResponse())
	assert.False(t, IncidentStatusAssigned.IsResponse())
	assert.False(t, IncidentStatusResolved.IsResponse())
}

func TestIncidentStatusIsTerminal(t *testing.T) {
	assert.True(t, IncidentStatusResolved.IsTerminal())
	assert.True(t, IncidentStatusClosed.IsTerminal())
	assert.False(t, IncidentStatusRejected.IsTerminal())
	assert.False(t, IncidentStatusInProgress.IsTerminal())
}
