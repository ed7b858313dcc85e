package utils

import "errors"

// Sentinel errors for missing records. Services and handlers match these
// with errors.Is to decide between a 404 and a 500.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidStatus    = errors.New("invalid incident status")

	ErrIncidentNotFound     = errors.New("incident not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrReportNotFound       = errors.New("report not found")
	ErrDraftNotFound        = errors.New("final report draft not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
