package utils

import "time"

// Application Constants
const (
	AppName    = "iRespond"
	AppVersion = "1.0.0"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour

	// File Upload
	MaxImageSize = 5 * 1024 * 1024   // 5MB
	MaxVideoSize = 100 * 1024 * 1024 // 100MB

	// Notification
	NotificationRetryAttempts = 3
	NotificationTimeout       = 30 * time.Second
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFailed  = "failed"
)

// Error Messages
const (
	ErrInvalidCredentials = "invalid credentials"
	ErrInvalidToken       = "invalid token"
	ErrTokenExpired       = "token expired"
	ErrInvalidInput       = "invalid input"
	ErrInternalServer     = "internal server error"
	ErrUnauthorized       = "unauthorized"
	ErrForbidden          = "forbidden"
	ErrNotFound           = "not found"
	ErrValidationFailed   = "validation failed"
	ErrFileUploadFailed   = "file upload failed"
)

// Cache Keys
const (
	CacheProfilePrefix     = "profile:"
	CacheIncidentPrefix    = "incident:"
	CacheUnreadCountPrefix = "unread_count:"
	CacheRateLimitPrefix   = "rate_limit:"
	CacheSessionPrefix     = "session:"
)

// Agency Types
const (
	AgencyPolice = "police"
	AgencyFire   = "fire"
	AgencyMedic  = "medic"
)

// Incident Media
const (
	IncidentMediaBucket = "incident-media"
)

// File Types
var (
	AllowedImageTypes = []string{"jpg", "jpeg", "png", "gif", "webp"}
	AllowedVideoTypes = []string{"mp4", "avi", "mov", "wmv"}
)
