package interfaces

import (
	"context"

	"irespond/internal/models"
	"irespond/internal/utils"
)

type NotificationRepository interface {
	// Create assigns the numeric id from the store-side counter.
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)

	// Recipient inbox
	GetByRecipient(ctx context.Context, recipientID string, params *utils.PaginationParams) ([]*models.Notification, int64, error)

	// GetUnreadCount may serve a cached count. CountUnread always reads the
	// store, refreshing the cache on the way out; realtime dispatch uses it
	// so the pushed count matches the store even for inserts that never
	// passed through Create.
	GetUnreadCount(ctx context.Context, recipientID string) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)

	// Status operations
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, id int64) error
}
