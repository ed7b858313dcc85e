package mongodb

import (
	"context"
	"fmt"
	"time"

	"irespond/internal/models"
	"irespond/internal/repositories/interfaces"
	"irespond/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const unreadCountTTL = 5 * time.Minute

type notificationRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	cache      CacheService
}

func NewNotificationRepository(db *mongo.Database, cache CacheService) interfaces.NotificationRepository {
	return &notificationRepository{
		collection: db.Collection("notifications"),
		counters:   db.Collection("counters"),
		cache:      cache,
	}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	notification.ID = id
	notification.IsRead = false
	notification.CreatedAt = time.Now()

	_, err = r.collection.InsertOne(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, notification.RecipientID)

	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	var notification models.Notification
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &notification, nil
}

func (r *notificationRepository) GetByRecipient(ctx context.Context, recipientID string, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	filter := bson.M{"recipient_id": recipientID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []*models.Notification
	for cursor.Next(ctx) {
		var notification models.Notification
		if err := cursor.Decode(&notification); err != nil {
			return nil, 0, fmt.Errorf("failed to decode notification: %w", err)
		}
		notifications = append(notifications, &notification)
	}

	return notifications, total, nil
}

func (r *notificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if r.cache != nil {
		var count int64
		if err := r.cache.Get(ctx, fmt.Sprintf("unread_count:%s", recipientID), &count); err == nil {
			return count, nil
		}
	}

	return r.CountUnread(ctx, recipientID)
}

// CountUnread bypasses the cache. Notifications can be inserted by other
// writers and observed via the change feed, so the cached value may lag the
// store until its TTL.
func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"recipient_id": recipientID,
		"is_read":      false,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, fmt.Sprintf("unread_count:%s", recipientID), count, unreadCountTTL)
	}

	return count, nil
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id int64) error {
	var updated models.Notification
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_read": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return utils.ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, updated.RecipientID)

	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"recipient_id": recipientID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, recipientID)

	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id int64) error {
	notification, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	r.invalidateUnreadCountCache(ctx, notification.RecipientID)

	return nil
}

// nextID allocates the next numeric notification id from the counters
// collection.
func (r *notificationRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": "notifications"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate notification id: %w", err)
	}

	return counter.Seq, nil
}

func (r *notificationRepository) invalidateUnreadCountCache(ctx context.Context, recipientID string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, fmt.Sprintf("unread_count:%s", recipientID))
}
