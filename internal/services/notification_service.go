package services

import (
	"context"

	"irespond/internal/identity"
	"irespond/internal/models"
	"irespond/internal/repositories/interfaces"
	"irespond/internal/utils"
	"irespond/pkg/logger"
)

type NotificationService interface {
	// Notify writes an inbox row for the recipient. The change feed picks up
	// the insert and fans it out to live subscribers.
	Notify(ctx context.Context, recipientID, incidentID, title, body string) (*models.Notification, error)

	GetMyNotifications(ctx context.Context, params *utils.PaginationParams) ([]*models.Notification, int64, error)
	GetUnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context) error
}

type notificationService struct {
	notificationRepo interfaces.NotificationRepository
	identity         identity.Provider
	logger           *logger.Logger
}

func NewNotificationService(
	notificationRepo interfaces.NotificationRepository,
	identityProvider identity.Provider,
	logger *logger.Logger,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		identity:         identityProvider,
		logger:           logger,
	}
}

func (s *notificationService) Notify(ctx context.Context, recipientID, incidentID, title, body string) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientID: recipientID,
		IncidentID:  incidentID,
		Title:       title,
		Body:        body,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.WithError(err).WithField("recipient_id", recipientID).Error("Failed to create notification")
		return nil, err
	}

	return notification, nil
}

func (s *notificationService) GetMyNotifications(ctx context.Context, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return nil, 0, nil
	}
	return s.notificationRepo.GetByRecipient(ctx, actor.ID, params)
}

func (s *notificationService) GetUnreadCount(ctx context.Context) (int64, error) {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return 0, nil
	}
	return s.notificationRepo.GetUnreadCount(ctx, actor.ID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id int64) error {
	return s.notificationRepo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context) error {
	actor, ok := s.identity.Current(ctx)
	if !ok {
		return utils.ErrNotAuthenticated
	}
	return s.notificationRepo.MarkAllAsRead(ctx, actor.ID)
}
