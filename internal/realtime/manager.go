// Package realtime maintains one live notification subscription per signed-in
// user and fans incoming events out to registered listeners.
package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"irespond/internal/identity"
	"irespond/internal/models"
	"irespond/internal/repositories/interfaces"
	"irespond/pkg/changefeed"
	"irespond/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Listener receives notification events. Both callbacks run on the manager's
// single delivery goroutine: a listener never observes two events
// concurrently, and for each event OnNewNotification always precedes
// OnUnreadCountChanged.
type Listener interface {
	OnNewNotification(notification *models.Notification)
	OnUnreadCountChanged(count int64)
}

const (
	stateStopped int32 = iota
	stateStarting
	stateSubscribed
)

const notificationsCollection = "notifications"

// Manager owns at most one background streaming task. Start and Stop are
// safe to call from any goroutine; the state token is advanced with
// compare-and-swap so concurrent Start calls cannot open two subscriptions.
type Manager struct {
	feed             changefeed.Client
	notificationRepo interfaces.NotificationRepository
	identity         identity.Provider
	logger           *logger.Logger

	state atomic.Int32

	mu        sync.Mutex
	listeners []Listener
	stream    changefeed.InsertStream
	userID    string

	queue     chan func()
	closeOnce sync.Once
	closed    chan struct{}
}

func NewManager(
	feed changefeed.Client,
	notificationRepo interfaces.NotificationRepository,
	identityProvider identity.Provider,
	logger *logger.Logger,
) *Manager {
	m := &Manager{
		feed:             feed,
		notificationRepo: notificationRepo,
		identity:         identityProvider,
		logger:           logger,
		queue:            make(chan func(), 64),
		closed:           make(chan struct{}),
	}

	go m.dispatchLoop()

	return m
}

// Start opens the subscription for the current identity. Already running is
// a no-op. With no identity it logs and returns nil, leaving the manager
// stopped. A subscription failure also leaves the manager stopped so the
// caller can retry.
func (m *Manager) Start(ctx context.Context) error {
	if !m.state.CompareAndSwap(stateStopped, stateStarting) {
		return nil
	}

	actor, ok := m.identity.Current(ctx)
	if !ok {
		m.logger.Debug("Realtime start skipped, no identity")
		m.state.Store(stateStopped)
		return nil
	}

	stream, err := m.feed.SubscribeInserts(ctx, notificationsCollection, map[string]interface{}{
		"recipient_id": actor.ID,
	})
	if err != nil {
		m.logger.WithError(err).WithField("user_id", actor.ID).Error("Failed to subscribe to notifications")
		m.state.Store(stateStopped)
		return err
	}

	m.mu.Lock()
	m.stream = stream
	m.userID = actor.ID
	m.mu.Unlock()

	m.state.Store(stateSubscribed)
	m.logger.WithField("user_id", actor.ID).Info("Realtime subscription established")

	go m.receiveLoop(stream, actor.ID)

	return nil
}

// Stop cancels the subscription immediately. An event already handed to the
// delivery goroutine may still complete after Stop returns. Idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	stream := m.stream
	m.stream = nil
	m.mu.Unlock()

	if stream != nil {
		stream.Close()
	}
	m.state.Store(stateStopped)
}

// Close stops the subscription and shuts down the delivery goroutine. The
// manager cannot be restarted after Close.
func (m *Manager) Close() {
	m.Stop()
	m.closeOnce.Do(func() { close(m.closed) })
}

func (m *Manager) Subscribed() bool {
	return m.state.Load() == stateSubscribed
}

func (m *Manager) AddListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *Manager) RemoveListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, registered := range m.listeners {
		if registered == l {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

// RefreshUnreadCount recomputes the unread count from the store and
// dispatches it to listeners. Works without an active subscription; store
// errors are logged, not surfaced.
func (m *Manager) RefreshUnreadCount(ctx context.Context) {
	actor, ok := m.identity.Current(ctx)
	if !ok {
		return
	}

	m.enqueue(func() {
		count, err := m.notificationRepo.CountUnread(context.Background(), actor.ID)
		if err != nil {
			m.logger.WithError(err).WithField("user_id", actor.ID).Warn("Failed to refresh unread count")
			return
		}
		for _, l := range m.snapshotListeners() {
			l.OnUnreadCountChanged(count)
		}
	})
}

func (m *Manager) receiveLoop(stream changefeed.InsertStream, userID string) {
	for event := range stream.Events() {
		notification, ok := parseNotification(event)
		if !ok {
			continue
		}

		m.enqueue(func() {
			m.deliver(notification, userID)
		})
	}

	if err := stream.Err(); err != nil {
		m.logger.WithError(err).WithField("user_id", userID).Warn("Realtime subscription ended")
		m.state.CompareAndSwap(stateSubscribed, stateStopped)
	}
}

// deliver runs on the dispatch goroutine. The unread count is re-read per
// event with CountUnread rather than tracked locally or served from the
// read-through cache, so listeners always see a store-consistent value.
func (m *Manager) deliver(notification *models.Notification, userID string) {
	listeners := m.snapshotListeners()

	for _, l := range listeners {
		l.OnNewNotification(notification)
	}

	count, err := m.notificationRepo.CountUnread(context.Background(), userID)
	if err != nil {
		m.logger.WithError(err).WithField("user_id", userID).Warn("Failed to read unread count")
		return
	}
	for _, l := range listeners {
		l.OnUnreadCountChanged(count)
	}
}

func (m *Manager) enqueue(job func()) {
	select {
	case m.queue <- job:
	case <-m.closed:
	}
}

func (m *Manager) dispatchLoop() {
	for {
		select {
		case job := <-m.queue:
			job()
		case <-m.closed:
			return
		}
	}
}

func (m *Manager) snapshotListeners() []Listener {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]Listener, len(m.listeners))
	copy(snapshot, m.listeners)
	return snapshot
}

// parseNotification maps a raw insert event onto a notification. Each field
// defaults independently on type mismatch; only a record with neither an id
// nor a recipient is dropped.
func parseNotification(event changefeed.Event) (*models.Notification, bool) {
	if len(event) == 0 {
		return nil, false
	}

	notification := &models.Notification{
		ID:          event.Int64("id"),
		RecipientID: event.String("recipient_id"),
		IncidentID:  event.String("incident_id"),
		Title:       event.String("title"),
		Body:        event.String("body"),
		IsRead:      event.Bool("is_read"),
	}

	if notification.ID == 0 {
		notification.ID = event.Int64("_id")
	}
	if notification.ID == 0 && notification.RecipientID == "" {
		return nil, false
	}

	switch v := event["created_at"].(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			notification.CreatedAt = t
		}
	case time.Time:
		notification.CreatedAt = v
	case primitive.DateTime:
		notification.CreatedAt = v.Time()
	}

	return notification, true
}
