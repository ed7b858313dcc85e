package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"irespond/internal/identity"
	"irespond/internal/models"
	"irespond/internal/utils"
	"irespond/pkg/changefeed"
	"irespond/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.ErrorLevel,
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}

type fakeStream struct {
	events    chan changefeed.Event
	err       error
	closeOnce sync.Once
	closes    int
}

func newFakeStream() *fakeStream {
	return &fakeStream{events: make(chan changefeed.Event, 16)}
}

func (s *fakeStream) Events() <-chan changefeed.Event { return s.events }
func (s *fakeStream) Err() error                      { return s.err }

func (s *fakeStream) Close() {
	s.closes++
	s.closeOnce.Do(func() { close(s.events) })
}

type fakeFeed struct {
	mu         sync.Mutex
	stream     *fakeStream
	err        error
	subscribes int
}

func (f *fakeFeed) SubscribeInserts(ctx context.Context, collection string, filter map[string]interface{}) (changefeed.InsertStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes++
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

func (f *fakeFeed) subscribeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes
}

type fakeNotificationStore struct {
	mu          sync.Mutex
	unreadCount int64
	cachedCount int64
	countErr    error
	storeReads  int
}

func (r *fakeNotificationStore) Create(ctx context.Context, notification *models.Notification) error {
	return nil
}

func (r *fakeNotificationStore) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	return nil, utils.ErrNotificationNotFound
}

func (r *fakeNotificationStore) GetByRecipient(ctx context.Context, recipientID string, params *utils.PaginationParams) ([]*models.Notification, int64, error) {
	return nil, 0, nil
}

// GetUnreadCount models the cached inbox read. cachedCount stands in for a
// stale cache entry; the store value lives in unreadCount.
func (r *fakeNotificationStore) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cachedCount != 0 {
		return r.cachedCount, nil
	}
	return r.unreadCount, r.countErr
}

func (r *fakeNotificationStore) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeReads++
	return r.unreadCount, r.countErr
}

func (r *fakeNotificationStore) MarkAsRead(ctx context.Context, id int64) error        { return nil }
func (r *fakeNotificationStore) MarkAllAsRead(ctx context.Context, id string) error    { return nil }
func (r *fakeNotificationStore) Delete(ctx context.Context, id int64) error            { return nil }

func (r *fakeNotificationStore) setUnreadCount(count int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unreadCount = count
}

func (r *fakeNotificationStore) storeReadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storeReads
}

type listenerCall struct {
	kind         string
	notification *models.Notification
	count        int64
}

type recordListener struct {
	mu    sync.Mutex
	calls []listenerCall
}

func (l *recordListener) OnNewNotification(notification *models.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, listenerCall{kind: "notification", notification: notification})
}

func (l *recordListener) OnUnreadCountChanged(count int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, listenerCall{kind: "unread_count", count: count})
}

func (l *recordListener) snapshot() []listenerCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]listenerCall, len(l.calls))
	copy(out, l.calls)
	return out
}

func (l *recordListener) waitForCalls(t *testing.T, n int) []listenerCall {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		calls := l.snapshot()
		if len(calls) >= n {
			return calls
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d listener calls, got %d", n, len(calls))
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func newTestManager(t *testing.T, feed *fakeFeed, store *fakeNotificationStore, userID string) (*Manager, *recordListener) {
	t.Helper()

	provider := identity.StaticProvider{}
	if userID != "" {
		provider.Identity = &identity.Identity{ID: userID}
	}

	manager := NewManager(feed, store, provider, testLogger(t))
	t.Cleanup(manager.Close)

	listener := &recordListener{}
	manager.AddListener(listener)
	return manager, listener
}

func TestManagerDeliversNotificationThenUnreadCount(t *testing.T) {
	stream := newFakeStream()
	feed := &fakeFeed{stream: stream}
	store := &fakeNotificationStore{unreadCount: 3}

	manager, listener := newTestManager(t, feed, store, "u1")
	require.NoError(t, manager.Start(context.Background()))
	require.True(t, manager.Subscribed())

	stream.events <- changefeed.Event{
		"id":           int64(5),
		"recipient_id": "u1",
		"title":        "Incident Assigned",
		"body":         "You have a new case",
		"is_read":      false,
		"created_at":   "2024-01-01T00:00:00Z",
	}

	calls := listener.waitForCalls(t, 2)
	require.Len(t, calls, 2)
	assert.Equal(t, "notification", calls[0].kind)
	assert.Equal(t, int64(5), calls[0].notification.ID)
	assert.Equal(t, "Incident Assigned", calls[0].notification.Title)
	assert.False(t, calls[0].notification.IsRead)
	assert.Equal(t, "unread_count", calls[1].kind)
	assert.Equal(t, int64(3), calls[1].count)
}

func TestManagerDispatchesStoreCountNotCachedCount(t *testing.T) {
	stream := newFakeStream()
	feed := &fakeFeed{stream: stream}
	store := &fakeNotificationStore{unreadCount: 5, cachedCount: 3}

	manager, listener := newTestManager(t, feed, store, "u1")
	require.NoError(t, manager.Start(context.Background()))

	stream.events <- changefeed.Event{"id": int64(1), "recipient_id": "u1"}

	calls := listener.waitForCalls(t, 2)
	assert.Equal(t, int64(5), calls[1].count)
	assert.Equal(t, 1, store.storeReadCount())

	manager.RefreshUnreadCount(context.Background())

	calls = listener.waitForCalls(t, 3)
	assert.Equal(t, int64(5), calls[2].count)
	assert.Equal(t, 2, store.storeReadCount())
}

func TestManagerDefaultsMissingFieldsAndKeepsStreaming(t *testing.T) {
	stream := newFakeStream()
	feed := &fakeFeed{stream: stream}
	store := &fakeNotificationStore{unreadCount: 1}

	manager, listener := newTestManager(t, feed, store, "u1")
	require.NoError(t, manager.Start(context.Background()))

	stream.events <- changefeed.Event{
		"id":           int64(7),
		"recipient_id": "u1",
	}
	stream.events <- changefeed.Event{
		"id":           int64(8),
		"recipient_id": "u1",
		"title":        "Follow-up",
	}

	calls := listener.waitForCalls(t, 4)
	assert.Equal(t, "", calls[0].notification.Title)
	assert.Equal(t, int64(7), calls[0].notification.ID)
	assert.Equal(t, "Follow-up", calls[2].notification.Title)
}

func TestManagerDropsRecordWithNoIdentityFields(t *testing.T) {
	stream := newFakeStream()
	feed := &fakeFeed{stream: stream}
	store := &fakeNotificationStore{}

	manager, listener := newTestManager(t, feed, store, "u1")
	require.NoError(t, manager.Start(context.Background()))

	stream.events <- changefeed.Event{"title": "orphan record"}
	stream.events <- changefeed.Event{"id": int64(9), "recipient_id": "u1"}

	calls := listener.waitForCalls(t, 2)
	assert.Equal(t, int64(9), calls[0].notification.ID)
}

func TestManagerStartTwiceOpensOneSubscription(t *testing.T) {
	stream := newFakeStream()
	feed := &fakeFeed{stream: stream}

	manager, _ := newTestManager(t, feed, &fakeNotificationStore{}, "u1")

	require.NoError(t, manager.Start(context.Background()))
	require.NoError(t, manager.Start(context.Background()))

	assert.Equal(t, 1, feed.subscribeCount())
}

func TestManagerStartWithoutIdentityStaysStopped(t *testing.T) {
	feed := &fakeFeed{stream: newFakeStream()}

	manager, _ := newTestManager(t, feed, &fakeNotificationStore{}, "")

	require.NoError(t, manager.Start(context.Background()))
	assert.False(t, manager.Subscribed())
	assert.Zero(t, feed.subscribeCount())
}

func TestManagerSubscribeFailureAllowsRetry(t *testing.T) {
	feed := &fakeFeed{stream: newFakeStream(), err: errors.New("change stream unavailable")}

	manager, _ := newTestManager(t, feed, &fakeNotificationStore{}, "u1")

	require.Error(t, manager.Start(context.Background()))
	assert.False(t, manager.Subscribed())

	feed.mu.Lock()
	feed.err = nil
	feed.mu.Unlock()

	require.NoError(t, manager.Start(context.Background()))
	assert.True(t, manager.Subscribed())
	assert.Equal(t, 2, feed.subscribeCount())
}

func TestManagerStopIsIdempotent(t *testing.T) {
	stream := newFakeStream()
	feed := &fakeFeed{stream: stream}

	manager, _ := newTestManager(t, feed, &fakeNotificationStore{}, "u1")
	require.NoError(t, manager.Start(context.Background()))

	manager.Stop()
	manager.Stop()

	assert.False(t, manager.Subscribed())
	assert.Equal(t, 1, stream.closes)
}

func TestManagerRestartsAfterStop(t *testing.T) {
	feed := &fakeFeed{stream: newFakeStream()}

	manager, _ := newTestManager(t, feed, &fakeNotificationStore{}, "u1")
	require.NoError(t, manager.Start(context.Background()))
	manager.Stop()

	feed.mu.Lock()
	feed.stream = newFakeStream()
	feed.mu.Unlock()

	require.NoError(t, manager.Start(context.Background()))
	assert.True(t, manager.Subscribed())
	assert.Equal(t, 2, feed.subscribeCount())
}

func TestRefreshUnreadCountWorksWithoutSubscription(t *testing.T) {
	feed := &fakeFeed{stream: newFakeStream()}
	store := &fakeNotificationStore{unreadCount: 12}

	manager, listener := newTestManager(t, feed, store, "u1")

	manager.RefreshUnreadCount(context.Background())

	calls := listener.waitForCalls(t, 1)
	assert.Equal(t, "unread_count", calls[0].kind)
	assert.Equal(t, int64(12), calls[0].count)
}

func TestRefreshUnreadCountStoreErrorIsSwallowed(t *testing.T) {
	feed := &fakeFeed{stream: newFakeStream()}
	store := &fakeNotificationStore{countErr: errors.New("redis down")}

	manager, listener := newTestManager(t, feed, store, "u1")

	manager.RefreshUnreadCount(context.Background())

	store.mu.Lock()
	store.countErr = nil
	store.unreadCount = 4
	store.mu.Unlock()

	manager.RefreshUnreadCount(context.Background())

	calls := listener.waitForCalls(t, 1)
	assert.Equal(t, int64(4), calls[0].count)
}

func TestRemoveListenerStopsDelivery(t *testing.T) {
	stream := newFakeStream()
	feed := &fakeFeed{stream: stream}
	store := &fakeNotificationStore{unreadCount: 1}

	manager, listener := newTestManager(t, feed, store, "u1")
	require.NoError(t, manager.Start(context.Background()))

	manager.RemoveListener(listener)
	stream.events <- changefeed.Event{"id": int64(1), "recipient_id": "u1"}

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, listener.snapshot())
}
