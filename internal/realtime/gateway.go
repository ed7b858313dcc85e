package realtime

import (
	"context"
	"sync"

	"irespond/internal/identity"
	"irespond/internal/repositories/interfaces"
	"irespond/pkg/changefeed"
	"irespond/pkg/logger"
	"irespond/pkg/push"
	"irespond/pkg/websocket"
)

// Gateway keeps one Manager per connected user, wiring websocket and push
// delivery to it. A user connecting twice shares the same subscription.
type Gateway struct {
	feed             changefeed.Client
	notificationRepo interfaces.NotificationRepository
	profileRepo      interfaces.ProfileRepository
	ws               *websocket.Handler
	push             push.PushProvider
	logger           *logger.Logger

	mu       sync.Mutex
	managers map[string]*Manager
}

func NewGateway(
	feed changefeed.Client,
	notificationRepo interfaces.NotificationRepository,
	profileRepo interfaces.ProfileRepository,
	ws *websocket.Handler,
	pushProvider push.PushProvider,
	logger *logger.Logger,
) *Gateway {
	return &Gateway{
		feed:             feed,
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		ws:               ws,
		push:             pushProvider,
		logger:           logger,
		managers:         make(map[string]*Manager),
	}
}

// Subscribe starts (or reuses) the realtime subscription for the identity in
// ctx and pushes an initial unread count. Without an identity it is a no-op.
func (g *Gateway) Subscribe(ctx context.Context) error {
	actor, ok := identity.FromContext(ctx)
	if !ok {
		return nil
	}

	g.mu.Lock()
	manager, exists := g.managers[actor.ID]
	if !exists {
		manager = NewManager(g.feed, g.notificationRepo, identity.StaticProvider{Identity: actor}, g.logger)
		manager.AddListener(NewWebSocketListener(g.ws, actor.ID))
		if g.push != nil {
			manager.AddListener(NewPushListener(g.push, g.profileRepo, actor.ID, g.logger))
		}
		g.managers[actor.ID] = manager
	}
	g.mu.Unlock()

	staticCtx := identity.WithIdentity(context.Background(), actor)
	if err := manager.Start(staticCtx); err != nil {
		return err
	}

	manager.RefreshUnreadCount(staticCtx)

	return nil
}

// Unsubscribe tears down the user's subscription and delivery goroutine.
func (g *Gateway) Unsubscribe(userID string) {
	g.mu.Lock()
	manager, exists := g.managers[userID]
	delete(g.managers, userID)
	g.mu.Unlock()

	if exists {
		manager.Close()
	}
}

// RefreshUnreadCount recomputes and dispatches the unread count for the
// identity in ctx, if it has an active manager.
func (g *Gateway) RefreshUnreadCount(ctx context.Context) {
	actor, ok := identity.FromContext(ctx)
	if !ok {
		return
	}

	g.mu.Lock()
	manager, exists := g.managers[actor.ID]
	g.mu.Unlock()

	if exists {
		manager.RefreshUnreadCount(identity.WithIdentity(context.Background(), actor))
	}
}

// Close tears down all subscriptions.
func (g *Gateway) Close() {
	g.mu.Lock()
	managers := g.managers
	g.managers = make(map[string]*Manager)
	g.mu.Unlock()

	for _, manager := range managers {
		manager.Close()
	}
}
