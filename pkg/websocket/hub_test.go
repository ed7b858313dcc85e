package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerClients(t *testing.T, hub *Hub, clients ...*Client) {
	t.Helper()

	for _, client := range clients {
		hub.register <- client
	}

	require.Eventually(t, func() bool {
		hub.mutex.RLock()
		defer hub.mutex.RUnlock()
		return len(hub.clients) == len(clients)
	}, time.Second, 5*time.Millisecond)
}

func TestHubDropsSlowClientWithoutClosingHealthyOnes(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	healthy := NewClient(hub, nil, "u1", "officer", "police")
	slow := NewClient(hub, nil, "u1", "officer", "police")
	slow.send = make(chan []byte, 1)

	registerClients(t, hub, healthy, slow)

	// The welcome message filled slow's single-slot buffer, so this
	// broadcast overflows it and the client is unregistered.
	hub.SendToUser("u1", Message{Type: "incident_update"})

	hub.mutex.RLock()
	_, slowRegistered := hub.clients[slow]
	hub.mutex.RUnlock()
	assert.False(t, slowRegistered)

	assert.Len(t, healthy.send, 2)

	hub.SendToUser("u1", Message{Type: "incident_update"})
	assert.Len(t, healthy.send, 3)

	// The dropped client's channel is closed once its backlog drains.
	<-slow.send
	_, open := <-slow.send
	assert.False(t, open)
}

func TestHubBroadcastToAllSkipsFullBuffers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	officer := NewClient(hub, nil, "u1", "officer", "police")
	reporter := NewClient(hub, nil, "u2", "user", "")
	reporter.send = make(chan []byte, 1)

	registerClients(t, hub, officer, reporter)

	hub.sendToAll(Message{Type: "system_notice"})
	hub.sendToAll(Message{Type: "system_notice"})

	hub.mutex.RLock()
	remaining := len(hub.clients)
	hub.mutex.RUnlock()

	assert.Equal(t, 1, remaining)
	assert.Len(t, officer.send, 3)
}
