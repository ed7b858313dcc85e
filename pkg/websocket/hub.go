package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mutex      sync.RWMutex
}

type Message struct {
	Type      string                 `json:"type"`
	RoomID    string                 `json:"room_id,omitempty"`
	UserID    string                 `json:"user_id"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	log.Printf("Client registered: %s", client.UserID)

	// Join user to their personal room
	personalRoom := "user_" + client.UserID
	h.joinRoom(client, personalRoom)

	// Officers also join their agency room for dispatch broadcasts
	if client.Role == "officer" && client.AgencyType != "" {
		h.joinRoom(client, "agency_"+client.AgencyType)
	}

	// Send welcome message
	welcomeMsg := Message{
		Type:      "welcome",
		UserID:    client.UserID,
		Timestamp: getCurrentTimestamp(),
		Data: map[string]interface{}{
			"message": "Connected successfully",
		},
	}

	h.sendToClient(client, welcomeMsg)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		// Remove from all rooms
		for roomID, room := range h.rooms {
			if _, exists := room[client]; exists {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, roomID)
				}
			}
		}

		log.Printf("Client unregistered: %s", client.UserID)
	}
}

func (h *Hub) broadcastMessage(message []byte) {
	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		return
	}

	if msg.RoomID != "" {
		h.sendToRoom(msg.RoomID, msg)
	} else {
		h.sendToAll(msg)
	}
}

func (h *Hub) sendToAll(message Message) {
	data, _ := json.Marshal(message)

	h.mutex.RLock()
	var dead []*Client
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			dead = append(dead, client)
		}
	}
	h.mutex.RUnlock()

	h.dropClients(dead)
}

func (h *Hub) sendToRoom(roomID string, message Message) {
	data, _ := json.Marshal(message)

	h.mutex.RLock()
	var dead []*Client
	for client := range h.rooms[roomID] {
		select {
		case client.send <- data:
		default:
			dead = append(dead, client)
		}
	}
	h.mutex.RUnlock()

	h.dropClients(dead)
}

// sendToClient never mutates hub state; a client with a full buffer is
// dropped on the next broadcast or when its pump exits.
func (h *Hub) sendToClient(client *Client, message Message) {
	data, _ := json.Marshal(message)
	select {
	case client.send <- data:
	default:
	}
}

// dropClients unregisters clients whose send buffer was full. Called after
// the read lock is released; unregisterClient takes the write lock and is
// idempotent, so a racing unregister from the client's own pump is safe.
func (h *Hub) dropClients(dead []*Client) {
	for _, client := range dead {
		h.unregisterClient(client)
	}
}

func (h *Hub) SendToUser(userID string, message Message) {
	roomID := "user_" + userID
	h.sendToRoom(roomID, message)
}

func (h *Hub) SendToAgency(agencyType string, message Message) {
	roomID := "agency_" + agencyType
	h.sendToRoom(roomID, message)
}

func (h *Hub) SendIncidentUpdate(incidentID string, message Message) {
	roomID := "incident_" + incidentID
	h.sendToRoom(roomID, message)
}

func (h *Hub) joinRoom(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
	client.rooms[roomID] = true
}

func (h *Hub) LeaveRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if room, exists := h.rooms[roomID]; exists {
		delete(room, client)
		delete(client.rooms, roomID)

		if len(room) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) JoinIncident(client *Client, incidentID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.joinRoom(client, "incident_"+incidentID)
}

func getCurrentTimestamp() int64 {
	return time.Now().Unix()
}
