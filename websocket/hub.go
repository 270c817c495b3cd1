package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is the wire format pushed to connected clients.
type Event struct {
	Type           string      `json:"type"`
	ConversationID uint        `json:"conversation_id,omitempty"`
	Data           interface{} `json:"data,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// Hub manages all WebSocket connections and the conversation rooms clients
// subscribe to. Delivery is best effort: a slow or dead client is dropped,
// never waited on.
type Hub struct {
	// Registered clients by user id; a user may have several devices.
	clients map[uint]map[*Client]bool

	// Conversation room membership: conversation id -> user id set.
	rooms map[uint]map[uint]bool

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		rooms:      make(map[uint]map[uint]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			log.Printf("ws: client registered user=%d", client.UserID)

		case client := <-h.Unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok && conns[client] {
				delete(conns, client)
				close(client.Send)
				if len(conns) == 0 {
					delete(h.clients, client.UserID)
					for conversationID := range h.rooms {
						delete(h.rooms[conversationID], client.UserID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("ws: client unregistered user=%d", client.UserID)
		}
	}
}

// JoinConversation subscribes a user to a conversation room.
func (h *Hub) JoinConversation(conversationID, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[uint]bool)
	}
	h.rooms[conversationID][userID] = true
}

// LeaveConversation removes a user from a conversation room.
func (h *Hub) LeaveConversation(conversationID, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[conversationID], userID)
}

// SendToConversation pushes an event to every member of a conversation room.
func (h *Hub) SendToConversation(conversationID uint, event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for userID := range h.rooms[conversationID] {
		h.sendToUserLocked(userID, payload)
	}
}

// SendToUser pushes an event to all of a user's connections.
func (h *Hub) SendToUser(userID uint, event *Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	h.sendToUserLocked(userID, payload)
}

func (h *Hub) sendToUserLocked(userID uint, payload []byte) {
	for client := range h.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			// Client cannot keep up; drop the event rather than block.
		}
	}
}
