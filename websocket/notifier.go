package websocket

import (
	"time"

	"cleanapp-server/models"
)

// Notifier adapts the hub to the services layer so chat events reach
// connected clients without the services importing this package's internals.
type Notifier struct {
	hub *Hub
}

// NewNotifier wraps a hub for use by the conversation service.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) NotifyNewMessage(conversationID uint, message *models.Message) {
	n.hub.SendToConversation(conversationID, &Event{
		Type:           "message:new",
		ConversationID: conversationID,
		Data:           message,
		Timestamp:      time.Now(),
	})
}

func (n *Notifier) NotifyConversationUpdated(conversationID uint, patch map[string]interface{}) {
	n.hub.SendToConversation(conversationID, &Event{
		Type:           "conversation:updated",
		ConversationID: conversationID,
		Data:           patch,
		Timestamp:      time.Now(),
	})
}
