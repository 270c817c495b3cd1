package services

import (
	"cleanapp-server/models"
)

// Notifier is the realtime collaborator the messaging core pushes side
// effects to. Both calls are fire-and-forget: implementations must never
// block the caller, and their failure never rolls back a state change.
type Notifier interface {
	NotifyNewMessage(conversationID uint, message *models.Message)
	NotifyConversationUpdated(conversationID uint, patch map[string]interface{})
}

// NoopNotifier discards all notifications. Used when no realtime layer is
// attached, e.g. in tests.
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewMessage(uint, *models.Message)                  {}
func (NoopNotifier) NotifyConversationUpdated(uint, map[string]interface{}) {}
