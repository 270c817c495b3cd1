package models

import (
	"time"
)

// Conversation is the per-job chat channel, provisioned lazily and exactly
// once when the job transitions to accepted (unique jobId).
type Conversation struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	JobID     uint      `json:"job_id" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Job      Job       `json:"job,omitempty" gorm:"foreignKey:JobID"`
	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

// TableName specifies the table name for the Conversation model
func (Conversation) TableName() string {
	return "conversations"
}

// Message is immutable once created, except for the Read flag which only
// flips false to true.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	SenderID       uint      `json:"sender_id" gorm:"not null"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	Read           bool      `json:"read" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	Sender User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// SendMessageRequest represents the request structure for sending a message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ConversationListItem represents a conversation in the caller's inbox, with
// the last message and the count of unread messages from the other side.
type ConversationListItem struct {
	ID          uint      `json:"id"`
	JobID       uint      `json:"job_id"`
	Job         Job       `json:"job"`
	LastMessage *Message  `json:"last_message,omitempty"`
	UnreadCount int64     `json:"unread_count"`
	CreatedAt   time.Time `json:"created_at"`
}
