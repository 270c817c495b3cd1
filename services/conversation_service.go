package services

import (
	"errors"

	"gorm.io/gorm"

	"cleanapp-server/errs"
	"cleanapp-server/models"
	"cleanapp-server/utils"
)

// ConversationService handles the per-job chat channels. Conversations are
// provisioned by the job service on accept; this service controls access,
// message writes and the read flags, and pushes realtime notifications as a
// best-effort side effect.
type ConversationService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewConversationService creates a new conversation service
func NewConversationService(db *gorm.DB, notifier Notifier) *ConversationService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &ConversationService{db: db, notifier: notifier}
}

// ConversationListResult is a page of the caller's conversations.
type ConversationListResult struct {
	Total    int64                         `json:"total"`
	Page     int                           `json:"page"`
	PageSize int                           `json:"page_size"`
	Items    []models.ConversationListItem `json:"items"`
}

// MessageListResult is a page of messages, oldest first.
type MessageListResult struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Message `json:"items"`
}

// ensureAccess loads the conversation and verifies the caller is the job's
// customer or its assigned provider.
func (s *ConversationService) ensureAccess(userID, conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := s.db.
		Preload("Job").Preload("Job.Category").Preload("Job.Offer").
		Preload("Job.Customer").Preload("Job.Provider").
		First(&conversation, conversationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ConversationNotFound()
		}
		return nil, err
	}
	if !conversation.Job.IsParticipant(userID) {
		return nil, errs.Forbidden("")
	}
	return &conversation, nil
}

// Get returns a conversation for a participant.
func (s *ConversationService) Get(userID, conversationID uint) (*models.Conversation, error) {
	return s.ensureAccess(userID, conversationID)
}

// List returns the caller's conversations, newest first, each with its last
// message and the count of unread messages from the other participant.
func (s *ConversationService) List(userID uint, page, pageSize int) (*ConversationListResult, error) {
	p := utils.NewPagination(page, pageSize)

	base := s.db.Model(&models.Conversation{}).
		Joins("JOIN jobs ON jobs.id = conversations.job_id").
		Where("jobs.customer_id = ? OR jobs.provider_id = ?", userID, userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var conversations []models.Conversation
	if err := s.db.
		Joins("JOIN jobs ON jobs.id = conversations.job_id").
		Where("jobs.customer_id = ? OR jobs.provider_id = ?", userID, userID).
		Preload("Job").Preload("Job.Category").Preload("Job.Offer").
		Preload("Job.Customer").Preload("Job.Provider").
		Order("conversations.id DESC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&conversations).Error; err != nil {
		return nil, err
	}

	items := make([]models.ConversationListItem, 0, len(conversations))
	for _, conversation := range conversations {
		item := models.ConversationListItem{
			ID:        conversation.ID,
			JobID:     conversation.JobID,
			Job:       conversation.Job,
			CreatedAt: conversation.CreatedAt,
		}

		var last models.Message
		err := s.db.Where("conversation_id = ?", conversation.ID).
			Order("created_at DESC").First(&last).Error
		if err == nil {
			item.LastMessage = &last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if err := s.db.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversation.ID, userID, false).
			Count(&item.UnreadCount).Error; err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return &ConversationListResult{Total: total, Page: p.Page, PageSize: p.PageSize, Items: items}, nil
}

// ListMessages returns a page of messages oldest first and marks the other
// participant's unread messages as read. The read flip is idempotent.
func (s *ConversationService) ListMessages(userID, conversationID uint, page, pageSize int) (*MessageListResult, error) {
	if _, err := s.ensureAccess(userID, conversationID); err != nil {
		return nil, err
	}
	p := utils.NewPagination(page, pageSize)

	if err := s.markReceivedRead(userID, conversationID); err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var items []models.Message
	if err := s.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Offset(p.Offset()).Limit(p.PageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &MessageListResult{Total: total, Page: p.Page, PageSize: p.PageSize, Items: items}, nil
}

// Send appends a message to the conversation and notifies the realtime layer
// with the new message and the updated last-message marker. The notification
// is fire-and-forget: its failure never fails the write.
func (s *ConversationService) Send(userID, conversationID uint, content string) (*models.Message, error) {
	if _, err := s.ensureAccess(userID, conversationID); err != nil {
		return nil, err
	}

	message := models.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
		Read:           false,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	s.notifier.NotifyNewMessage(conversationID, &message)
	s.notifier.NotifyConversationUpdated(conversationID, map[string]interface{}{
		"last_message": message,
	})

	return &message, nil
}

// MarkAllRead flips the other participant's unread messages to read without
// fetching message bodies. Returns the number of messages updated.
func (s *ConversationService) MarkAllRead(userID, conversationID uint) (int64, error) {
	if _, err := s.ensureAccess(userID, conversationID); err != nil {
		return 0, err
	}

	res := s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, userID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 {
		s.notifier.NotifyConversationUpdated(conversationID, map[string]interface{}{
			"read_by": userID,
		})
	}
	return res.RowsAffected, nil
}

func (s *ConversationService) markReceivedRead(userID, conversationID uint) error {
	return s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read = ?", conversationID, userID, false).
		Update("read", true).Error
}
