package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cleanapp-server/middleware"
	"cleanapp-server/models"
	"cleanapp-server/services"
)

type conversationHandler struct {
	conversations *services.ConversationService
}

// RegisterConversationRoutes registers per-job chat routes.
func RegisterConversationRoutes(router *gin.RouterGroup, conversations *services.ConversationService, secret string) {
	h := &conversationHandler{conversations: conversations}

	group := router.Group("/conversations", middleware.AuthMiddleware(secret))
	{
		group.GET("", h.list)
		group.GET("/:id", h.get)
		group.GET("/:id/messages", h.listMessages)
		group.POST("/:id/messages", h.send)
		group.PUT("/:id/read", h.markRead)
	}
}

func (h *conversationHandler) list(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.conversations.List(c.GetUint("user_id"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *conversationHandler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	conversation, err := h.conversations.Get(c.GetUint("user_id"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": conversation})
}

func (h *conversationHandler) listMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, pageSize := pageParams(c)
	result, err := h.conversations.ListMessages(c.GetUint("user_id"), id, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *conversationHandler) send(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	message, err := h.conversations.Send(c.GetUint("user_id"), id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": message})
}

func (h *conversationHandler) markRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	updated, err := h.conversations.MarkAllRead(c.GetUint("user_id"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
