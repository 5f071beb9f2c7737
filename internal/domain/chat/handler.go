package chat

import (
	"errors"
	"net/http"
	"strconv"

	"renthome/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the chat domain
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type startConversationRequest struct {
	RecipientID int64 `json:"recipient_id" binding:"required"`
	ListingID   int64 `json:"listing_id" binding:"required"`
}

type sendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// StartConversation godoc
// @Summary Start or get the conversation for a listing
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body startConversationRequest true "Recipient and listing"
// @Success 201 {object} map[string]interface{}
// @Router /conversations [post]
func (h *Handler) StartConversation(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req startConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	conv, err := h.service.StartConversation(c.Request.Context(), userID, req.RecipientID, req.ListingID)
	if err != nil {
		if errors.Is(err, ErrCannotChatSelf) {
			response.Error(c, http.StatusBadRequest, "INVALID_RECIPIENT", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, "START_FAILED", "Failed to start conversation")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"conversation": conv})
}

// ListConversations godoc
// @Summary List my conversations
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /conversations [get]
func (h *Handler) ListConversations(c *gin.Context) {
	userID := c.GetInt64("user_id")

	convs, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list conversations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conversations": convs})
}

// GetMessages godoc
// @Summary List messages in a conversation
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} map[string]interface{}
// @Router /conversations/{id}/messages [get]
func (h *Handler) GetMessages(c *gin.Context) {
	userID := c.GetInt64("user_id")
	conversationID := c.Param("id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	msgs, err := h.service.GetMessages(c.Request.Context(), userID, conversationID, limit, offset)
	if err != nil {
		h.conversationError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

// SendMessage godoc
// @Summary Send a message
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Param body body sendMessageRequest true "Message text"
// @Success 201 {object} map[string]interface{}
// @Router /conversations/{id}/messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	userID := c.GetInt64("user_id")
	conversationID := c.Param("id")

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	msg, outcome, err := h.service.SendMessage(c.Request.Context(), userID, conversationID, req.Text)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			response.Error(c, http.StatusBadRequest, "EMPTY_TEXT", err.Error())
			return
		}
		h.conversationError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"message":  msg,
		"delivery": outcome,
	})
}

// MarkRead godoc
// @Summary Mark a conversation read
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} map[string]interface{}
// @Router /conversations/{id}/read [post]
func (h *Handler) MarkRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	conversationID := c.Param("id")

	if err := h.service.MarkRead(c.Request.Context(), userID, conversationID); err != nil {
		h.conversationError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}

func (h *Handler) conversationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrConversationNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrNotParticipant):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "CHAT_FAILED", "Chat operation failed")
	}
}
