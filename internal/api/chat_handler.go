package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fitrack/routine-app/internal/domain"
	"fitrack/routine-app/internal/service"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// SendMessage godoc
// @Summary Send a message to a group chat
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Chat group id"
// @Param messageRequest body SendMessageRequest true "Message body"
// @Success 201 {object} domain.ChatMessage
// @Failure 400 {object} gin.H "Empty message"
// @Router /chat/{groupId}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	senderID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindingError(c, err)
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), c.Param("groupId"), senderID, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to send message.")
		}
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// GetHistory godoc
// @Summary Get recent messages of a group chat, oldest first
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Chat group id"
// @Param limit query int false "Maximum number of messages"
// @Success 200 {array} domain.ChatMessage
// @Router /chat/{groupId}/messages [get]
func (h *ChatHandler) GetHistory(c *gin.Context) {
	if _, ok := ownerIDFromContext(c); !ok {
		return
	}

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			abortWithError(c, http.StatusBadRequest, "Invalid limit query parameter.")
			return
		}
		limit = parsed
	}

	messages, err := h.chatService.History(c.Request.Context(), c.Param("groupId"), limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch chat history.")
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	c.JSON(http.StatusOK, messages)
}
