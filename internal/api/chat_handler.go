package api

import (
	"errors"
	"net/http"

	"github.com/sonoda80/coachlog/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatHandler exposes the two-party conversation feed.
type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// actorID resolves the authenticated user's ObjectID from the context.
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve identity")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid identity in token")
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseHexID parses an ObjectID from its hex form.
func parseHexID(s string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(s)
}

// pathID parses an ObjectID path parameter.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// History returns the viewer's conversation with one counterpart, oldest first.
func (h *ChatHandler) History(c *gin.Context) {
	viewer, ok := actorID(c)
	if !ok {
		return
	}
	peer, ok := pathID(c, "peerId")
	if !ok {
		return
	}

	msgs, err := h.chatService.History(c.Request.Context(), viewer, peer)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load conversation")
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// Send appends a free-text message to the conversation.
func (h *ChatHandler) Send(c *gin.Context) {
	author, ok := actorID(c)
	if !ok {
		return
	}
	peer, ok := pathID(c, "peerId")
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Message text is required")
		return
	}

	msg, err := h.chatService.Send(c.Request.Context(), author, peer, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUnknownPeer), errors.Is(err, service.ErrUnknownUser):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to send message")
		}
		return
	}
	c.JSON(http.StatusCreated, msg)
}
