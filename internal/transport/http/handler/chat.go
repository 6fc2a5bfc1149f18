package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatAgent is the conversational capability behind /api/chat.
type ChatAgent interface {
	Chat(ctx context.Context, message string) (string, error)
}

type ChatHandler struct {
	agent ChatAgent
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

func NewChatHandler(agent ChatAgent) *ChatHandler {
	return &ChatHandler{agent: agent}
}

// Chat forwards one user message to the agent. The agent converts its own
// internal failures to text, so an error here is transport-level and maps to
// a 500 with the failure description as detail.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "message is required and must be a string"})
		return
	}

	answer, err := h.agent.Chat(c.Request.Context(), req.Message)
	if err != nil {
		log.Printf("chat request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Response: answer})
}
