package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness endpoints. The check is deliberately
// shallow: it must answer ok even when the model or the index is broken, so
// it only depends on configuration known at construction time.
type HealthHandler struct {
	agentName string
}

func NewHealthHandler(agentName string) *HealthHandler {
	return &HealthHandler{agentName: agentName}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"agent":  h.agentName + " Online",
	})
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "API is running. POST /api/chat to talk to the agent.",
	})
}
