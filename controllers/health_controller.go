package controllers

import (
	"net/http"

	"medbrain/services"
	"medbrain/utils"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	AI *services.AIClient
}

func NewHealthController(ai *services.AIClient) *HealthController {
	return &HealthController{AI: ai}
}

func (h *HealthController) Health(c *gin.Context) {
	utils.OK(c, http.StatusOK, gin.H{
		"status":     "ok",
		"ai_service": h.AI.Health(c.Request.Context()),
	})
}
