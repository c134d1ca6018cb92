package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	webhookConfigured func() bool
}

func NewHealthHandler(webhookConfigured func() bool) *HealthHandler {
	return &HealthHandler{
		webhookConfigured: webhookConfigured,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		// Informational: a missing webhook is a valid local-only setup.
		"leadDelivery": h.deliveryMode(),
	})
}

func (h *HealthHandler) deliveryMode() string {
	if h.webhookConfigured() {
		return "webhook"
	}
	return "local"
}
