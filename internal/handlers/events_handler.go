package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stratsession/stratsession-api/internal/analytics"
	"github.com/stratsession/stratsession-api/internal/models"
)

type EventsHandler struct {
	tracker *analytics.Tracker
}

func NewEventsHandler(tracker *analytics.Tracker) *EventsHandler {
	return &EventsHandler{tracker: tracker}
}

// Ingest accepts a batch of frontend events (cta_click, faq_open, ...).
// Always 202 when the batch is well-formed: the client must not behave
// differently when analytics is off.
func (h *EventsHandler) Ingest(c *gin.Context) {
	var req models.EventBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	for _, ev := range req.Events {
		h.tracker.TrackClientEvent(ev)
	}

	c.JSON(http.StatusAccepted, gin.H{"accepted": len(req.Events)})
}
