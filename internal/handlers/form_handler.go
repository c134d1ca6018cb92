package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/internal/services"
)

type FormHandler struct {
	service services.FormServiceInterface
}

func NewFormHandler(service services.FormServiceInterface) *FormHandler {
	return &FormHandler{service: service}
}

// Mount issues a signed token for a freshly rendered lead form.
func (h *FormHandler) Mount(c *gin.Context) {
	resp, err := h.service.Mount()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Interaction records the first field-change event for a form. Repeated calls
// are harmless; only the first one counts.
func (h *FormHandler) Interaction(c *gin.Context) {
	var req models.FormInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	if err := h.service.RecordInteraction(req.FormToken); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid form token", err)
		return
	}

	c.Status(http.StatusNoContent)
}
