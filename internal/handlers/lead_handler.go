package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/internal/services"
)

type LeadHandler struct {
	service services.LeadServiceInterface
}

func NewLeadHandler(service services.LeadServiceInterface) *LeadHandler {
	return &LeadHandler{service: service}
}

// Submit runs the submission pipeline and maps its tagged outcome to HTTP.
//
// Spam rejections return the same success-shaped body as a real submission so
// automated callers cannot distinguish them. Delivery failures return an
// apologetic error; the user retries manually.
func (h *LeadHandler) Submit(c *gin.Context) {
	var req models.LeadSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	result, err := h.service.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	switch result.Status {
	case services.StatusDelivered, services.StatusLoggedLocally:
		c.JSON(http.StatusOK, models.LeadSubmitResponse{
			Success:       true,
			Name:          req.Name,
			EstimateTotal: result.EstimateTotal,
		})

	case services.StatusSpamRejected:
		c.JSON(http.StatusOK, models.LeadSubmitResponse{
			Success: true,
			Name:    req.Name,
		})

	case services.StatusValidationFailed:
		c.JSON(http.StatusBadRequest, models.LeadSubmitResponse{
			Success: false,
			Errors:  result.Errors,
		})

	case services.StatusInFlight:
		c.JSON(http.StatusConflict, models.LeadSubmitResponse{
			Success: false,
			Error:   "A submission is already in progress",
		})

	case services.StatusDeliveryFailed:
		c.JSON(http.StatusBadGateway, models.LeadSubmitResponse{
			Success: false,
			Error:   "Something went wrong. Please try again.",
		})

	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
