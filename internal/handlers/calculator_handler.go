package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/internal/services"
	"github.com/stratsession/stratsession-api/pkg/errors"
)

type CalculatorHandler struct {
	service services.CalculatorServiceInterface
}

func NewCalculatorHandler(service services.CalculatorServiceInterface) *CalculatorHandler {
	return &CalculatorHandler{service: service}
}

// CreateSession mints a calculator session with the default configuration.
func (h *CalculatorHandler) CreateSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.service.CreateSession())
}

// GetSession returns the session state with a freshly computed breakdown.
func (h *CalculatorHandler) GetSession(c *gin.Context) {
	state, err := h.service.GetSession(c.Param("id"))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Calculator session not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// UpdateSession applies a partial configuration change.
func (h *CalculatorHandler) UpdateSession(c *gin.Context) {
	var req models.CalculatorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Invalid request", ParseValidationErrors(err), err)
		return
	}

	state, err := h.service.UpdateSession(c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrNotFound):
			respondError(c, http.StatusNotFound, "Calculator session not found", err)
		case errors.Is(err, errors.ErrInvalidInput):
			respondError(c, http.StatusBadRequest, err.Error(), err)
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	c.JSON(http.StatusOK, state)
}

// ResetSession puts the session back to the default configuration.
func (h *CalculatorHandler) ResetSession(c *gin.Context) {
	state, err := h.service.ResetSession(c.Param("id"))
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Calculator session not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// Options returns the calculator catalog: participant bounds, formats,
// add-ons with prices, region tags.
func (h *CalculatorHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Options())
}
