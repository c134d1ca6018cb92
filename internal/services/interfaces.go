package services

import (
	"context"

	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/internal/pricing"
)

// CalculatorServiceInterface defines the calculator state operations used by
// the handlers.
type CalculatorServiceInterface interface {
	CreateSession() models.CalculatorStateResponse
	GetSession(id string) (models.CalculatorStateResponse, error)
	UpdateSession(id string, req *models.CalculatorUpdateRequest) (models.CalculatorStateResponse, error)
	ResetSession(id string) (models.CalculatorStateResponse, error)
	Options() pricing.Catalog
}

// FormServiceInterface defines the form lifecycle operations.
type FormServiceInterface interface {
	Mount() (*models.FormMountResponse, error)
	RecordInteraction(token string) error
}

// LeadServiceInterface defines the submission pipeline entrypoint.
type LeadServiceInterface interface {
	Submit(ctx context.Context, req *models.LeadSubmitRequest) (*SubmitResult, error)
}
