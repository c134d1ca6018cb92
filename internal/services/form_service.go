package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/stratsession/stratsession-api/internal/antispam"
	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/pkg/formtoken"
)

// FormService handles the lead form lifecycle: a form announces itself when
// it mounts and receives a signed token, then reports its first field-change
// event so the time guard has a reference point.
type FormService struct {
	tokens *formtoken.TokenManager
	guard  *antispam.Guard
}

// NewFormService creates a new form service instance
func NewFormService(tokens *formtoken.TokenManager, guard *antispam.Guard) *FormService {
	return &FormService{
		tokens: tokens,
		guard:  guard,
	}
}

// Mount issues a token for a freshly mounted form.
func (s *FormService) Mount() (*models.FormMountResponse, error) {
	formID := uuid.NewString()
	token, err := s.tokens.Issue(formID)
	if err != nil {
		return nil, err
	}

	return &models.FormMountResponse{
		FormID:    formID,
		Token:     token,
		MountedAt: time.Now().UTC(),
	}, nil
}

// RecordInteraction stores the first field-change time for the form.
func (s *FormService) RecordInteraction(token string) error {
	_, err := s.guard.RecordInteraction(token)
	return err
}
