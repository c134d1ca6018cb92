package services

import (
	"github.com/stratsession/stratsession-api/internal/analytics"
	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/internal/pricing"
	"github.com/stratsession/stratsession-api/internal/store"
	pkgerrors "github.com/stratsession/stratsession-api/pkg/errors"
	"github.com/stratsession/stratsession-api/pkg/metrics"
)

// CalculatorService owns calculator sessions: the shared state read by both
// the calculator UI and the lead form. All mutations go through the session
// store; the derived breakdown is recomputed on every read and write, never
// cached.
type CalculatorService struct {
	sessions *store.SessionStore
	tracker  *analytics.Tracker
}

// NewCalculatorService creates a new calculator service instance
func NewCalculatorService(sessions *store.SessionStore, tracker *analytics.Tracker) *CalculatorService {
	return &CalculatorService{
		sessions: sessions,
		tracker:  tracker,
	}
}

// CreateSession mints a session with the default configuration.
func (s *CalculatorService) CreateSession() models.CalculatorStateResponse {
	session := s.sessions.Create()
	metrics.CalculatorSessions.Set(float64(s.sessions.Count()))
	return stateResponse(session)
}

// GetSession returns the current configuration and its breakdown.
func (s *CalculatorService) GetSession(id string) (models.CalculatorStateResponse, error) {
	session, err := s.sessions.Get(id)
	if err != nil {
		return models.CalculatorStateResponse{}, err
	}
	return stateResponse(session), nil
}

// UpdateSession applies a partial configuration change. Every successful
// update marks the session as interacted with and returns the freshly
// recomputed breakdown.
func (s *CalculatorService) UpdateSession(id string, req *models.CalculatorUpdateRequest) (models.CalculatorStateResponse, error) {
	changed := make([]string, 0, 4)

	session, err := s.sessions.Update(id, func(session *models.CalculatorSession) error {
		if req.Participants != nil {
			session.Config.Participants = *req.Participants
			changed = append(changed, "participants")
		}
		if req.Format != nil {
			session.Config.Format = models.SessionFormat(*req.Format)
			changed = append(changed, "format")
		}
		if req.Geography != nil {
			session.Config.Geography = models.Geography(*req.Geography)
			changed = append(changed, "geography")
		}
		for key, selected := range req.AddOns {
			addOn := models.AddOnKey(key)
			if _, known := session.Config.AddOns[addOn]; !known {
				return pkgerrors.InvalidInputError("addOns", "unknown add-on "+key)
			}
			session.Config.AddOns[addOn] = selected
			changed = append(changed, "addOns")
		}
		return nil
	})
	if err != nil {
		return models.CalculatorStateResponse{}, err
	}

	resp := stateResponse(session)
	for _, field := range changed {
		metrics.CalculatorUpdates.WithLabelValues(field).Inc()
	}
	s.tracker.Track(analytics.EventCalculatorChange, map[string]any{
		"fields": changed,
		"total":  resp.Pricing.Total,
	}, "")

	return resp, nil
}

// ResetSession puts the session back to defaults ("calculate another
// estimate").
func (s *CalculatorService) ResetSession(id string) (models.CalculatorStateResponse, error) {
	session, err := s.sessions.Reset(id)
	if err != nil {
		return models.CalculatorStateResponse{}, err
	}
	return stateResponse(session), nil
}

// Options returns the calculator catalog for the frontend.
func (s *CalculatorService) Options() pricing.Catalog {
	return pricing.Options()
}

func stateResponse(session models.CalculatorSession) models.CalculatorStateResponse {
	return models.CalculatorStateResponse{
		SessionID:     session.ID,
		Config:        session.Config,
		Pricing:       pricing.ComputePrice(session.Config),
		HasInteracted: session.HasInteracted,
	}
}
