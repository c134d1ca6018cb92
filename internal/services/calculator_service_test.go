package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratsession/stratsession-api/config"
	"github.com/stratsession/stratsession-api/internal/analytics"
	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/internal/services"
	"github.com/stratsession/stratsession-api/internal/store"
	pkgerrors "github.com/stratsession/stratsession-api/pkg/errors"
)

func newCalculatorService(t *testing.T) *services.CalculatorService {
	t.Helper()
	sessions := store.NewSessionStore(time.Hour)
	tracker := analytics.NewTracker(config.AnalyticsConfig{Enabled: false})
	return services.NewCalculatorService(sessions, tracker)
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func TestCalculatorService_CreateSession_Defaults(t *testing.T) {
	svc := newCalculatorService(t)

	state := svc.CreateSession()

	assert.NotEmpty(t, state.SessionID)
	assert.False(t, state.HasInteracted)
	assert.Equal(t, 8, state.Config.Participants)
	assert.Equal(t, models.FormatOnline, state.Config.Format)
	for key, selected := range state.Config.AddOns {
		assert.False(t, selected, "add-on %s should start unselected", key)
	}

	// Defaults: 8 participants online, no add-ons.
	assert.Equal(t, 3200, state.Pricing.Base)
	assert.Equal(t, 0, state.Pricing.AddOnsTotal)
	assert.Equal(t, 3200, state.Pricing.Total)
}

func TestCalculatorService_UpdateSession_PartialChange(t *testing.T) {
	svc := newCalculatorService(t)
	created := svc.CreateSession()

	state, err := svc.UpdateSession(created.SessionID, &models.CalculatorUpdateRequest{
		Participants: intPtr(6),
	})
	require.NoError(t, err)

	assert.True(t, state.HasInteracted)
	assert.Equal(t, 6, state.Config.Participants)
	// Format untouched by a partial update.
	assert.Equal(t, models.FormatOnline, state.Config.Format)
	assert.Equal(t, 2500, state.Pricing.Total)
}

func TestCalculatorService_UpdateSession_AddOnsAndFormat(t *testing.T) {
	svc := newCalculatorService(t)
	created := svc.CreateSession()

	state, err := svc.UpdateSession(created.SessionID, &models.CalculatorUpdateRequest{
		Format: strPtr("offline"),
		AddOns: map[string]bool{
			string(models.AddOnFollowUpCalls):     true,
			string(models.AddOnDeepDocumentation): true,
		},
	})
	require.NoError(t, err)

	// 8 participants (3200) + offline (800) + follow-ups (350) + docs (500).
	assert.Equal(t, 4000, state.Pricing.Base)
	assert.Equal(t, 850, state.Pricing.AddOnsTotal)
	assert.Equal(t, 4850, state.Pricing.Total)
}

func TestCalculatorService_UpdateSession_UnknownAddOn(t *testing.T) {
	svc := newCalculatorService(t)
	created := svc.CreateSession()

	_, err := svc.UpdateSession(created.SessionID, &models.CalculatorUpdateRequest{
		AddOns: map[string]bool{"goldPlating": true},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrInvalidInput))

	// The failed update must not mark the session as interacted.
	state, err := svc.GetSession(created.SessionID)
	require.NoError(t, err)
	assert.False(t, state.HasInteracted)
}

func TestCalculatorService_UpdateSession_NotFound(t *testing.T) {
	svc := newCalculatorService(t)

	_, err := svc.UpdateSession("missing", &models.CalculatorUpdateRequest{Participants: intPtr(9)})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrNotFound))
}

func TestCalculatorService_ResetSession(t *testing.T) {
	svc := newCalculatorService(t)
	created := svc.CreateSession()

	_, err := svc.UpdateSession(created.SessionID, &models.CalculatorUpdateRequest{
		Participants: intPtr(14),
		Format:       strPtr("offline"),
	})
	require.NoError(t, err)

	state, err := svc.ResetSession(created.SessionID)
	require.NoError(t, err)

	assert.Equal(t, created.SessionID, state.SessionID)
	assert.False(t, state.HasInteracted)
	assert.Equal(t, 8, state.Config.Participants)
	assert.Equal(t, models.FormatOnline, state.Config.Format)
	assert.Equal(t, 3200, state.Pricing.Total)
}

func TestCalculatorService_Options_MatchesPricing(t *testing.T) {
	svc := newCalculatorService(t)

	catalog := svc.Options()
	assert.Equal(t, models.MinParticipants, catalog.MinParticipants)
	assert.Equal(t, models.MaxParticipants, catalog.MaxParticipants)
	assert.Len(t, catalog.AddOns, 4)
}
