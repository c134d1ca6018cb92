package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stratsession/stratsession-api/config"
	"github.com/stratsession/stratsession-api/internal/analytics"
	"github.com/stratsession/stratsession-api/internal/antispam"
	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/internal/services"
	"github.com/stratsession/stratsession-api/internal/store"
	"github.com/stratsession/stratsession-api/internal/validation"
	"github.com/stratsession/stratsession-api/pkg/formtoken"
	"github.com/stratsession/stratsession-api/pkg/logger"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// MockDeliverer is a mock implementation of the Deliverer interface
type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockDeliverer) Deliver(ctx context.Context, payload *models.SubmissionPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type leadEnv struct {
	service   *services.LeadService
	tokens    *formtoken.TokenManager
	forms     *store.FormStore
	sessions  *store.SessionStore
	deliverer *MockDeliverer
}

func newLeadEnv(t *testing.T) *leadEnv {
	t.Helper()

	tokens := formtoken.NewTokenManager("test-secret", "stratsession-api", time.Hour)
	forms := store.NewFormStore(time.Hour)
	sessions := store.NewSessionStore(time.Hour)
	guard := antispam.NewGuard(tokens, forms, 3*time.Second)
	tracker := analytics.NewTracker(config.AnalyticsConfig{Enabled: false})
	deliverer := new(MockDeliverer)

	cfg := &config.Config{
		Delivery: config.DeliveryConfig{LocalDelayMs: 1},
	}

	return &leadEnv{
		service:   services.NewLeadService(guard, forms, sessions, deliverer, tracker, cfg),
		tokens:    tokens,
		forms:     forms,
		sessions:  sessions,
		deliverer: deliverer,
	}
}

// mountedToken issues a token and backdates the first interaction so the time
// guard passes.
func (e *leadEnv) mountedToken(t *testing.T, formID string) string {
	t.Helper()
	token, err := e.tokens.Issue(formID)
	require.NoError(t, err)
	e.forms.RecordFirstInteraction(formID, time.Now().Add(-5*time.Second))
	return token
}

func validRequest(token string) *models.LeadSubmitRequest {
	return &models.LeadSubmitRequest{
		FormToken: token,
		Name:      "Alice Example",
		Email:     "alice@example.com",
		Company:   "Example GmbH",
	}
}

func TestLeadService_Submit_Delivered(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	env.deliverer.On("Configured").Return(true)
	env.deliverer.On("Deliver", mock.Anything, mock.AnythingOfType("*models.SubmissionPayload")).Return(nil)

	result, err := env.service.Submit(context.Background(), validRequest(token))
	require.NoError(t, err)

	assert.Equal(t, services.StatusDelivered, result.Status)
	require.NotNil(t, result.Payload)
	assert.Equal(t, "Alice Example", result.Payload.Contact.Name)
	require.NotNil(t, result.Payload.Contact.Email)
	assert.Equal(t, "alice@example.com", *result.Payload.Contact.Email)
	assert.Nil(t, result.Payload.Contact.Telegram)
	assert.Nil(t, result.Payload.Calculator)
	assert.Nil(t, result.EstimateTotal)
	env.deliverer.AssertExpectations(t)
}

func TestLeadService_Submit_HoneypotNeverReachesDelivery(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	req := validRequest(token)
	req.Honeypot = "filled by a bot"

	result, err := env.service.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, services.StatusSpamRejected, result.Status)
	assert.Equal(t, antispam.ReasonHoneypot, result.SpamReason)
	env.deliverer.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestLeadService_Submit_TooFastNeverReachesDelivery(t *testing.T) {
	env := newLeadEnv(t)

	token, err := env.tokens.Issue("form-1")
	require.NoError(t, err)

	// First interaction right now, submission immediately after.
	env.forms.RecordFirstInteraction("form-1", time.Now())

	result, err := env.service.Submit(context.Background(), validRequest(token))
	require.NoError(t, err)

	assert.Equal(t, services.StatusSpamRejected, result.Status)
	assert.Equal(t, antispam.ReasonTooFast, result.SpamReason)
	env.deliverer.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestLeadService_Submit_ValidationFailure(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	req := validRequest(token)
	req.Name = "   "
	req.Email = "not-an-email"

	result, err := env.service.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, services.StatusValidationFailed, result.Status)
	assert.Equal(t, validation.MsgNameRequired, result.Errors["name"])
	assert.Equal(t, validation.MsgInvalidEmail, result.Errors["email"])
	env.deliverer.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestLeadService_Submit_SnapshotUsesRecomputedPricing(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	session := env.sessions.Create()
	_, err := env.sessions.Update(session.ID, func(s *models.CalculatorSession) error {
		s.Config.Participants = 12
		s.Config.Format = models.FormatOffline
		s.Config.AddOns[models.AddOnExtraInterviews] = true
		return nil
	})
	require.NoError(t, err)

	env.deliverer.On("Configured").Return(true)
	env.deliverer.On("Deliver", mock.Anything, mock.AnythingOfType("*models.SubmissionPayload")).Return(nil)

	req := validRequest(token)
	req.CalculatorSessionID = session.ID

	result, err := env.service.Submit(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, result.Payload.Calculator)
	snapshot := result.Payload.Calculator
	assert.Equal(t, 12, snapshot.Participants)
	assert.Equal(t, models.FormatOffline, snapshot.Format)

	// 12 participants (4000) + offline (800) + extra interviews (400).
	assert.Equal(t, 4800, snapshot.Pricing.Base)
	assert.Equal(t, 400, snapshot.Pricing.AddOnsTotal)
	assert.Equal(t, 5200, snapshot.Pricing.Total)
	assert.Equal(t, snapshot.Pricing.Base+snapshot.Pricing.AddOnsTotal, snapshot.Pricing.Total)

	require.NotNil(t, result.EstimateTotal)
	assert.Equal(t, 5200, *result.EstimateTotal)
}

func TestLeadService_Submit_NoSnapshotWithoutInteraction(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	// Session exists but the calculator was never touched.
	session := env.sessions.Create()

	env.deliverer.On("Configured").Return(true)
	env.deliverer.On("Deliver", mock.Anything, mock.AnythingOfType("*models.SubmissionPayload")).Return(nil)

	req := validRequest(token)
	req.CalculatorSessionID = session.ID

	result, err := env.service.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, services.StatusDelivered, result.Status)
	assert.Nil(t, result.Payload.Calculator)
	assert.Nil(t, result.EstimateTotal)
}

func TestLeadService_Submit_UnknownSessionIgnored(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	env.deliverer.On("Configured").Return(true)
	env.deliverer.On("Deliver", mock.Anything, mock.AnythingOfType("*models.SubmissionPayload")).Return(nil)

	req := validRequest(token)
	req.CalculatorSessionID = "no-such-session"

	result, err := env.service.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, services.StatusDelivered, result.Status)
	assert.Nil(t, result.Payload.Calculator)
}

func TestLeadService_Submit_DeliveryFailure(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	env.deliverer.On("Configured").Return(true)
	env.deliverer.On("Deliver", mock.Anything, mock.Anything).Return(assert.AnError)

	result, err := env.service.Submit(context.Background(), validRequest(token))
	require.NoError(t, err)

	assert.Equal(t, services.StatusDeliveryFailed, result.Status)

	// No automatic retry: exactly one delivery attempt.
	env.deliverer.AssertNumberOfCalls(t, "Deliver", 1)
}

func TestLeadService_Submit_LocalFallback(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	env.deliverer.On("Configured").Return(false)

	result, err := env.service.Submit(context.Background(), validRequest(token))
	require.NoError(t, err)

	assert.Equal(t, services.StatusLoggedLocally, result.Status)
	require.NotNil(t, result.Payload)
	env.deliverer.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestLeadService_Submit_SubmittedAtAfterMount(t *testing.T) {
	env := newLeadEnv(t)

	mountedAt := time.Now()
	token := env.mountedToken(t, "form-1")

	env.deliverer.On("Configured").Return(false)

	result, err := env.service.Submit(context.Background(), validRequest(token))
	require.NoError(t, err)

	require.NotNil(t, result.Payload)
	assert.False(t, result.Payload.SubmittedAt.Before(mountedAt.UTC().Truncate(time.Second)))
	assert.Equal(t, time.UTC, result.Payload.SubmittedAt.Location())
}

func TestLeadService_Submit_DuplicateInFlight(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	// Simulate an earlier submission that is still running.
	require.True(t, env.forms.BeginSubmission("form-1"))

	result, err := env.service.Submit(context.Background(), validRequest(token))
	require.NoError(t, err)

	assert.Equal(t, services.StatusInFlight, result.Status)
	env.deliverer.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestLeadService_Submit_ClearsInteractionOnSuccess(t *testing.T) {
	env := newLeadEnv(t)
	token := env.mountedToken(t, "form-1")

	env.deliverer.On("Configured").Return(false)

	_, err := env.service.Submit(context.Background(), validRequest(token))
	require.NoError(t, err)

	_, ok := env.forms.FirstInteraction("form-1")
	assert.False(t, ok, "interaction timestamp should be cleared after a successful submission")
}
