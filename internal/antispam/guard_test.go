package antispam_test

import (
	"testing"
	"time"

	"github.com/stratsession/stratsession-api/internal/antispam"
	"github.com/stratsession/stratsession-api/internal/store"
	"github.com/stratsession/stratsession-api/pkg/formtoken"
	"github.com/stratsession/stratsession-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func newGuard(t *testing.T) (*antispam.Guard, *formtoken.TokenManager, *store.FormStore) {
	t.Helper()
	tokens := formtoken.NewTokenManager("test-secret", "stratsession-api", time.Hour)
	forms := store.NewFormStore(time.Hour)
	return antispam.NewGuard(tokens, forms, 3*time.Second), tokens, forms
}

func TestGuard_Check_PassesWithoutInteraction(t *testing.T) {
	guard, tokens, _ := newGuard(t)

	token, err := tokens.Issue("form-1")
	require.NoError(t, err)

	claims, rejection := guard.Check(token, "")
	assert.Nil(t, rejection)
	require.NotNil(t, claims)
	assert.Equal(t, "form-1", claims.FormID)
}

func TestGuard_Check_HoneypotFilled(t *testing.T) {
	guard, tokens, _ := newGuard(t)

	token, err := tokens.Issue("form-1")
	require.NoError(t, err)

	claims, rejection := guard.Check(token, "gotcha")
	assert.Nil(t, claims)
	require.NotNil(t, rejection)
	assert.Equal(t, antispam.ReasonHoneypot, rejection.Reason)
}

func TestGuard_Check_TooFast(t *testing.T) {
	guard, tokens, _ := newGuard(t)

	token, err := tokens.Issue("form-1")
	require.NoError(t, err)

	_, err = guard.RecordInteraction(token)
	require.NoError(t, err)

	// Submitted immediately after the first interaction.
	claims, rejection := guard.Check(token, "")
	assert.Nil(t, claims)
	require.NotNil(t, rejection)
	assert.Equal(t, antispam.ReasonTooFast, rejection.Reason)
}

func TestGuard_Check_SlowEnough(t *testing.T) {
	guard, tokens, forms := newGuard(t)

	token, err := tokens.Issue("form-1")
	require.NoError(t, err)

	// First interaction well before the minimum fill time.
	forms.RecordFirstInteraction("form-1", time.Now().Add(-5*time.Second))

	claims, rejection := guard.Check(token, "")
	assert.Nil(t, rejection)
	assert.NotNil(t, claims)
}

func TestGuard_Check_BadToken(t *testing.T) {
	guard, _, _ := newGuard(t)

	claims, rejection := guard.Check("garbage", "")
	assert.Nil(t, claims)
	require.NotNil(t, rejection)
	assert.Equal(t, antispam.ReasonBadToken, rejection.Reason)
}

func TestGuard_RecordInteraction_FirstWriteWins(t *testing.T) {
	guard, tokens, forms := newGuard(t)

	token, err := tokens.Issue("form-1")
	require.NoError(t, err)

	_, err = guard.RecordInteraction(token)
	require.NoError(t, err)

	first, ok := forms.FirstInteraction("form-1")
	require.True(t, ok)

	_, err = guard.RecordInteraction(token)
	require.NoError(t, err)

	again, ok := forms.FirstInteraction("form-1")
	require.True(t, ok)
	assert.Equal(t, first, again)
}
