// Package antispam implements the two submission guards: the honeypot field
// and the minimum-fill-time check. Both reject silently: the caller reports
// success to the client while the rejection is logged and counted.
package antispam

import (
	"time"

	"go.uber.org/zap"

	"github.com/stratsession/stratsession-api/internal/store"
	"github.com/stratsession/stratsession-api/pkg/formtoken"
	"github.com/stratsession/stratsession-api/pkg/logger"
	"github.com/stratsession/stratsession-api/pkg/metrics"
)

// Reason tags why a submission was dropped.
type Reason string

const (
	ReasonBadToken Reason = "bad_token"
	ReasonHoneypot Reason = "honeypot"
	ReasonTooFast  Reason = "too_fast"
)

// Rejection describes a silently dropped submission.
type Rejection struct {
	Reason Reason
	Cause  error
}

// Guard runs the anti-spam checks for lead submissions.
type Guard struct {
	tokens      *formtoken.TokenManager
	forms       *store.FormStore
	minFillTime time.Duration
}

// NewGuard creates a guard. minFillTime is the shortest plausible human
// fill time, measured from the first field-change event.
func NewGuard(tokens *formtoken.TokenManager, forms *store.FormStore, minFillTime time.Duration) *Guard {
	return &Guard{
		tokens:      tokens,
		forms:       forms,
		minFillTime: minFillTime,
	}
}

// RecordInteraction stores the first field-change time for the form behind
// the token. Later calls for the same form are no-ops.
func (g *Guard) RecordInteraction(tokenString string) (string, error) {
	claims, err := g.tokens.Validate(tokenString)
	if err != nil {
		return "", err
	}

	g.forms.RecordFirstInteraction(claims.FormID, time.Now())
	return claims.FormID, nil
}

// Check runs both guards for a submission. A nil Rejection means the
// submission may proceed to validation; the returned claims identify the
// form and its mount time.
func (g *Guard) Check(tokenString, honeypot string) (*formtoken.FormClaims, *Rejection) {
	claims, err := g.tokens.Validate(tokenString)
	if err != nil {
		return nil, g.reject(ReasonBadToken, err, "")
	}

	if honeypot != "" {
		return nil, g.reject(ReasonHoneypot, nil, claims.FormID)
	}

	// Time guard: only enforceable when a first interaction was recorded.
	// A form submitted with no recorded interaction passes by construction.
	if first, ok := g.forms.FirstInteraction(claims.FormID); ok {
		if time.Since(first) < g.minFillTime {
			return nil, g.reject(ReasonTooFast, nil, claims.FormID)
		}
	}

	return claims, nil
}

func (g *Guard) reject(reason Reason, cause error, formID string) *Rejection {
	metrics.SpamRejections.WithLabelValues(string(reason)).Inc()
	logger.Warn("Submission dropped by anti-spam guard",
		zap.String("reason", string(reason)),
		zap.String("form_id", formID),
		zap.Error(cause))
	return &Rejection{Reason: reason, Cause: cause}
}
