package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/stratsession/stratsession-api/config"
	"github.com/stratsession/stratsession-api/internal/analytics"
	"github.com/stratsession/stratsession-api/internal/antispam"
	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/internal/pricing"
	"github.com/stratsession/stratsession-api/internal/store"
	"github.com/stratsession/stratsession-api/internal/validation"
	"github.com/stratsession/stratsession-api/pkg/logger"
	"github.com/stratsession/stratsession-api/pkg/metrics"
)

// SubmitStatus tags the outcome of a submission attempt. Spam rejections and
// delivery failures must stay distinguishable internally even though the
// client sees a success-shaped response for the former.
type SubmitStatus string

const (
	StatusDelivered        SubmitStatus = "delivered"
	StatusLoggedLocally    SubmitStatus = "logged_locally"
	StatusValidationFailed SubmitStatus = "validation_failed"
	StatusSpamRejected     SubmitStatus = "spam_rejected"
	StatusDeliveryFailed   SubmitStatus = "delivery_failed"
	StatusInFlight         SubmitStatus = "in_flight"
)

// SubmitResult is the tagged outcome of the submission pipeline.
type SubmitResult struct {
	Status        SubmitStatus
	SpamReason    antispam.Reason
	Errors        map[string]string
	Payload       *models.SubmissionPayload
	EstimateTotal *int
}

// Deliverer sends an assembled payload to its destination.
type Deliverer interface {
	Configured() bool
	Deliver(ctx context.Context, payload *models.SubmissionPayload) error
}

// LeadService runs the submission pipeline: guards, validation, payload
// assembly and delivery. At most one submission per form is in flight at a
// time.
type LeadService struct {
	guard      *antispam.Guard
	forms      *store.FormStore
	sessions   *store.SessionStore
	deliverer  Deliverer
	tracker    *analytics.Tracker
	localDelay time.Duration
}

// NewLeadService creates a new lead service instance
func NewLeadService(
	guard *antispam.Guard,
	forms *store.FormStore,
	sessions *store.SessionStore,
	deliverer Deliverer,
	tracker *analytics.Tracker,
	cfg *config.Config,
) *LeadService {

	return &LeadService{
		guard:      guard,
		forms:      forms,
		sessions:   sessions,
		deliverer:  deliverer,
		tracker:    tracker,
		localDelay: time.Duration(cfg.Delivery.LocalDelayMs) * time.Millisecond,
	}
}

// Submit processes one lead submission end to end.
func (s *LeadService) Submit(ctx context.Context, req *models.LeadSubmitRequest) (*SubmitResult, error) {
	snapshot := s.calculatorSnapshot(req.CalculatorSessionID)

	attempt := map[string]any{"hasCalculatorData": snapshot != nil}
	if snapshot != nil {
		attempt["pricing"] = snapshot.Pricing.Total
	}
	s.tracker.Track(analytics.EventSubmitAttempt, attempt, "")

	claims, rejection := s.guard.Check(req.FormToken, req.Honeypot)
	if rejection != nil {
		metrics.LeadSubmissions.WithLabelValues(string(StatusSpamRejected)).Inc()
		return &SubmitResult{Status: StatusSpamRejected, SpamReason: rejection.Reason}, nil
	}

	if !s.forms.BeginSubmission(claims.FormID) {
		logger.Warn("Duplicate submission for form already in flight",
			zap.String("form_id", claims.FormID))
		return &SubmitResult{Status: StatusInFlight}, nil
	}
	defer s.forms.EndSubmission(claims.FormID)

	if errs := validation.ValidateContact(req.Contact()); len(errs) > 0 {
		metrics.LeadSubmissions.WithLabelValues(string(StatusValidationFailed)).Inc()
		s.tracker.Track(analytics.EventSubmitFail, map[string]any{"errors": fieldNames(errs)}, "")
		return &SubmitResult{Status: StatusValidationFailed, Errors: errs}, nil
	}

	payload := &models.SubmissionPayload{
		Calculator:  snapshot,
		Contact:     models.NewContactPayload(req.Contact()),
		SubmittedAt: time.Now().UTC(),
	}

	status := StatusLoggedLocally
	if s.deliverer.Configured() {
		if err := s.deliverer.Deliver(ctx, payload); err != nil {
			metrics.LeadSubmissions.WithLabelValues(string(StatusDeliveryFailed)).Inc()
			logger.Error("Lead delivery failed", zap.Error(err), zap.String("form_id", claims.FormID))
			s.tracker.Track(analytics.EventSubmitFail, map[string]any{"error": err.Error()}, "")
			return &SubmitResult{Status: StatusDeliveryFailed}, nil
		}
		status = StatusDelivered
	} else {
		// Local-only fallback: log the payload and keep the response timing
		// consistent with the network path.
		logger.Info("Lead submission (no webhook configured)", zap.Any("payload", payload))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.localDelay):
		}
	}

	// The interaction timestamp belongs to this fill; the next "submit
	// another request" on the same form starts clean.
	s.forms.ClearInteraction(claims.FormID)

	metrics.LeadSubmissions.WithLabelValues(string(status)).Inc()
	success := map[string]any{"hasCalculatorData": snapshot != nil}
	if snapshot != nil {
		success["pricing"] = snapshot.Pricing.Total
	}
	s.tracker.Track(analytics.EventSubmitSuccess, success, "")

	result := &SubmitResult{Status: status, Payload: payload}
	if snapshot != nil {
		total := snapshot.Pricing.Total
		result.EstimateTotal = &total
	}
	return result, nil
}

// calculatorSnapshot returns the pricing context for the submission, or nil
// when there is no session or the user never touched the calculator. The
// breakdown is recomputed from the current config, never read from a cache.
func (s *LeadService) calculatorSnapshot(sessionID string) *models.CalculatorSnapshot {
	if sessionID == "" {
		return nil
	}

	session, err := s.sessions.Get(sessionID)
	if err != nil || !session.HasInteracted {
		return nil
	}

	return &models.CalculatorSnapshot{
		Participants: session.Config.Participants,
		Format:       session.Config.Format,
		AddOns:       session.Config.AddOns,
		Pricing:      pricing.ComputePrice(session.Config),
	}
}

func fieldNames(errs map[string]string) []string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	return fields
}
