// Package delivery sends accepted submission payloads to the configured
// lead webhook. No webhook configured means the pipeline falls back to
// local-only logging; that fallback lives in the lead service, not here.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/stratsession/stratsession-api/config"
	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/pkg/errors"
	"github.com/stratsession/stratsession-api/pkg/httpclient"
	"github.com/stratsession/stratsession-api/pkg/logger"
	"github.com/stratsession/stratsession-api/pkg/metrics"
	"go.uber.org/zap"
)

// WebhookDeliverer POSTs submission payloads as JSON. Each delivery gets an
// explicit timeout; a non-2xx response is a delivery failure. Failures are
// never retried automatically; the user resubmits manually.
type WebhookDeliverer struct {
	url        string
	timeout    time.Duration
	httpClient httpclient.Client
}

// NewWebhookDeliverer creates a deliverer from config.
func NewWebhookDeliverer(cfg config.DeliveryConfig, client httpclient.Client) *WebhookDeliverer {
	return &WebhookDeliverer{
		url:        cfg.WebhookURL,
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		httpClient: client,
	}
}

// Configured reports whether a webhook URL is set.
func (d *WebhookDeliverer) Configured() bool {
	return d.url != ""
}

// Deliver POSTs the payload to the webhook.
func (d *WebhookDeliverer) Deliver(ctx context.Context, payload *models.SubmissionPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode submission payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		metrics.WebhookDeliveryDuration.WithLabelValues("error").Observe(metrics.MeasureDuration(start))
		return errors.DeliveryError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.WebhookDeliveryDuration.WithLabelValues("error").Observe(metrics.MeasureDuration(start))
		return errors.DeliveryError(fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}

	metrics.WebhookDeliveryDuration.WithLabelValues("success").Observe(metrics.MeasureDuration(start))
	logger.Info("Lead webhook delivered",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return nil
}
