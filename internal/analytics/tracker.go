// Package analytics implements the anonymous usage tracker. Events carry no
// PII beyond what the user already typed into the form; the tracker is fully
// off unless enabled in configuration.
package analytics

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/stratsession/stratsession-api/config"
	"github.com/stratsession/stratsession-api/internal/models"
	"github.com/stratsession/stratsession-api/pkg/logger"
	"github.com/stratsession/stratsession-api/pkg/metrics"
)

// Event names emitted by the backend itself. The frontend sends its own
// (cta_click, faq_open, ...) through the events endpoint.
const (
	EventCalculatorChange = "calculator_change"
	EventSubmitAttempt    = "contact_submit_attempt"
	EventSubmitSuccess    = "contact_submit_success"
	EventSubmitFail       = "contact_submit_fail"
)

// Tracker appends events as JSON lines to a rotated file and mirrors them
// into the structured log and the event counter.
type Tracker struct {
	enabled bool
	mu      sync.Mutex
	sink    *lumberjack.Logger
}

type record struct {
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp string         `json:"timestamp"`
	URL       string         `json:"url,omitempty"`
}

// NewTracker creates a tracker. When disabled, every Track call is a no-op.
func NewTracker(cfg config.AnalyticsConfig) *Tracker {
	t := &Tracker{enabled: cfg.Enabled}
	if cfg.Enabled {
		t.sink = &lumberjack.Logger{
			Filename:   filepath.Join(cfg.EventsDir, "events.log"),
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
	}
	return t
}

// Enabled reports whether events are being recorded.
func (t *Tracker) Enabled() bool {
	return t.enabled
}

// Track records one event with a server-assigned timestamp.
func (t *Tracker) Track(event string, payload map[string]any, url string) {
	if !t.enabled {
		return
	}
	t.write(record{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       url,
	})
}

// TrackClientEvent records an event reported by the frontend, keeping the
// client timestamp when one was provided.
func (t *Tracker) TrackClientEvent(ev models.TrackedEvent) {
	if !t.enabled {
		return
	}
	ts := ev.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	t.write(record{
		Event:     ev.Event,
		Payload:   ev.Payload,
		Timestamp: ts,
		URL:       ev.URL,
	})
}

func (t *Tracker) write(rec record) {
	metrics.AnalyticsEvents.WithLabelValues(rec.Event).Inc()
	logger.Debug("Tracked event", zap.String("event", rec.Event), zap.Any("payload", rec.Payload))

	line, err := json.Marshal(rec)
	if err != nil {
		logger.Error("Failed to encode analytics event", zap.Error(err))
		return
	}
	line = append(line, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.sink.Write(line); err != nil {
		logger.Error("Failed to write analytics event", zap.Error(err))
	}
}

// Close flushes the file sink.
func (t *Tracker) Close() error {
	if t.sink == nil {
		return nil
	}
	return t.sink.Close()
}
