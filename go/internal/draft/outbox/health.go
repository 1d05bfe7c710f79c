package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type HealthStatus struct {
	Healthy           bool      `json:"healthy"`
	LastEventTime     time.Time `json:"last_event_time"`
	EventsProcessed   uint64    `json:"events_processed"`
	PendingEvents     int64     `json:"pending_events"`
	DatabaseConnected bool      `json:"database_connected"`
	BusConnected      bool      `json:"bus_connected"`
	RelayActive       bool      `json:"relay_active"`
	Errors            []string  `json:"errors"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Runner is satisfied by Listener and Worker.
type Runner interface {
	Running() bool
}

// highPendingEvents marks a backlog worth reporting.
const highPendingEvents = 1000

type HealthChecker struct {
	app       *App
	db        Pinger
	relay     Runner
	busUp     func() bool
	threshold time.Duration // How long without events before unhealthy
}

// NewHealthChecker builds a checker. busUp may be nil when no bus reports
// its connection state.
func NewHealthChecker(app *App, db Pinger, relay Runner, busUp func() bool, threshold time.Duration) *HealthChecker {
	return &HealthChecker{
		app:       app,
		db:        db,
		relay:     relay,
		busUp:     busUp,
		threshold: threshold,
	}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy:      true,
		BusConnected: true,
		Errors:       []string{},
	}

	status.EventsProcessed, status.LastEventTime = h.app.Stats()

	if err := h.db.PingContext(ctx); err != nil {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("database ping failed: %v", err))
	} else {
		status.DatabaseConnected = true
	}

	if h.busUp != nil && !h.busUp() {
		status.BusConnected = false
		status.Healthy = false
		status.Errors = append(status.Errors, "bus disconnected")
	}

	status.RelayActive = h.relay.Running()
	if !status.RelayActive {
		status.Healthy = false
		status.Errors = append(status.Errors, "relay not active")
	}

	if status.DatabaseConnected {
		pending, err := h.app.Pending(ctx)
		if err != nil {
			status.Errors = append(status.Errors, fmt.Sprintf("failed to count pending events: %v", err))
		} else {
			status.PendingEvents = pending
			if pending > highPendingEvents {
				status.Errors = append(status.Errors, fmt.Sprintf("high pending event count: %d", pending))
			}
		}
	}

	// Only stale if something is waiting.
	if status.PendingEvents > 0 && !status.LastEventTime.IsZero() {
		since := time.Since(status.LastEventTime)
		if since > h.threshold {
			status.Healthy = false
			status.Errors = append(status.Errors, fmt.Sprintf("no events processed for %s", since))
		}
	}

	return status
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

// PrometheusExporter renders health and counters in the Prometheus text format.
type PrometheusExporter struct {
	checker  *HealthChecker
	counters *Counters
}

func NewPrometheusExporter(checker *HealthChecker, counters *Counters) *PrometheusExporter {
	return &PrometheusExporter{checker: checker, counters: counters}
}

func boolGauge(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (e *PrometheusExporter) Export(ctx context.Context) string {
	status := e.checker.Check(ctx)
	c := e.counters.Snapshot()

	return fmt.Sprintf(`# HELP outbox_healthy Whether the outbox relay is healthy
# TYPE outbox_healthy gauge
outbox_healthy %d
# HELP outbox_events_published_total Events published and marked sent
# TYPE outbox_events_published_total counter
outbox_events_published_total %d
# HELP outbox_events_failed_total Events that exhausted their retries
# TYPE outbox_events_failed_total counter
outbox_events_failed_total %d
# HELP outbox_publish_attempts_total Publish attempts including retries
# TYPE outbox_publish_attempts_total counter
outbox_publish_attempts_total %d
# HELP outbox_batches_total Drain passes
# TYPE outbox_batches_total counter
outbox_batches_total %d
# HELP outbox_pending_events Current number of pending events
# TYPE outbox_pending_events gauge
outbox_pending_events %d
# HELP outbox_database_connected Whether database is connected
# TYPE outbox_database_connected gauge
outbox_database_connected %d
# HELP outbox_bus_connected Whether the bus is connected
# TYPE outbox_bus_connected gauge
outbox_bus_connected %d
# HELP outbox_relay_active Whether the relay loop is running
# TYPE outbox_relay_active gauge
outbox_relay_active %d
# HELP outbox_last_event_timestamp Unix timestamp of last processed event
# TYPE outbox_last_event_timestamp gauge
outbox_last_event_timestamp %d
`,
		boolGauge(status.Healthy),
		c.Published,
		c.Failed,
		c.Attempts,
		c.Batches,
		status.PendingEvents,
		boolGauge(status.DatabaseConnected),
		boolGauge(status.BusConnected),
		boolGauge(status.RelayActive),
		status.LastEventTime.Unix(),
	)
}

func (e *PrometheusExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_, _ = w.Write([]byte(e.Export(ctx)))
}
