package outbox

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/mcdev12/dynasty-draft/go/internal/draft/outbox/worker"
)

// MetricsCollector defines the interface for collecting outbox metrics
type MetricsCollector interface {
	RecordEventProcessed(eventType string, success bool, duration time.Duration)
	RecordBatchProcessed(count int, duration time.Duration)
	RecordOutboxLag(lag int)
	RecordPublishAttempt(eventType string, attempt int, success bool)
}

// NoOpMetricsCollector is a no-op implementation for when metrics aren't needed
type NoOpMetricsCollector struct{}

func (n *NoOpMetricsCollector) RecordEventProcessed(eventType string, success bool, duration time.Duration) {
}
func (n *NoOpMetricsCollector) RecordBatchProcessed(count int, duration time.Duration)           {}
func (n *NoOpMetricsCollector) RecordOutboxLag(lag int)                                          {}
func (n *NoOpMetricsCollector) RecordPublishAttempt(eventType string, attempt int, success bool) {}

// MetricPublisher wraps an EventPublisher with metrics collection
type MetricPublisher struct {
	publisher worker.EventPublisher
	metrics   MetricsCollector
}

func NewMetricPublisher(publisher worker.EventPublisher, metrics MetricsCollector) *MetricPublisher {
	return &MetricPublisher{
		publisher: publisher,
		metrics:   metrics,
	}
}

func (p *MetricPublisher) Publish(ctx context.Context, event worker.OutboxEvent) error {
	start := time.Now()
	err := p.publisher.Publish(ctx, event)
	p.metrics.RecordEventProcessed(event.EventType, err == nil, time.Since(start))
	return err
}

// Counters is a MetricsCollector kept in process and read by the
// exposition handler.
type Counters struct {
	published   atomic.Uint64
	failed      atomic.Uint64
	attempts    atomic.Uint64
	batches     atomic.Uint64
	lag         atomic.Int64
	publishNano atomic.Int64
}

type CountersSnapshot struct {
	Published       uint64
	Failed          uint64
	Attempts        uint64
	Batches         uint64
	Lag             int64
	PublishDuration time.Duration
}

func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) RecordEventProcessed(eventType string, success bool, duration time.Duration) {
	if success {
		c.published.Add(1)
	} else {
		c.failed.Add(1)
	}
	c.publishNano.Add(int64(duration))
}

func (c *Counters) RecordBatchProcessed(count int, duration time.Duration) {
	c.batches.Add(1)
}

func (c *Counters) RecordOutboxLag(lag int) {
	c.lag.Store(int64(lag))
}

func (c *Counters) RecordPublishAttempt(eventType string, attempt int, success bool) {
	c.attempts.Add(1)
}

func (c *Counters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		Published:       c.published.Load(),
		Failed:          c.failed.Load(),
		Attempts:        c.attempts.Load(),
		Batches:         c.batches.Load(),
		Lag:             c.lag.Load(),
		PublishDuration: time.Duration(c.publishNano.Load()),
	}
}
