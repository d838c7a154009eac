// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for the proxy's connection engine.

package control

import (
	"sync"
	"time"
)

// Metric names recorded by the proxy.
const (
	MetricAccepted        = "connections.accepted"
	MetricClosed          = "connections.closed"
	MetricFailed          = "connections.failed"
	MetricBackendsOpened  = "backends.opened"
	MetricBackendsFailed  = "backends.failed"
	MetricRequestsDropped = "requests.dropped"
	MetricBytesRelayed    = "bytes.relayed"
)

// MetricsRegistry holds counters and arbitrary gauge values.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Add increments the int64 counter key by delta. A non-counter value under
// key is replaced.
func (mr *MetricsRegistry) Add(key string, delta int64) {
	if mr == nil {
		return
	}
	mr.mu.Lock()
	cur, _ := mr.metrics[key].(int64)
	mr.metrics[key] = cur + delta
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// Counter returns the int64 value of key, zero when absent.
func (mr *MetricsRegistry) Counter(key string) int64 {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	v, _ := mr.metrics[key].(int64)
	return v
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// Updated returns the time of the last change.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}
