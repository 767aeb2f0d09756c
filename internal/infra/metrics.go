package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	snapshotsIngested atomic.Uint64
	ticksAppended     atomic.Uint64
	fetchErrors       atomic.Uint64
	tradesExecuted    atomic.Uint64

	// Gauges
	wsClients atomic.Int32
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordSnapshot records a snapshot delivered to the controller inbox.
func (m *Metrics) RecordSnapshot() {
	m.snapshotsIngested.Add(1)
}

// RecordTick records one tick accepted into a series.
func (m *Metrics) RecordTick() {
	m.ticksAppended.Add(1)
}

// RecordFetchError records a failed venue fetch.
func (m *Metrics) RecordFetchError() {
	m.fetchErrors.Add(1)
}

// RecordTrade records an executed trade.
func (m *Metrics) RecordTrade() {
	m.tradesExecuted.Add(1)
}

// IncrementClients increments connected dashboard clients by 1.
func (m *Metrics) IncrementClients() {
	m.wsClients.Add(1)
}

// DecrementClients decrements connected dashboard clients by 1.
func (m *Metrics) DecrementClients() {
	m.wsClients.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	SnapshotsIngested uint64    `json:"snapshots_ingested"`
	TicksAppended     uint64    `json:"ticks_appended"`
	FetchErrors       uint64    `json:"fetch_errors"`
	TradesExecuted    uint64    `json:"trades_executed"`
	WsClients         int32     `json:"ws_clients"`
	Timestamp         time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		SnapshotsIngested: m.snapshotsIngested.Load(),
		TicksAppended:     m.ticksAppended.Load(),
		FetchErrors:       m.fetchErrors.Load(),
		TradesExecuted:    m.tradesExecuted.Load(),
		WsClients:         m.wsClients.Load(),
		Timestamp:         time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.snapshotsIngested.Store(0)
	m.ticksAppended.Store(0)
	m.fetchErrors.Store(0)
	m.tradesExecuted.Store(0)
	m.wsClients.Store(0)
}
