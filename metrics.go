package main

import (
	"sync"
	"time"
)

// Metrics holds application counters. Everything is in memory and resets
// on restart, which is all a single-user tool needs.
type Metrics struct {
	mu sync.RWMutex

	// Staging metrics
	filesAddedTotal    int64
	filesRejectedTotal int64
	filesRemovedTotal  int64
	listClearsTotal    int64

	// Merge metrics
	mergesTotal        int64
	mergeSuccessTotal  int64
	mergeFailuresTotal int64
	mergeBytesInTotal  int64
	mergeBytesOutTotal int64
	mergeDurationTotal time.Duration

	// System metrics
	requestsTotal    int64
	requestErrors4xx int64
	requestErrors5xx int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordAdd records the outcome of one add batch.
func (m *Metrics) RecordAdd(added, rejected int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filesAddedTotal += int64(added)
	m.filesRejectedTotal += int64(rejected)
}

// RecordRemove records one removed candidate.
func (m *Metrics) RecordRemove() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filesRemovedTotal++
}

// RecordClear records a clear-all.
func (m *Metrics) RecordClear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listClearsTotal++
}

// RecordMergeSuccess records a merge that delivered a document, with the
// bytes sent to the service, the bytes relayed back, and the wall time.
func (m *Metrics) RecordMergeSuccess(bytesOut, bytesIn int64, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mergesTotal++
	m.mergeSuccessTotal++
	m.mergeBytesOutTotal += bytesOut
	m.mergeBytesInTotal += bytesIn
	m.mergeDurationTotal += d
}

// RecordMergeFailure records a merge attempt that reached the service
// and failed.
func (m *Metrics) RecordMergeFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mergesTotal++
	m.mergeFailuresTotal++
}

// RecordRequest records one handled HTTP request.
func (m *Metrics) RecordRequest(statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestsTotal++
	if statusCode >= 500 {
		m.requestErrors5xx++
	} else if statusCode >= 400 {
		m.requestErrors4xx++
	}
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		FilesAddedTotal:    m.filesAddedTotal,
		FilesRejectedTotal: m.filesRejectedTotal,
		FilesRemovedTotal:  m.filesRemovedTotal,
		ListClearsTotal:    m.listClearsTotal,
		MergesTotal:        m.mergesTotal,
		MergeSuccessTotal:  m.mergeSuccessTotal,
		MergeFailuresTotal: m.mergeFailuresTotal,
		MergeBytesInTotal:  m.mergeBytesInTotal,
		MergeBytesOutTotal: m.mergeBytesOutTotal,
		MergeAvgDurationMs: avgDuration(m.mergeDurationTotal, m.mergeSuccessTotal),
		RequestsTotal:      m.requestsTotal,
		RequestErrors4xx:   m.requestErrors4xx,
		RequestErrors5xx:   m.requestErrors5xx,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	FilesAddedTotal    int64 `json:"files_added_total"`
	FilesRejectedTotal int64 `json:"files_rejected_total"`
	FilesRemovedTotal  int64 `json:"files_removed_total"`
	ListClearsTotal    int64 `json:"list_clears_total"`

	MergesTotal        int64   `json:"merges_total"`
	MergeSuccessTotal  int64   `json:"merge_success_total"`
	MergeFailuresTotal int64   `json:"merge_failures_total"`
	MergeBytesInTotal  int64   `json:"merge_bytes_in_total"`
	MergeBytesOutTotal int64   `json:"merge_bytes_out_total"`
	MergeAvgDurationMs float64 `json:"merge_avg_duration_ms"`

	RequestsTotal    int64 `json:"requests_total"`
	RequestErrors4xx int64 `json:"request_errors_4xx"`
	RequestErrors5xx int64 `json:"request_errors_5xx"`
}

func avgDuration(total time.Duration, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total.Milliseconds()) / float64(count)
}
