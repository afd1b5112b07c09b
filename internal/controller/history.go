package controller

import (
	"sync"
	"time"

	"github.com/cyrilcaoyang/xarmctl/internal/monitor"
)

const historyCapacity = 1000

// RecordKind tags an error-history entry.
type RecordKind string

const (
	RecordFault       RecordKind = "fault"
	RecordMaintenance RecordKind = "maintenance"
)

// ErrorRecord is one entry of the bounded error history. Fault records carry
// the driver codes; maintenance records carry the alert.
type ErrorRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	Kind      RecordKind     `json:"kind"`
	FaultCode int            `json:"fault_code,omitempty"`
	WarnCode  int            `json:"warn_code,omitempty"`
	Alert     *monitor.Alert `json:"alert,omitempty"`
}

// history is an append-only, capacity-bounded record log. Oldest entries are
// evicted from the front; arrival order is preserved.
type history struct {
	mu      sync.Mutex
	records []ErrorRecord
}

func newHistory() *history {
	return &history{}
}

func (h *history) append(rec ErrorRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append(h.records, rec)
	if len(h.records) > historyCapacity {
		h.records = h.records[1:]
	}
}

// recent returns a copy of the newest n records, oldest first.
func (h *history) recent(n int) []ErrorRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > len(h.records) {
		n = len(h.records)
	}

	out := make([]ErrorRecord, n)
	copy(out, h.records[len(h.records)-n:])

	return out
}

func (h *history) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.records)
}

func (h *history) clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
}

// recentMaintenanceAlerts extracts the alerts among the newest n records.
func (h *history) recentMaintenanceAlerts(n int) []monitor.Alert {
	var alerts []monitor.Alert
	for _, rec := range h.recent(n) {
		if rec.Kind == RecordMaintenance && rec.Alert != nil {
			alerts = append(alerts, *rec.Alert)
		}
	}

	return alerts
}
