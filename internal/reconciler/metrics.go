package reconciler

import (
	"sync"
	"time"

	"tlpswitch/pkg/logging"
)

// Metrics tracks reconciliation activity for diagnostics.
//
// It counts reconciliation passes, triggers that were folded into a pending
// pass, and the outcome of every apply. Values are cumulative for the lifetime
// of the Controller.
type Metrics struct {
	mu sync.RWMutex

	passes           int64
	passFailures     int64
	coalesced        int64
	skippedProfiles  int64
	applyAttempts    int64
	applySuccesses   int64
	applyFailures    int64
	applyRejections  int64
	lastPassDuration time.Duration
	lastPassAt       time.Time
	lastApplyAt      time.Time
	lastApplyFailure string
}

// NewMetrics creates an empty Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordPass records a completed reconciliation pass.
func (m *Metrics) RecordPass(duration time.Duration, failed bool, skipped int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.passes++
	if failed {
		m.passFailures++
	}
	m.skippedProfiles += int64(skipped)
	m.lastPassDuration = duration
	m.lastPassAt = time.Now()
}

// RecordCoalesced records a trigger absorbed by an already pending pass.
func (m *Metrics) RecordCoalesced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coalesced++
}

// RecordApplyAttempt records the start of an apply.
func (m *Metrics) RecordApplyAttempt(profileID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.applyAttempts++
	m.lastApplyAt = time.Now()

	logging.Debug("ReconcilerMetrics", "Apply attempt for profile %s", profileID)
}

// RecordApplySuccess records a successful apply.
func (m *Metrics) RecordApplySuccess(profileID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applySuccesses++
}

// RecordApplyFailure records a failed apply and its reason.
func (m *Metrics) RecordApplyFailure(profileID, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.applyFailures++
	m.lastApplyFailure = reason

	logging.Debug("ReconcilerMetrics", "Apply failure for profile %s: %s", profileID, reason)
}

// RecordApplyRejected records an apply refused or superseded before it ran.
func (m *Metrics) RecordApplyRejected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyRejections++
}

// MetricsSummary is a read-only view of the controller metrics.
type MetricsSummary struct {
	Passes           int64         `json:"passes"`
	PassFailures     int64         `json:"pass_failures"`
	CoalescedTrigger int64         `json:"coalesced_triggers"`
	SkippedProfiles  int64         `json:"skipped_profiles"`
	ApplyAttempts    int64         `json:"apply_attempts"`
	ApplySuccesses   int64         `json:"apply_successes"`
	ApplyFailures    int64         `json:"apply_failures"`
	ApplyRejections  int64         `json:"apply_rejections"`
	LastPassDuration time.Duration `json:"last_pass_duration"`
	LastPassAt       time.Time     `json:"last_pass_at,omitempty"`
	LastApplyAt      time.Time     `json:"last_apply_at,omitempty"`
	LastApplyFailure string        `json:"last_apply_failure,omitempty"`
	ApplyFailureRate float64       `json:"apply_failure_rate"`
}

// Summary returns a snapshot of the current metrics.
func (m *Metrics) Summary() MetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := MetricsSummary{
		Passes:           m.passes,
		PassFailures:     m.passFailures,
		CoalescedTrigger: m.coalesced,
		SkippedProfiles:  m.skippedProfiles,
		ApplyAttempts:    m.applyAttempts,
		ApplySuccesses:   m.applySuccesses,
		ApplyFailures:    m.applyFailures,
		ApplyRejections:  m.applyRejections,
		LastPassDuration: m.lastPassDuration,
		LastPassAt:       m.lastPassAt,
		LastApplyAt:      m.lastApplyAt,
		LastApplyFailure: m.lastApplyFailure,
	}

	if m.applyAttempts > 0 {
		summary.ApplyFailureRate = float64(m.applyFailures) / float64(m.applyAttempts)
	}

	return summary
}
