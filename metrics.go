package magiclink

import "sync/atomic"

// MetricID indexes one engine counter.
type MetricID uint16

const (
	// MetricIssueLogin counts issued login tokens.
	MetricIssueLogin MetricID = iota
	// MetricIssueVerify counts issued verification tokens.
	MetricIssueVerify
	// MetricIssueFailure counts issuance attempts that failed.
	MetricIssueFailure
	// MetricRedeemSuccess counts redeemed tokens.
	MetricRedeemSuccess
	// MetricRedeemFailure counts rejected redemption attempts.
	MetricRedeemFailure
	// MetricRateLimitHit counts refused rate-limit checks.
	MetricRateLimitHit
	// MetricMailSent counts delivered magic-link emails.
	MetricMailSent
	// MetricMailFailure counts delivery failures.
	MetricMailFailure
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of lock-free counters. A disabled instance makes
// every Inc a no-op.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics creates the counter set for the given config.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
	}
}

// Enabled reports whether counters are being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter. Safe for concurrent use.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter into a fresh map.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricIDCount),
	}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
