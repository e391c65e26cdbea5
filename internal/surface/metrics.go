package surface

import "sync/atomic"

// Metrics counts registry lifecycle events.
type Metrics struct {
	attached atomic.Uint64
	detached atomic.Uint64
	rejected atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of the registry counters.
type MetricsSnapshot struct {
	Attached uint64
	Detached uint64
	Rejected uint64
}

func (m *Metrics) snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Attached: m.attached.Load(),
		Detached: m.detached.Load(),
		Rejected: m.rejected.Load(),
	}
}
