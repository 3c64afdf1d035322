package memory

import "time"

// --- Data Structures for Memory Diagnostics ---

// MemoryStats is a point-in-time view of process memory usage. It is built
// fresh on every read and never persisted.
type MemoryStats struct {
	UsedBytes       uint64    `json:"used_bytes"`
	TotalBytes      uint64    `json:"total_bytes"`
	AvailableBytes  uint64    `json:"available_bytes"`
	PeakBytes       uint64    `json:"peak_bytes"`
	UsagePercentage float64   `json:"usage_percentage"`
	CapturedAt      time.Time `json:"captured_at"`
}

// NewMemoryStats derives the computed fields from raw used/total readings.
// The peak is supplied by the caller since it is tracked across reads.
func NewMemoryStats(used, total, peak uint64, capturedAt time.Time) MemoryStats {
	var available uint64
	if total > used {
		available = total - used
	}

	var percentage float64
	if total > 0 {
		percentage = 100 * float64(used) / float64(total)
	}

	return MemoryStats{
		UsedBytes:       used,
		TotalBytes:      total,
		AvailableBytes:  available,
		PeakBytes:       peak,
		UsagePercentage: percentage,
		CapturedAt:      capturedAt,
	}
}

// MemorySnapshot is an immutable record of per-type live-object counts and
// aggregate memory usage, supplied by the host application.
type MemorySnapshot struct {
	TypeCounts      map[string]int `json:"type_counts"`
	TotalMemoryUsed uint64         `json:"total_memory_used"`
	CapturedAt      time.Time      `json:"captured_at"`
}

// LeakReport describes one suspected leak. Reports are computed on demand and
// are not retained by the probe.
type LeakReport struct {
	ObjectType     string    `json:"object_type"`
	SuspectedCount int       `json:"suspected_count"`
	EstimatedSize  uint64    `json:"estimated_size,omitempty"`
	DetectedAt     time.Time `json:"detected_at"`
}

// LifetimeKind distinguishes the two expected-lifetime policies.
type LifetimeKind int

const (
	// LifetimeScopeBound expects destruction when the owning logical scope
	// ends; survival is judged against a grace period after registration.
	LifetimeScopeBound LifetimeKind = iota
	// LifetimeTimeBound expects destruction within a fixed duration from
	// registration.
	LifetimeTimeBound
)

// Lifetime is the expected lifetime of a tracked object.
type Lifetime struct {
	Kind     LifetimeKind
	Duration time.Duration // threshold for LifetimeTimeBound, unused otherwise
}

// ScopeBound returns a lifetime judged by the tracker's grace period.
func ScopeBound() Lifetime {
	return Lifetime{Kind: LifetimeScopeBound}
}

// TimeBound returns a lifetime that expects destruction within d.
func TimeBound(d time.Duration) Lifetime {
	return Lifetime{Kind: LifetimeTimeBound, Duration: d}
}
