package domain

import (
	"time"

	"github.com/fllarpy/memory-probe/domain/memory"
)

// MemoryReader supplies raw used/total byte counts for the process. It must be
// callable from any goroutine and return 0 on read failure instead of
// signaling an error.
type MemoryReader interface {
	CurrentUsedBytes() uint64
	TotalBytes() uint64
}

// LogSink receives the probe's diagnostic lines. Implementations must be
// fire-and-forget and must not block the caller.
type LogSink interface {
	Info(message string)
	Warn(message string)
}

// Scheduler runs a periodic callback on one serialized execution context.
// Starting while a schedule is active replaces it; exactly one schedule exists
// at any time.
type Scheduler interface {
	Start(interval time.Duration, handler func())
	Stop()
	IsActive() bool
}

// ObjectTracker registers objects with an expected lifetime, observes their
// liveness without extending it, and reports survivors.
type ObjectTracker interface {
	TrackObject(object any, lifetime memory.Lifetime)
	RemoveTracking(object any) bool
	CheckForLeaks() []memory.LeakReport
	PurgeReleasedObjects()
	TrackedCount() int
}

// GrowthAnalyzer consumes host-supplied snapshots and flags types whose live
// count grows monotonically across a window.
type GrowthAnalyzer interface {
	RecordSnapshot(snapshot memory.MemorySnapshot)
	AnalyzeGrowth() []memory.LeakReport
	Reset()
}

// RunGate is a pure predicate evaluated per public call, e.g. "is this a
// non-production build". A false gate short-circuits the operation to a
// neutral result.
type RunGate func() bool
