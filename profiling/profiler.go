package profiling

import (
	"fmt"
	"sync"
	"time"

	"github.com/fllarpy/memory-probe/domain"
	"github.com/fllarpy/memory-probe/domain/memory"
)

const (
	// DefaultCheckInterval is the periodic sampling interval used when the
	// config does not set one.
	DefaultCheckInterval = 10 * time.Second

	// defaultThresholdPercent of total memory becomes the warning threshold
	// when none is configured.
	defaultThresholdPercent = 70
)

type Config struct {
	// CheckInterval is the periodic sampling interval.
	CheckInterval time.Duration
	// WarningThresholdBytes is the initial warning threshold. When zero it
	// defaults to 70% of the reader's total at construction.
	WarningThresholdBytes uint64
	// Gate is the build/deployment gate, e.g. "restricted to non-production
	// builds". A nil gate is always open.
	Gate domain.RunGate
}

// MemoryProfiler is the coordinating facade over the memory reader, the
// periodic scheduler, the lifecycle tracker and the growth analyzer. It owns
// the Idle/Monitoring/Disabled state machine, the warning threshold and the
// running peak.
//
// The profiler is safe for concurrent use from arbitrary goroutines plus the
// scheduler's own context. Its mutex guards field access only; reader calls,
// logging and scheduler calls always happen outside the critical section.
type MemoryProfiler struct {
	mu        sync.Mutex
	state     State
	threshold uint64
	peak      uint64

	interval time.Duration
	gate     domain.RunGate
	reader   domain.MemoryReader
	logger   domain.LogSink
	sched    domain.Scheduler
	tracker  domain.ObjectTracker
	growth   domain.GrowthAnalyzer
}

// NewMemoryProfiler wires the profiler with its collaborators. The growth
// analyzer is optional; leave it nil to detect leaks from the tracker alone.
func NewMemoryProfiler(
	cfg Config,
	reader domain.MemoryReader,
	logger domain.LogSink,
	sched domain.Scheduler,
	tracker domain.ObjectTracker,
	growth domain.GrowthAnalyzer,
) *MemoryProfiler {
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = DefaultCheckInterval
	}

	threshold := cfg.WarningThresholdBytes
	if threshold == 0 {
		threshold = reader.TotalBytes() / 100 * defaultThresholdPercent
	}

	gate := cfg.Gate
	if gate == nil {
		gate = func() bool { return true }
	}

	return &MemoryProfiler{
		state:     StateIdle,
		threshold: threshold,
		interval:  interval,
		gate:      gate,
		reader:    reader,
		logger:    logger,
		sched:     sched,
		tracker:   tracker,
		growth:    growth,
	}
}

// StartMonitoring arms the periodic check. It is a no-op unless the profiler
// is Idle and the gate is open.
func (p *MemoryProfiler) StartMonitoring() {
	if !p.gate() {
		return
	}

	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return
	}
	p.state = StateMonitoring
	p.mu.Unlock()

	p.sched.Start(p.interval, p.runPeriodicCheck)

	// A Disable that ran between the transition above and Start may have
	// issued its Stop too early; re-check so its schedule never outlives it.
	p.mu.Lock()
	disabled := p.state == StateDisabled
	p.mu.Unlock()
	if disabled {
		p.sched.Stop()
		return
	}

	p.logger.Info(fmt.Sprintf("memory monitoring started, sampling every %s", p.interval))
}

// StopMonitoring cancels the periodic check. It is a no-op unless the
// profiler is Monitoring.
func (p *MemoryProfiler) StopMonitoring() {
	if !p.gate() {
		return
	}

	p.mu.Lock()
	if p.state != StateMonitoring {
		p.mu.Unlock()
		return
	}
	p.state = StateIdle
	p.mu.Unlock()

	p.sched.Stop()
	p.logger.Info("memory monitoring stopped")
}

// Enable moves the profiler from Disabled back to Idle. Monitoring is never
// resumed automatically; callers must StartMonitoring explicitly. Enable is
// effective regardless of the gate.
func (p *MemoryProfiler) Enable() {
	p.mu.Lock()
	if p.state != StateDisabled {
		p.mu.Unlock()
		return
	}
	p.state = StateIdle
	p.mu.Unlock()

	p.logger.Info("memory profiler enabled")
}

// Disable moves the profiler to Disabled from any state and cancels the
// schedule. It is always effective, gate or not.
func (p *MemoryProfiler) Disable() {
	p.mu.Lock()
	p.state = StateDisabled
	p.mu.Unlock()

	// Stop unconditionally: a schedule armed by a racing StartMonitoring is
	// cancelled too, and stray ticks re-check the gate anyway.
	p.sched.Stop()
	p.logger.Info("memory profiler disabled")
}

// IsServiceEnabled reports whether public operations are currently live.
func (p *MemoryProfiler) IsServiceEnabled() bool {
	return p.runnable()
}

// CurrentState returns the coordinator state.
func (p *MemoryProfiler) CurrentState() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// GetMemoryStats reads the memory reader, derives available bytes and usage
// percentage, and updates the running peak. A gated call returns zeroed
// stats.
func (p *MemoryProfiler) GetMemoryStats() memory.MemoryStats {
	if !p.runnable() {
		return memory.MemoryStats{}
	}
	return p.sampleStats()
}

// DetectMemoryLeaks merges the tracker's survivor reports with the growth
// analyzer's findings. A gated call returns nil.
func (p *MemoryProfiler) DetectMemoryLeaks() []memory.LeakReport {
	if !p.runnable() {
		return nil
	}

	reports := p.tracker.CheckForLeaks()
	if p.growth != nil {
		reports = append(reports, p.growth.AnalyzeGrowth()...)
	}
	return reports
}

// LogMemoryUsage emits one informational line describing current usage,
// prefixed with the caller-supplied context.
func (p *MemoryProfiler) LogMemoryUsage(context string) {
	if !p.runnable() {
		return
	}

	stats := p.sampleStats()
	p.logger.Info(fmt.Sprintf("[%s] memory usage: %.1f MB of %.1f MB (%.1f%%), peak %.1f MB",
		context,
		bytesToMB(stats.UsedBytes),
		bytesToMB(stats.TotalBytes),
		stats.UsagePercentage,
		bytesToMB(stats.PeakBytes)))
}

// SetMemoryWarningThreshold overwrites the warning threshold.
func (p *MemoryProfiler) SetMemoryWarningThreshold(bytes uint64) {
	if !p.runnable() {
		return
	}

	p.mu.Lock()
	p.threshold = bytes
	p.mu.Unlock()

	p.logger.Info(fmt.Sprintf("memory warning threshold set to %.0f MB", bytesToMB(bytes)))
}

// WarningThreshold returns the current warning threshold in bytes.
func (p *MemoryProfiler) WarningThreshold() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.threshold
}

// TrackObject registers object with the lifecycle tracker.
func (p *MemoryProfiler) TrackObject(object any, lifetime memory.Lifetime) {
	if !p.runnable() {
		return
	}
	p.tracker.TrackObject(object, lifetime)
}

// RemoveTracking unregisters object, reporting whether it was tracked.
func (p *MemoryProfiler) RemoveTracking(object any) bool {
	if !p.runnable() {
		return false
	}
	return p.tracker.RemoveTracking(object)
}

// TrackedObjectCount reports the tracker's live registration count.
func (p *MemoryProfiler) TrackedObjectCount() int {
	if !p.runnable() {
		return 0
	}
	return p.tracker.TrackedCount()
}

// RecordSnapshot forwards a host-supplied snapshot to the growth analyzer,
// if one is attached.
func (p *MemoryProfiler) RecordSnapshot(snapshot memory.MemorySnapshot) {
	if !p.runnable() || p.growth == nil {
		return
	}
	p.growth.RecordSnapshot(snapshot)
}

// runPeriodicCheck is the scheduler tick: sample stats, compare used bytes
// against the threshold, log, then let the tracker drop released entries.
func (p *MemoryProfiler) runPeriodicCheck() {
	if !p.runnable() {
		return
	}

	stats := p.sampleStats()

	p.mu.Lock()
	threshold := p.threshold
	p.mu.Unlock()

	if stats.UsedBytes > threshold {
		p.logger.Warn(fmt.Sprintf("memory usage %.0f MB exceeds warning threshold %.0f MB",
			bytesToMB(stats.UsedBytes), bytesToMB(threshold)))
	} else {
		p.logger.Info(fmt.Sprintf("memory usage %.0f MB within warning threshold %.0f MB",
			bytesToMB(stats.UsedBytes), bytesToMB(threshold)))
	}

	p.tracker.PurgeReleasedObjects()
}

// sampleStats reads the collaborator outside the lock and folds the reading
// into the peak inside it, so the peak is monotonic under concurrent calls.
func (p *MemoryProfiler) sampleStats() memory.MemoryStats {
	used := p.reader.CurrentUsedBytes()
	total := p.reader.TotalBytes()

	p.mu.Lock()
	if used > p.peak {
		p.peak = used
	}
	peak := p.peak
	p.mu.Unlock()

	return memory.NewMemoryStats(used, total, peak, time.Now())
}

// runnable reports whether public operations should take effect: the build
// gate must be open and the profiler must not be Disabled.
func (p *MemoryProfiler) runnable() bool {
	if !p.gate() {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state != StateDisabled
}

func bytesToMB(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}
