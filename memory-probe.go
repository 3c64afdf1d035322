package memory_probe

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fllarpy/memory-probe/growth"
	"github.com/fllarpy/memory-probe/infrastructure/sysmem"
	"github.com/fllarpy/memory-probe/internal/application/scheduler"
	"github.com/fllarpy/memory-probe/internal/ports/http_reporter"
	"github.com/fllarpy/memory-probe/pkg/config"
	"github.com/fllarpy/memory-probe/pkg/logging"
	"github.com/fllarpy/memory-probe/profiling"
	"github.com/fllarpy/memory-probe/tracker"
)

// Probe bundles the wired diagnostic engine for embedding into a host
// application.
type Probe struct {
	profiler *profiling.MemoryProfiler
	tracker  *tracker.Tracker
	growth   *growth.Detector
}

// NewProbe wires the default collaborators: the gopsutil process reader, a
// zap-backed log sink, the periodic scheduler, the lifecycle tracker and the
// growth detector. The returned probe is Idle; call StartMonitoring on the
// profiler to begin sampling. gate guards every operation; pass nil to allow
// all.
func NewProbe(cfg *config.Config, logger *zap.Logger, gate func() bool) *Probe {
	if cfg == nil {
		cfg = config.Load()
	}

	tr := tracker.NewTracker(tracker.Config{GracePeriod: cfg.TrackingGracePeriod})
	det := growth.NewDetector(growth.Config{Window: cfg.GrowthWindow})

	profiler := profiling.NewMemoryProfiler(
		profiling.Config{
			CheckInterval:         cfg.CheckInterval,
			WarningThresholdBytes: cfg.WarningThresholdBytes(),
			Gate:                  gate,
		},
		sysmem.NewProcessReader(),
		logging.NewZapSink(logger),
		scheduler.NewPeriodicScheduler(),
		tr,
		det,
	)

	return &Probe{
		profiler: profiler,
		tracker:  tr,
		growth:   det,
	}
}

// Profiler returns the coordinating facade.
func (p *Probe) Profiler() *profiling.MemoryProfiler {
	return p.profiler
}

// Tracker returns the lifecycle tracker for direct registration, e.g. from
// the HTTP instrumentation middleware.
func (p *Probe) Tracker() *tracker.Tracker {
	return p.tracker
}

// GrowthDetector returns the snapshot diff engine so hosts can feed their own
// snapshots.
func (p *Probe) GrowthDetector() *growth.Detector {
	return p.growth
}

// ReportHandler returns an http.Handler serving the probe's current view as
// JSON.
func (p *Probe) ReportHandler() http.Handler {
	return http_reporter.NewHandler(p.profiler)
}

// Shutdown stops monitoring and disables the probe.
func (p *Probe) Shutdown() {
	p.profiler.Disable()
}
