// Package exporter publishes the probe's view as OpenTelemetry metrics.
package exporter

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/fllarpy/memory-probe/domain/memory"
)

// StatsSource is a very small interface used by the exporter. It allows test
// suites to inject lightweight mocks without depending on the concrete
// implementation from the profiling package.
type StatsSource interface {
	// GetMemoryStats returns the current memory view. The real
	// implementation is provided by profiling.MemoryProfiler.
	GetMemoryStats() memory.MemoryStats
	// TrackedObjectCount reports how many objects the lifecycle tracker is
	// currently holding.
	TrackedObjectCount() int
}

// Register installs observable gauges on the meter that read from source on
// every collection. It returns the registration so callers can Unregister on
// shutdown.
func Register(meter metric.Meter, source StatsSource) (metric.Registration, error) {
	usedBytes, err := meter.Int64ObservableGauge("process.memory.used_bytes",
		metric.WithDescription("Resident memory attributed to the process"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("failed to create used_bytes gauge: %w", err)
	}

	totalBytes, err := meter.Int64ObservableGauge("process.memory.total_bytes",
		metric.WithDescription("Total physical memory visible to the process"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("failed to create total_bytes gauge: %w", err)
	}

	peakBytes, err := meter.Int64ObservableGauge("process.memory.peak_bytes",
		metric.WithDescription("Highest used-memory reading since the probe started"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("failed to create peak_bytes gauge: %w", err)
	}

	usagePercent, err := meter.Float64ObservableGauge("process.memory.usage_percent",
		metric.WithDescription("Used memory as a percentage of total"))
	if err != nil {
		return nil, fmt.Errorf("failed to create usage_percent gauge: %w", err)
	}

	trackedObjects, err := meter.Int64ObservableGauge("process.memory.tracked_objects",
		metric.WithDescription("Objects currently registered with the lifecycle tracker"))
	if err != nil {
		return nil, fmt.Errorf("failed to create tracked_objects gauge: %w", err)
	}

	reg, err := meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			stats := source.GetMemoryStats()
			o.ObserveInt64(usedBytes, int64(stats.UsedBytes))
			o.ObserveInt64(totalBytes, int64(stats.TotalBytes))
			o.ObserveInt64(peakBytes, int64(stats.PeakBytes))
			o.ObserveFloat64(usagePercent, stats.UsagePercentage)
			o.ObserveInt64(trackedObjects, int64(source.TrackedObjectCount()))
			return nil
		},
		usedBytes, totalBytes, peakBytes, usagePercent, trackedObjects,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics callback: %w", err)
	}
	return reg, nil
}
