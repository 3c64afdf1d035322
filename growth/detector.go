package growth

import (
	"sort"
	"time"

	"github.com/fllarpy/memory-probe/domain/memory"
	"github.com/fllarpy/memory-probe/storage/inmemory"
)

const (
	// DefaultWindow is the number of consecutive snapshots a type must grow
	// across before it is flagged.
	DefaultWindow = 3
)

type Config struct {
	// Window overrides DefaultWindow when positive.
	Window int
}

// Detector retains a bounded history of host-supplied snapshots and flags
// types whose live-object count increases strictly across every consecutive
// pair in the window. Requiring unbroken growth suppresses transient spikes
// while still catching slow, steady leaks a single before/after comparison
// would miss.
type Detector struct {
	window  int
	history *inmemory.History
}

// NewDetector creates a detector with an empty history. The history retains
// window+1 snapshots so one analysis worth of context survives each append.
func NewDetector(config Config) *Detector {
	window := config.Window
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{
		window:  window,
		history: inmemory.NewHistory(window + 1),
	}
}

// RecordSnapshot appends a snapshot, evicting the oldest beyond capacity.
func (d *Detector) RecordSnapshot(snapshot memory.MemorySnapshot) {
	d.history.Add(snapshot)
}

// AnalyzeGrowth inspects the most recent window of snapshots and returns one
// report per monotonically growing type, with the type's latest count as the
// suspected count. It returns nil until at least window snapshots have been
// recorded. A type absent from any snapshot in the window is excluded rather
// than treated as count zero.
func (d *Detector) AnalyzeGrowth() []memory.LeakReport {
	snaps := d.history.Last(d.window)
	if len(snaps) < d.window {
		return nil
	}

	seen := make(map[string]struct{})
	for _, s := range snaps {
		for name := range s.TypeCounts {
			seen[name] = struct{}{}
		}
	}

	now := time.Now()
	var reports []memory.LeakReport
	for name := range seen {
		counts, complete := countSeries(snaps, name)
		if !complete || !strictlyIncreasing(counts) {
			continue
		}
		reports = append(reports, memory.LeakReport{
			ObjectType:     name,
			SuspectedCount: counts[len(counts)-1],
			DetectedAt:     now,
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].ObjectType < reports[j].ObjectType
	})
	return reports
}

// Reset clears all recorded history.
func (d *Detector) Reset() {
	d.history.Clear()
}

// countSeries extracts the per-snapshot counts for one type, reporting
// whether the type appears in every snapshot.
func countSeries(snaps []memory.MemorySnapshot, name string) ([]int, bool) {
	counts := make([]int, 0, len(snaps))
	for _, s := range snaps {
		c, ok := s.TypeCounts[name]
		if !ok {
			return nil, false
		}
		counts = append(counts, c)
	}
	return counts, true
}

func strictlyIncreasing(counts []int) bool {
	for i := 1; i < len(counts); i++ {
		if counts[i] <= counts[i-1] {
			return false
		}
	}
	return true
}
