package growth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fllarpy/memory-probe/domain/memory"
)

func snapshotWith(counts map[string]int) memory.MemorySnapshot {
	return memory.MemorySnapshot{
		TypeCounts: counts,
		CapturedAt: time.Now(),
	}
}

func TestDetector_AnalyzeGrowth(t *testing.T) {
	t.Run("flags unbroken monotonic growth with the latest count", func(t *testing.T) {
		d := NewDetector(Config{Window: 3})
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 10}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 20}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 30}))

		reports := d.AnalyzeGrowth()

		require.Len(t, reports, 1)
		assert.Equal(t, "app.Session", reports[0].ObjectType)
		assert.Equal(t, 30, reports[0].SuspectedCount)
	})

	t.Run("does not flag a fluctuating count", func(t *testing.T) {
		d := NewDetector(Config{Window: 3})
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 10}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 8}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 12}))

		assert.Empty(t, d.AnalyzeGrowth())
	})

	t.Run("does not flag a plateau", func(t *testing.T) {
		d := NewDetector(Config{Window: 3})
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 10}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 10}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 11}))

		assert.Empty(t, d.AnalyzeGrowth())
	})

	t.Run("requires a full window of snapshots", func(t *testing.T) {
		d := NewDetector(Config{Window: 3})
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 10}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 20}))

		assert.Empty(t, d.AnalyzeGrowth())
	})

	t.Run("excludes a type missing from one snapshot", func(t *testing.T) {
		d := NewDetector(Config{Window: 3})
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 10, "app.Buffer": 1}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 20}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 30, "app.Buffer": 3}))

		reports := d.AnalyzeGrowth()

		require.Len(t, reports, 1)
		assert.Equal(t, "app.Session", reports[0].ObjectType)
	})

	t.Run("considers only the most recent window", func(t *testing.T) {
		d := NewDetector(Config{Window: 3})
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 100}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 10}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 20}))
		d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 30}))

		reports := d.AnalyzeGrowth()

		require.Len(t, reports, 1, "the drop before the window must not matter")
		assert.Equal(t, 30, reports[0].SuspectedCount)
	})

	t.Run("reports multiple types sorted by name", func(t *testing.T) {
		d := NewDetector(Config{Window: 2})
		d.RecordSnapshot(snapshotWith(map[string]int{"b.Two": 1, "a.One": 5}))
		d.RecordSnapshot(snapshotWith(map[string]int{"b.Two": 2, "a.One": 6}))

		reports := d.AnalyzeGrowth()

		require.Len(t, reports, 2)
		assert.Equal(t, "a.One", reports[0].ObjectType)
		assert.Equal(t, "b.Two", reports[1].ObjectType)
	})
}

func TestDetector_Reset(t *testing.T) {
	d := NewDetector(Config{Window: 3})
	d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 10}))
	d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 20}))
	d.RecordSnapshot(snapshotWith(map[string]int{"app.Session": 30}))
	require.NotEmpty(t, d.AnalyzeGrowth())

	d.Reset()

	assert.Empty(t, d.AnalyzeGrowth())
}
