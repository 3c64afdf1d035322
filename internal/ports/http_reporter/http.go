package http_reporter

import (
	"encoding/json"
	"net/http"

	"github.com/fllarpy/memory-probe/domain/memory"
)

// Profiler is the minimal surface the reporter needs from the coordinator.
type Profiler interface {
	GetMemoryStats() memory.MemoryStats
	DetectMemoryLeaks() []memory.LeakReport
	IsServiceEnabled() bool
}

// report is the JSON document served to callers.
type report struct {
	Enabled     bool                `json:"enabled"`
	MemoryStats memory.MemoryStats  `json:"memory_stats"`
	LeakReports []memory.LeakReport `json:"leak_reports"`
}

// NewHandler creates an HTTP handler that serves the profiler's current view.
// Stats and leak reports are computed on demand per request.
func NewHandler(profiler Profiler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc := report{
			Enabled:     profiler.IsServiceEnabled(),
			MemoryStats: profiler.GetMemoryStats(),
			LeakReports: profiler.DetectMemoryLeaks(),
		}
		if doc.LeakReports == nil {
			doc.LeakReports = []memory.LeakReport{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			http.Error(w, "Failed to encode report to JSON", http.StatusInternalServerError)
		}
	})
}
