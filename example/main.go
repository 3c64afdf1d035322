package main

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	probe "github.com/fllarpy/memory-probe"
	"github.com/fllarpy/memory-probe/domain/memory"
	httpinstrumentation "github.com/fllarpy/memory-probe/instrumentation/http"
	"github.com/fllarpy/memory-probe/pkg/config"
)

// session is the kind of per-request object a real application would expect
// to be freed once the request ends.
type session struct {
	id      int
	payload []byte
}

var (
	// leakedSessions simulates a forgotten global cache: /leak stores
	// sessions here and nothing ever removes them.
	leakedSessions   []*session
	leakedSessionsMu sync.Mutex
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	p := probe.NewProbe(config.Load(), logger, nil)
	defer p.Shutdown()

	profiler := p.Profiler()
	profiler.StartMonitoring()

	// Feed per-type live counts to the growth detector every few seconds.
	go feedSnapshots(p)

	mux := http.NewServeMux()
	mux.HandleFunc("/", helloHandler)
	mux.HandleFunc("/leak", leakHandler(p))
	mux.HandleFunc("/scoped", scopedHandler(p))
	mux.Handle("/debug/memory", p.ReportHandler())

	instrumented := httpinstrumentation.NewMiddleware(mux, p.Tracker())

	log.Println("Starting example server on :8080")
	log.Println("Test endpoint: http://localhost:8080/")
	log.Println("Leaking endpoint: http://localhost:8080/leak")
	log.Println("Well-behaved tracked endpoint: http://localhost:8080/scoped")
	log.Println("Probe report: http://localhost:8080/debug/memory")

	if err := http.ListenAndServe(":8080", instrumented); err != nil {
		log.Fatalf("could not start server: %v", err)
	}
}

func helloHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "hello")
}

// leakHandler tracks a session as scope-bound and then leaks it into the
// global slice. After the grace period it shows up in the probe report.
func leakHandler(p *probe.Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := &session{id: len(leakedSessions), payload: make([]byte, 64*1024)}
		p.Profiler().TrackObject(s, memory.ScopeBound())

		leakedSessionsMu.Lock()
		leakedSessions = append(leakedSessions, s)
		leakedSessionsMu.Unlock()

		fmt.Fprintf(w, "leaked session %d\n", s.id)
	}
}

// scopedHandler tracks a session that is properly dropped at the end of the
// request; the tracker must never report it.
func scopedHandler(p *probe.Probe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := &session{payload: make([]byte, 64*1024)}
		p.Profiler().TrackObject(s, memory.ScopeBound())
		defer p.Profiler().RemoveTracking(s)

		fmt.Fprintln(w, "session released")
	}
}

func feedSnapshots(p *probe.Probe) {
	for range time.Tick(5 * time.Second) {
		leakedSessionsMu.Lock()
		count := len(leakedSessions)
		leakedSessionsMu.Unlock()

		p.Profiler().RecordSnapshot(memory.MemorySnapshot{
			TypeCounts: map[string]int{"main.session": count},
			CapturedAt: time.Now(),
		})
	}
}
