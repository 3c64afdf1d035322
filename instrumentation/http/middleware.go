package http

import (
	"net/http"

	"github.com/fllarpy/memory-probe/domain"
	"github.com/fllarpy/memory-probe/domain/memory"
)

// NewMiddleware registers each incoming request with the lifecycle tracker as
// a scope-bound object. Once the handler returns, the request should become
// unreachable; anything that keeps it alive past the tracker's grace period
// (a goroutine stashing the request, a global cache holding its context)
// surfaces in CheckForLeaks.
func NewMiddleware(next http.Handler, tracker domain.ObjectTracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracker.TrackObject(r, memory.ScopeBound())
		next.ServeHTTP(w, r)
	})
}
