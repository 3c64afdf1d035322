// Package http_reporter provides an HTTP handler for exposing the probe's
// current memory stats and suspected leaks in JSON format. It's intended to
// be used by operators and monitoring systems to inspect the probe's view of
// the host process.
//
// The package implements the standard http.Handler interface and can be
// mounted on any HTTP router or used with the standard library's http package.
package http_reporter
