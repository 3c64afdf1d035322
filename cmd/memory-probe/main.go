package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	probe "github.com/fllarpy/memory-probe"
	fileconfig "github.com/fllarpy/memory-probe/config"
	"github.com/fllarpy/memory-probe/pkg/config"
)

// A standalone agent: monitors its own process and serves the probe's view on
// the configured debug endpoint. Useful for poking at the probe without
// embedding it anywhere.
func main() {
	svcCfg, err := fileconfig.Load(".")
	if err != nil {
		log.Fatalf("failed to load service config: %v", err)
	}

	logger, err := newLogger(svcCfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	probeCfg := config.Load()
	if !probeCfg.Enabled {
		logger.Info("memory probe disabled, exiting")
		return
	}

	// The gate is resolved once here: the probe refuses to run in production
	// unless explicitly allowed.
	gateOpen := !svcCfg.IsProduction() || probeCfg.AllowInProduction
	gate := func() bool { return gateOpen }

	p := probe.NewProbe(probeCfg, logger, gate)
	defer p.Shutdown()

	p.Profiler().StartMonitoring()

	mux := http.NewServeMux()
	mux.Handle(probeCfg.DebugEndpoint, p.ReportHandler())

	logger.Info("serving memory probe report",
		zap.String("service", svcCfg.ServiceName),
		zap.String("endpoint", probeCfg.DebugEndpoint))
	if err := http.ListenAndServe(":8080", mux); err != nil {
		log.Fatalf("could not start server: %v", err)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	return cfg.Build()
}
