// Package logging adapts a zap logger to the probe's LogSink contract.
package logging

import "go.uber.org/zap"

// ZapSink forwards probe log lines to a zap logger.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps logger. A nil logger falls back to zap.NewNop, keeping the
// sink fire-and-forget in every configuration.
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger.Named("memory-probe")}
}

func (s *ZapSink) Info(message string) {
	s.logger.Info(message)
}

func (s *ZapSink) Warn(message string) {
	s.logger.Warn(message)
}
