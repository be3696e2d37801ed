package observability

import (
	"time"

	"github.com/coltranesx/Project-Area/application/ports"
)

// NoopMetrics discards everything
type NoopMetrics struct{}

// RecordCommand implements ports.Metrics
func (NoopMetrics) RecordCommand(string, string, time.Duration) {}

// RecordFallback implements ports.Metrics
func (NoopMetrics) RecordFallback(string) {}

// RecordImport implements ports.Metrics
func (NoopMetrics) RecordImport(string) {}

// Fanout sends every observation to all sinks
type Fanout []ports.Metrics

// RecordCommand implements ports.Metrics
func (f Fanout) RecordCommand(command, outcome string, d time.Duration) {
	for _, m := range f {
		m.RecordCommand(command, outcome, d)
	}
}

// RecordFallback implements ports.Metrics
func (f Fanout) RecordFallback(reason string) {
	for _, m := range f {
		m.RecordFallback(reason)
	}
}

// RecordImport implements ports.Metrics
func (f Fanout) RecordImport(outcome string) {
	for _, m := range f {
		m.RecordImport(outcome)
	}
}
