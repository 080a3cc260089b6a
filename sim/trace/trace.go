package trace

import "sync"

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelLevels captures per-level statistics of every pricing run.
	TraceLevelLevels TraceLevel = "levels"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelLevels: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether runs should be recorded.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelLevels
}

// PricingTrace collects run records. Safe for concurrent recording.
type PricingTrace struct {
	Config TraceConfig

	mu   sync.Mutex
	runs []RunRecord
}

// NewPricingTrace creates a PricingTrace ready for recording.
func NewPricingTrace(config TraceConfig) *PricingTrace {
	return &PricingTrace{
		Config: config,
		runs:   make([]RunRecord, 0),
	}
}

// RecordRun appends a run record.
func (pt *PricingTrace) RecordRun(record RunRecord) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.runs = append(pt.runs, record)
}

// Runs returns a copy of the recorded runs in recording order.
func (pt *PricingTrace) Runs() []RunRecord {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	out := make([]RunRecord, len(pt.runs))
	copy(out, pt.runs)
	return out
}
