package trace

import (
	"sync"
	"testing"
)

func TestPricingTrace_RecordRun_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for levels
	pt := NewPricingTrace(TraceConfig{Level: TraceLevelLevels})

	// WHEN a run record is recorded
	pt.RecordRun(RunRecord{
		Kind:     "asian",
		MaxLevel: 3,
		Eps:      0.05,
		Price:    5.78,
		StdErr:   0.02,
		Levels:   []LevelRecord{{Level: 0, PilotSamples: 500, ExtraSamples: 1500}},
	})

	// THEN the trace contains one run with correct data
	runs := pt.Runs()
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Kind != "asian" || runs[0].MaxLevel != 3 {
		t.Errorf("run fields mismatch: kind=%q maxLevel=%d", runs[0].Kind, runs[0].MaxLevel)
	}
	if runs[0].Levels[0].Samples() != 2000 {
		t.Errorf("expected 2000 samples, got %d", runs[0].Levels[0].Samples())
	}
}

func TestPricingTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	pt := NewPricingTrace(TraceConfig{Level: TraceLevelLevels})
	pt.RecordRun(RunRecord{MaxLevel: 1})
	pt.RecordRun(RunRecord{MaxLevel: 2})
	pt.RecordRun(RunRecord{MaxLevel: 3})

	runs := pt.Runs()
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, r := range runs {
		if r.MaxLevel != i+1 {
			t.Errorf("run %d: maxLevel = %d, want %d", i, r.MaxLevel, i+1)
		}
	}
}

func TestPricingTrace_Runs_ReturnsCopy(t *testing.T) {
	pt := NewPricingTrace(TraceConfig{Level: TraceLevelLevels})
	pt.RecordRun(RunRecord{MaxLevel: 1})

	runs := pt.Runs()
	runs[0].MaxLevel = 99

	if pt.Runs()[0].MaxLevel != 1 {
		t.Error("mutating the returned slice changed the trace")
	}
}

func TestPricingTrace_ConcurrentRecording_KeepsEveryRun(t *testing.T) {
	pt := NewPricingTrace(TraceConfig{Level: TraceLevelLevels})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pt.RecordRun(RunRecord{MaxLevel: i})
		}(i)
	}
	wg.Wait()

	if got := len(pt.Runs()); got != 50 {
		t.Errorf("expected 50 runs, got %d", got)
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"levels", true},
		{"", true},
		{"decisions", false},
		{"verbose", false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}

func TestTraceConfig_Enabled(t *testing.T) {
	if (TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("none must not be enabled")
	}
	if (TraceConfig{}).Enabled() {
		t.Error("empty level must not be enabled")
	}
	if !(TraceConfig{Level: TraceLevelLevels}).Enabled() {
		t.Error("levels must be enabled")
	}
}
