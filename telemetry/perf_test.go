package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10, 0)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseUpdate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseCensus)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseUpdate]; !ok {
		t.Error("expected update phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseCensus]; !ok {
		t.Error("expected census phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5, 0) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseUpdate)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10, 0)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCensus)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseUpdate)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct[PhaseCensus]
	slowPct := stats.PhasePct[PhaseUpdate]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected update phase (%v%%) > census phase (%v%%)", slowPct, fastPct)
	}
	if _, ok := stats.PhasePct[PhaseInvariants]; ok {
		t.Error("a phase that never ran should be absent")
	}
}

func TestPerfCollector_UnknownPhaseCountsTowardTotalOnly(t *testing.T) {
	pc := NewPerfCollector(4, 0)

	pc.StartTick()
	pc.StartPhase("warmup")
	time.Sleep(200 * time.Microsecond)
	pc.StartPhase(PhaseUpdate)
	pc.EndTick()

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["warmup"]; ok {
		t.Error("unregistered phase should not be reported")
	}
	if stats.AvgTickDuration < 200*time.Microsecond {
		t.Errorf("tick = %v, want at least the unregistered phase's 200us", stats.AvgTickDuration)
	}
	if stats.PhaseAvg[PhaseUpdate] >= stats.AvgTickDuration {
		t.Errorf("update = %v, want less than the whole tick %v", stats.PhaseAvg[PhaseUpdate], stats.AvgTickDuration)
	}
}

func TestPerfCollector_ThroughputAndTail(t *testing.T) {
	const cells = 1000
	pc := NewPerfCollector(10, cells)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseUpdate)
		if i == 9 {
			time.Sleep(2 * time.Millisecond)
		}
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.TicksPerSecond <= 0 {
		t.Fatal("expected positive ticks per second")
	}
	if got, want := stats.CellsPerSecond, stats.TicksPerSecond*cells; math.Abs(got-want) > 1e-6*want {
		t.Errorf("cells/s = %v, want %v", got, want)
	}
	if stats.MinTickDuration > stats.P90TickDuration || stats.P90TickDuration > stats.MaxTickDuration {
		t.Errorf("min/p90/max = %v/%v/%v, want ordered", stats.MinTickDuration, stats.P90TickDuration, stats.MaxTickDuration)
	}
	if stats.MaxTickDuration < 2*time.Millisecond {
		t.Errorf("max tick = %v, want the 2ms outlier", stats.MaxTickDuration)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10, 0)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10, 0)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// Frames are at least 16ms apart, so FPS cannot exceed 62.5
	if stats.FPS > 63 {
		t.Errorf("expected FPS <= 62.5 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		MinTickDuration: time.Millisecond,
		MaxTickDuration: 2 * time.Millisecond,
		P90TickDuration: 1800 * time.Microsecond,
		TicksPerSecond:  666,
		CellsPerSecond:  666000,
		PhasePct: map[string]float64{
			PhaseUpdate:     80,
			PhaseInvariants: 15,
			PhaseCensus:     5,
		},
	}

	row := s.ToCSV(300)

	if row.WindowEnd != 300 || row.AvgTickUS != 1500 || row.MinTickUS != 1000 || row.MaxTickUS != 2000 {
		t.Errorf("timing columns = %+v", row)
	}
	if row.P90TickUS != 1800 || row.CellsPerSec != 666000 {
		t.Errorf("tail/throughput columns = %+v", row)
	}
	if row.UpdatePct != 80 || row.InvariantsPct != 15 || row.CensusPct != 5 || row.TelemetryPct != 0 {
		t.Errorf("phase columns = %+v", row)
	}
}
