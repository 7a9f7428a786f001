package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"github.com/pthm-cable/gridsoup/systems"
)

// Phase IDs, shared with the systems registry.
const (
	PhaseUpdate     = systems.PhaseUpdate
	PhaseInvariants = systems.PhaseInvariants
	PhaseCensus     = systems.PhaseCensus
	PhaseTelemetry  = systems.PhaseTelemetry
)

// Phases lists every phase in the order a tick runs them.
var Phases = systems.NewSystemRegistry().IDs()

// tickSample is the wall time of one tick, split by phase. phases is indexed
// like Phases.
type tickSample struct {
	total  time.Duration
	phases []time.Duration
}

// PerfCollector keeps a ring of recent tick samples plus the latest frame
// time. It is not safe for concurrent use.
type PerfCollector struct {
	ring      []tickSample
	next      int
	filled    int
	gridCells int

	current   []time.Duration
	tickStart time.Time
	mark      time.Time
	active    int // index into Phases of the running phase, -1 for none

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// gridCells is the number of cells one tick visits, used for throughput.
func NewPerfCollector(windowSize, gridCells int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		ring:      make([]tickSample, windowSize),
		gridCells: gridCells,
		current:   make([]time.Duration, len(Phases)),
		active:    -1,
	}
	for i := range p.ring {
		p.ring[i].phases = make([]time.Duration, len(Phases))
	}
	return p
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.mark = p.tickStart
	p.active = -1
	clear(p.current)
}

// StartPhase closes the running phase and starts timing id. An id the
// registry does not know still counts toward the tick total.
func (p *PerfCollector) StartPhase(id string) {
	p.closePhase(time.Now())
	p.active = slices.Index(Phases, id)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active >= 0 {
		p.current[p.active] += now.Sub(p.mark)
	}
	p.mark = now
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.active = -1

	slot := &p.ring[p.next]
	slot.total = now.Sub(p.tickStart)
	copy(slot.phases, p.current)

	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame measures the time since the previous call.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P90TickDuration time.Duration

	// Average duration and share of the average tick, keyed by phase ID.
	// Phases that never ran in the window are absent.
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64
	CellsPerSecond float64

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	ticks := make([]float64, p.filled)
	phaseSum := make([]time.Duration, len(Phases))
	var total time.Duration
	for i, smp := range p.ring[:p.filled] {
		ticks[i] = float64(smp.total)
		total += smp.total
		for k, d := range smp.phases {
			phaseSum[k] += d
		}
	}
	slices.Sort(ticks)

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	s.MinTickDuration = time.Duration(ticks[0])
	s.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	s.P90TickDuration = time.Duration(Percentile(ticks, 0.90))

	for k, id := range Phases {
		if phaseSum[k] == 0 {
			continue
		}
		avg := phaseSum[k] / n
		s.PhaseAvg[id] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[id] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}

	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
		s.CellsPerSecond = s.TicksPerSecond * float64(p.gridCells)
	}
	return s
}

// LogStats logs a "perf" line through logger, or the default logger when nil.
func (s PerfStats) LogStats(logger *slog.Logger) {
	loggerOrDefault(logger).Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer. Phases are listed in tick order and
// phases under 0.1% are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("p90_tick_us", s.P90TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Int("cells_per_sec", int(s.CellsPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, id := range Phases {
		if pct := s.PhasePct[id]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(id+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd     uint64  `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P90TickUS     int64   `csv:"p90_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	CellsPerSec   float64 `csv:"cells_per_sec"`
	FPS           float64 `csv:"fps"`
	UpdatePct     float64 `csv:"update_pct"`
	InvariantsPct float64 `csv:"invariants_pct"`
	CensusPct     float64 `csv:"census_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P90TickUS:     s.P90TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		CellsPerSec:   s.CellsPerSecond,
		FPS:           s.FPS,
		UpdatePct:     s.PhasePct[PhaseUpdate],
		InvariantsPct: s.PhasePct[PhaseInvariants],
		CensusPct:     s.PhasePct[PhaseCensus],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
