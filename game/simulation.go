package game

import "github.com/pthm-cable/gridsoup/telemetry"

// step advances one tick, timing each phase. It returns false once the run
// cannot continue: the grid is extinct or an invariant failed.
func (g *Game) step() bool {
	if g.err != nil {
		return false
	}

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseUpdate)
	if !g.sim.AdvanceTick() {
		g.perfCollector.EndTick()
		return false
	}

	if g.sim.Debug() {
		g.perfCollector.StartPhase(telemetry.PhaseInvariants)
		if err := g.sim.CheckInvariants(); err != nil {
			g.err = err
			g.logger.Error("invariant violated", "tick", g.sim.Tick(), "error", err)
			g.perfCollector.EndTick()
			return false
		}
	}

	g.perfCollector.StartPhase(telemetry.PhaseCensus)
	g.lastCensus = g.sim.Census()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
	return true
}
