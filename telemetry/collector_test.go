package telemetry

import (
	"testing"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/systems"
	"github.com/pthm-cable/gridsoup/traits"
)

func TestCollector_FlushCountsAndResets(t *testing.T) {
	c := NewCollector(50)

	c.RecordBirth(components.KindPrey)
	c.RecordBirth(components.KindPrey)
	c.RecordBirth(components.KindPredator)
	c.RecordDeath(components.KindPrey, components.DeathEaten)
	c.RecordKill()
	c.RecordDeath(components.KindPredator, components.DeathStarvation)
	c.RecordDeath(components.KindPrey, components.DeathAge)
	c.RecordMove(components.KindPrey)

	census := systems.Census{
		Tick:           50,
		Prey:           3,
		Predators:      1,
		Empty:          5,
		PreyHealth:     []float64{1, 2, 3},
		PredatorHealth: []float64{4},
		PointFunds:     []float64{4, 4, 2, 2},
	}
	census.Traits[traits.TraitMaxAge] = []float64{10, 20, 30, 40}

	stats := c.Flush(census)

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 50 {
		t.Errorf("window = [%d, %d], want [0, 50]", stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.PreyBirths != 2 || stats.PredBirths != 1 {
		t.Errorf("births = %d/%d, want 2/1", stats.PreyBirths, stats.PredBirths)
	}
	if stats.PreyDeaths != 2 || stats.PredDeaths != 1 {
		t.Errorf("deaths = %d/%d, want 2/1", stats.PreyDeaths, stats.PredDeaths)
	}
	if stats.DeathsEaten != 1 || stats.DeathsStarvation != 1 || stats.DeathsAge != 1 || stats.DeathsChance != 0 {
		t.Errorf("causes = %+v", stats)
	}
	if stats.Kills != 1 || stats.PreyMoves != 1 || stats.PredMoves != 0 {
		t.Errorf("kills/moves = %d/%d/%d", stats.Kills, stats.PreyMoves, stats.PredMoves)
	}
	if stats.PreyCount != 3 || stats.PredCount != 1 || stats.EmptyCount != 5 {
		t.Errorf("counts = %d/%d/%d", stats.PreyCount, stats.PredCount, stats.EmptyCount)
	}
	if stats.PreyHealthMean != 2 || stats.PredHealthMean != 4 {
		t.Errorf("health means = %v/%v, want 2/4", stats.PreyHealthMean, stats.PredHealthMean)
	}
	if stats.MaxAgeMean != 25 || stats.PointFundsMean != 3 {
		t.Errorf("trait means = %v/%v, want 25/3", stats.MaxAgeMean, stats.PointFundsMean)
	}

	next := c.Flush(systems.Census{Tick: 100})
	if next.WindowStartTick != 50 {
		t.Errorf("next window starts at %d, want 50", next.WindowStartTick)
	}
	if next.PreyBirths != 0 || next.Kills != 0 || next.DeathsEaten != 0 || next.PreyMoves != 0 {
		t.Error("counters were not reset")
	}
}

func TestCollector_ShouldFlush(t *testing.T) {
	c := NewCollector(10)

	if c.ShouldFlush(9) {
		t.Error("flushed before the window filled")
	}
	if !c.ShouldFlush(10) {
		t.Error("did not flush at the window boundary")
	}

	c.Flush(systems.Census{Tick: 10})
	if c.ShouldFlush(15) {
		t.Error("window start did not advance")
	}
	if !c.ShouldFlush(20) {
		t.Error("second window did not flush")
	}
}

func TestCollector_MinimumWindow(t *testing.T) {
	if got := NewCollector(0).WindowTicks(); got != 1 {
		t.Errorf("WindowTicks = %d, want 1", got)
	}
}
