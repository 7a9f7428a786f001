package systems

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/traits"
)

func newTestSimulation(t *testing.T, cfg *config.Config, seed int64, opts Options) *Simulation {
	t.Helper()
	sim, err := NewSimulation(cfg, rand.New(rand.NewSource(seed)), opts)
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	return sim
}

func smallConfig(w, h int) *config.Config {
	cfg := config.Default()
	cfg.Grid.Width, cfg.Grid.Height = w, h
	return cfg
}

func TestSingleBreedingPrey(t *testing.T) {
	cfg := smallConfig(3, 3)
	cfg.Population.PreyDensity = 0
	cfg.Population.PredatorDensity = 0
	cfg.Seed.Placements = []config.Placement{{X: 1, Y: 1, Kind: "prey"}}
	cfg.Gene.Founder.ReproduceThreshold = traits.Trait{Max: 8, Value: 4}
	cfg.Gene.Founder.MaxHealth = traits.Trait{Max: 8, Value: 4}
	cfg.Gene.Founder.TwinLikelihood = traits.Trait{Max: 4, Value: 0}
	cfg.Mortality.BaseChance = 0
	cfg.Mortality.FrailChance = 0
	cfg.Movement.Enabled = false

	sim := newTestSimulation(t, cfg, 1, Options{})
	sim.Grid().At(1, 1).Health = 4

	if !sim.AdvanceTick() {
		t.Fatal("AdvanceTick returned false with a living prey")
	}

	if n := sim.Grid().Count(components.KindPrey); n != 2 {
		t.Errorf("prey = %d, want 2", n)
	}
	parent := sim.Grid().At(1, 1)
	if parent.Kind != components.KindPrey || parent.Health != 1 || parent.Age != 0 {
		t.Errorf("parent = %s health %d age %d, want prey health 1 age 0", parent.Kind, parent.Health, parent.Age)
	}
	if sim.Tick() != 1 {
		t.Errorf("tick = %d, want 1", sim.Tick())
	}
}

func TestExtinctGridDoesNotAdvance(t *testing.T) {
	cfg := smallConfig(5, 5)
	cfg.Population.PreyDensity = 0
	cfg.Population.PredatorDensity = 0

	sim := newTestSimulation(t, cfg, 1, Options{})

	if !sim.IsExtinct() {
		t.Fatal("empty grid should be extinct")
	}
	advanced, err := sim.Step()
	if err != nil {
		t.Fatal(err)
	}
	if advanced || sim.Tick() != 0 {
		t.Errorf("advanced = %v at tick %d, want no-op", advanced, sim.Tick())
	}
}

func TestSameSeedSameRun(t *testing.T) {
	cfg := smallConfig(40, 40)
	cfg.Population.PreyDensity = 0.3
	cfg.Population.PredatorDensity = 0.05

	a := newTestSimulation(t, cfg, 2024, Options{})
	b := newTestSimulation(t, cfg, 2024, Options{})

	for tick := 1; tick <= 50; tick++ {
		a.AdvanceTick()
		b.AdvanceTick()
		assertSameGrid(t, tick, a.Grid(), b.Grid())
	}
}

func assertSameGrid(t *testing.T, tick int, a, b *Grid) {
	t.Helper()
	for i := 0; i < a.Len(); i++ {
		ca, cb := a.Cell(i), b.Cell(i)
		if ca.Kind != cb.Kind || ca.Health != cb.Health || ca.Age != cb.Age {
			t.Fatalf("tick %d: cell %d diverged: %+v vs %+v", tick, i, *ca, *cb)
		}
		if ca.Alive() && (ca.Gene.Traits() != cb.Gene.Traits() || ca.Gene.PointFunds != cb.Gene.PointFunds) {
			t.Fatalf("tick %d: cell %d genes diverged", tick, i)
		}
	}
}

func TestDebugStepHoldsInvariants(t *testing.T) {
	for _, policy := range []string{"founder", "current"} {
		t.Run(policy, func(t *testing.T) {
			cfg := smallConfig(30, 30)
			cfg.Gene.ClonePolicy = policy
			cfg.Population.PreyDensity = 0.3
			cfg.Population.PredatorDensity = 0.05

			sim := newTestSimulation(t, cfg, 5, Options{Debug: true})
			for tick := 0; tick < 200; tick++ {
				advanced, err := sim.Step()
				if err != nil {
					t.Fatalf("Step: %v", err)
				}
				if !advanced {
					break
				}
			}
		})
	}
}

func TestCheckInvariantsDetectsBudgetDrift(t *testing.T) {
	cfg := smallConfig(5, 5)
	cfg.Population.PreyDensity = 0
	cfg.Population.PredatorDensity = 0
	cfg.Seed.Placements = []config.Placement{{X: 2, Y: 2, Kind: "predator"}}

	sim := newTestSimulation(t, cfg, 1, Options{})
	if err := sim.CheckInvariants(); err != nil {
		t.Fatalf("fresh simulation: %v", err)
	}

	sim.Grid().At(2, 2).Gene.PointFunds++
	if err := sim.CheckInvariants(); !errors.Is(err, ErrInvariant) {
		t.Errorf("CheckInvariants() = %v, want ErrInvariant", err)
	}
}

func TestCheckInvariantsDetectsMissingGene(t *testing.T) {
	cfg := smallConfig(5, 5)
	cfg.Population.PreyDensity = 0
	cfg.Population.PredatorDensity = 0

	sim := newTestSimulation(t, cfg, 1, Options{})
	c := sim.Grid().At(0, 4)
	c.Kind = components.KindPrey
	c.Health = 1

	if err := sim.CheckInvariants(); !errors.Is(err, ErrInvariant) {
		t.Errorf("CheckInvariants() = %v, want ErrInvariant", err)
	}
}

func TestNewSimulationRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig(2, 10)
	_, err := NewSimulation(cfg, rand.New(rand.NewSource(1)), Options{})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("NewSimulation() = %v, want ErrInvalidConfig", err)
	}
}

func TestCensusMatchesGrid(t *testing.T) {
	cfg := smallConfig(25, 25)
	cfg.Population.PreyDensity = 0.4
	cfg.Population.PredatorDensity = 0.1

	sim := newTestSimulation(t, cfg, 9, Options{})
	for tick := 0; tick < 10; tick++ {
		sim.AdvanceTick()
	}

	c := sim.Census()
	g := sim.Grid()
	if c.Prey != g.Count(components.KindPrey) {
		t.Errorf("census prey = %d, grid = %d", c.Prey, g.Count(components.KindPrey))
	}
	if c.Predators != g.Count(components.KindPredator) {
		t.Errorf("census predators = %d, grid = %d", c.Predators, g.Count(components.KindPredator))
	}
	if c.Living()+c.Empty != g.Len() {
		t.Errorf("census covers %d cells, want %d", c.Living()+c.Empty, g.Len())
	}
	if len(c.PreyHealth) != c.Prey || len(c.PredatorHealth) != c.Predators {
		t.Error("health samples do not match counts")
	}
	for k := range c.Traits {
		if len(c.Traits[k]) != c.Living() {
			t.Errorf("trait %s has %d samples, want %d", traits.Names[k], len(c.Traits[k]), c.Living())
		}
	}
	if c.Tick != 10 {
		t.Errorf("census tick = %d, want 10", c.Tick)
	}
}

func TestObserverSeesEvents(t *testing.T) {
	cfg := smallConfig(20, 20)
	cfg.Population.PreyDensity = 0.3
	cfg.Population.PredatorDensity = 0.1

	rec := newRecorder()
	sim := newTestSimulation(t, cfg, 4, Options{Observer: rec})
	for tick := 0; tick < 20; tick++ {
		sim.AdvanceTick()
	}

	if rec.births[components.KindPrey] == 0 {
		t.Error("no prey births recorded")
	}
	if rec.kills != rec.deaths[components.DeathEaten] {
		t.Errorf("kills = %d, eaten = %d, want equal", rec.kills, rec.deaths[components.DeathEaten])
	}
}
