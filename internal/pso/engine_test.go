package pso

import (
	"math"
	"testing"

	"github.com/arnegilmore/microplace/internal/scenario"
)

// trivialScenario is S1 from spec §8: one microservice that fits on the
// single available node.
func trivialScenario() *scenario.Scenario {
	return &scenario.Scenario{
		Microservices: []scenario.Microservice{{Name: "web", CPUReq: 1000, MemReq: 512, Containers: 1}},
		Nodes:         []scenario.Node{{Name: "n1", Cost: 1, CPULim: 1000, MemLim: 512, ContLim: 1, Zone: "a"}},
		DataRate:      map[string]map[string]float64{},
		IntrazoneCost: 0.01,
		InterzoneCost: 0.02,
	}
}

// infeasibleScenario is S2: demand exceeds every node's capacity, so no
// position is ever feasible.
func infeasibleScenario() *scenario.Scenario {
	s := trivialScenario()
	s.Microservices[0].CPUReq = 2000
	return s
}

func baseConfig() Config {
	return Config{
		Particles:        5,
		Iterations:       10,
		Inertia:          0.7,
		Cognitive:        1.4,
		Social:           1.4,
		VelocityHandling: "boundary",
		PositionHandling: "boundary",
		Seed:             42,
	}
}

func TestSolveS1TrivialFindsFeasiblePlacement(t *testing.T) {
	e, err := New(trivialScenario(), baseConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	mp, cost, err := e.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if math.IsInf(cost, 1) {
		t.Fatalf("expected a feasible swarm best, got infeasible")
	}
	if mp.At(0, 0) != 1 {
		t.Errorf("expected the only container placed on the only node")
	}
}

func TestSolveS2InfeasibleReturnsNoSolution(t *testing.T) {
	e, err := New(infeasibleScenario(), baseConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, _, err = e.Solve()
	if err == nil {
		t.Fatalf("expected a NoSolution error when no position is ever feasible")
	}
}

func TestSolveS5DeterministicWithFixedSeed(t *testing.T) {
	s := trivialScenario()
	cfg := baseConfig()

	e1, err := New(s, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, cost1, err := e1.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	e2, err := New(s, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, cost2, err := e2.Solve()
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	if cost1 != cost2 {
		t.Errorf("same seed produced different swarm-best costs: %v != %v", cost1, cost2)
	}
}

func TestInitPositionViableFallsBackToRandomWhenUnplaceable(t *testing.T) {
	// A single node that can't fit even one container forces every
	// first-fit attempt to fail; viablePosition must report false so the
	// caller falls back to random init instead of looping forever.
	s := &scenario.Scenario{
		Microservices: []scenario.Microservice{{Name: "web", CPUReq: 10, MemReq: 10, Containers: 1}},
		Nodes:         []scenario.Node{{Name: "n1", Cost: 1, CPULim: 1, MemLim: 1, ContLim: 1, Zone: "a"}},
		DataRate:      map[string]map[string]float64{},
	}
	cfg := baseConfig()
	cfg.RandomInitPosition = false

	e, err := New(s, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	states := s.NewNodeStates()
	p := newParticle(s.TotalContainers())
	if e.viablePosition(p, states) {
		t.Fatalf("expected viablePosition to fail for an unsatisfiable demand")
	}
	for i, st := range states {
		if st.CPU != 0 || st.Mem != 0 || st.Cont != 0 {
			t.Errorf("node %d scratch not reset after failed viable-init: %+v", i, st)
		}
	}
}

func TestNewRejectsUnknownHandlerNames(t *testing.T) {
	cfg := baseConfig()
	cfg.VelocityHandling = "nonsense"
	if _, err := New(trivialScenario(), cfg); err == nil {
		t.Errorf("expected a ConfigError for an unknown velocity handler")
	}

	cfg = baseConfig()
	cfg.PositionHandling = "nonsense"
	if _, err := New(trivialScenario(), cfg); err == nil {
		t.Errorf("expected a ConfigError for an unknown position handler")
	}
}
