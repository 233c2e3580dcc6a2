package exactengine

import (
	"context"
	"testing"

	"github.com/arnegilmore/microplace/internal/scenario"
)

func TestSolveS1Trivial(t *testing.T) {
	s := &scenario.Scenario{
		Microservices: []scenario.Microservice{{Name: "web", CPUReq: 1000, MemReq: 512, Containers: 1}},
		Nodes:         []scenario.Node{{Name: "n1", Cost: 1, CPULim: 1000, MemLim: 512, ContLim: 1, Zone: "a"}},
		DataRate:      map[string]map[string]float64{},
	}

	mp, cost, err := New(s).Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if cost != 1 {
		t.Errorf("cost = %v, want 1", cost)
	}
	if mp.At(0, 0) != 1 {
		t.Errorf("expected the container placed on the only node")
	}
}

func TestSolveS2Infeasible(t *testing.T) {
	s := &scenario.Scenario{
		Microservices: []scenario.Microservice{{Name: "web", CPUReq: 2000, MemReq: 512, Containers: 1}},
		Nodes:         []scenario.Node{{Name: "n1", Cost: 1, CPULim: 1000, MemLim: 512, ContLim: 1, Zone: "a"}},
		DataRate:      map[string]map[string]float64{},
	}

	_, _, err := New(s).Solve(context.Background())
	if err == nil {
		t.Fatalf("expected a NoSolution error for an unsatisfiable CPU demand")
	}
}

// TestSolveS4UseFlagCoupling is spec §8's S4: 2 microservices of 1
// container each, 3 nodes costing 1, 1, 100 — each container fits either
// cheap node alone but neither cheap node can hold both (each capped at 1
// container), so both must be used and the expensive node left idle.
func TestSolveS4UseFlagCoupling(t *testing.T) {
	s := &scenario.Scenario{
		Microservices: []scenario.Microservice{
			{Name: "A", CPUReq: 100, MemReq: 100, Containers: 1},
			{Name: "B", CPUReq: 100, MemReq: 100, Containers: 1},
		},
		Nodes: []scenario.Node{
			{Name: "cheap1", Cost: 1, CPULim: 1000, MemLim: 1000, ContLim: 1, Zone: "a"},
			{Name: "cheap2", Cost: 1, CPULim: 1000, MemLim: 1000, ContLim: 1, Zone: "a"},
			{Name: "expensive", Cost: 100, CPULim: 1000, MemLim: 1000, ContLim: 5, Zone: "a"},
		},
		DataRate: map[string]map[string]float64{},
	}

	mp, cost, err := New(s).Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if cost != 2 {
		t.Errorf("cost = %v, want 2 (two cheap nodes used, no data cost)", cost)
	}
	if mp.NodeUsed(2) {
		t.Errorf("expensive node should be unused")
	}
}

func TestSolveDegradedModeOmitsDataCost(t *testing.T) {
	s := &scenario.Scenario{
		Microservices: []scenario.Microservice{
			{Name: "A", CPUReq: 100, MemReq: 100, Containers: 1},
			{Name: "B", CPUReq: 100, MemReq: 100, Containers: 1},
		},
		Nodes: []scenario.Node{
			{Name: "n1", Cost: 1, CPULim: 1000, MemLim: 1000, ContLim: 1, Zone: "a"},
			{Name: "n2", Cost: 1, CPULim: 1000, MemLim: 1000, ContLim: 1, Zone: "b"},
		},
		DataRate:      map[string]map[string]float64{"A": {"B": 100}},
		IntrazoneCost: 0.01,
		InterzoneCost: 0.02,
	}

	e := New(s)
	e.ModelDataCost = false

	_, cost, err := e.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if cost != 2 {
		t.Errorf("degraded-mode cost = %v, want 2 (infra cost only, data cost omitted)", cost)
	}
}
