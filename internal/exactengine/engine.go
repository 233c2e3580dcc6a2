// Package exactengine builds an integer-program model of the placement
// problem over internal/ipsolver and extracts the optimal mapping. It is
// grounded line-for-line on solvers/cpsat.py's variable and constraint
// shape, translated from OR-Tools CP-SAT calls into ipsolver.Model calls.
package exactengine

import (
	"context"

	"github.com/arnegilmore/microplace/internal/errs"
	"github.com/arnegilmore/microplace/internal/ipsolver"
	"github.com/arnegilmore/microplace/internal/placement"
	"github.com/arnegilmore/microplace/internal/scenario"
)

// Engine builds and solves the exact integer-program formulation of one
// scenario.
type Engine struct {
	scenario *scenario.Scenario

	// ModelDataCost toggles the pair[...] variables and the data-cost
	// objective term. The pair variable count is O((T·N)²) (spec §4.3's
	// scale caveat); setting this false keeps only feasibility
	// constraints and the used[k] cost term, for scenarios too large to
	// model data cost exactly.
	ModelDataCost bool
}

// New builds an Engine for s.
func New(s *scenario.Scenario) *Engine {
	return &Engine{scenario: s, ModelDataCost: true}
}

// Solve builds the integer program, hands it to ipsolver, and extracts the
// optimal mapping. ctx's deadline is honored by ipsolver.Model.Solve; a
// non-optimal outcome — infeasible or cut short by ctx — raises
// errs.NoSolution (spec §4.3 "Result extraction").
func (e *Engine) Solve(ctx context.Context) (*placement.Mapping, float64, error) {
	s := e.scenario
	numNodes := len(s.Nodes)
	numContainers := s.TotalContainers()

	m := ipsolver.NewModel()

	sched := make([][]ipsolver.BoolVar, numContainers)
	for c := range sched {
		sched[c] = make([]ipsolver.BoolVar, numNodes)
		for k := 0; k < numNodes; k++ {
			sched[c][k] = m.NewBoolVar("sched")
		}
	}

	used := make([]ipsolver.BoolVar, numNodes)
	for k := 0; k < numNodes; k++ {
		used[k] = m.NewBoolVar("used")
		schedOnK := make([]ipsolver.BoolVar, numContainers)
		for c := 0; c < numContainers; c++ {
			schedOnK[c] = sched[c][k]
		}
		m.AddMaxEquality(used[k], schedOnK)
	}

	// Every container is scheduled exactly once.
	for c := 0; c < numContainers; c++ {
		terms := make([]ipsolver.Term, numNodes)
		for k := 0; k < numNodes; k++ {
			terms[k] = ipsolver.Term{Coeff: 1, Var: sched[c][k]}
		}
		m.AddEqual(ipsolver.NewExpr(terms...), 1)
	}

	containerMicro := make([]int, numContainers)
	for c := 0; c < numContainers; c++ {
		i, err := s.MicroserviceOf(c)
		if err != nil {
			return nil, 0, err
		}
		containerMicro[c] = i
	}

	objective := ipsolver.NewExpr()
	for k := 0; k < numNodes; k++ {
		node := s.Nodes[k]

		contTerms := make([]ipsolver.Term, numContainers)
		cpuTerms := make([]ipsolver.Term, numContainers)
		memTerms := make([]ipsolver.Term, numContainers)
		for c := 0; c < numContainers; c++ {
			micro := s.Microservices[containerMicro[c]]
			contTerms[c] = ipsolver.Term{Coeff: 1, Var: sched[c][k]}
			cpuTerms[c] = ipsolver.Term{Coeff: float64(micro.CPUReq), Var: sched[c][k]}
			memTerms[c] = ipsolver.Term{Coeff: float64(micro.MemReq), Var: sched[c][k]}
		}
		m.AddLessOrEqual(ipsolver.NewExpr(contTerms...), float64(node.ContLim))
		m.AddLessOrEqual(ipsolver.NewExpr(cpuTerms...), float64(node.CPULim))
		m.AddLessOrEqual(ipsolver.NewExpr(memTerms...), float64(node.MemLim))

		objective = objective.Plus(node.Cost, used[k])
	}

	if e.ModelDataCost {
		for c1 := 0; c1 < numContainers; c1++ {
			for k1 := 0; k1 < numNodes; k1++ {
				for c2 := 0; c2 < numContainers; c2++ {
					for k2 := 0; k2 < numNodes; k2++ {
						m1 := s.Microservices[containerMicro[c1]]
						m2 := s.Microservices[containerMicro[c2]]
						ndc := s.NodeDataCost(k1, k2)
						data := s.DataRateBetween(m1.Name, m2.Name)
						if ndc == 0 || data == 0 {
							continue
						}
						coef := ndc * data / float64(m1.Containers) / float64(m2.Containers)

						pair := m.NewBoolVar("pair")
						m.AddMultiplicationEquality(pair, sched[c1][k1], sched[c2][k2])
						objective = objective.Plus(coef, pair)
					}
				}
			}
		}
	}

	m.Minimize(objective)

	sol := m.Solve(ctx)
	if sol.Status != ipsolver.StatusOptimal {
		return nil, 0, errs.NewNoSolution("exact", "integer program did not reach an optimal solution ("+sol.Status.String()+")")
	}

	mp := placement.New(numNodes, len(s.Microservices))
	for c := 0; c < numContainers; c++ {
		for k := 0; k < numNodes; k++ {
			if sol.Value(sched[c][k]) == 1 {
				mp.Assign(k, containerMicro[c], 1)
				break
			}
		}
	}

	return mp, sol.Objective, nil
}
