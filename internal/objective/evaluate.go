// Package objective implements the cost evaluator used by the PSO engine:
// given a flat container→node
// assignment vector, it walks containers in canonical index order,
// rejects any placement that overflows a node's capacity, and otherwise
// returns the monetary cost defined in SPEC_FULL.md §3.
package objective

import (
	"math"

	"github.com/arnegilmore/microplace/internal/placement"
	"github.com/arnegilmore/microplace/internal/scenario"
)

// Infeasible is the sentinel cost for a position that violates node
// capacity somewhere along the walk. Compare with math.IsInf(cost, 1), not
// equality, per spec §4.1's numeric semantics.
var Infeasible = math.Inf(1)

// Evaluate walks position (one node index per container, in canonical
// container order) against s, accumulating resource usage in states — a
// caller-owned scratch buffer with one entry per node, as described in
// SPEC_FULL.md §9(a). states is always reset to all-zero before Evaluate
// returns, whether the walk succeeded or aborted early: this is the single
// invariant (spec §4.1 and §8 invariant 3) that makes the buffer reusable
// across calls.
//
// On success, Evaluate returns the finite monetary cost and the resulting
// Mapping. On infeasibility it returns math.Inf(1) and a nil Mapping.
func Evaluate(s *scenario.Scenario, position []int, states []scenario.NodeState) (float64, *placement.Mapping) {
	for i := range states {
		states[i].Reset()
	}

	mp := placement.New(len(s.Nodes), len(s.Microservices))

	feasible := true
	container := 0
	for i, m := range s.Microservices {
		for c := 0; c < m.Containers; c++ {
			j := position[container]
			container++

			node := s.Nodes[j]
			st := &states[j]
			if !node.Fits(st, m) {
				feasible = false
				break
			}
			st.Place(m)
			mp.Assign(j, i, 1)
		}
		if !feasible {
			break
		}
	}

	cost := math.Inf(1)
	if feasible {
		cost = totalCost(s, mp)
	}

	for i := range states {
		states[i].Reset()
	}

	if !feasible {
		return math.Inf(1), nil
	}
	return cost, mp
}

// totalCost computes infra cost (sum of Node.Cost over used nodes) plus
// data cost (tariff-weighted cross-container data rate between used node
// pairs), per SPEC_FULL.md §3's cost formula.
func totalCost(s *scenario.Scenario, mp *placement.Mapping) float64 {
	var cost float64

	for j, node := range s.Nodes {
		if mp.NodeUsed(j) {
			cost += node.Cost
		}
	}

	cost += dataCost(s, mp)
	return cost
}

func dataCost(s *scenario.Scenario, mp *placement.Mapping) float64 {
	pruned := mp.PrunedByNode()
	if len(pruned) < 2 {
		return 0
	}

	// Walk node pairs in index order, not map order, so the floating-point
	// sum is the same on every call.
	var cost float64
	for j1 := range s.Nodes {
		entries1, ok := pruned[j1]
		if !ok {
			continue
		}
		for j2 := range s.Nodes {
			entries2, ok := pruned[j2]
			if !ok || j1 == j2 {
				continue
			}
			tariff := s.NodeDataCost(j1, j2)
			if tariff == 0 {
				continue
			}

			var data float64
			for _, e1 := range entries1 {
				m1 := s.Microservices[e1.MicroserviceIndex]
				for _, e2 := range entries2 {
					m2 := s.Microservices[e2.MicroserviceIndex]
					rate := s.DataRateBetween(m1.Name, m2.Name)
					if rate == 0 {
						continue
					}
					share := float64(e1.Count) / float64(m1.Containers)
					data += rate * share * float64(e2.Count)
				}
			}
			cost += data * tariff
		}
	}
	return cost
}
