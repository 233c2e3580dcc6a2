package scenario

import "github.com/arnegilmore/microplace/internal/errs"

// Scenario is the frozen input to every placement engine: an ordered list
// of microservices, an ordered list of nodes, a sparse producer→consumer
// data-rate table, and the two data-transfer tariffs. Index positions in
// Microservices and Nodes are the sole identifiers used by the PSO vector
// and the exact-engine variables (spec §3).
type Scenario struct {
	Microservices []Microservice
	Nodes         []Node

	// DataRate[producer][consumer] is the data volume moved from producer
	// to consumer, in whatever unit the caller chose; a missing entry
	// means 0. Both keys are microservice names.
	DataRate map[string]map[string]float64

	IntrazoneCost float64
	InterzoneCost float64
}

// TotalContainers returns T, the sum of every microservice's container
// count — the dimensionality of the PSO position/velocity vectors.
func (s *Scenario) TotalContainers() int {
	total := 0
	for _, m := range s.Microservices {
		total += m.Containers
	}
	return total
}

// MicroserviceOf maps a container index (spec §3's canonical flattening,
// microservice order then container order within a microservice) back to
// the index of the owning microservice in s.Microservices.
func (s *Scenario) MicroserviceOf(container int) (int, error) {
	for i, m := range s.Microservices {
		if container < m.Containers {
			return i, nil
		}
		container -= m.Containers
	}
	return 0, errs.NewInternalInvariant("container index does not belong to any microservice")
}

// DataRateBetween looks up the data rate from producer to consumer, both
// given as microservice names; a missing entry is 0.
func (s *Scenario) DataRateBetween(producer, consumer string) float64 {
	row, ok := s.DataRate[producer]
	if !ok {
		return 0
	}
	return row[consumer]
}

// NodeDataCost returns the per-unit transfer tariff between two nodes given
// by index: 0 for the same node, IntrazoneCost for same-zone distinct
// nodes, InterzoneCost otherwise.
func (s *Scenario) NodeDataCost(j1, j2 int) float64 {
	if j1 == j2 {
		return 0
	}
	if s.Nodes[j1].Zone == s.Nodes[j2].Zone {
		return s.IntrazoneCost
	}
	return s.InterzoneCost
}

// NewNodeStates allocates a fresh, zeroed scratch buffer sized to the
// number of nodes in s — one NodeState per node, in Nodes order. Every
// objective evaluation takes its own buffer (or reuses a reset one);
// see SPEC_FULL.md §5's shared-resource policy.
func (s *Scenario) NewNodeStates() []NodeState {
	return make([]NodeState, len(s.Nodes))
}
