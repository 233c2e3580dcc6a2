// Package placement holds the node→microservice→count mapping produced by
// a solver, plus the pruning that turns the dense working representation
// into the sparse form used for rendering and cost accounting.
package placement

import "github.com/arnegilmore/microplace/internal/scenario"

// Mapping is a dense node-index × microservice-index count matrix. It is
// built and mutated densely during evaluation for cache locality (Design
// Note (b) in SPEC_FULL.md §9); zero entries are pruned only by
// PrunedByNode, for rendering and data-cost accounting, never during
// construction.
type Mapping struct {
	Counts [][]int // Counts[nodeIdx][microserviceIdx]
}

// New allocates a zeroed mapping for a scenario with the given node and
// microservice counts.
func New(numNodes, numMicroservices int) *Mapping {
	counts := make([][]int, numNodes)
	for j := range counts {
		counts[j] = make([]int, numMicroservices)
	}
	return &Mapping{Counts: counts}
}

// Assign adds num containers of microservice i to node j.
func (mp *Mapping) Assign(j, i, num int) {
	mp.Counts[j][i] += num
}

// At returns the count of microservice i's containers placed on node j.
func (mp *Mapping) At(j, i int) int {
	return mp.Counts[j][i]
}

// NodeUsed reports whether node j hosts at least one container.
func (mp *Mapping) NodeUsed(j int) bool {
	for _, c := range mp.Counts[j] {
		if c > 0 {
			return true
		}
	}
	return false
}

// MicroserviceTotal returns the total containers of microservice i placed
// across every node — spec invariant 1 checks this against
// m_i.Containers.
func (mp *Mapping) MicroserviceTotal(i int) int {
	total := 0
	for j := range mp.Counts {
		total += mp.Counts[j][i]
	}
	return total
}

// NodeUsage returns the total CPU, memory, and container demand that node j
// currently carries, given the scenario's microservice list — spec
// invariant 2 checks these against the node's limits.
func (mp *Mapping) NodeUsage(s *scenario.Scenario, j int) (cpu, mem, cont int) {
	for i, count := range mp.Counts[j] {
		if count == 0 {
			continue
		}
		m := s.Microservices[i]
		cpu += count * m.CPUReq
		mem += count * m.MemReq
		cont += count
	}
	return cpu, mem, cont
}

// Entry is one pruned (node, microservice, count) triple, used by
// PrunedByNode to drive rendering without re-scanning zero entries.
type Entry struct {
	MicroserviceIndex int
	Count             int
}

// PrunedByNode returns a map from each used node's index to its list of
// non-zero (microservice, count) entries, in microservice index order; the
// map itself has no iteration order. Nodes with no containers are
// omitted entirely — this is the sparse, zero-elided view spec §4.4's
// renderer consumes; it never mutates Mapping or the scenario.
func (mp *Mapping) PrunedByNode() map[int][]Entry {
	result := make(map[int][]Entry)
	for j, row := range mp.Counts {
		var entries []Entry
		for i, count := range row {
			if count > 0 {
				entries = append(entries, Entry{MicroserviceIndex: i, Count: count})
			}
		}
		if len(entries) > 0 {
			result[j] = entries
		}
	}
	return result
}
