package scenario

import "fmt"

// Node is an immutable description of one compute node: identity, cost,
// resource limits, and the zone tag used to pick a data-transfer tariff.
//
// Node carries no mutable scratch fields. The running totals used while
// checking fit (spec §3's "mutable running totals") live in NodeState,
// which callers allocate once per evaluation and discard or reset — see
// Design Note (a) in SPEC_FULL.md §9. This keeps Scenario safe to share
// across concurrent evaluators without locking.
type Node struct {
	Name   string
	Cost   float64
	CPULim int
	MemLim int
	ContLim int
	Zone   string

	// InstanceType and Region are optional hints consumed only by
	// internal/pricing's on-demand price refresh; empty means "no
	// enrichment for this node".
	InstanceType string
	Region       string
}

func (n Node) String() string {
	return fmt.Sprintf("node %q in zone %q: $%.2f, %d milli-CPU, %d MiB RAM, %d containers",
		n.Name, n.Zone, n.Cost, n.CPULim, n.MemLim, n.ContLim)
}

// NodeState holds the per-evaluation running totals for one node: CPU,
// memory, and container count currently assigned during a single objective
// walk. It is the explicit scratch buffer described in SPEC_FULL.md §3/§9 —
// callers allocate one NodeState per node, reset it to zero, and discard or
// reuse it after Evaluate returns.
type NodeState struct {
	CPU  int
	Mem  int
	Cont int
}

// Reset zeroes the running totals, restoring the invariant that every
// NodeState starts (and, after a correct evaluation, ends) at zero.
func (s *NodeState) Reset() {
	s.CPU, s.Mem, s.Cont = 0, 0, 0
}

// Fits reports whether placing one more container of m on the node
// described by n, given its current running totals in s, stays within
// capacity on all three dimensions.
func (n Node) Fits(s *NodeState, m Microservice) bool {
	return s.CPU+m.CPUReq <= n.CPULim &&
		s.Mem+m.MemReq <= n.MemLim &&
		s.Cont+1 <= n.ContLim
}

// Place commits one container of m onto the running totals in s. Callers
// must have already checked Fits.
func (s *NodeState) Place(m Microservice) {
	s.CPU += m.CPUReq
	s.Mem += m.MemReq
	s.Cont++
}
