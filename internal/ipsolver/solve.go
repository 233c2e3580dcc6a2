package ipsolver

import (
	"context"
	"math"
)

// Status reports the outcome of a Solve call.
type Status int

const (
	// StatusOptimal means search completed and Solution holds a proven
	// optimal assignment.
	StatusOptimal Status = iota
	// StatusInfeasible means no assignment satisfies every constraint.
	StatusInfeasible
	// StatusUnknown means ctx was cancelled (or its deadline passed)
	// before the search could prove optimality or infeasibility.
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Solution is the variable assignment found by Solve, valid only when
// Status == StatusOptimal.
type Solution struct {
	Status    Status
	Objective float64
	values    []int8
}

// Value reports the 0/1 value assigned to v.
func (s Solution) Value(v BoolVar) int {
	return int(s.values[v])
}

// Solve runs branch-and-bound over the model's boolean variables, honoring
// ctx's deadline (spec §5 cancellation/timeouts), and returns the best
// assignment found.
//
// The lower bound for a partial assignment is the objective's value over
// already-fixed variables plus every negative coefficient of an unassigned
// variable, so pruning is sound for coefficients of either sign.
func (m *Model) Solve(ctx context.Context) Solution {
	n := m.NumVars()
	assignment := make([]int8, n)
	for i := range assignment {
		assignment[i] = -1
	}

	s := &search{
		model:      m,
		best:       math.Inf(1),
		bestValues: nil,
		ctx:        ctx,
	}
	s.branch(assignment, 0)

	if s.timedOut {
		return Solution{Status: StatusUnknown}
	}
	if s.bestValues == nil {
		return Solution{Status: StatusInfeasible}
	}
	return Solution{Status: StatusOptimal, Objective: s.best, values: s.bestValues}
}

type search struct {
	model      *Model
	best       float64
	bestValues []int8
	ctx        context.Context
	timedOut   bool
}

// branch explores variable index `next` onward, given a partial assignment
// of the earlier variables. It prunes a branch as soon as any constraint's
// reachable range can no longer satisfy its bound, or the objective's
// lower bound can no longer beat the incumbent.
func (s *search) branch(assignment []int8, next int) {
	if s.timedOut {
		return
	}
	select {
	case <-s.ctx.Done():
		s.timedOut = true
		return
	default:
	}

	if !s.feasiblePartial(assignment) {
		return
	}
	if s.lowerBound(assignment) >= s.best {
		return
	}

	if next == len(assignment) {
		obj := evalExpr(s.model.objective, assignment)
		if obj < s.best {
			s.best = obj
			s.bestValues = append([]int8(nil), assignment...)
		}
		return
	}

	for _, v := range [2]int8{0, 1} {
		assignment[next] = v
		s.branch(assignment, next+1)
		if s.timedOut {
			return
		}
	}
	assignment[next] = -1
}

// feasiblePartial checks every constraint's reachable range against its
// bound given the current partial assignment, pruning as soon as no
// completion of the unassigned variables could possibly satisfy it.
func (s *search) feasiblePartial(assignment []int8) bool {
	for _, c := range s.model.constraints {
		lo, hi := rangeOf(c.expr, assignment)
		switch c.op {
		case opLessOrEqual:
			if lo > c.rhs {
				return false
			}
		case opEqual:
			if lo > c.rhs || hi < c.rhs {
				return false
			}
		}
	}
	return true
}

// lowerBound computes the objective's minimum possible value over any
// completion of the unassigned variables (see Solve's doc comment).
func (s *search) lowerBound(assignment []int8) float64 {
	lo, _ := rangeOf(s.model.objective, assignment)
	return lo
}

// rangeOf returns the [min, max] range an expression can take given a
// partial assignment: fixed variables contribute their exact term, each
// unassigned variable widens the range by min(0, coeff) below and
// max(0, coeff) above, depending on the coefficient's sign.
func rangeOf(expr LinearExpr, assignment []int8) (float64, float64) {
	lo, hi := expr.Const, expr.Const
	for _, t := range expr.Terms {
		val := assignment[t.Var]
		if val >= 0 {
			contribution := t.Coeff * float64(val)
			lo += contribution
			hi += contribution
			continue
		}
		if t.Coeff >= 0 {
			hi += t.Coeff
		} else {
			lo += t.Coeff
		}
	}
	return lo, hi
}

// evalExpr evaluates expr for a fully-assigned variable vector.
func evalExpr(expr LinearExpr, assignment []int8) float64 {
	total := expr.Const
	for _, t := range expr.Terms {
		total += t.Coeff * float64(assignment[t.Var])
	}
	return total
}
