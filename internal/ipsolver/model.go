// Package ipsolver is a small from-scratch 0/1-integer constraint solver:
// boolean variables, linear equality/inequality constraints, a handful of
// named constraint shapes (max, AND-linearization), and branch-and-bound
// minimization. It exists because no package in the example corpus ships a
// fetchable, public Go CP-SAT/MILP backend — see DESIGN.md. The
// variable/constraint/objective shape mirrors solvers/cpsat.py's model,
// translated into a Go idiom instead of calling out to OR-Tools.
package ipsolver

// BoolVar identifies a boolean decision variable by its registration index.
type BoolVar int

// Term is one coefficient*variable product in a linear expression.
type Term struct {
	Coeff float64
	Var   BoolVar
}

// LinearExpr is a sum of Terms plus a constant.
type LinearExpr struct {
	Terms []Term
	Const float64
}

// NewExpr builds a LinearExpr from terms with a zero constant; use WithConst
// to set an offset.
func NewExpr(terms ...Term) LinearExpr {
	return LinearExpr{Terms: terms}
}

// Plus appends a coeff*v term and returns the (new) expression, letting
// callers build expressions incrementally without mutating a shared value.
func (e LinearExpr) Plus(coeff float64, v BoolVar) LinearExpr {
	terms := make([]Term, len(e.Terms), len(e.Terms)+1)
	copy(terms, e.Terms)
	terms = append(terms, Term{Coeff: coeff, Var: v})
	return LinearExpr{Terms: terms, Const: e.Const}
}

// WithConst returns a copy of e with its constant offset set to c.
func (e LinearExpr) WithConst(c float64) LinearExpr {
	return LinearExpr{Terms: e.Terms, Const: c}
}

type relOp int

const (
	opLessOrEqual relOp = iota
	opEqual
)

type constraint struct {
	expr LinearExpr
	op   relOp
	rhs  float64
}

// Model accumulates boolean variables, linear constraints, and a
// minimization objective for Solve to search over.
type Model struct {
	varNames    []string
	constraints []constraint
	objective   LinearExpr
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewBoolVar registers a new boolean variable and returns its handle. name
// is kept only for diagnostics.
func (m *Model) NewBoolVar(name string) BoolVar {
	m.varNames = append(m.varNames, name)
	return BoolVar(len(m.varNames) - 1)
}

// NumVars reports how many variables have been registered.
func (m *Model) NumVars() int {
	return len(m.varNames)
}

// AddEqual constrains expr == rhs.
func (m *Model) AddEqual(expr LinearExpr, rhs float64) {
	m.constraints = append(m.constraints, constraint{expr: expr, op: opEqual, rhs: rhs})
}

// AddLessOrEqual constrains expr <= rhs.
func (m *Model) AddLessOrEqual(expr LinearExpr, rhs float64) {
	m.constraints = append(m.constraints, constraint{expr: expr, op: opLessOrEqual, rhs: rhs})
}

// AddMaxEquality constrains target to equal the maximum (logical OR, since
// every variable is boolean) of vars: target >= each var, and
// target <= sum(vars), exactly spec §4.3's "used[k] = max over sched".
func (m *Model) AddMaxEquality(target BoolVar, vars []BoolVar) {
	for _, v := range vars {
		// v - target <= 0  =>  v <= target
		m.AddLessOrEqual(NewExpr(Term{1, v}, Term{-1, target}), 0)
	}
	sumTerms := make([]Term, 0, len(vars)+1)
	sumTerms = append(sumTerms, Term{1, target})
	for _, v := range vars {
		sumTerms = append(sumTerms, Term{-1, v})
	}
	// target - sum(vars) <= 0  =>  target <= sum(vars)
	m.AddLessOrEqual(NewExpr(sumTerms...), 0)
}

// AddMultiplicationEquality constrains target to equal a*b for boolean a, b
// — the AND-linearization spec §4.3 calls for: target <= a, target <= b,
// a + b - target <= 1 (equivalently target >= a+b-1).
func (m *Model) AddMultiplicationEquality(target, a, b BoolVar) {
	m.AddLessOrEqual(NewExpr(Term{1, target}, Term{-1, a}), 0)
	m.AddLessOrEqual(NewExpr(Term{1, target}, Term{-1, b}), 0)
	m.AddLessOrEqual(NewExpr(Term{1, a}, Term{1, b}, Term{-1, target}), 1)
}

// Minimize sets the objective. Coefficients of either sign are accepted:
// the branch-and-bound lower bound counts each unassigned variable's
// negative coefficient in full (see solve.go).
func (m *Model) Minimize(expr LinearExpr) {
	m.objective = expr
}
