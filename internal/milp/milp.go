package milp

import (
	"math"
	"time"
)

// Var is the index of a variable within its Model.
type Var int

// VarKind distinguishes boolean from bounded-integer variables.
type VarKind int

const (
	BoolVar VarKind = iota
	IntVar
)

type variable struct {
	Kind  VarKind
	Lower float64
	Upper float64
	Name  string
}

// Sense is a linear constraint operator.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

func (sense Sense) String() string {
	switch sense {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	default:
		return "="
	}
}

// Term is one coefficient times one variable.
type Term struct {
	Var   Var
	Coeff float64
}

// Constraint is a linear constraint: sum(Terms) Sense RHS. A constraint with
// no terms compares the constant zero with the right-hand side; builders use
// that to record an impossible requirement instead of silently omitting it.
type Constraint struct {
	Terms []Term
	Sense Sense
	RHS   float64
}

// Model is a mixed-integer linear minimization instance. It is a plain value
// built by one request and discarded after its solve; it carries no solver
// state of its own.
type Model struct {
	vars        []variable
	constraints []Constraint
	objective   []Term
}

func NewModel() *Model {
	return &Model{}
}

// Bool declares a boolean decision variable.
func (model *Model) Bool(name string) Var {
	model.vars = append(model.vars, variable{Kind: BoolVar, Lower: 0, Upper: 1, Name: name})
	return Var(len(model.vars) - 1)
}

// Int declares a bounded integer variable.
func (model *Model) Int(name string, lower, upper int) Var {
	model.vars = append(model.vars, variable{Kind: IntVar, Lower: float64(lower), Upper: float64(upper), Name: name})
	return Var(len(model.vars) - 1)
}

// Add appends a linear constraint.
func (model *Model) Add(terms []Term, sense Sense, rhs float64) {
	model.constraints = append(model.constraints, Constraint{Terms: terms, Sense: sense, RHS: rhs})
}

// Minimize sets the (single) linear minimization objective.
func (model *Model) Minimize(terms []Term) {
	model.objective = terms
}

func (model *Model) NumVars() int        { return len(model.vars) }
func (model *Model) NumConstraints() int { return len(model.constraints) }

// Constraints exposes the constraint list for backends and tests.
func (model *Model) Constraints() []Constraint { return model.constraints }

// Name returns the declared name of a variable.
func (model *Model) Name(v Var) string { return model.vars[v].Name }

// Bounds returns the declared domain of a variable.
func (model *Model) Bounds(v Var) (lower, upper float64) {
	return model.vars[v].Lower, model.vars[v].Upper
}

// compact merges duplicate variables of a term list and drops zero
// coefficients, yielding parallel index/value slices as solver backends
// expect them.
func compact(terms []Term) (index []int, value []float64) {
	merged := make(map[Var]float64, len(terms))
	order := make([]Var, 0, len(terms))
	for _, term := range terms {
		if _, seen := merged[term.Var]; !seen {
			order = append(order, term.Var)
		}
		merged[term.Var] += term.Coeff
	}
	for _, v := range order {
		if merged[v] == 0 {
			continue
		}
		index = append(index, int(v))
		value = append(value, merged[v])
	}
	return index, value
}

// Status is the outcome reported by a solve.
type Status int

const (
	Unknown Status = iota
	Optimal
	Feasible
	Infeasible
)

func (status Status) String() string {
	switch status {
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// Solution carries the variable assignment of a solved model. Values are real
// numbers; callers threshold booleans at 0.5 to tolerate solver slack.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
	Runtime   time.Duration
}

// HasAssignment reports whether Values holds a usable assignment.
func (solution Solution) HasAssignment() bool {
	return solution.Status == Optimal || solution.Status == Feasible
}

// Value returns the solution value of a variable, or zero when out of range.
func (solution Solution) Value(v Var) float64 {
	if int(v) < 0 || int(v) >= len(solution.Values) {
		return 0
	}
	return solution.Values[v]
}

// IsSet thresholds a boolean variable at 0.5.
func (solution Solution) IsSet(v Var) bool {
	return solution.Value(v) > 0.5
}

// Solver is the capability contract fulfilled by any conforming MILP backend:
// solve the model within the wall-clock bound, report a status and, when one
// exists, a variable assignment. Different backends may return different
// feasible solutions within the bound, but all respect the same constraint
// semantics.
type Solver interface {
	Solve(model *Model, timeLimit time.Duration) (Solution, error)
}

const tolerance = 1e-6

func satisfies(constraint Constraint, values []float64) bool {
	sum := 0.0
	for _, term := range constraint.Terms {
		sum += term.Coeff * values[term.Var]
	}
	switch constraint.Sense {
	case LessEq:
		return sum <= constraint.RHS+tolerance
	case GreaterEq:
		return sum >= constraint.RHS-tolerance
	default:
		return math.Abs(sum-constraint.RHS) <= tolerance
	}
}
