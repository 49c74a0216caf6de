package milp

import (
	"fmt"
	"time"

	highs "github.com/bartolsthoorn/gohighs/highs"
)

type highsSolver struct{}

// NewHighsSolver returns the in-process HiGHS backend. The binding embeds the
// solver library, so no external installation is required.
func NewHighsSolver() Solver {
	return &highsSolver{}
}

func (solver *highsSolver) Solve(model *Model, timeLimit time.Duration) (Solution, error) {
	backend, err := highs.NewSolver()
	if err != nil {
		return Solution{}, fmt.Errorf("cannot initialize highs: %w", err)
	}
	defer backend.Close()

	if err := backend.SetBoolOption("output_flag", false); err != nil {
		return Solution{}, err
	}
	if err := backend.SetFloatOption("time_limit", timeLimit.Seconds()); err != nil {
		return Solution{}, err
	}

	for _, v := range model.vars {
		if err := backend.AddVar(v.Lower, v.Upper); err != nil {
			return Solution{}, fmt.Errorf("cannot declare variable %v: %w", v.Name, err)
		}
	}
	for i := range model.vars {
		if err := backend.SetColIntegrality(i, highs.Integer); err != nil {
			return Solution{}, err
		}
	}

	infinity := backend.Infinity()
	for _, constraint := range model.constraints {
		index, value := compact(constraint.Terms)

		lower, upper := -infinity, infinity
		switch constraint.Sense {
		case LessEq:
			upper = constraint.RHS
		case GreaterEq:
			lower = constraint.RHS
		case Equal:
			lower, upper = constraint.RHS, constraint.RHS
		}

		if err := backend.AddRow(lower, upper, index, value); err != nil {
			return Solution{}, fmt.Errorf("cannot add constraint: %w", err)
		}
	}

	costs := make([]float64, len(model.vars))
	for _, term := range model.objective {
		costs[term.Var] += term.Coeff
	}
	if err := backend.SetColCosts(costs); err != nil {
		return Solution{}, err
	}
	if err := backend.SetMaximize(false); err != nil {
		return Solution{}, err
	}

	start := time.Now()
	result, err := backend.Run()
	if err != nil {
		return Solution{}, fmt.Errorf("highs run failed: %w", err)
	}

	solution := Solution{
		Status:  highsStatus(result),
		Runtime: time.Since(start),
	}
	if solution.HasAssignment() {
		solution.Values = result.ColValues
		solution.Objective = result.Objective
	}
	return solution, nil
}

func highsStatus(result *highs.Solution) Status {
	switch {
	case result.IsOptimal():
		return Optimal
	case result.IsInfeasible():
		return Infeasible
	case result.HasSolution():
		// Terminated early, typically on the time limit, with an incumbent.
		return Feasible
	default:
		return Unknown
	}
}
