package milp

import (
	"fmt"
	"time"
)

// exhaustiveSolver enumerates every assignment of the model's variables. It is
// a reference backend for tests: exact on tiny instances, unusable beyond
// them, and it refuses models whose search space exceeds its cap.
type exhaustiveSolver struct {
	cap int
}

func NewExhaustiveSolver() Solver {
	return &exhaustiveSolver{cap: 1 << 22}
}

func (solver *exhaustiveSolver) Solve(model *Model, _ time.Duration) (Solution, error) {
	domains := make([][]float64, len(model.vars))
	size := 1
	for i, v := range model.vars {
		width := int(v.Upper-v.Lower) + 1
		if width < 1 {
			width = 0
		}
		domain := make([]float64, 0, width)
		for value := v.Lower; value <= v.Upper; value++ {
			domain = append(domain, value)
		}
		domains[i] = domain
		size *= len(domain)
		if size == 0 || size > solver.cap {
			return Solution{}, fmt.Errorf("model too large for exhaustive search: %d variables", len(model.vars))
		}
	}

	start := time.Now()
	values := make([]float64, len(model.vars))
	cursor := make([]int, len(model.vars))
	best := Solution{Status: Infeasible}
	found := false

	for iteration := 0; iteration < size; iteration++ {
		for i := range values {
			values[i] = domains[i][cursor[i]]
		}

		feasible := true
		for _, constraint := range model.constraints {
			if !satisfies(constraint, values) {
				feasible = false
				break
			}
		}

		if feasible {
			objective := 0.0
			for _, term := range model.objective {
				objective += term.Coeff * values[term.Var]
			}
			if !found || objective < best.Objective {
				best = Solution{
					Status:    Optimal,
					Values:    append([]float64(nil), values...),
					Objective: objective,
				}
				found = true
			}
		}

		for i := 0; i < len(cursor); i++ {
			cursor[i]++
			if cursor[i] < len(domains[i]) {
				break
			}
			cursor[i] = 0
		}
	}

	best.Runtime = time.Since(start)
	return best, nil
}

// AssertSolution checks a variable assignment against every constraint of the
// model, within the same tolerance the backends use.
func AssertSolution(model *Model, solution Solution) bool {
	if len(solution.Values) != len(model.vars) {
		return false
	}
	for _, constraint := range model.constraints {
		if !satisfies(constraint, solution.Values) {
			return false
		}
	}
	return true
}
