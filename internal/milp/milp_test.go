package milp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestModelDeclarations(t *testing.T) {
	model := NewModel()

	x := model.Bool("x")
	y := model.Int("y", 2, 7)

	assert.Equal(t, 2, model.NumVars())
	assert.Equal(t, "x", model.Name(x))
	lower, upper := model.Bounds(y)
	assert.Equal(t, 2.0, lower)
	assert.Equal(t, 7.0, upper)

	model.Add([]Term{{Var: x, Coeff: 1}, {Var: y, Coeff: 1}}, LessEq, 5)
	assert.Equal(t, 1, model.NumConstraints())
}

func TestExhaustiveSolverOptimal(t *testing.T) {
	// Arrange: minimize y subject to y >= 3x, x = 1, y in [0, 10]
	model := NewModel()
	x := model.Bool("x")
	y := model.Int("y", 0, 10)
	model.Add([]Term{{Var: y, Coeff: 1}, {Var: x, Coeff: -3}}, GreaterEq, 0)
	model.Add([]Term{{Var: x, Coeff: 1}}, Equal, 1)
	model.Minimize([]Term{{Var: y, Coeff: 1}})

	// Act
	solution, err := NewExhaustiveSolver().Solve(model, time.Second)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, Optimal, solution.Status)
	assert.Equal(t, 3.0, solution.Objective)
	assert.True(t, solution.IsSet(x))
	assert.Equal(t, 3.0, solution.Value(y))
	assert.True(t, AssertSolution(model, solution))
}

func TestExhaustiveSolverInfeasible(t *testing.T) {
	model := NewModel()
	x := model.Bool("x")
	model.Add([]Term{{Var: x, Coeff: 1}}, Equal, 1)
	model.Add([]Term{{Var: x, Coeff: 1}}, Equal, 0)

	solution, err := NewExhaustiveSolver().Solve(model, time.Second)

	assert.Nil(t, err)
	assert.Equal(t, Infeasible, solution.Status)
	assert.False(t, solution.HasAssignment())
}

func TestEmptyConstraintRecordsImpossibility(t *testing.T) {
	// A constraint with no terms compares zero against the right-hand side.
	model := NewModel()
	model.Bool("x")
	model.Add(nil, GreaterEq, 8)

	solution, err := NewExhaustiveSolver().Solve(model, time.Second)

	assert.Nil(t, err)
	assert.Equal(t, Infeasible, solution.Status)
}

func TestSolutionThresholding(t *testing.T) {
	solution := Solution{Status: Feasible, Values: []float64{0.9999999, 1e-9}}
	assert.True(t, solution.IsSet(0))
	assert.False(t, solution.IsSet(1))
	assert.Equal(t, 0.0, solution.Value(5))
}

func TestCompactMergesDuplicates(t *testing.T) {
	index, value := compact([]Term{
		{Var: 0, Coeff: 2},
		{Var: 1, Coeff: 1},
		{Var: 0, Coeff: 3},
		{Var: 2, Coeff: 1},
		{Var: 2, Coeff: -1},
	})

	assert.Equal(t, []int{0, 1}, index)
	assert.Equal(t, []float64{5, 1}, value)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "OPTIMAL", Optimal.String())
	assert.Equal(t, "FEASIBLE", Feasible.String())
	assert.Equal(t, "INFEASIBLE", Infeasible.String())
	assert.Equal(t, "UNKNOWN", Unknown.String())
}
