package milp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

const cbcPath = "cbc"

type cbcSolver struct{}

// NewCBCSolver returns a backend that shells out to the COIN-OR cbc binary.
// The model is written in LP format and the solution file is parsed back.
func NewCBCSolver() Solver {
	return &cbcSolver{}
}

func (solver *cbcSolver) Solve(model *Model, timeLimit time.Duration) (Solution, error) {
	directory, err := os.MkdirTemp("", "milp-cbc")
	if err != nil {
		return Solution{}, err
	}
	defer os.RemoveAll(directory)

	modelPath := filepath.Join(directory, "model.lp")
	solutionPath := filepath.Join(directory, "model.sol")
	if err := os.WriteFile(modelPath, []byte(model.ToLP()), 0o644); err != nil {
		return Solution{}, err
	}

	seconds := strconv.FormatFloat(timeLimit.Seconds(), 'f', -1, 64)
	cmd := exec.Command(cbcPath, modelPath, "-seconds", seconds, "-solve", "-solution", solutionPath)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during cbc execution: %v : %v", err.Error(), stderr.String())
	}
	elapsed := time.Since(start)

	content, err := os.ReadFile(solutionPath)
	if err != nil {
		return Solution{}, fmt.Errorf("cbc produced no solution file: %w", err)
	}

	solution, err := parseCBCSolution(string(content), model.NumVars())
	if err != nil {
		return Solution{}, err
	}
	solution.Runtime = elapsed
	return solution, nil
}

// parseCBCSolution reads a cbc solution file: a status line followed by one
// "index name value reduced-cost" row per nonzero variable.
func parseCBCSolution(content string, numVars int) (Solution, error) {
	lines := lo.Filter(strings.Split(content, "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	})
	if len(lines) == 0 {
		return Solution{}, fmt.Errorf("empty cbc solution file")
	}

	statusLine := strings.TrimSpace(lines[0])
	solution := Solution{Status: cbcStatus(statusLine)}

	if fields := strings.Fields(statusLine); solution.HasAssignment() {
		objective, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return Solution{}, fmt.Errorf("cannot parse cbc objective from %q: %w", statusLine, err)
		}
		solution.Objective = objective
	} else {
		return solution, nil
	}

	solution.Values = make([]float64, numVars)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		name := fields[1]
		if !strings.HasPrefix(name, "x") {
			continue
		}
		index, err := strconv.Atoi(name[1:])
		if err != nil || index < 0 || index >= numVars {
			return Solution{}, fmt.Errorf("unexpected variable %q in cbc solution", name)
		}
		value, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Solution{}, fmt.Errorf("cannot parse value of %q: %w", name, err)
		}
		solution.Values[index] = value
	}

	return solution, nil
}

func cbcStatus(statusLine string) Status {
	switch {
	case strings.HasPrefix(statusLine, "Optimal"):
		return Optimal
	case strings.HasPrefix(statusLine, "Infeasible"), strings.Contains(statusLine, "infeasible"):
		return Infeasible
	case strings.HasPrefix(statusLine, "Stopped") && strings.Contains(statusLine, "objective value"):
		// Hit the time bound with an incumbent: degraded but usable.
		return Feasible
	default:
		return Unknown
	}
}
