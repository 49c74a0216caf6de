package planner

import (
	"time"

	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/catalog"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/milp"
)

// Request is the immutable per-request input: the student's completed courses
// and the first term open for scheduling.
type Request struct {
	CompletedCourseIDs []string
	StartingTerm       int
}

// Config fixes the curriculum-wide planning parameters. It is read-only for
// the lifetime of the planner.
type Config struct {
	// Horizon is the maximum term index considered by the model.
	Horizon int
	// MaxCreditsPerTerm caps the credit load of any single term.
	MaxCreditsPerTerm int
	// CreditMinimums holds the minimum credit totals per elective category.
	CreditMinimums catalog.CreditRequirements
	// GatingCourseID designates the course that may only be scheduled once at
	// least half the active curriculum has been completed.
	GatingCourseID string
	// SolveTimeLimit bounds the wall clock of a single solve.
	SolveTimeLimit time.Duration
}

// Planner turns a student's state into a term-by-term study plan.
type Planner interface {
	// Plan builds the linear model for the request, solves it and decodes the
	// assignment into a Schedule. Infeasible and degraded outcomes are normal
	// result states carried on the Schedule, not errors.
	Plan(request Request) (Schedule, error)

	// Verify checks a decoded schedule against the catalog and the request:
	// coverage of required courses, prerequisite ordering, per-term credit and
	// time-slot limits, elective credit minimums and the gating rule.
	Verify(schedule Schedule, request Request) bool
}

func NewPlanner(activeCatalog *catalog.Catalog, config Config, solver milp.Solver) Planner {
	return newMilpPlanner(activeCatalog, config, solver)
}
