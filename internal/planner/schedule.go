package planner

import (
	"time"

	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/catalog"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/milp"
)

// ScheduledCourse is one course placed in a term through a concrete section.
type ScheduledCourse struct {
	CourseID  string
	Name      string
	Section   string
	Credits   int
	TimeSlots []string
}

// TermPlan lists the courses assigned to one term. Terms with no assignments
// are omitted from the Schedule.
type TermPlan struct {
	Term    int
	Courses []ScheduledCourse
	Credits int
}

// Schedule is the decoded outcome of one solve. On INFEASIBLE or UNKNOWN it
// carries only the status and elapsed time.
type Schedule struct {
	Status            milp.Status
	Terms             []TermPlan
	FinalTerm         int
	CreditsByCategory map[catalog.Category]int
	Elapsed           time.Duration
}

// Solved reports whether the schedule holds a usable plan.
func (schedule Schedule) Solved() bool {
	return schedule.Status == milp.Optimal || schedule.Status == milp.Feasible
}

// ProvenOptimal distinguishes a proven optimum from a degraded, time-bounded
// result that must not be presented as optimal.
func (schedule Schedule) ProvenOptimal() bool {
	return schedule.Status == milp.Optimal
}
