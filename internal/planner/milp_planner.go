package planner

import (
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/catalog"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/milp"
)

type milpPlanner struct {
	//** Dependencies
	catalog *catalog.Catalog
	config  Config
	solver  milp.Solver
}

func newMilpPlanner(activeCatalog *catalog.Catalog, config Config, solver milp.Solver) *milpPlanner {
	return &milpPlanner{
		catalog: activeCatalog,
		config:  config,
		solver:  solver,
	}
}

func (planner *milpPlanner) Plan(request Request) (Schedule, error) {
	if err := planner.validate(request); err != nil {
		return Schedule{}, err
	}

	//** Build the model instance for this request alone
	build := newModelBuild(planner.catalog, planner.config, request)
	build.variables()
	build.requiredConstraints()
	build.electiveConstraints()
	build.creditMinimumConstraints()
	build.prerequisiteConstraints()
	build.conflictConstraints()
	build.termCreditConstraints()
	build.gatingConstraints()
	build.objective()

	log.Debug().
		Int("variables", build.model.NumVars()).
		Int("constraints", build.model.NumConstraints()).
		Msg("linear model built")

	//** Solve within the wall-clock bound
	solution, err := planner.solver.Solve(build.model, planner.config.SolveTimeLimit)
	if err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrSolverUnavailable, err)
	}

	return build.decode(solution), nil
}

// validate rejects out-of-domain input before any model work begins.
func (planner *milpPlanner) validate(request Request) error {
	if request.StartingTerm < 1 || request.StartingTerm > planner.config.Horizon {
		return &ValidationError{
			Field:  "startingTerm",
			Value:  request.StartingTerm,
			Reason: fmt.Sprintf("must be between 1 and %d", planner.config.Horizon),
		}
	}
	invalid := lo.Filter(request.CompletedCourseIDs, func(id string, _ int) bool {
		_, ok := planner.catalog.Course(id)
		return !ok
	})
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return &ValidationError{
			Field:  "completedCourseIds",
			Value:  invalid,
			Reason: "not present in the catalog",
		}
	}
	return nil
}

type assignKey struct {
	course  string
	term    int
	section string
}

// modelBuild holds the disposable state of a single solve: the linear model
// and the variable maps needed to decode its solution. Nothing here survives
// the request.
type modelBuild struct {
	catalog   *catalog.Catalog
	config    Config
	student   catalog.StudentState
	remaining catalog.CreditRequirements

	model      *milp.Model
	assign     map[assignKey]milp.Var
	assignKeys []assignKey
	completion map[string]milp.Var
	candidates []catalog.Course

	// dummy is the completion term assigned to never-taken courses: one past
	// the horizon plus one, so it can never bind the objective or any
	// ordering constraint that references "earlier than".
	dummy int
}

func newModelBuild(activeCatalog *catalog.Catalog, config Config, request Request) *modelBuild {
	student := catalog.NewStudentState(request.CompletedCourseIDs, request.StartingTerm)
	candidates := lo.Filter(activeCatalog.Courses(), func(course catalog.Course, _ int) bool {
		return !student.Completed[course.ID]
	})

	return &modelBuild{
		catalog:    activeCatalog,
		config:     config,
		student:    student,
		remaining:  config.CreditMinimums.Remaining(activeCatalog, student.Completed),
		model:      milp.NewModel(),
		assign:     make(map[assignKey]milp.Var),
		completion: make(map[string]milp.Var),
		candidates: candidates,
		dummy:      config.Horizon + 2,
	}
}

// variables instantiates assign[course, term, section] for parity-matching
// term/section pairs from the starting term onward, plus one completionTerm
// integer per schedulable course, tied to its assignments:
//
//	completionTerm[c] == Σ(t·assign[c,t,s]) + (1 − taken[c])·dummy
//
// Completed courses get no variables at all.
func (build *modelBuild) variables() {
	for _, course := range build.candidates {
		var courseKeys []assignKey
		for _, section := range build.catalog.Sections(course.ID) {
			for term := build.student.StartingTerm; term <= build.config.Horizon; term++ {
				if !section.Parity.Allows(term) {
					continue
				}
				key := assignKey{course: course.ID, term: term, section: section.ID}
				build.assign[key] = build.model.Bool(fmt.Sprintf("assign_%v_t%d_%v", course.ID, term, section.ID))
				build.assignKeys = append(build.assignKeys, key)
				courseKeys = append(courseKeys, key)
			}
		}

		if len(courseKeys) == 0 {
			continue
		}

		// The completion term must be able to hold the dummy value, hence the
		// upper bound of horizon+2 rather than horizon+1.
		completion := build.model.Int(fmt.Sprintf("completion_%v", course.ID), build.student.StartingTerm, build.dummy)
		build.completion[course.ID] = completion

		terms := []milp.Term{{Var: completion, Coeff: 1}}
		for _, key := range courseKeys {
			terms = append(terms, milp.Term{Var: build.assign[key], Coeff: float64(build.dummy - key.term)})
		}
		build.model.Add(terms, milp.Equal, float64(build.dummy))
	}
}

// taken is the derived indicator of a course: the sum of its assign variables,
// an expression rather than a fresh variable.
func (build *modelBuild) taken(courseID string) []milp.Term {
	terms := make([]milp.Term, 0)
	for _, key := range build.assignKeys {
		if key.course == courseID {
			terms = append(terms, milp.Term{Var: build.assign[key], Coeff: 1})
		}
	}
	return terms
}

// requiredConstraints forces exactly one assignment for every not-completed
// required course. A required course with zero valid assignment slots makes
// the instance infeasible; that is recorded explicitly instead of being
// hidden by omitting the constraint.
func (build *modelBuild) requiredConstraints() {
	for _, course := range build.candidates {
		if course.Category != catalog.Required {
			continue
		}
		taken := build.taken(course.ID)
		if len(taken) == 0 {
			log.Warn().
				Str("course", course.ID).
				Msg("required course has no valid assignment slot, instance is infeasible")
		}
		build.model.Add(taken, milp.Equal, 1)
	}
}

// electiveConstraints allows every not-completed elective at most once.
func (build *modelBuild) electiveConstraints() {
	for _, course := range build.candidates {
		if course.Category == catalog.Required {
			continue
		}
		if taken := build.taken(course.ID); len(taken) > 0 {
			build.model.Add(taken, milp.LessEq, 1)
		}
	}
}

// creditMinimumConstraints enforces the remaining per-category credit floors,
// summing only courses of the category with at least one valid slot. When the
// category has no candidates the constraint is omitted if the requirement is
// already met, and recorded as impossible otherwise.
func (build *modelBuild) creditMinimumConstraints() {
	for _, category := range catalog.ElectiveCategories() {
		remaining := build.remaining[category]

		var terms []milp.Term
		for _, course := range build.candidates {
			if course.Category != category {
				continue
			}
			for _, taken := range build.taken(course.ID) {
				terms = append(terms, milp.Term{Var: taken.Var, Coeff: float64(course.Credits)})
			}
		}

		if len(terms) == 0 {
			if remaining > 0 {
				log.Warn().
					Stringer("category", category).
					Int("remaining", remaining).
					Msg("credit minimum cannot be met, no offered course in category")
				build.model.Add(nil, milp.GreaterEq, float64(remaining))
			}
			continue
		}
		build.model.Add(terms, milp.GreaterEq, float64(remaining))
	}
}

// prerequisiteConstraints links each course to its not-completed, in-scope
// prerequisites: taking the course implies eventually taking the prerequisite
// and completing it strictly earlier. The ordering constraint is disabled by
// a big-M of horizon+2 whenever the course itself is never taken.
func (build *modelBuild) prerequisiteConstraints() {
	bigM := float64(build.config.Horizon + 2)

	for _, course := range build.candidates {
		courseTaken := build.taken(course.ID)
		if len(courseTaken) == 0 {
			continue
		}
		for _, prerequisiteID := range course.Prerequisites {
			if build.student.Completed[prerequisiteID] {
				continue
			}
			prerequisiteTaken := build.taken(prerequisiteID)
			if len(prerequisiteTaken) == 0 {
				// Skipped whether the id is unknown to the catalog or the
				// course simply has no valid slot. An unschedulable elective
				// prerequisite does not block its dependant; an unschedulable
				// required one already makes the instance infeasible through
				// its coverage constraint.
				continue
			}

			// taken[prerequisite] >= taken[course]
			ordering := append([]milp.Term{}, prerequisiteTaken...)
			for _, term := range courseTaken {
				ordering = append(ordering, milp.Term{Var: term.Var, Coeff: -1})
			}
			build.model.Add(ordering, milp.GreaterEq, 0)

			// completionTerm[course] - completionTerm[prerequisite] >= 1 - M(1 - taken[course])
			precedence := []milp.Term{
				{Var: build.completion[course.ID], Coeff: 1},
				{Var: build.completion[prerequisiteID], Coeff: -1},
			}
			for _, term := range courseTaken {
				precedence = append(precedence, milp.Term{Var: term.Var, Coeff: -bigM})
			}
			build.model.Add(precedence, milp.GreaterEq, 1-bigM)
		}
	}
}

// conflictConstraints keeps every time-slot token single-booked per term.
func (build *modelBuild) conflictConstraints() {
	for term := build.student.StartingTerm; term <= build.config.Horizon; term++ {
		slotVars := make(map[string][]milp.Var)
		var slots []string
		for _, key := range build.assignKeys {
			if key.term != term {
				continue
			}
			section := build.section(key)
			for _, slot := range section.TimeSlots {
				if _, seen := slotVars[slot]; !seen {
					slots = append(slots, slot)
				}
				slotVars[slot] = append(slotVars[slot], build.assign[key])
			}
		}

		for _, slot := range slots {
			occupants := slotVars[slot]
			if len(occupants) < 2 {
				continue
			}
			terms := lo.Map(occupants, func(v milp.Var, _ int) milp.Term {
				return milp.Term{Var: v, Coeff: 1}
			})
			build.model.Add(terms, milp.LessEq, 1)
		}
	}
}

// termCreditConstraints caps the credit load of each term. Terms with no
// candidate assignments need no constraint.
func (build *modelBuild) termCreditConstraints() {
	for term := build.student.StartingTerm; term <= build.config.Horizon; term++ {
		var terms []milp.Term
		for _, key := range build.assignKeys {
			if key.term != term {
				continue
			}
			course, _ := build.catalog.Course(key.course)
			terms = append(terms, milp.Term{Var: build.assign[key], Coeff: float64(course.Credits)})
		}
		if len(terms) > 0 {
			build.model.Add(terms, milp.LessEq, float64(build.config.MaxCreditsPerTerm))
		}
	}
}

// gatingConstraints restricts the designated gating course to terms by which
// at least half the active curriculum is complete, counting historical
// completions plus assignments in strictly earlier terms. The bound is
// disabled by a big-M of totalCourseCount+1 when the gating course is not
// scheduled in the term.
func (build *modelBuild) gatingConstraints() {
	gatingID := build.config.GatingCourseID
	if gatingID == "" || build.student.Completed[gatingID] {
		return
	}
	gatingTaken := build.taken(gatingID)
	if len(gatingTaken) == 0 {
		return
	}

	// The threshold counts only the active curriculum: courses with at least
	// one offered section. Catalog entries without offerings can never be
	// completed within the horizon, so counting them would make the bound
	// unreachable.
	total := build.catalog.OfferedCount()
	threshold := (total + 1) / 2
	bigM := float64(total + 1)
	historical := len(build.student.Completed)

	for term := build.student.StartingTerm; term <= build.config.Horizon; term++ {
		var gatingHere []milp.Term
		for _, key := range build.assignKeys {
			if key.course == gatingID && key.term == term {
				gatingHere = append(gatingHere, milp.Term{Var: build.assign[key], Coeff: -bigM})
			}
		}
		if len(gatingHere) == 0 {
			continue
		}

		// historical + Σ(assign[c,t',*] : c != gating, t' < term) >= threshold - M(1 - Σassign[gating,term,*])
		terms := gatingHere
		for _, key := range build.assignKeys {
			if key.course != gatingID && key.term < term {
				terms = append(terms, milp.Term{Var: build.assign[key], Coeff: 1})
			}
		}
		build.model.Add(terms, milp.GreaterEq, float64(threshold)-bigM-float64(historical))
	}
}

// objective minimizes the last used term: a variable bounded by the horizon
// that must cover the completion term of every taken course, with never-taken
// courses disabled by a big-M of horizon+2.
func (build *modelBuild) objective() {
	bigM := float64(build.config.Horizon + 2)
	lastTerm := build.model.Int("last_term", build.student.StartingTerm, build.config.Horizon)

	for _, course := range build.candidates {
		taken := build.taken(course.ID)
		if len(taken) == 0 {
			continue
		}
		// lastTerm >= completionTerm[course] - M(1 - taken[course])
		terms := []milp.Term{
			{Var: lastTerm, Coeff: 1},
			{Var: build.completion[course.ID], Coeff: -1},
		}
		for _, term := range taken {
			terms = append(terms, milp.Term{Var: term.Var, Coeff: -bigM})
		}
		build.model.Add(terms, milp.GreaterEq, -bigM)
	}

	build.model.Minimize([]milp.Term{{Var: lastTerm, Coeff: 1}})
}

func (build *modelBuild) section(key assignKey) catalog.Section {
	for _, section := range build.catalog.Sections(key.course) {
		if section.ID == key.section {
			return section
		}
	}
	return catalog.Section{}
}

// decode turns a solved assignment back into a term-by-term Schedule. On
// INFEASIBLE or UNKNOWN the schedule carries only the status. Courses
// referenced by a solved variable but absent from the catalog are a
// data-consistency fault: skipped and flagged, never fabricated.
func (build *modelBuild) decode(solution milp.Solution) Schedule {
	schedule := Schedule{
		Status:  solution.Status,
		Elapsed: solution.Runtime,
	}
	if !solution.HasAssignment() {
		return schedule
	}

	perTerm := make(map[int][]ScheduledCourse)
	creditsByCategory := make(map[catalog.Category]int)

	for id := range build.student.Completed {
		if course, ok := build.catalog.Course(id); ok {
			creditsByCategory[course.Category] += course.Credits
		}
	}

	for _, key := range build.assignKeys {
		if !solution.IsSet(build.assign[key]) {
			continue
		}
		course, ok := build.catalog.Course(key.course)
		if !ok {
			log.Warn().
				Str("course", key.course).
				Int("term", key.term).
				Msg("solved variable references course absent from catalog, skipping")
			continue
		}
		section := build.section(key)
		perTerm[key.term] = append(perTerm[key.term], ScheduledCourse{
			CourseID:  course.ID,
			Name:      course.Name,
			Section:   section.ID,
			Credits:   course.Credits,
			TimeSlots: section.TimeSlots,
		})
		creditsByCategory[course.Category] += course.Credits
	}

	terms := lo.Keys(perTerm)
	sort.Ints(terms)
	for _, term := range terms {
		courses := perTerm[term]
		sort.Slice(courses, func(i, j int) bool { return courses[i].CourseID < courses[j].CourseID })
		schedule.Terms = append(schedule.Terms, TermPlan{
			Term:    term,
			Courses: courses,
			Credits: lo.SumBy(courses, func(course ScheduledCourse) int { return course.Credits }),
		})
	}

	schedule.FinalTerm = int(math.Round(solution.Objective))
	schedule.CreditsByCategory = creditsByCategory
	return schedule
}
