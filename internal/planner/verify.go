package planner

import (
	"github.com/samber/lo"

	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/catalog"
)

// Verify checks a decoded schedule against every scheduling rule. It is the
// semantic counterpart of the model: a schedule that passes satisfies all
// invariants the builder encodes.
func (planner *milpPlanner) Verify(schedule Schedule, request Request) bool {
	if !schedule.Solved() {
		return false
	}

	student := catalog.NewStudentState(request.CompletedCourseIDs, request.StartingTerm)
	scheduledTerm := make(map[string]int)
	occurrences := make(map[string]int)

	for _, termPlan := range schedule.Terms {
		if termPlan.Term < student.StartingTerm || termPlan.Term > planner.config.Horizon {
			return false
		}

		credits := 0
		occupied := make(map[string]bool)
		for _, scheduled := range termPlan.Courses {
			course, ok := planner.catalog.Course(scheduled.CourseID)
			if !ok || student.Completed[course.ID] {
				return false
			}
			section, ok := planner.findSection(course.ID, scheduled.Section)
			if !ok || !section.Parity.Allows(termPlan.Term) {
				return false
			}

			// A time-slot token carries at most one section per term.
			for _, slot := range section.TimeSlots {
				if occupied[slot] {
					return false
				}
				occupied[slot] = true
			}

			credits += course.Credits
			occurrences[course.ID]++
			scheduledTerm[course.ID] = termPlan.Term
		}

		if credits > planner.config.MaxCreditsPerTerm {
			return false
		}
	}

	//** Coverage: required exactly once, electives at most once
	for _, course := range planner.catalog.Courses() {
		if student.Completed[course.ID] {
			if occurrences[course.ID] > 0 {
				return false
			}
			continue
		}
		schedulable := planner.schedulable(course.ID, student.StartingTerm)
		if course.Category == catalog.Required && schedulable && occurrences[course.ID] != 1 {
			return false
		}
		if course.Category != catalog.Required && occurrences[course.ID] > 1 {
			return false
		}
	}

	//** Prerequisite ordering
	for id, term := range scheduledTerm {
		course, _ := planner.catalog.Course(id)
		for _, prerequisiteID := range course.Prerequisites {
			if student.Completed[prerequisiteID] {
				continue
			}
			if !planner.schedulable(prerequisiteID, student.StartingTerm) {
				continue
			}
			prerequisiteTerm, taken := scheduledTerm[prerequisiteID]
			if !taken || prerequisiteTerm >= term {
				return false
			}
		}
	}

	//** Elective credit minimums
	remaining := planner.config.CreditMinimums.Remaining(planner.catalog, student.Completed)
	for _, category := range catalog.ElectiveCategories() {
		earned := 0
		for id := range scheduledTerm {
			course, _ := planner.catalog.Course(id)
			if course.Category == category {
				earned += course.Credits
			}
		}
		if earned < remaining[category] {
			return false
		}
	}

	//** Gating rule
	if gatingTerm, taken := scheduledTerm[planner.config.GatingCourseID]; taken {
		total := planner.catalog.OfferedCount()
		threshold := (total + 1) / 2
		prior := len(student.Completed) + lo.CountBy(lo.Entries(scheduledTerm), func(entry lo.Entry[string, int]) bool {
			return entry.Key != planner.config.GatingCourseID && entry.Value < gatingTerm
		})
		if prior < threshold {
			return false
		}
	}

	return true
}

func (planner *milpPlanner) findSection(courseID, sectionID string) (catalog.Section, bool) {
	for _, section := range planner.catalog.Sections(courseID) {
		if section.ID == sectionID {
			return section, true
		}
	}
	return catalog.Section{}, false
}

// schedulable reports whether the course has at least one valid assignment
// slot between the starting term and the horizon.
func (planner *milpPlanner) schedulable(courseID string, startingTerm int) bool {
	for _, section := range planner.catalog.Sections(courseID) {
		for term := startingTerm; term <= planner.config.Horizon; term++ {
			if section.Parity.Allows(term) {
				return true
			}
		}
	}
	return false
}
