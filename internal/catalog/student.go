package catalog

import "github.com/samber/lo"

// StudentState is the immutable per-request snapshot of a student's history:
// the courses already completed and the first term open for scheduling.
type StudentState struct {
	Completed    map[string]bool
	StartingTerm int
}

func NewStudentState(completedIDs []string, startingTerm int) StudentState {
	return StudentState{
		Completed:    lo.SliceToMap(completedIDs, func(id string) (string, bool) { return id, true }),
		StartingTerm: startingTerm,
	}
}

// CreditRequirements holds minimum credit totals per elective category.
type CreditRequirements map[Category]int

// Remaining subtracts the credits already earned from completed courses in
// each elective category and floors the result at zero.
func (requirements CreditRequirements) Remaining(catalog *Catalog, completed map[string]bool) CreditRequirements {
	earned := CreditRequirements{}
	for id := range completed {
		course, ok := catalog.Course(id)
		if !ok || !course.Category.Elective() {
			continue
		}
		earned[course.Category] += course.Credits
	}

	remaining := CreditRequirements{}
	for _, category := range ElectiveCategories() {
		remaining[category] = max(0, requirements[category]-earned[category])
	}
	return remaining
}
