package main

import (
	"flag"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/catalog"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/milp"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/planner"
)

var (
	validSolvers = []string{"highs", "cbc"}
	solvers      = map[string]func() milp.Solver{
		"highs": milp.NewHighsSolver,
		"cbc":   milp.NewCBCSolver,
	}
)

func main() {
	// Define arguments
	coursesPtr := flag.String("courses", "dados/disciplinas.json", "Path to the course records file")
	offeringsPtr := flag.String("offerings", "dados/ofertas.json", "Path to the offering records file")
	completedPtr := flag.String("completed", "", "Comma-separated ids of already completed courses")
	startPtr := flag.Int("start", 1, "First term open for scheduling")
	horizonPtr := flag.Int("horizon", 10, "Maximum term index considered")
	maxCreditsPtr := flag.Int("max-credits", 32, "Credit cap per term")
	solverPtr := flag.String("solver", "highs", `MILP backend to use. Allowed values are: "highs" and "cbc", where "highs" is the default`)
	timeLimitPtr := flag.Duration("time-limit", 120*time.Second, "Wall-clock bound for the solve")
	flag.Parse()

	// Validate arguments
	solverStr := strings.ToLower(*solverPtr)
	if !slices.Contains(validSolvers, solverStr) {
		log.Fatalf("%v is not a valid solver", solverStr)
	}

	activeCatalog, err := catalog.Load(*coursesPtr, *offeringsPtr)
	if err != nil {
		log.Fatalf("cannot load catalog: %v", err)
	}

	var completed []string
	for _, id := range strings.Split(*completedPtr, ",") {
		if id = strings.TrimSpace(id); id != "" {
			completed = append(completed, id)
		}
	}

	coursePlanner := planner.NewPlanner(activeCatalog, planner.Config{
		Horizon:           *horizonPtr,
		MaxCreditsPerTerm: *maxCreditsPtr,
		CreditMinimums: catalog.CreditRequirements{
			catalog.RestrictedElective:  4,
			catalog.ConditionedElective: 40,
			catalog.FreeElective:        8,
		},
		GatingCourseID: "EEWU00",
		SolveTimeLimit: *timeLimitPtr,
	}, solvers[solverStr]())

	request := planner.Request{CompletedCourseIDs: completed, StartingTerm: *startPtr}
	schedule, err := coursePlanner.Plan(request)
	if err != nil {
		log.Fatal(err)
	} else if !schedule.Solved() {
		fmt.Printf("No plan found: %v\n", schedule.Status)
		return
	}

	for _, termPlan := range schedule.Terms {
		fmt.Printf("Term %d (%d credits):\n", termPlan.Term, termPlan.Credits)
		for _, course := range termPlan.Courses {
			fmt.Printf("  %v  %v [%v] %d credits  %v\n",
				course.CourseID, course.Name, course.Section, course.Credits, strings.Join(course.TimeSlots, " "))
		}
	}
	fmt.Printf("Finishes in term %d (%v, solved in %v)\n", schedule.FinalTerm, schedule.Status, schedule.Elapsed.Round(time.Millisecond))

	if !coursePlanner.Verify(schedule, request) {
		log.Fatal("Verification failed")
	}
}
