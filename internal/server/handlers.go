package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/catalog"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/milp"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/planner"
)

type courseResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Credits  int    `json:"credits"`
}

type optimizeRequest struct {
	CompletedCourseIDs []string `json:"completedCourseIds"`
	StartingTerm       *int     `json:"startingTerm"`
}

type scheduledCourseResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Section   string   `json:"section"`
	Credits   int      `json:"credits"`
	TimeSlots []string `json:"timeSlots"`
}

type termResponse struct {
	Term         int                       `json:"term"`
	Courses      []scheduledCourseResponse `json:"courses"`
	CreditsTotal int                       `json:"creditsTotal"`
}

func (server *Server) listCourses(ctx *gin.Context) {
	courses := lo.Map(server.catalog.Courses(), func(course catalog.Course, _ int) courseResponse {
		return courseResponse{
			ID:       course.ID,
			Name:     course.Name,
			Category: course.Category.String(),
			Credits:  course.Credits,
		}
	})
	ctx.JSON(http.StatusOK, courses)
}

func (server *Server) optimize(ctx *gin.Context) {
	var request optimizeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithError(ctx, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	startingTerm := 1
	if request.StartingTerm != nil {
		startingTerm = *request.StartingTerm
	}

	schedule, err := server.planner.Plan(planner.Request{
		CompletedCourseIDs: request.CompletedCourseIDs,
		StartingTerm:       startingTerm,
	})

	var validation *planner.ValidationError
	switch {
	case errors.As(err, &validation):
		abortWithError(ctx, http.StatusBadRequest, validation.Error())
		return
	case errors.Is(err, planner.ErrSolverUnavailable):
		log.Error().Err(err).Msg("solver backend unavailable")
		abortWithError(ctx, http.StatusInternalServerError, "optimization backend unavailable")
		return
	case err != nil:
		log.Error().Err(err).Msg("optimization failed")
		abortWithError(ctx, http.StatusInternalServerError, "optimization failed")
		return
	}

	if !schedule.Solved() {
		ctx.JSON(http.StatusOK, gin.H{
			"status":         "error",
			"solutionStatus": schedule.Status.String(),
			"message":        infeasibilityHint(schedule.Status),
		})
		return
	}

	terms := lo.Map(schedule.Terms, func(termPlan planner.TermPlan, _ int) termResponse {
		return termResponse{
			Term: termPlan.Term,
			Courses: lo.Map(termPlan.Courses, func(course planner.ScheduledCourse, _ int) scheduledCourseResponse {
				return scheduledCourseResponse{
					ID:        course.CourseID,
					Name:      course.Name,
					Section:   course.Section,
					Credits:   course.Credits,
					TimeSlots: course.TimeSlots,
				}
			}),
			CreditsTotal: termPlan.Credits,
		}
	})

	creditsByCategory := make(map[string]int, len(schedule.CreditsByCategory))
	for category, credits := range schedule.CreditsByCategory {
		creditsByCategory[category.String()] = credits
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":            "success",
		"solutionStatus":    schedule.Status.String(),
		"finalTerm":         schedule.FinalTerm,
		"schedule":          terms,
		"creditsByCategory": creditsByCategory,
	})
}

func infeasibilityHint(status milp.Status) string {
	if status == milp.Infeasible {
		return "no plan satisfies all constraints; check for unsatisfiable credit minimums, scheduling deadlocks or impossible prerequisite chains"
	}
	return "the solver found no plan within the time limit"
}
