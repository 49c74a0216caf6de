package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/onsi/gomega"
	"github.com/sebdah/goldie/v2"

	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/catalog"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/milp"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/planner"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubPlanner struct {
	schedule planner.Schedule
	err      error
}

func (stub stubPlanner) Plan(planner.Request) (planner.Schedule, error) {
	return stub.schedule, stub.err
}

func (stub stubPlanner) Verify(planner.Schedule, planner.Request) bool {
	return true
}

func testCatalog() *catalog.Catalog {
	return catalog.NewCatalog(
		[]catalog.Course{
			{ID: "EEL101", Name: "Circuitos I", Credits: 4, Category: catalog.Required},
			{ID: "EEW401", Name: "Eletromagnetismo Aplicado", Credits: 4, Category: catalog.RestrictedElective},
		},
		[]catalog.Section{
			{ID: "T1", CourseID: "EEL101", TimeSlots: []string{"seg-8h"}, Parity: catalog.OddTerms},
		},
	)
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestListCourses(t *testing.T) {
	g := gomega.NewWithT(t)
	router := New(testCatalog(), stubPlanner{}, "8000").Router()

	recorder := serve(router, http.MethodGet, "/courses", "")

	g.Expect(recorder.Code).To(gomega.Equal(http.StatusOK))
	golden := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	golden.Assert(t, "courses", recorder.Body.Bytes())
}

func TestOptimizeSuccess(t *testing.T) {
	g := gomega.NewWithT(t)
	schedule := planner.Schedule{
		Status:    milp.Optimal,
		FinalTerm: 1,
		Terms: []planner.TermPlan{{
			Term: 1,
			Courses: []planner.ScheduledCourse{{
				CourseID:  "EEL101",
				Name:      "Circuitos I",
				Section:   "T1",
				Credits:   4,
				TimeSlots: []string{"seg-8h"},
			}},
			Credits: 4,
		}},
		CreditsByCategory: map[catalog.Category]int{catalog.Required: 4},
	}
	router := New(testCatalog(), stubPlanner{schedule: schedule}, "8000").Router()

	recorder := serve(router, http.MethodPost, "/optimize", `{"completedCourseIds":[],"startingTerm":1}`)

	g.Expect(recorder.Code).To(gomega.Equal(http.StatusOK))
	var body map[string]any
	g.Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).To(gomega.Succeed())
	g.Expect(body["status"]).To(gomega.Equal("success"))
	g.Expect(body["solutionStatus"]).To(gomega.Equal("OPTIMAL"))
	g.Expect(body["finalTerm"]).To(gomega.BeEquivalentTo(1))
	g.Expect(body["creditsByCategory"]).To(gomega.HaveKeyWithValue("required", gomega.BeEquivalentTo(4)))

	terms := body["schedule"].([]any)
	g.Expect(terms).To(gomega.HaveLen(1))
	first := terms[0].(map[string]any)
	g.Expect(first["term"]).To(gomega.BeEquivalentTo(1))
	g.Expect(first["creditsTotal"]).To(gomega.BeEquivalentTo(4))
}

func TestOptimizeInfeasible(t *testing.T) {
	g := gomega.NewWithT(t)
	router := New(testCatalog(), stubPlanner{schedule: planner.Schedule{Status: milp.Infeasible}}, "8000").Router()

	recorder := serve(router, http.MethodPost, "/optimize", `{"completedCourseIds":[]}`)

	g.Expect(recorder.Code).To(gomega.Equal(http.StatusOK))
	var body map[string]any
	g.Expect(json.Unmarshal(recorder.Body.Bytes(), &body)).To(gomega.Succeed())
	g.Expect(body["status"]).To(gomega.Equal("error"))
	g.Expect(body["solutionStatus"]).To(gomega.Equal("INFEASIBLE"))
	g.Expect(body["message"]).NotTo(gomega.BeEmpty())
}

func TestOptimizeValidationError(t *testing.T) {
	g := gomega.NewWithT(t)
	stub := stubPlanner{err: &planner.ValidationError{
		Field:  "startingTerm",
		Value:  0,
		Reason: "must be between 1 and 10",
	}}
	router := New(testCatalog(), stub, "8000").Router()

	recorder := serve(router, http.MethodPost, "/optimize", `{"startingTerm":0}`)

	g.Expect(recorder.Code).To(gomega.Equal(http.StatusBadRequest))
	g.Expect(recorder.Body.String()).To(gomega.ContainSubstring("startingTerm"))
}

func TestOptimizeSolverUnavailable(t *testing.T) {
	g := gomega.NewWithT(t)
	router := New(testCatalog(), stubPlanner{err: planner.ErrSolverUnavailable}, "8000").Router()

	recorder := serve(router, http.MethodPost, "/optimize", `{}`)

	g.Expect(recorder.Code).To(gomega.Equal(http.StatusInternalServerError))
	g.Expect(recorder.Body.String()).To(gomega.ContainSubstring("backend unavailable"))
}

func TestOptimizeMalformedBody(t *testing.T) {
	g := gomega.NewWithT(t)
	router := New(testCatalog(), stubPlanner{}, "8000").Router()

	recorder := serve(router, http.MethodPost, "/optimize", `{"completedCourseIds": "not-a-list"}`)

	g.Expect(recorder.Code).To(gomega.Equal(http.StatusBadRequest))
}

func TestRequestIDHeader(t *testing.T) {
	g := gomega.NewWithT(t)
	router := New(testCatalog(), stubPlanner{}, "8000").Router()

	t.Run("generated when absent", func(t *testing.T) {
		recorder := serve(router, http.MethodGet, "/courses", "")
		g.Expect(recorder.Header().Get("X-Request-ID")).NotTo(gomega.BeEmpty())
	})

	t.Run("echoed when provided", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/courses", nil)
		request.Header.Set("X-Request-ID", "fixed-id")
		router.ServeHTTP(recorder, request)
		g.Expect(recorder.Header().Get("X-Request-ID")).To(gomega.Equal("fixed-id"))
	})
}
