package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
)

type courseRecord struct {
	ID            string   `mapstructure:"id"`
	Name          string   `mapstructure:"nome"`
	Credits       int      `mapstructure:"creditos"`
	Label         string   `mapstructure:"tipo"`
	Prerequisites []string `mapstructure:"prerequisitos"`
}

type offeringRecord struct {
	CourseID  string   `mapstructure:"disciplina_id"`
	SectionID string   `mapstructure:"turma_id"`
	TimeSlots []string `mapstructure:"horario"`
	Parity    string   `mapstructure:"periodo"`
}

// Catalog is the read-only mapping from course id to course metadata and
// offered sections. It is loaded once per process and never mutated, so
// concurrent readers need no locking.
type Catalog struct {
	courses  map[string]Course
	sections map[string][]Section
	ordered  []string
}

// NewCatalog assembles a catalog from already-canonical courses and sections.
func NewCatalog(courses []Course, sections []Section) *Catalog {
	catalog := &Catalog{
		courses:  make(map[string]Course, len(courses)),
		sections: make(map[string][]Section),
	}
	for _, course := range courses {
		catalog.courses[course.ID] = course
		catalog.ordered = append(catalog.ordered, course.ID)
	}
	sort.Strings(catalog.ordered)
	for _, section := range sections {
		catalog.sections[section.CourseID] = append(catalog.sections[section.CourseID], section)
	}
	return catalog
}

// Load reads the course and offering collections, classifies every course and
// resolves section parities. Missing or malformed source files are fatal.
func Load(coursesPath, offeringsPath string) (*Catalog, error) {
	var courseRecords []courseRecord
	if err := loadRecords(coursesPath, &courseRecords); err != nil {
		return nil, fmt.Errorf("course records: %w", err)
	}
	var offeringRecords []offeringRecord
	if err := loadRecords(offeringsPath, &offeringRecords); err != nil {
		return nil, fmt.Errorf("offering records: %w", err)
	}

	catalog := &Catalog{
		courses:  make(map[string]Course, len(courseRecords)),
		sections: make(map[string][]Section),
	}

	for _, record := range courseRecords {
		if record.ID == "" {
			return nil, fmt.Errorf("course record without id in %v", coursesPath)
		}
		if record.Credits < 0 {
			return nil, fmt.Errorf("course %v has negative credits", record.ID)
		}
		catalog.courses[record.ID] = Course{
			ID:            record.ID,
			Name:          record.Name,
			Credits:       record.Credits,
			Category:      ClassifyCourse(record.Label, record.ID),
			Prerequisites: record.Prerequisites,
		}
	}

	for _, record := range offeringRecords {
		if _, ok := catalog.courses[record.CourseID]; !ok {
			log.Warn().
				Str("course", record.CourseID).
				Str("section", record.SectionID).
				Msg("offering references unknown course, skipping")
			continue
		}
		parity, err := ParseParity(record.Parity)
		if err != nil {
			return nil, fmt.Errorf("offering %v/%v: %w", record.CourseID, record.SectionID, err)
		}
		catalog.sections[record.CourseID] = append(catalog.sections[record.CourseID], Section{
			ID:        record.SectionID,
			CourseID:  record.CourseID,
			TimeSlots: record.TimeSlots,
			Parity:    parity,
		})
	}

	catalog.ordered = make([]string, 0, len(catalog.courses))
	for id := range catalog.courses {
		catalog.ordered = append(catalog.ordered, id)
	}
	sort.Strings(catalog.ordered)

	return catalog, nil
}

func loadRecords(path string, out any) error {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var raw []map[string]any
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("cannot parse %v: %w", path, err)
	}
	return mapstructure.Decode(raw, out)
}

// Course returns the course with the given id, if present.
func (catalog *Catalog) Course(id string) (Course, bool) {
	course, ok := catalog.courses[id]
	return course, ok
}

// Courses returns every course ordered by id.
func (catalog *Catalog) Courses() []Course {
	courses := make([]Course, 0, len(catalog.ordered))
	for _, id := range catalog.ordered {
		courses = append(courses, catalog.courses[id])
	}
	return courses
}

// Sections returns the offered sections of a course. A course with no sections
// cannot be scheduled.
func (catalog *Catalog) Sections(courseID string) []Section {
	return catalog.sections[courseID]
}

// Offered reports whether the course has at least one offered section.
func (catalog *Catalog) Offered(courseID string) bool {
	return len(catalog.sections[courseID]) > 0
}

// OfferedCount returns the number of courses in the active curriculum, i.e.
// courses with at least one offered section.
func (catalog *Catalog) OfferedCount() int {
	count := 0
	for _, id := range catalog.ordered {
		if len(catalog.sections[id]) > 0 {
			count++
		}
	}
	return count
}

// Len returns the total number of courses.
func (catalog *Catalog) Len() int {
	return len(catalog.courses)
}
