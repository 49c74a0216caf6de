package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the canonical classification of a course. It is assigned once
// during catalog ingestion; the rest of the system never re-derives it from
// the free-text label.
type Category int

const (
	Required Category = iota
	RestrictedElective
	ConditionedElective
	FreeElective
	Other
)

var categoryNames = map[Category]string{
	Required:            "required",
	RestrictedElective:  "restricted",
	ConditionedElective: "conditioned",
	FreeElective:        "free",
	Other:               "other",
}

func (category Category) String() string {
	return categoryNames[category]
}

// Elective reports whether the category carries a minimum-credit requirement.
func (category Category) Elective() bool {
	return category == RestrictedElective || category == ConditionedElective || category == FreeElective
}

// ElectiveCategories lists the categories subject to minimum-credit requirements.
func ElectiveCategories() []Category {
	return []Category{RestrictedElective, ConditionedElective, FreeElective}
}

// ClassifyCourse maps the free-text label found in the source records to a
// Category. The markers follow the source data: required courses carry a term
// number ("período"), electives carry their kind, and artificially injected
// free-elective placeholders are recognized by their id prefix.
func ClassifyCourse(label, id string) Category {
	label = strings.ToLower(label)
	switch {
	case strings.Contains(label, "período") || strings.Contains(label, "periodo"):
		return Required
	case strings.Contains(label, "restrita"):
		return RestrictedElective
	case strings.Contains(label, "condicionada"):
		return ConditionedElective
	case strings.Contains(label, "livre") || strings.HasPrefix(id, "ARTIFICIAL"):
		return FreeElective
	default:
		return Other
	}
}

// Course is an immutable curriculum entry. Prerequisite ids may reference
// courses absent from the active catalog; such references are ignored by
// consumers.
type Course struct {
	ID            string
	Name          string
	Credits       int
	Category      Category
	Prerequisites []string
}

// Parity states in which terms a section is offered.
type Parity int

const (
	BothTerms Parity = iota
	OddTerms
	EvenTerms
)

func (parity Parity) String() string {
	switch parity {
	case OddTerms:
		return "odd"
	case EvenTerms:
		return "even"
	default:
		return "both"
	}
}

// Allows reports whether the parity admits the given term index.
func (parity Parity) Allows(term int) bool {
	switch parity {
	case OddTerms:
		return term%2 == 1
	case EvenTerms:
		return term%2 == 0
	default:
		return true
	}
}

// ParseParity interprets a comma-separated list drawn from {1,2}, denoting odd
// respectively even term eligibility. An absent or empty spec means both.
func ParseParity(spec string) (Parity, error) {
	odd, even := false, false
	for _, piece := range strings.Split(spec, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		value, err := strconv.Atoi(piece)
		if err != nil {
			return BothTerms, fmt.Errorf("invalid term-parity spec %q: %w", spec, err)
		}
		switch value {
		case 1:
			odd = true
		case 2:
			even = true
		default:
			return BothTerms, fmt.Errorf("invalid term-parity value %d in %q", value, spec)
		}
	}

	switch {
	case odd && !even:
		return OddTerms, nil
	case even && !odd:
		return EvenTerms, nil
	default:
		return BothTerms, nil
	}
}

// Section is one concrete offering of a course. TimeSlots are opaque tokens
// compared only for equality when detecting scheduling conflicts.
type Section struct {
	ID        string
	CourseID  string
	TimeSlots []string
	Parity    Parity
}
