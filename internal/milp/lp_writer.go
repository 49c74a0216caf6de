package milp

import (
	"fmt"
	"strings"
)

// ToLP renders the model in CPLEX LP file format for subprocess backends.
// Variables are emitted as x0..xN so the written names survive solvers that
// restrict identifier characters; callers map them back by index.
func (model *Model) ToLP() string {
	var builder strings.Builder

	builder.WriteString("Minimize\n obj:")
	index, value := compact(model.objective)
	if len(index) == 0 && len(model.vars) > 0 {
		// CBC rejects an empty objective line, so anchor it on a variable.
		index, value = []int{0}, []float64{0}
	}
	writeLinear(&builder, index, value)
	builder.WriteString("\n")

	builder.WriteString("Subject To\n")
	for i, constraint := range model.constraints {
		fmt.Fprintf(&builder, " c%d:", i)
		index, value := compact(constraint.Terms)
		if len(index) == 0 {
			// Keep impossible or vacuous constraints representable: compare a
			// zero-coefficient term with the right-hand side.
			index, value = []int{0}, []float64{0}
		}
		writeLinear(&builder, index, value)
		fmt.Fprintf(&builder, " %s %v\n", constraint.Sense, constraint.RHS)
	}

	builder.WriteString("Bounds\n")
	for i, v := range model.vars {
		if v.Kind == IntVar {
			fmt.Fprintf(&builder, " %v <= x%d <= %v\n", v.Lower, i, v.Upper)
		}
	}

	var booleans, integers []string
	for i, v := range model.vars {
		name := fmt.Sprintf("x%d", i)
		if v.Kind == BoolVar {
			booleans = append(booleans, name)
		} else {
			integers = append(integers, name)
		}
	}
	if len(booleans) > 0 {
		fmt.Fprintf(&builder, "Binaries\n %s\n", strings.Join(booleans, " "))
	}
	if len(integers) > 0 {
		fmt.Fprintf(&builder, "Generals\n %s\n", strings.Join(integers, " "))
	}

	builder.WriteString("End\n")
	return builder.String()
}

func writeLinear(builder *strings.Builder, index []int, value []float64) {
	for position, i := range index {
		coeff := value[position]
		if coeff >= 0 && position > 0 {
			builder.WriteString(" +")
		} else if coeff >= 0 {
			builder.WriteString(" ")
		} else {
			builder.WriteString(" -")
			coeff = -coeff
		}
		fmt.Fprintf(builder, "%v x%d", coeff, i)
	}
}
