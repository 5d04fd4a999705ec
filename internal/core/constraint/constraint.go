// Package constraint contains the pure validation logic for weekly poetic
// constraints. This is part of the Functional Core - no I/O, only pure functions.
package constraint

// Type identifies one of the four rotating weekly constraints.
type Type string

const (
	ConcreteImagery   Type = "concrete_imagery"
	NoMetaphors       Type = "no_metaphors"
	SustainedMetaphor Type = "sustained_metaphor"
	SecondPerson      Type = "second_person"
)

// Severity grades how serious a violation is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// Violation describes one place where a poem breaks its constraint.
// LineNumber is 1-based; 0 means the violation applies to the whole poem.
type Violation struct {
	LineNumber    int
	OffendingText string
	Issue         string
	Severity      Severity
}

// Rule applies one constraint rule set to poem text and returns violations
// in line order.
type Rule interface {
	Apply(text string) []Violation
}

// ForWeek returns the constraint assigned to a week number. Assignment is
// deterministic: week 1 starts at concrete imagery and the cycle repeats
// every four weeks.
func ForWeek(week int) Type {
	switch week % 4 {
	case 1:
		return ConcreteImagery
	case 2:
		return NoMetaphors
	case 3:
		return SustainedMetaphor
	default:
		return SecondPerson
	}
}

// RuleFor returns the rule set for a constraint type.
func RuleFor(t Type) Rule {
	switch t {
	case ConcreteImagery:
		return concreteImageryRule{}
	case NoMetaphors:
		return noMetaphorsRule{}
	case SustainedMetaphor:
		return sustainedMetaphorRule{}
	case SecondPerson:
		return secondPersonRule{}
	}
	return nilRule{}
}

// Validate runs the rule set for the given constraint type over the poem text.
func Validate(text string, t Type) []Violation {
	return RuleFor(t).Apply(text)
}

// HasCriticalViolations is the single rejection policy shared by every
// constraint type: reject when any violation is critical, or when three or
// more violations of any severity accumulate. Keep this centralized so the
// constraint types stay consistent.
func HasCriticalViolations(violations []Violation) bool {
	if len(violations) >= 3 {
		return true
	}
	for _, v := range violations {
		if v.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

type nilRule struct{}

func (nilRule) Apply(string) []Violation { return nil }
