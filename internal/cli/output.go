package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/example/quill/internal/core/constraint"
	"github.com/example/quill/internal/core/critique"
)

func printViolations(violations []constraint.Violation) {
	if len(violations) == 0 {
		return
	}
	fmt.Println("Constraint violations:")
	for _, v := range violations {
		sev := string(v.Severity)
		if v.Severity == constraint.SeverityCritical {
			sev = color.New(color.FgRed).Sprint(sev)
		}
		if v.LineNumber > 0 {
			fmt.Printf("  line %d [%s] %s\n", v.LineNumber, sev, v.Issue)
			if v.OffendingText != "" {
				fmt.Printf("    > %s\n", v.OffendingText)
			}
		} else {
			fmt.Printf("  [%s] %s\n", sev, v.Issue)
		}
	}
	fmt.Println()
}

func printCritique(c *critique.Critique) {
	fmt.Println("Critique:")
	fmt.Printf("  line strength: %s\n", c.LineStrength)
	fmt.Printf("  rhythm:        %s\n", c.Rhythm)
	fmt.Printf("  imagery:       %s\n", c.ImageDensity)
	fmt.Printf("  honesty:       %s\n", c.EmotionalHonesty)
	fmt.Println()
}
