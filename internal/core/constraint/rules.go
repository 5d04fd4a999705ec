package constraint

import (
	"fmt"
	"regexp"
	"strings"
)

// abstractVocabulary is the fixed list of abstraction words that break the
// concrete-imagery constraint. Matching is whole-word, case-insensitive.
var abstractVocabulary = []string{
	"meaning", "purpose", "existence", "truth", "beauty", "soul",
	"spirit", "essence", "eternity", "infinity", "consciousness",
	"reality", "destiny", "fate", "emotion", "feeling", "concept",
	"idea", "wisdom", "hope",
}

var abstractWordPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(abstractVocabulary))
	for _, w := range abstractVocabulary {
		m[w] = regexp.MustCompile(`(?i)\b` + w + `\b`)
	}
	return m
}()

// metaphorPatterns match copular and comparative metaphor constructions.
var metaphorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bis\s+(a|an|the)\s+\w+`),
	regexp.MustCompile(`(?i)\bare\s+(a|an|the)\s+\w+`),
	regexp.MustCompile(`(?i)\bwas\s+(a|an|the)\s+\w+`),
	regexp.MustCompile(`(?i)\blike\s+(a|an)\s+\w+`),
	regexp.MustCompile(`(?i)\bas\s+(if|though)\b`),
	regexp.MustCompile(`(?i)\bbecomes?\s+\w+`),
	regexp.MustCompile(`(?i)\bturns?\s+into\s+\w+`),
}

// firstPersonPattern matches every first-person pronoun occurrence.
var firstPersonPattern = regexp.MustCompile(`(?i)\b(i|me|my|mine|myself|we|us|our|ours|ourselves)\b`)

var secondPersonPattern = regexp.MustCompile(`(?i)\byou\b`)

type concreteImageryRule struct{}

// Apply flags each line containing abstract vocabulary. Only the first
// matching word per line is reported.
func (concreteImageryRule) Apply(text string) []Violation {
	var violations []Violation
	for i, line := range strings.Split(text, "\n") {
		for _, word := range abstractVocabulary {
			if abstractWordPatterns[word].MatchString(line) {
				violations = append(violations, Violation{
					LineNumber:    i + 1,
					OffendingText: strings.TrimSpace(line),
					Issue:         fmt.Sprintf("abstract vocabulary %q breaks concrete imagery", word),
					Severity:      SeverityHigh,
				})
				break
			}
		}
	}
	return violations
}

type noMetaphorsRule struct{}

// Apply flags each line matching a copular or comparative metaphor pattern.
func (noMetaphorsRule) Apply(text string) []Violation {
	var violations []Violation
	for i, line := range strings.Split(text, "\n") {
		for _, p := range metaphorPatterns {
			if match := p.FindString(line); match != "" {
				violations = append(violations, Violation{
					LineNumber:    i + 1,
					OffendingText: strings.TrimSpace(line),
					Issue:         fmt.Sprintf("metaphor construction %q is not allowed this week", strings.TrimSpace(match)),
					Severity:      SeverityHigh,
				})
				break
			}
		}
	}
	return violations
}

type sustainedMetaphorRule struct{}

// Apply requires a metaphor indicator within the first third of non-empty
// lines so the central metaphor is established early.
func (sustainedMetaphorRule) Apply(text string) []Violation {
	var nonEmpty []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	if len(nonEmpty) < 3 {
		return []Violation{{
			LineNumber: 0,
			Issue:      "too short to establish metaphor",
			Severity:   SeverityCritical,
		}}
	}

	firstThird := len(nonEmpty) / 3
	if firstThird < 1 {
		firstThird = 1
	}

	for _, line := range nonEmpty[:firstThird] {
		for _, p := range metaphorPatterns {
			if p.MatchString(line) {
				return nil
			}
		}
	}

	return []Violation{{
		LineNumber: 0,
		Issue:      fmt.Sprintf("no metaphor established in the first %d lines", firstThird),
		Severity:   SeverityCritical,
	}}
}

type secondPersonRule struct{}

// Apply flags every first-person pronoun and requires at least one line
// addressed to "you".
func (secondPersonRule) Apply(text string) []Violation {
	var violations []Violation
	hasYou := false

	for i, line := range strings.Split(text, "\n") {
		if secondPersonPattern.MatchString(line) {
			hasYou = true
		}
		for _, pronoun := range firstPersonPattern.FindAllString(line, -1) {
			violations = append(violations, Violation{
				LineNumber:    i + 1,
				OffendingText: strings.TrimSpace(line),
				Issue:         fmt.Sprintf("first-person pronoun %q in a second-person poem", pronoun),
				Severity:      SeverityCritical,
			})
		}
	}

	if !hasYou {
		violations = append(violations, Violation{
			LineNumber: 0,
			Issue:      "poem never addresses \"you\"",
			Severity:   SeverityCritical,
		})
	}

	return violations
}
