// Package critique computes a deterministic craft critique from poem text.
// Everything here is plain text statistics - no model calls, no randomness -
// so the same poem always receives the same critique.
package critique

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Critique is the structured feedback attached to an accepted submission.
type Critique struct {
	LineStrength     string  `json:"line_strength"`
	Rhythm           string  `json:"rhythm"`
	ImageDensity     string  `json:"image_density"`
	EmotionalHonesty string  `json:"emotional_honesty"`
	RhythmVariance   float64 `json:"rhythm_variance"`
	ImageRatio       float64 `json:"image_ratio"`
}

// weakEndings are words that deflate a line when they carry its final beat.
var weakEndings = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "and": true,
	"to": true, "in": true, "is": true, "was": true, "it": true,
	"very": true, "really": true, "just": true,
}

// sensoryWords anchor a line in the physical world.
var sensoryWords = []string{
	"stone", "rust", "glass", "rain", "salt", "smoke", "iron", "dust",
	"bone", "wire", "gravel", "ash", "mud", "bark", "frost", "blood",
	"copper", "tin", "moth", "crow", "oil", "thread", "brick", "grease",
}

// emotionDeclarations match lines that announce a feeling instead of
// rendering it.
var emotionDeclarations = regexp.MustCompile(
	`(?i)\b(i feel|i felt|i am (so )?(sad|happy|angry|lonely|afraid)|it hurts|my heart)\b`)

var wordPattern = regexp.MustCompile(`[A-Za-z']+`)

// Analyze computes the full critique for a poem.
func Analyze(content string) Critique {
	lines := nonEmptyLines(content)

	weak := weakEndingLines(lines)
	variance := rhythmVariance(lines)
	ratio := imageRatio(lines)
	declarations := declarationCount(lines)

	c := Critique{
		RhythmVariance: variance,
		ImageRatio:     ratio,
	}

	switch {
	case len(weak) == 0:
		c.LineStrength = "every line ends on a working word"
	case len(weak) <= 2:
		c.LineStrength = fmt.Sprintf("weak line endings on line(s) %s - end on the image, not the connective", joinInts(weak))
	default:
		c.LineStrength = fmt.Sprintf("%d of %d lines end weakly - rebuild the line breaks", len(weak), len(lines))
	}

	switch {
	case variance < 1.0:
		c.Rhythm = "line lengths are nearly uniform - the poem marches; vary the breath"
	case variance > 16.0:
		c.Rhythm = "line lengths swing hard - check that the longest lines earn their sprawl"
	default:
		c.Rhythm = "line lengths vary naturally"
	}

	switch {
	case ratio >= 0.5:
		c.ImageDensity = "dense with physical imagery"
	case ratio >= 0.2:
		c.ImageDensity = "some concrete anchors - push more lines into the senses"
	default:
		c.ImageDensity = "almost no physical imagery - the poem floats; give it objects"
	}

	switch {
	case declarations == 0:
		c.EmotionalHonesty = "no announced feelings - the poem trusts its images"
	case declarations == 1:
		c.EmotionalHonesty = "one declared feeling - consider rendering it as action instead"
	default:
		c.EmotionalHonesty = fmt.Sprintf("%d declared feelings - show, don't report", declarations)
	}

	return c
}

func nonEmptyLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}

func weakEndingLines(lines []string) []int {
	var weak []int
	for i, line := range lines {
		words := wordPattern.FindAllString(line, -1)
		if len(words) == 0 {
			continue
		}
		last := strings.ToLower(words[len(words)-1])
		if weakEndings[last] {
			weak = append(weak, i+1)
		}
	}
	return weak
}

func rhythmVariance(lines []string) float64 {
	if len(lines) == 0 {
		return 0
	}
	counts := make([]float64, len(lines))
	sum := 0.0
	for i, line := range lines {
		counts[i] = float64(len(wordPattern.FindAllString(line, -1)))
		sum += counts[i]
	}
	mean := sum / float64(len(counts))
	variance := 0.0
	for _, c := range counts {
		variance += (c - mean) * (c - mean)
	}
	return math.Round(variance/float64(len(counts))*100) / 100
}

func imageRatio(lines []string) float64 {
	if len(lines) == 0 {
		return 0
	}
	anchored := 0
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, w := range sensoryWords {
			if strings.Contains(lower, w) {
				anchored++
				break
			}
		}
	}
	return math.Round(float64(anchored)/float64(len(lines))*100) / 100
}

func declarationCount(lines []string) int {
	count := 0
	for _, line := range lines {
		count += len(emotionDeclarations.FindAllString(line, -1))
	}
	return count
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ", ")
}
