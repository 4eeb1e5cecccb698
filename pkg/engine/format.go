package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/parley-labs/parley/pkg/domain"
)

// optionPrefix matches a leading letter prefix such as "A. ", "b) " on
// generated option text. The model sometimes includes one even though the
// options are stored keyed by letter.
var optionPrefix = regexp.MustCompile(`(?i)^[A-D][.)]?\s+`)

// letterOptions keys the generated option list by letter (A, B, C, D),
// stripping any letter prefix the model put on the text so it is never shown
// twice.
func letterOptions(options []string) map[string]string {
	out := make(map[string]string, len(options))
	for i, option := range options {
		letter := string(rune('A' + i))
		out[letter] = strings.TrimSpace(optionPrefix.ReplaceAllString(strings.TrimSpace(option), ""))
	}
	return out
}

// FormatMiniLesson renders a generated mini-lesson as one markdown document
// for display.
func FormatMiniLesson(lesson *domain.MiniLesson) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", lesson.Title)
	b.WriteString("## Core Principle\n")
	b.WriteString(lesson.CorePrinciple)
	b.WriteString("\n\n## Examples\n")

	for i, example := range lesson.Examples {
		fmt.Fprintf(&b, "\n### Example %d: %s\n", i+1, example.Situation)
		fmt.Fprintf(&b, "**Wrong approach:** %s\n", example.WrongApproach)
		fmt.Fprintf(&b, "**Right approach:** %s\n", example.RightApproach)
		fmt.Fprintf(&b, "**Why it works:** %s\n", example.WhyItWorks)
	}

	b.WriteString("\n## Common Mistakes\n")
	for _, mistake := range lesson.CommonMistakes {
		fmt.Fprintf(&b, "- %s\n", mistake)
	}

	b.WriteString("\n## Key Takeaway\n")
	b.WriteString(lesson.KeyTakeaway)

	return b.String()
}
