package extract

import (
	"strings"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/rubric"
)

// ClassifyMechanism returns the first mechanism, in table order, with a
// pattern contained in lowerText. A section can qualify for several
// mechanisms; only the first is recorded. No match yields "standard".
func ClassifyMechanism(lowerText string, mechanisms []rubric.Mechanism) string {
	for _, m := range mechanisms {
		if containsAny(lowerText, m.Patterns) {
			return m.Name
		}
	}
	return model.MechanismStandard
}

// containsAny reports whether any needle is a substring of text
func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// countContained counts how many needles are substrings of text
func countContained(text string, needles []string) int {
	count := 0
	for _, n := range needles {
		if strings.Contains(text, n) {
			count++
		}
	}
	return count
}
