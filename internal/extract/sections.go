package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// sectionBoundary matches blank-line runs, numbered-list markers and
// all-caps heading lines.
var sectionBoundary = regexp.MustCompile(`\n\n+|\n[0-9]+\.|\n[A-Z][A-Z\s]+\n`)

// SplitSections partitions normalized text into candidate clause sections.
// Pieces shorter than minLength characters are dropped. When fewer than
// minSections pieces survive, the text is treated as unstructured and split
// on single newlines instead. Order of the returned sections follows the text.
func SplitSections(text string, minLength, minSections int) []string {
	sections := splitAndFilter(sectionBoundary.Split(text, -1), minLength)
	if len(sections) >= minSections {
		return sections
	}
	return splitAndFilter(strings.Split(text, "\n"), minLength)
}

func splitAndFilter(pieces []string, minLength int) []string {
	sections := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) >= minLength {
			sections = append(sections, p)
		}
	}
	return sections
}
