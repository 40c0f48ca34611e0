package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/rubric"
)

// ClauseExtractor matches contract sections against category rules
type ClauseExtractor struct {
	rubric *rubric.Rubric
}

// NewClauseExtractor creates a clause extractor over a shared rubric
func NewClauseExtractor(r *rubric.Rubric) *ClauseExtractor {
	return &ClauseExtractor{rubric: r}
}

// Sections splits normalized text using the rubric's length rules
func (e *ClauseExtractor) Sections(text string) []string {
	return SplitSections(text, e.rubric.MinSectionLength, e.rubric.MinSections)
}

// Extract evaluates every (category, section) pair independently and
// returns one clause per qualifying pair. Clause IDs are numbered in
// category-then-section order so identical input yields identical IDs.
//
// A pair qualifies when the section contains at least one required phrase
// and at least MinKeywordMatches keywords. Any negative keyword makes the
// clause High risk.
func (e *ClauseExtractor) Extract(sections []string, vendor, file string) []model.Clause {
	lowered := make([]string, len(sections))
	for i, s := range sections {
		lowered[i] = strings.ToLower(s)
	}

	var clauses []model.Clause
	n := 0

	for _, rule := range e.rubric.Categories {
		for i, lower := range lowered {
			if utf8.RuneCountInString(sections[i]) < e.rubric.MinSectionLength {
				continue
			}
			if !containsAny(lower, rule.RequiredPhrases) {
				continue
			}

			matches := countContained(lower, rule.Keywords)
			if matches < e.rubric.MinKeywordMatches {
				continue
			}

			risk := model.RiskMedium
			if containsAny(lower, rule.NegativeKeywords) {
				risk = model.RiskHigh
			}

			n++
			clauses = append(clauses, model.Clause{
				ID:             fmt.Sprintf("%s_%d", vendor, n),
				Vendor:         vendor,
				ContractFile:   file,
				Category:       rule.Category,
				Text:           truncateRunes(sections[i], e.rubric.ClauseTextLimit),
				RiskLevel:      risk,
				Mechanism:      ClassifyMechanism(lower, rule.Mechanisms),
				KeywordMatches: matches,
				Section:        i,
			})
		}
	}

	return clauses
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
