package score

import (
	"fmt"
	"sort"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/rubric"
)

const maxPriorityIssues = 3

// Recommendations builds the prioritized negotiation list:
// 1) the first three HIGH issues, 2) categories scoring at or above
// RecommendScoreFactor of their maximum, highest first, 3) categories
// with no coverage at all.
func Recommendations(r *rubric.Rubric, details map[model.Category]model.CategoryDetail, issues []model.Issue) []string {
	var recs []string

	var high []model.Issue
	for _, i := range issues {
		if i.Severity == model.SeverityHigh {
			high = append(high, i)
		}
	}
	if len(high) > 0 {
		recs = append(recs, "PRIORITY 1: Address the following critical issues before signing:")
		if len(high) > maxPriorityIssues {
			high = high[:maxPriorityIssues]
		}
		for _, i := range high {
			recs = append(recs, fmt.Sprintf("  - %s in %s", i.Issue, i.Category.Label()))
		}
	}

	type scored struct {
		category model.Category
		detail   model.CategoryDetail
	}
	var negotiate []scored
	var missing []model.Category
	for _, rule := range r.Categories {
		d, ok := details[rule.Category]
		if !ok {
			continue
		}
		if d.Score >= d.MaxPoints*r.RecommendScoreFactor {
			negotiate = append(negotiate, scored{rule.Category, d})
		}
		if d.MissingCoverage {
			missing = append(missing, rule.Category)
		}
	}

	if len(negotiate) > 0 {
		// Stable keeps rubric order among equal scores
		sort.SliceStable(negotiate, func(i, j int) bool {
			return negotiate[i].detail.Score > negotiate[j].detail.Score
		})
		recs = append(recs, "\nPRIORITY 2: Negotiate improvements in these areas:")
		for _, n := range negotiate {
			recs = append(recs, fmt.Sprintf("  - %s: %s/%s points",
				n.category.Title(), formatPoints(n.detail.Score), formatPoints(n.detail.MaxPoints)))
		}
	}

	if len(missing) > 0 {
		recs = append(recs, "\nPRIORITY 3: Request explicit provisions for:")
		for _, c := range missing {
			recs = append(recs, "  - "+c.Title())
		}
	}

	return recs
}

// Interpret returns the human reading of a total score
func Interpret(total float64, tier model.Tier) string {
	prefix := fmt.Sprintf("Score: %s/100 - ", formatPoints(total))

	switch tier {
	case model.TierLow:
		return prefix + "This contract presents relatively low lock-in risk. " +
			"However, review specific clauses and negotiate improvements where possible."
	case model.TierMedium:
		return prefix + "This contract presents moderate lock-in risk. " +
			"Several areas need negotiation to improve terms. Focus on high-risk categories first."
	case model.TierHigh:
		return prefix + "WARNING: This contract presents significant lock-in risk. " +
			"Strongly recommend negotiating better terms or considering alternative vendors. " +
			"Multiple critical issues identified."
	}
	return fmt.Sprintf("Score: %s/100", formatPoints(total))
}
