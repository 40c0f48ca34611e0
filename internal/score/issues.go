package score

import (
	"fmt"
	"strconv"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/rubric"
)

// CriticalIssues derives the ordered issue list of an assessment.
//
// Per category, in rubric order, at most one of: missing coverage,
// a high-risk share at or above the threshold, or a score at or above
// HighScoreFactor of the maximum. Then one issue per clause whose
// mechanism is critical, in clause order.
func CriticalIssues(r *rubric.Rubric, details map[model.Category]model.CategoryDetail, clauses []model.Clause) []model.Issue {
	issues := make([]model.Issue, 0)

	for _, rule := range r.Categories {
		d, ok := details[rule.Category]
		if !ok {
			continue
		}
		label := rule.Category.Label()

		switch {
		case d.MissingCoverage:
			issues = append(issues, model.Issue{
				Kind:     model.IssueMissingCoverage,
				Category: rule.Category,
				Severity: model.SeverityHigh,
				Issue:    fmt.Sprintf("No %s clauses found", label),
				Impact:   "Critical contractual gap - no protection in this area",
			})
		case d.ClauseCount > 0 && d.HighRiskPercentage >= r.HighRiskShareThreshold:
			issues = append(issues, model.Issue{
				Kind:     model.IssueHighRiskShare,
				Category: rule.Category,
				Severity: model.SeverityHigh,
				Issue:    fmt.Sprintf("%.1f%% of %s clauses are high-risk", d.HighRiskPercentage, label),
				Impact:   "Significant lock-in risk in this category",
			})
		case d.Score >= d.MaxPoints*r.HighScoreFactor:
			issues = append(issues, model.Issue{
				Kind:     model.IssueHighCategoryScore,
				Category: rule.Category,
				Severity: model.SeverityMedium,
				Issue:    fmt.Sprintf("Category scored %s/%s points", formatPoints(d.Score), formatPoints(d.MaxPoints)),
				Impact:   "Above-average risk in this area",
			})
		}
	}

	for _, c := range clauses {
		if !r.IsCritical(c.Mechanism) {
			continue
		}
		issues = append(issues, model.Issue{
			Kind:     model.IssueCriticalMechanism,
			Category: c.Category,
			Severity: model.SeverityHigh,
			Issue:    fmt.Sprintf("Contains %s clause", model.MechanismLabel(c.Mechanism)),
			Impact:   "Critical lock-in mechanism identified",
			ClauseID: c.ID,
		})
	}

	return issues
}

// formatPoints renders points without trailing zeros (25, 18.75)
func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
