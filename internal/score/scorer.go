// Package score turns extracted clauses (or questionnaire answers) into a
// lock-in risk assessment: per-category points, a 0-100 total, a tier,
// critical issues and prioritized recommendations.
package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/rubric"
)

// Scorer calculates category scores from clauses
type Scorer struct {
	rubric *rubric.Rubric
}

// NewScorer creates a new scorer over a shared rubric
func NewScorer(r *rubric.Rubric) *Scorer {
	return &Scorer{rubric: r}
}

// Score aggregates clauses into an assessment. Vendor and source metadata
// are left for the caller to fill in.
func (s *Scorer) Score(clauses []model.Clause) *model.Assessment {
	byCategory := make(map[model.Category][]model.Clause)
	for _, c := range clauses {
		byCategory[c.Category] = append(byCategory[c.Category], c)
	}

	details := make(map[model.Category]model.CategoryDetail, len(s.rubric.Categories))
	for _, rule := range s.rubric.Categories {
		details[rule.Category] = s.ScoreCategory(rule.Category, byCategory[rule.Category])
	}

	a := assemble(s.rubric, details, clauses)
	a.Method = model.MethodClauses
	return a
}

// ScoreCategory converts the clauses of one category into bounded points.
// With no clauses the category receives the fixed missing-coverage penalty.
func (s *Scorer) ScoreCategory(c model.Category, clauses []model.Clause) model.CategoryDetail {
	weight := s.rubric.Weight(c)

	if len(clauses) == 0 {
		score := round2(weight * s.rubric.MissingCoverageFactor)
		return model.CategoryDetail{
			Score:           score,
			MaxPoints:       weight,
			MissingCoverage: true,
			PenaltyReason:   "No clauses found in this category",
			Formula:         fmt.Sprintf("max_points * %g (missing coverage)", s.rubric.MissingCoverageFactor),
		}
	}

	total := 0.0
	high := 0
	for _, cl := range clauses {
		if cl.IsHighRisk() {
			high++
		}
		total += s.rubric.Penalty(cl.Mechanism, cl.RiskLevel)
	}

	avg := total / float64(len(clauses))

	return model.CategoryDetail{
		Score:              round2(weight * avg),
		MaxPoints:          weight,
		ClauseCount:        len(clauses),
		HighRiskCount:      high,
		HighRiskPercentage: round1(100 * float64(high) / float64(len(clauses))),
		Formula:            fmt.Sprintf("max_points * mean(penalty) = %g * %.4f", weight, avg),
	}
}

// assemble builds the shared assessment shape from category details.
// Both scoring paths end here so totals, tiers, issues and
// recommendations are computed identically.
func assemble(r *rubric.Rubric, details map[model.Category]model.CategoryDetail, clauses []model.Clause) *model.Assessment {
	scores := make(map[model.Category]float64, len(details))
	sum := 0.0
	for _, rule := range r.Categories {
		d := details[rule.Category]
		scores[rule.Category] = d.Score
		sum += d.Score
	}

	total := round2(sum)
	tier := ClassifyTier(total, r.Tiers)
	issues := CriticalIssues(r, details, clauses)

	if clauses == nil {
		clauses = []model.Clause{}
	}

	return &model.Assessment{
		TotalScore:      total,
		RiskLevel:       tier,
		CategoryScores:  scores,
		CategoryDetails: details,
		CriticalIssues:  issues,
		Recommendations: Recommendations(r, details, issues),
		Interpretation:  Interpret(total, tier),
		TotalClauses:    len(clauses),
		Clauses:         clauses,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
