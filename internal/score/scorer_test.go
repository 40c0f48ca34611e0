package score

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/rubric"
)

func clause(id string, c model.Category, level model.RiskLevel, mechanism string) model.Clause {
	return model.Clause{
		ID:             id,
		Vendor:         "Acme",
		Category:       c,
		Text:           "clause text",
		RiskLevel:      level,
		Mechanism:      mechanism,
		KeywordMatches: 2,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScorer_StandardMediumEverywhere(t *testing.T) {
	scorer := NewScorer(rubric.Default())

	var clauses []model.Clause
	for i, c := range model.Categories() {
		clauses = append(clauses, clause("Acme_"+string(rune('1'+i)), c, model.RiskMedium, model.MechanismStandard))
	}

	a := scorer.Score(clauses)

	for _, c := range model.Categories() {
		d := a.CategoryDetails[c]
		want := d.MaxPoints * 0.15
		if !almostEqual(d.Score, want) {
			t.Errorf("%s score = %.4f, want %.4f", c, d.Score, want)
		}
		if d.MissingCoverage {
			t.Errorf("%s should not be missing coverage", c)
		}
	}
	if !almostEqual(a.TotalScore, 15) {
		t.Errorf("total = %.2f, want 15", a.TotalScore)
	}
	if a.RiskLevel != model.TierLow {
		t.Errorf("tier = %s, want LOW", a.RiskLevel)
	}
	if len(a.CriticalIssues) != 0 {
		t.Errorf("expected no critical issues, got %+v", a.CriticalIssues)
	}
	if len(a.Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %v", a.Recommendations)
	}
	if a.Method != model.MethodClauses || a.TotalClauses != 5 {
		t.Errorf("method/total clauses = %s/%d", a.Method, a.TotalClauses)
	}
	if !strings.HasPrefix(a.Interpretation, "Score: 15/100 - This contract presents relatively low lock-in risk.") {
		t.Errorf("interpretation = %q", a.Interpretation)
	}
}

func TestScorer_MissingCoverage(t *testing.T) {
	scorer := NewScorer(rubric.Default())

	clauses := []model.Clause{
		clause("Acme_1", model.CategoryDataPortability, model.RiskMedium, model.MechanismStandard),
		clause("Acme_2", model.CategorySupportObligations, model.RiskMedium, model.MechanismStandard),
		clause("Acme_3", model.CategoryTerminationExit, model.RiskMedium, model.MechanismStandard),
	}

	a := scorer.Score(clauses)

	for _, c := range []model.Category{model.CategoryPricingTerms, model.CategoryServiceLevel} {
		d := a.CategoryDetails[c]
		if !d.MissingCoverage {
			t.Errorf("%s: expected missing coverage", c)
		}
		if d.Score != 12.5 {
			t.Errorf("%s: score = %.2f, want 12.5", c, d.Score)
		}
		if d.ClauseCount != 0 || d.PenaltyReason != "No clauses found in this category" {
			t.Errorf("%s: unexpected detail %+v", c, d)
		}
	}

	if !almostEqual(a.TotalScore, 32.5) {
		t.Errorf("total = %.2f, want 32.5", a.TotalScore)
	}

	wantIssues := []string{"No pricing terms clauses found", "No service level clauses found"}
	if len(a.CriticalIssues) != len(wantIssues) {
		t.Fatalf("expected %d issues, got %+v", len(wantIssues), a.CriticalIssues)
	}
	for i, want := range wantIssues {
		got := a.CriticalIssues[i]
		if got.Issue != want || got.Severity != model.SeverityHigh || got.Kind != model.IssueMissingCoverage {
			t.Errorf("issue %d = %+v, want %q", i, got, want)
		}
		if got.Impact != "Critical contractual gap - no protection in this area" {
			t.Errorf("issue %d impact = %q", i, got.Impact)
		}
	}

	wantRecs := []string{
		"PRIORITY 1: Address the following critical issues before signing:",
		"  - No pricing terms clauses found in pricing terms",
		"  - No service level clauses found in service level",
		"\nPRIORITY 3: Request explicit provisions for:",
		"  - Pricing Terms",
		"  - Service Level",
	}
	if !reflect.DeepEqual(a.Recommendations, wantRecs) {
		t.Errorf("recommendations = %q\nwant %q", a.Recommendations, wantRecs)
	}
}

func TestScorer_ScoreCategory_Penalties(t *testing.T) {
	scorer := NewScorer(rubric.Default())
	pricing := model.CategoryPricingTerms

	tests := []struct {
		name     string
		clauses  []model.Clause
		score    float64
		highPct  float64
		highRisk int
	}{
		{
			name:     "high mapped",
			clauses:  []model.Clause{clause("a", pricing, model.RiskHigh, "unilateral_pricing")},
			score:    25,
			highPct:  100,
			highRisk: 1,
		},
		{
			name: "high and medium average",
			clauses: []model.Clause{
				clause("a", pricing, model.RiskHigh, "no_notice_changes"),   // 0.5
				clause("b", pricing, model.RiskMedium, "price_increase_risk"), // 0.5 * 1.0
			},
			score:    12.5,
			highPct:  50,
			highRisk: 1,
		},
		{
			name:     "high unmapped defaults to 0.5",
			clauses:  []model.Clause{clause("a", pricing, model.RiskHigh, "mystery")},
			score:    12.5,
			highPct:  100,
			highRisk: 1,
		},
		{
			name:    "medium unmapped defaults to 0.5 * 0.3",
			clauses: []model.Clause{clause("a", pricing, model.RiskMedium, "mystery")},
			score:   3.75,
		},
		{
			name: "three clauses round percentage",
			clauses: []model.Clause{
				clause("a", pricing, model.RiskHigh, "unilateral_pricing"),
				clause("b", pricing, model.RiskMedium, model.MechanismStandard),
				clause("c", pricing, model.RiskMedium, model.MechanismStandard),
			},
			score:    10.83, // 25 * (1.0 + 0.15 + 0.15) / 3
			highPct:  33.3,
			highRisk: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := scorer.ScoreCategory(pricing, tt.clauses)
			if !almostEqual(d.Score, tt.score) {
				t.Errorf("score = %.4f, want %.4f", d.Score, tt.score)
			}
			if !almostEqual(d.HighRiskPercentage, tt.highPct) {
				t.Errorf("high risk pct = %.1f, want %.1f", d.HighRiskPercentage, tt.highPct)
			}
			if d.HighRiskCount != tt.highRisk || d.ClauseCount != len(tt.clauses) {
				t.Errorf("counts = %d/%d", d.HighRiskCount, d.ClauseCount)
			}
			if d.Score > d.MaxPoints {
				t.Errorf("score %.2f exceeds max %.2f", d.Score, d.MaxPoints)
			}
		})
	}
}

func TestCriticalIssues_ChainAndMechanisms(t *testing.T) {
	scorer := NewScorer(rubric.Default())

	clauses := []model.Clause{
		// data portability: 100% high risk -> share issue, plus a critical mechanism
		clause("Acme_1", model.CategoryDataPortability, model.RiskHigh, "data_restriction"),
		// pricing: standard medium, no category issue
		clause("Acme_2", model.CategoryPricingTerms, model.RiskMedium, model.MechanismStandard),
		// support: standard medium
		clause("Acme_3", model.CategorySupportObligations, model.RiskMedium, model.MechanismStandard),
		// termination: 50% high, 0.75 * 20 = 15 >= 14 -> high score issue
		clause("Acme_4", model.CategoryTerminationExit, model.RiskHigh, "no_compensation"),
		clause("Acme_5", model.CategoryTerminationExit, model.RiskMedium, "price_increase_risk"),
		// service level left empty -> missing coverage
	}

	a := scorer.Score(clauses)

	want := []struct {
		kind     model.IssueKind
		category model.Category
		severity model.Severity
		issue    string
		clauseID string
	}{
		{model.IssueHighRiskShare, model.CategoryDataPortability, model.SeverityHigh, "100.0% of data portability clauses are high-risk", ""},
		{model.IssueHighCategoryScore, model.CategoryTerminationExit, model.SeverityMedium, "Category scored 15/20 points", ""},
		{model.IssueMissingCoverage, model.CategoryServiceLevel, model.SeverityHigh, "No service level clauses found", ""},
		{model.IssueCriticalMechanism, model.CategoryDataPortability, model.SeverityHigh, "Contains data restriction clause", "Acme_1"},
		{model.IssueCriticalMechanism, model.CategoryTerminationExit, model.SeverityHigh, "Contains no compensation clause", "Acme_4"},
	}

	if len(a.CriticalIssues) != len(want) {
		t.Fatalf("expected %d issues, got %d: %+v", len(want), len(a.CriticalIssues), a.CriticalIssues)
	}
	for i, w := range want {
		got := a.CriticalIssues[i]
		if got.Kind != w.kind || got.Category != w.category || got.Severity != w.severity ||
			got.Issue != w.issue || got.ClauseID != w.clauseID {
			t.Errorf("issue %d = %+v, want %+v", i, got, w)
		}
	}

	// Only the first three HIGH issues reach priority 1
	if a.Recommendations[0] != "PRIORITY 1: Address the following critical issues before signing:" {
		t.Fatalf("recommendations = %q", a.Recommendations)
	}
	p1 := a.Recommendations[1:4]
	wantP1 := []string{
		"  - 100.0% of data portability clauses are high-risk in data portability",
		"  - No service level clauses found in service level",
		"  - Contains data restriction clause in data portability",
	}
	if !reflect.DeepEqual(p1, wantP1) {
		t.Errorf("priority 1 = %q, want %q", p1, wantP1)
	}
	if a.Recommendations[4] != "\nPRIORITY 2: Negotiate improvements in these areas:" {
		t.Errorf("expected priority 2 after three issues, got %q", a.Recommendations[4])
	}
}

func TestRecommendations_PriorityTwoOrdering(t *testing.T) {
	r := rubric.Default()
	details := map[model.Category]model.CategoryDetail{
		model.CategoryDataPortability:    {Score: 15, MaxPoints: 15, ClauseCount: 1},
		model.CategoryPricingTerms:       {Score: 20, MaxPoints: 25, ClauseCount: 1},
		model.CategorySupportObligations: {Score: 2.25, MaxPoints: 15, ClauseCount: 1},
		model.CategoryTerminationExit:    {Score: 11.99, MaxPoints: 20, ClauseCount: 1}, // just under 0.6 * 20
		model.CategoryServiceLevel:       {Score: 25, MaxPoints: 25, ClauseCount: 1},
	}

	got := Recommendations(r, details, nil)
	want := []string{
		"\nPRIORITY 2: Negotiate improvements in these areas:",
		"  - Service Level: 25/25 points",
		"  - Pricing Terms: 20/25 points",
		"  - Data Portability: 15/15 points",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recommendations() = %q\nwant %q", got, want)
	}
}

func TestClassifyTier(t *testing.T) {
	thresholds := rubric.Default().Tiers

	tests := []struct {
		total float64
		want  model.Tier
	}{
		{0, model.TierLow},
		{15, model.TierLow},
		{33.0, model.TierLow},
		{33.01, model.TierMedium},
		{33.5, model.TierMedium},
		{66.0, model.TierMedium},
		{66.01, model.TierHigh},
		{100, model.TierHigh},
	}

	for _, tt := range tests {
		if got := ClassifyTier(tt.total, thresholds); got != tt.want {
			t.Errorf("ClassifyTier(%.2f) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		total float64
		tier  model.Tier
		want  string
	}{
		{12.5, model.TierLow, "Score: 12.5/100 - This contract presents relatively low lock-in risk."},
		{50, model.TierMedium, "Score: 50/100 - This contract presents moderate lock-in risk."},
		{80.25, model.TierHigh, "Score: 80.25/100 - WARNING: This contract presents significant lock-in risk."},
	}

	for _, tt := range tests {
		if got := Interpret(tt.total, tt.tier); !strings.HasPrefix(got, tt.want) {
			t.Errorf("Interpret(%.2f, %s) = %q", tt.total, tt.tier, got)
		}
	}
}

func TestScorer_TotalsAreConsistent(t *testing.T) {
	scorer := NewScorer(rubric.Default())
	mechanisms := []string{model.MechanismStandard, "unilateral_pricing", "automatic_renewal", "exit_fees", "mystery"}
	levels := []model.RiskLevel{model.RiskMedium, model.RiskHigh}

	for n := 0; n < 25; n++ {
		var clauses []model.Clause
		for i := 0; i <= n; i++ {
			c := model.Categories()[(i*3+n)%5]
			if (i+n)%7 == 0 {
				continue
			}
			clauses = append(clauses, clause("x", c, levels[(i+n)%2], mechanisms[(i*n)%len(mechanisms)]))
		}

		a := scorer.Score(clauses)

		sum := 0.0
		for c, s := range a.CategoryScores {
			d := a.CategoryDetails[c]
			if s < 0 || s > d.MaxPoints {
				t.Errorf("case %d: %s score %.2f outside [0, %.0f]", n, c, s, d.MaxPoints)
			}
			if d.ClauseCount == 0 && s != 0.5*d.MaxPoints {
				t.Errorf("case %d: %s empty but score %.2f", n, c, s)
			}
			sum += s
		}
		if math.Abs(sum-a.TotalScore) > 0.005 {
			t.Errorf("case %d: sum %.4f != total %.2f", n, sum, a.TotalScore)
		}
		if a.TotalScore < 0 || a.TotalScore > 100 {
			t.Errorf("case %d: total %.2f outside [0,100]", n, a.TotalScore)
		}
	}
}

func TestScorer_Deterministic(t *testing.T) {
	scorer := NewScorer(rubric.Default())
	clauses := []model.Clause{
		clause("Acme_1", model.CategoryPricingTerms, model.RiskHigh, "unilateral_pricing"),
		clause("Acme_2", model.CategoryServiceLevel, model.RiskMedium, "no_sla"),
	}

	if !reflect.DeepEqual(scorer.Score(clauses), scorer.Score(clauses)) {
		t.Error("scoring identical clauses produced different assessments")
	}
}
