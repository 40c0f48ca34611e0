package pipeline

import (
	"testing"

	"github.com/ppiankov/lockscore/internal/model"
)

func scored(vendor string, total float64, tier model.Tier, pricing float64) *model.Assessment {
	return &model.Assessment{
		Vendor:     vendor,
		TotalScore: total,
		RiskLevel:  tier,
		CategoryScores: map[model.Category]float64{
			model.CategoryPricingTerms: pricing,
		},
	}
}

func TestCompare(t *testing.T) {
	assessments := []*model.Assessment{
		scored("A", 40, model.TierMedium, 10),
		scored("B", 10, model.TierLow, 5),
		nil,
		scored("C", 80, model.TierHigh, 20),
		scored("D", 20, model.TierLow, 1),
		scored("E", 55, model.TierMedium, 12),
		scored("F", 70, model.TierHigh, 18),
	}

	c := Compare(assessments, 2)

	if c.TotalVendors != 6 || c.Failed != 2 {
		t.Errorf("totals = %d/%d", c.TotalVendors, c.Failed)
	}
	if c.AverageScore != 45.83 {
		t.Errorf("average = %v, want 45.83", c.AverageScore)
	}
	if c.RiskDistribution[model.TierLow] != 2 || c.RiskDistribution[model.TierMedium] != 2 || c.RiskDistribution[model.TierHigh] != 2 {
		t.Errorf("distribution = %v", c.RiskDistribution)
	}

	wantBest := []string{"B", "D", "A", "E", "F"}
	wantWorst := []string{"C", "F", "E", "A", "D"}
	for i, v := range wantBest {
		if c.BestVendors[i].Vendor != v {
			t.Errorf("best[%d] = %s, want %s", i, c.BestVendors[i].Vendor, v)
		}
	}
	for i, v := range wantWorst {
		if c.WorstVendors[i].Vendor != v {
			t.Errorf("worst[%d] = %s, want %s", i, c.WorstVendors[i].Vendor, v)
		}
	}

	if got := c.CategoryAverages[model.CategoryPricingTerms]; got != 11 {
		t.Errorf("pricing average = %v, want 11", got)
	}
}

func TestCompare_Empty(t *testing.T) {
	c := Compare(nil, 3)
	if c.TotalVendors != 0 || c.Failed != 3 || c.AverageScore != 0 {
		t.Errorf("unexpected comparison %+v", c)
	}
	if c.BestVendors == nil || c.WorstVendors == nil || c.CategoryAverages == nil {
		t.Error("empty comparison should still carry non-nil collections")
	}
}
