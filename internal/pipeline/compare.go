package pipeline

import (
	"math"
	"sort"

	"github.com/ppiankov/lockscore/internal/model"
)

const compareTopN = 5

// Compare ranks successful assessments against each other. failed counts
// the sources that produced an error instead of an assessment.
func Compare(assessments []*model.Assessment, failed int) *model.Comparison {
	valid := make([]*model.Assessment, 0, len(assessments))
	for _, a := range assessments {
		if a != nil {
			valid = append(valid, a)
		}
	}

	c := &model.Comparison{
		TotalVendors: len(valid),
		Failed:       failed,
		RiskDistribution: map[model.Tier]int{
			model.TierLow:    0,
			model.TierMedium: 0,
			model.TierHigh:   0,
		},
		BestVendors:      []model.VendorScore{},
		WorstVendors:     []model.VendorScore{},
		CategoryAverages: map[model.Category]float64{},
	}
	if len(valid) == 0 {
		return c
	}

	sum := 0.0
	totals := make(map[model.Category]float64)
	counts := make(map[model.Category]int)
	for _, a := range valid {
		sum += a.TotalScore
		c.RiskDistribution[a.RiskLevel]++
		for cat, s := range a.CategoryScores {
			totals[cat] += s
			counts[cat]++
		}
	}
	c.AverageScore = round2(sum / float64(len(valid)))
	for cat, total := range totals {
		c.CategoryAverages[cat] = round2(total / float64(counts[cat]))
	}

	ranked := make([]*model.Assessment, len(valid))
	copy(ranked, valid)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore < ranked[j].TotalScore
	})
	for i := 0; i < len(ranked) && i < compareTopN; i++ {
		c.BestVendors = append(c.BestVendors, vendorScore(ranked[i]))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})
	for i := 0; i < len(ranked) && i < compareTopN; i++ {
		c.WorstVendors = append(c.WorstVendors, vendorScore(ranked[i]))
	}

	return c
}

func vendorScore(a *model.Assessment) model.VendorScore {
	return model.VendorScore{
		Vendor:     a.Vendor,
		File:       a.ContractFile,
		TotalScore: a.TotalScore,
		RiskLevel:  a.RiskLevel,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
