package score

import (
	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/rubric"
)

// ClassifyTier maps a total score to a risk tier.
// Bounds are inclusive: with the default thresholds 33.0 is LOW and
// 33.01 is MEDIUM, 66.0 is MEDIUM and 66.01 is HIGH.
func ClassifyTier(total float64, t rubric.Thresholds) model.Tier {
	switch {
	case total <= t.LowMax:
		return model.TierLow
	case total <= t.MediumMax:
		return model.TierMedium
	default:
		return model.TierHigh
	}
}
