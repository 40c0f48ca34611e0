package rubric

import "github.com/ppiankov/lockscore/internal/model"

// DefaultVersion identifies the built-in rubric
const DefaultVersion = "2024.1"

// Default returns the built-in rubric. Each call returns a fresh value.
func Default() *Rubric {
	r := &Rubric{
		Version: DefaultVersion,
		Categories: []CategoryRule{
			{
				Category: model.CategoryDataPortability,
				Weight:   15,
				Keywords: []string{
					"data export", "data portability", "data migration", "export data",
					"data transfer", "download data", "retrieve data", "data extraction",
					"data backup", "api access", "bulk export", "data ownership",
					"portable format", "standard format", "data retrieval",
				},
				NegativeKeywords: []string{
					"no obligation to provide", "may not export", "cannot export",
					"prohibit export", "restrict export", "no portability",
					"proprietary format only", "no api access", "limited export",
				},
				RequiredPhrases: []string{"export", "portability", "migration", "api", "retrieval"},
				Mechanisms: []Mechanism{
					{Name: "data_restriction", Patterns: []string{"proprietary format", "no export", "cannot export", "restrict"}},
					{Name: "no_api_access", Patterns: []string{"no api", "limited api", "no programmatic access"}},
					{Name: "export_restriction", Patterns: []string{"export restriction", "limited export", "no bulk export"}},
				},
			},
			{
				Category: model.CategoryPricingTerms,
				Weight:   25,
				Keywords: []string{
					"pricing", "fees", "payment", "cost", "subscription", "charges",
					"price increase", "rate change", "fee change", "pricing change",
					"billing", "invoice", "payment terms", "price adjustment",
					"renewal fee", "price lock", "pricing guarantee", "price modification",
				},
				NegativeKeywords: []string{
					"increase prices", "raise fees", "modify pricing", "change fees",
					"at our discretion", "sole discretion", "without notice",
					"unilateral", "at any time", "right to change", "may increase",
				},
				RequiredPhrases: []string{"pric", "fee", "cost", "payment", "subscription"},
				Mechanisms: []Mechanism{
					{Name: "price_increase_risk", Patterns: []string{"increase", "raise", "adjust", "modify"}},
					{Name: "unilateral_pricing", Patterns: []string{"sole discretion", "unilateral", "at our discretion", "right to change"}},
					{Name: "no_notice_changes", Patterns: []string{"without notice", "immediate effect", "no advance notice"}},
					{Name: "automatic_renewal", Patterns: []string{"auto-renew", "automatic renewal", "automatically renew"}},
				},
			},
			{
				Category: model.CategorySupportObligations,
				Weight:   15,
				Keywords: []string{
					"support", "technical support", "customer support", "assistance",
					"help desk", "support hours", "support availability", "support level",
					"maintenance", "updates", "patches", "bug fixes", "response time",
					"support tier", "support plan", "customer service", "service availability",
				},
				NegativeKeywords: []string{
					"no support", "no obligation to support", "may discontinue support",
					"at our discretion", "no guarantee", "best effort", "as is",
					"no commitment", "may suspend", "right to discontinue",
				},
				RequiredPhrases: []string{"support", "maintenance", "assistance", "service"},
				Mechanisms: []Mechanism{
					{Name: "no_support_guarantee", Patterns: []string{"no support", "no obligation", "no guarantee"}},
					{Name: "discontinuation_risk", Patterns: []string{"may discontinue", "right to discontinue", "suspend"}},
					{Name: "no_commitment", Patterns: []string{"best effort", "no commitment", "as is"}},
				},
			},
			{
				Category: model.CategoryTerminationExit,
				Weight:   20,
				Keywords: []string{
					"termination", "terminate", "cancel", "cancellation", "exit",
					"end of term", "contract end", "notice period", "termination fee",
					"early termination", "wind down", "transition", "off-boarding",
					"data deletion", "account closure", "suspension", "renewal",
				},
				NegativeKeywords: []string{
					"termination fee", "penalty", "early termination fee", "cannot terminate",
					"must continue", "auto-renew", "automatic renewal", "no refund",
					"immediately delete", "forfeit", "early cancellation fee",
				},
				RequiredPhrases: []string{"terminat", "cancel", "exit", "renewal", "end"},
				Mechanisms: []Mechanism{
					{Name: "exit_fees", Patterns: []string{"termination fee", "early termination", "cancellation fee"}},
					{Name: "cancellation_penalty", Patterns: []string{"penalty", "forfeit", "early cancellation"}},
					{Name: "automatic_renewal", Patterns: []string{"auto-renew", "automatic renewal", "automatically renew"}},
				},
			},
			{
				Category: model.CategoryServiceLevel,
				Weight:   25,
				Keywords: []string{
					"sla", "service level", "uptime", "availability", "performance",
					"guarantee", "commitment", "downtime", "credits", "compensation",
					"reliability", "service credit", "remedies", "service performance",
					"service guarantee", "warranty", "service quality",
				},
				NegativeKeywords: []string{
					"no sla", "no guarantee", "best effort", "as is", "no warranty",
					"sole remedy", "exclusive remedy", "no liability", "no compensation",
					"service credits only", "as available", "without warranty",
				},
				RequiredPhrases: []string{"sla", "uptime", "availability", "guarantee", "service level"},
				Mechanisms: []Mechanism{
					{Name: "no_sla", Patterns: []string{"no sla", "no service level"}},
					{Name: "no_compensation", Patterns: []string{"no compensation", "no liability", "sole remedy"}},
					{Name: "no_guarantee", Patterns: []string{"no guarantee", "best effort", "as is", "without warranty"}},
					{Name: "limited_remedies", Patterns: []string{"sole remedy", "exclusive remedy", "only remedy", "service credits only"}},
				},
			},
		},
		Multipliers: map[string]float64{
			// full penalty
			"no_compensation":     1.0,
			"price_increase_risk": 1.0,
			"data_restriction":    1.0,
			"unilateral_pricing":  1.0,
			"no_sla":              1.0,

			"discontinuation_risk": 0.7,
			"automatic_renewal":    0.7,
			"limited_remedies":     0.7,
			"no_commitment":        0.7,
			"no_guarantee":         0.7,

			"cancellation_penalty": 0.5,
			"no_support_guarantee": 0.5,
			"exit_fees":            0.5,
			"no_notice_changes":    0.5,

			model.MechanismStandard: 0.3,
		},
		DefaultHighMultiplier:   0.5,
		DefaultMediumMultiplier: 0.3,
		MediumRiskFactor:        0.5,

		MissingCoverageFactor:  0.5,
		HighRiskShareThreshold: 70,
		HighScoreFactor:        0.7,
		RecommendScoreFactor:   0.6,
		CriticalMechanisms:     []string{"no_compensation", "unilateral_pricing", "data_restriction", "no_sla"},

		Tiers: Thresholds{LowMax: 33, MediumMax: 66},

		MinTextLength:     1000,
		MinSectionLength:  100,
		MinSections:       5,
		MinKeywordMatches: 2,
		ClauseTextLimit:   500,
	}

	if err := r.finalize(); err != nil {
		// The built-in tables are static; failing here is a programming error.
		panic("rubric: invalid default rubric: " + err.Error())
	}
	return r
}
