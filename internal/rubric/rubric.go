// Package rubric holds the read-only configuration that drives clause
// detection and scoring: category rules, lock-in mechanism tables,
// severity multipliers, thresholds and fixed penalties.
//
// A Rubric is built once (Default or Load) and shared by every pipeline
// invocation. Callers must treat it as immutable.
package rubric

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/lockscore/internal/model"
	"gopkg.in/yaml.v3"
)

// Mechanism is a named lock-in sub-pattern within a category.
// Patterns are lower-case substrings matched against lower-cased text.
type Mechanism struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// CategoryRule is the detection and weighting rule for one category
type CategoryRule struct {
	Category         model.Category `yaml:"category"`
	Weight           float64        `yaml:"weight"`
	Keywords         []string       `yaml:"keywords"`
	NegativeKeywords []string       `yaml:"negative_keywords"`
	RequiredPhrases  []string       `yaml:"required_phrases"`
	Mechanisms       []Mechanism    `yaml:"mechanisms"` // Ordered: first match wins
}

// Thresholds are the inclusive upper bounds of the LOW and MEDIUM tiers
type Thresholds struct {
	LowMax    float64 `yaml:"low_max"`
	MediumMax float64 `yaml:"medium_max"`
}

// Rubric is the complete scoring configuration
type Rubric struct {
	Version    string         `yaml:"version"`
	Categories []CategoryRule `yaml:"categories"`

	// Multipliers maps a mechanism name to its severity in [0,1]
	Multipliers             map[string]float64 `yaml:"multipliers"`
	DefaultHighMultiplier   float64            `yaml:"default_high_multiplier"`
	DefaultMediumMultiplier float64            `yaml:"default_medium_multiplier"`
	MediumRiskFactor        float64            `yaml:"medium_risk_factor"`

	MissingCoverageFactor  float64  `yaml:"missing_coverage_factor"`
	HighRiskShareThreshold float64  `yaml:"high_risk_share_threshold"` // percent
	HighScoreFactor        float64  `yaml:"high_score_factor"`
	RecommendScoreFactor   float64  `yaml:"recommend_score_factor"`
	CriticalMechanisms     []string `yaml:"critical_mechanisms"`

	Tiers Thresholds `yaml:"tiers"`

	MinTextLength     int `yaml:"min_text_length"`
	MinSectionLength  int `yaml:"min_section_length"`
	MinSections       int `yaml:"min_sections"`
	MinKeywordMatches int `yaml:"min_keyword_matches"`
	ClauseTextLimit   int `yaml:"clause_text_limit"`

	byCategory  map[model.Category]int
	critical    map[string]bool
	fingerprint string
}

// Rule returns the rule for a category
func (r *Rubric) Rule(c model.Category) (CategoryRule, bool) {
	idx, ok := r.byCategory[c]
	if !ok {
		return CategoryRule{}, false
	}
	return r.Categories[idx], true
}

// Weight returns the maximum points of a category, or 0 if unknown
func (r *Rubric) Weight(c model.Category) float64 {
	rule, ok := r.Rule(c)
	if !ok {
		return 0
	}
	return rule.Weight
}

// Penalty returns the per-clause penalty for a mechanism at a risk level.
// High risk uses the full multiplier; Medium risk uses MediumRiskFactor of it.
// Unmapped mechanisms fall back to the level's default multiplier.
func (r *Rubric) Penalty(mechanism string, level model.RiskLevel) float64 {
	m, ok := r.Multipliers[mechanism]
	if level == model.RiskHigh {
		if !ok {
			m = r.DefaultHighMultiplier
		}
		return m
	}
	if !ok {
		m = r.DefaultMediumMultiplier
	}
	return r.MediumRiskFactor * m
}

// IsCritical reports whether a mechanism is in the critical set
func (r *Rubric) IsCritical(mechanism string) bool {
	return r.critical[mechanism]
}

// Fingerprint identifies the rubric content; equal rubrics share it
func (r *Rubric) Fingerprint() string {
	return r.fingerprint
}

// YAML renders the rubric for display or as an override template
func (r *Rubric) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// finalize lower-cases patterns, validates the rubric and builds indexes
func (r *Rubric) finalize() error {
	for i := range r.Categories {
		rule := &r.Categories[i]
		rule.Keywords = lowerAll(rule.Keywords)
		rule.NegativeKeywords = lowerAll(rule.NegativeKeywords)
		rule.RequiredPhrases = lowerAll(rule.RequiredPhrases)
		for j := range rule.Mechanisms {
			rule.Mechanisms[j].Patterns = lowerAll(rule.Mechanisms[j].Patterns)
		}
	}

	if err := r.validate(); err != nil {
		return err
	}

	r.byCategory = make(map[model.Category]int, len(r.Categories))
	for i, rule := range r.Categories {
		r.byCategory[rule.Category] = i
	}

	r.critical = make(map[string]bool, len(r.CriticalMechanisms))
	for _, m := range r.CriticalMechanisms {
		r.critical[m] = true
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("fingerprint: %w", err)
	}
	sum := sha256.Sum256(data)
	r.fingerprint = hex.EncodeToString(sum[:8])

	return nil
}

func (r *Rubric) validate() error {
	if len(r.Categories) != len(model.Categories()) {
		return fmt.Errorf("expected %d categories, got %d", len(model.Categories()), len(r.Categories))
	}

	seen := make(map[model.Category]bool)
	total := 0.0
	for _, rule := range r.Categories {
		if !rule.Category.IsValid() {
			return fmt.Errorf("unknown category %q", rule.Category)
		}
		if seen[rule.Category] {
			return fmt.Errorf("duplicate category %q", rule.Category)
		}
		seen[rule.Category] = true

		if rule.Weight <= 0 {
			return fmt.Errorf("category %s: weight must be positive", rule.Category)
		}
		if len(rule.Keywords) == 0 {
			return fmt.Errorf("category %s: no keywords", rule.Category)
		}
		if len(rule.RequiredPhrases) == 0 {
			return fmt.Errorf("category %s: no required phrases", rule.Category)
		}
		for _, m := range rule.Mechanisms {
			if m.Name == "" || m.Name == model.MechanismStandard {
				return fmt.Errorf("category %s: invalid mechanism name %q", rule.Category, m.Name)
			}
			if len(m.Patterns) == 0 {
				return fmt.Errorf("category %s: mechanism %s has no patterns", rule.Category, m.Name)
			}
		}
		total += rule.Weight
	}
	if math.Abs(total-100) > 1e-9 {
		return fmt.Errorf("category weights sum to %.2f, want 100", total)
	}

	for name, m := range r.Multipliers {
		if m < 0 || m > 1 {
			return fmt.Errorf("multiplier %s=%.2f outside [0,1]", name, m)
		}
	}

	factors := map[string]float64{
		"default_high_multiplier":   r.DefaultHighMultiplier,
		"default_medium_multiplier": r.DefaultMediumMultiplier,
		"medium_risk_factor":        r.MediumRiskFactor,
		"missing_coverage_factor":   r.MissingCoverageFactor,
		"high_score_factor":         r.HighScoreFactor,
		"recommend_score_factor":    r.RecommendScoreFactor,
	}
	for name, f := range factors {
		if f < 0 || f > 1 {
			return fmt.Errorf("%s=%.2f outside [0,1]", name, f)
		}
	}

	if r.HighRiskShareThreshold < 0 || r.HighRiskShareThreshold > 100 {
		return fmt.Errorf("high_risk_share_threshold=%.1f outside [0,100]", r.HighRiskShareThreshold)
	}
	if !(r.Tiers.LowMax > 0 && r.Tiers.LowMax < r.Tiers.MediumMax && r.Tiers.MediumMax < 100) {
		return fmt.Errorf("tier thresholds must satisfy 0 < low_max < medium_max < 100 (got %.2f, %.2f)",
			r.Tiers.LowMax, r.Tiers.MediumMax)
	}

	ints := map[string]int{
		"min_text_length":     r.MinTextLength,
		"min_section_length":  r.MinSectionLength,
		"min_sections":        r.MinSections,
		"min_keyword_matches": r.MinKeywordMatches,
		"clause_text_limit":   r.ClauseTextLimit,
	}
	for name, v := range ints {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	return nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
