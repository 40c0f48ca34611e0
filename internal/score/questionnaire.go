package score

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/rubric"
)

// Answers maps question keys to raw answers ("yes", "99.9", "Best-effort")
type Answers map[string]string

// get returns a normalized answer: trimmed and lower-cased
func (a Answers) get(key string) string {
	return strings.ToLower(strings.TrimSpace(a[key]))
}

// Question is one entry of the fixed questionnaire
type Question struct {
	Key       string         `json:"key" yaml:"key"`
	Category  model.Category `json:"category,omitempty" yaml:"category,omitempty"` // Empty for metadata questions
	Prompt    string         `json:"prompt" yaml:"prompt"`
	Options   []string       `json:"options,omitempty" yaml:"options,omitempty"` // Empty means free-form
	DependsOn string         `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	When      string         `json:"when,omitempty" yaml:"when,omitempty"` // DependsOn answer that enables this question
}

var yesNoUnclear = []string{"Yes", "No", "Unclear"}

var questions = []Question{
	{Key: "vendor_name", Prompt: "Vendor name"},
	{Key: "software_type", Prompt: "Software type", Options: []string{"Cloud", "SaaS", "Enterprise"}},
	{Key: "contract_value", Prompt: "Annual contract value (USD)"},
	{Key: "business_criticality", Prompt: "How critical is this software?", Options: []string{"Critical", "Important", "Nice-to-have"}},

	{Key: "data_export", Category: model.CategoryDataPortability, Prompt: "Does the contract explicitly grant data export rights?", Options: yesNoUnclear},
	{Key: "data_format", Category: model.CategoryDataPortability, Prompt: "Are standard export formats (CSV/JSON/XML) mentioned?", Options: yesNoUnclear},
	{Key: "api_access", Category: model.CategoryDataPortability, Prompt: "Is API access for data export guaranteed?", Options: yesNoUnclear},
	{Key: "post_termination_access", Category: model.CategoryDataPortability, Prompt: "Can you retrieve data after termination?", Options: yesNoUnclear},

	{Key: "price_lock", Category: model.CategoryPricingTerms, Prompt: "Is pricing locked for the contract term?", Options: yesNoUnclear},
	{Key: "price_increase", Category: model.CategoryPricingTerms, Prompt: "Can vendor increase prices unilaterally?", Options: yesNoUnclear},
	{Key: "price_increase_cap", Category: model.CategoryPricingTerms, Prompt: "Is there a cap on price increases?", Options: yesNoUnclear, DependsOn: "price_increase", When: "yes"},
	{Key: "price_notice_days", Category: model.CategoryPricingTerms, Prompt: "How much advance notice for price changes? (days)", DependsOn: "price_increase", When: "yes"},

	{Key: "support_sla", Category: model.CategorySupportObligations, Prompt: "Are support response times specified?", Options: yesNoUnclear},
	{Key: "support_hours", Category: model.CategorySupportObligations, Prompt: "Support availability", Options: []string{"24x7", "Business-hours", "Best-effort"}},
	{Key: "feature_changes", Category: model.CategorySupportObligations, Prompt: "Can vendor discontinue features without notice?", Options: yesNoUnclear},

	{Key: "termination_flexibility", Category: model.CategoryTerminationExit, Prompt: "Can you terminate before contract end?", Options: []string{"Yes", "No", "Only-for-cause"}},
	{Key: "termination_fee", Category: model.CategoryTerminationExit, Prompt: "Are there early termination fees?", Options: yesNoUnclear},
	{Key: "auto_renewal", Category: model.CategoryTerminationExit, Prompt: "Does contract auto-renew?", Options: yesNoUnclear},
	{Key: "renewal_notice_days", Category: model.CategoryTerminationExit, Prompt: "Notice period to prevent renewal (days)", DependsOn: "auto_renewal", When: "yes"},

	{Key: "sla_exists", Category: model.CategoryServiceLevel, Prompt: "Does contract include uptime SLA?", Options: yesNoUnclear},
	{Key: "uptime_percentage", Category: model.CategoryServiceLevel, Prompt: "Guaranteed uptime percentage (e.g., 99.9)", DependsOn: "sla_exists", When: "yes"},
	{Key: "sla_credits", Category: model.CategoryServiceLevel, Prompt: "Are service credits provided for SLA failures?", Options: yesNoUnclear, DependsOn: "sla_exists", When: "yes"},
	{Key: "liability_cap", Category: model.CategoryServiceLevel, Prompt: "Does vendor cap liability for outages?", Options: yesNoUnclear},
}

// Questions returns the fixed questionnaire in asking order
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

// Validate checks that every unconditional scored question is answered,
// every enabled conditional question is answered, and every option answer
// is one of its options (case-insensitive). Unknown keys are errors.
// All problems are reported together.
func Validate(a Answers) error {
	known := make(map[string]Question, len(questions))
	for _, q := range questions {
		known[q.Key] = q
	}

	var errs []error

	unknown := make([]string, 0)
	for k := range a {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		errs = append(errs, fmt.Errorf("unknown question %q", k))
	}

	for _, q := range questions {
		answer := a.get(q.Key)

		enabled := q.DependsOn == "" || a.get(q.DependsOn) == q.When
		if answer == "" {
			if q.Category != "" && enabled {
				errs = append(errs, fmt.Errorf("%s: answer required", q.Key))
			}
			continue
		}

		if len(q.Options) > 0 && !hasOption(q.Options, answer) {
			errs = append(errs, fmt.Errorf("%s: %q is not one of %s", q.Key, a[q.Key], strings.Join(q.Options, "/")))
		}
	}

	return errors.Join(errs...)
}

func hasOption(options []string, answer string) bool {
	for _, o := range options {
		if strings.ToLower(o) == answer {
			return true
		}
	}
	return false
}

// QuestionnaireScorer scores direct answers instead of contract text.
// It shares weights, tiers, issues and recommendations with Scorer.
type QuestionnaireScorer struct {
	rubric *rubric.Rubric
}

// NewQuestionnaireScorer creates a questionnaire scorer over a shared rubric
func NewQuestionnaireScorer(r *rubric.Rubric) *QuestionnaireScorer {
	return &QuestionnaireScorer{rubric: r}
}

// points accumulates increments for one category and records which
// answers contributed
type points struct {
	total float64
	parts []string
}

func (p *points) add(n float64, key, answer string) {
	p.total += n
	if answer == "" {
		answer = "missing"
	}
	p.parts = append(p.parts, fmt.Sprintf("%s=%s (+%g)", key, answer, n))
}

// Score converts answers into an assessment. Answers are not validated
// here; call Validate first when input comes from users.
func (q *QuestionnaireScorer) Score(a Answers) *model.Assessment {
	pts := map[model.Category]*points{}
	for _, c := range model.Categories() {
		pts[c] = &points{}
	}

	noOrUnclear := func(key string) bool {
		v := a.get(key)
		return v == "no" || v == "unclear"
	}

	dp := pts[model.CategoryDataPortability]
	for _, inc := range []struct {
		key string
		n   float64
	}{{"data_export", 5}, {"data_format", 4}, {"api_access", 3}, {"post_termination_access", 3}} {
		if noOrUnclear(inc.key) {
			dp.add(inc.n, inc.key, a.get(inc.key))
		}
	}

	pt := pts[model.CategoryPricingTerms]
	if noOrUnclear("price_lock") {
		pt.add(8, "price_lock", a.get("price_lock"))
	}
	if a.get("price_increase") == "yes" {
		pt.add(10, "price_increase", "yes")
		if noOrUnclear("price_increase_cap") {
			pt.add(5, "price_increase_cap", a.get("price_increase_cap"))
		}
		// Missing notice counts as zero days; unparseable notice adds nothing
		if days, err := atoiDefault(a.get("price_notice_days"), "0"); err == nil && days < 30 {
			pt.add(2, "price_notice_days", a.get("price_notice_days"))
		}
	}

	so := pts[model.CategorySupportObligations]
	if noOrUnclear("support_sla") {
		so.add(6, "support_sla", a.get("support_sla"))
	}
	if a.get("support_hours") == "best-effort" {
		so.add(5, "support_hours", "best-effort")
	}
	if a.get("feature_changes") == "yes" {
		so.add(4, "feature_changes", "yes")
	}

	te := pts[model.CategoryTerminationExit]
	if v := a.get("termination_flexibility"); v == "no" || v == "only-for-cause" {
		te.add(8, "termination_flexibility", v)
	}
	if a.get("termination_fee") == "yes" {
		te.add(7, "termination_fee", "yes")
	}
	if a.get("auto_renewal") == "yes" {
		notice := a.get("renewal_notice_days")
		days, err := atoiDefault(notice, "0")
		switch {
		case err != nil:
			te.add(4, "renewal_notice_days", notice)
		case days > 60:
			te.add(5, "renewal_notice_days", notice)
		case days > 30:
			te.add(3, "renewal_notice_days", notice)
		}
	}

	sl := pts[model.CategoryServiceLevel]
	if noOrUnclear("sla_exists") {
		sl.add(15, "sla_exists", a.get("sla_exists"))
	} else {
		uptime := a.get("uptime_percentage")
		pct, err := parseFloatDefault(uptime, "0")
		switch {
		case err != nil:
			sl.add(10, "uptime_percentage", uptime)
		case pct < 99.0:
			sl.add(8, "uptime_percentage", uptime)
		case pct < 99.5:
			sl.add(5, "uptime_percentage", uptime)
		case pct < 99.9:
			sl.add(3, "uptime_percentage", uptime)
		}
		if noOrUnclear("sla_credits") {
			sl.add(5, "sla_credits", a.get("sla_credits"))
		}
	}
	if a.get("liability_cap") == "yes" {
		sl.add(5, "liability_cap", "yes")
	}

	details := make(map[model.Category]model.CategoryDetail, len(q.rubric.Categories))
	for _, rule := range q.rubric.Categories {
		p := pts[rule.Category]
		score := p.total
		if score > rule.Weight {
			score = rule.Weight
		}

		formula := "no risk answers"
		if len(p.parts) > 0 {
			formula = strings.Join(p.parts, " + ")
		}
		details[rule.Category] = model.CategoryDetail{
			Score:     round2(score),
			MaxPoints: rule.Weight,
			Formula:   formula,
		}
	}

	out := assemble(q.rubric, details, nil)
	out.Method = model.MethodQuestionnaire
	out.Vendor = strings.TrimSpace(a["vendor_name"])

	out.Answers = make(map[string]string, len(a))
	for k, v := range a {
		out.Answers[k] = v
	}

	return out
}

func atoiDefault(v, def string) (int, error) {
	if v == "" {
		v = def
	}
	return strconv.Atoi(v)
}

func parseFloatDefault(v, def string) (float64, error) {
	if v == "" {
		v = def
	}
	return strconv.ParseFloat(v, 64)
}
