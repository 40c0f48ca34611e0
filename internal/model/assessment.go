package model

// Method identifies which scorer produced an assessment
type Method string

const (
	MethodClauses       Method = "clauses"       // Text extraction and clause aggregation
	MethodQuestionnaire Method = "questionnaire" // Direct answers to fixed questions
)

// Assessment is the terminal output of the engine for one contract.
// This JSON shape is consumed by reports, the MCP tools and the history
// store and must stay stable. It is treated as immutable once returned.
type Assessment struct {
	ID           string `json:"assessment_id"`           // Name-based UUID over vendor, file and text
	Vendor       string `json:"vendor_name"`             // Vendor identifier
	ContractFile string `json:"contract_file,omitempty"` // Source filename or URL
	Method       Method `json:"method"`                  // clauses or questionnaire

	TotalScore      float64                     `json:"total_score"`      // Sum of category scores (0-100)
	RiskLevel       Tier                        `json:"risk_level"`       // LOW, MEDIUM, HIGH
	CategoryScores  map[Category]float64        `json:"category_scores"`  // Category -> points
	CategoryDetails map[Category]CategoryDetail `json:"category_details"` // Category -> breakdown
	CriticalIssues  []Issue                     `json:"critical_issues"`  // Ordered issue list

	Recommendations []string `json:"recommendations,omitempty"`
	Interpretation  string   `json:"score_interpretation,omitempty"`

	TotalClauses int      `json:"total_clauses"`
	Clauses      []Clause `json:"clauses"`

	Answers   map[string]string `json:"questionnaire_responses,omitempty"` // Questionnaire input, if any
	Narrative *Narrative        `json:"narrative,omitempty"`               // Optional LLM narrative (never affects score)
}

// CategoryDetail is the per-category breakdown of an assessment
type CategoryDetail struct {
	Score              float64 `json:"score"`                    // 0..MaxPoints
	MaxPoints          float64 `json:"max_points"`               // Category weight
	ClauseCount        int     `json:"clause_count"`             // Clauses found in this category
	HighRiskCount      int     `json:"high_risk_count"`          // Clauses with RiskHigh
	HighRiskPercentage float64 `json:"high_risk_percentage"`     // 100 * high / count, 1 decimal
	MissingCoverage    bool    `json:"missing_coverage"`         // No clauses found
	PenaltyReason      string  `json:"penalty_reason,omitempty"` // Why a fixed penalty was applied
	Formula            string  `json:"formula,omitempty"`        // How the score was computed
}

// IssueKind names the rule that produced a critical issue
type IssueKind string

const (
	IssueMissingCoverage   IssueKind = "missing_coverage"
	IssueHighRiskShare     IssueKind = "high_risk_share"
	IssueHighCategoryScore IssueKind = "high_category_score"
	IssueCriticalMechanism IssueKind = "critical_mechanism"
)

// Severity is the importance of a critical issue
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

// Issue is a single critical finding of an assessment
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Category Category  `json:"category"`
	Severity Severity  `json:"severity"`
	Issue    string    `json:"issue"`
	Impact   string    `json:"impact"`
	ClauseID string    `json:"clause_id,omitempty"` // Set for clause-level issues
}

// ErrorResult is the structured failure payload returned instead of scores
type ErrorResult struct {
	Error  string `json:"error"`
	Vendor string `json:"vendor_name,omitempty"`
	Source string `json:"source,omitempty"`
}

// Narrative contains an optional LLM-generated explanation of an assessment.
// It is produced after scoring and never feeds back into any score.
type Narrative struct {
	Enabled   bool     `json:"enabled"`
	Provider  string   `json:"provider,omitempty"`
	Model     string   `json:"model,omitempty"`
	Strict    bool     `json:"strict_clauses"`       // Whether clause-citation enforcement was on
	SummaryMD string   `json:"summary_md,omitempty"` // Markdown narrative
	Warnings  []string `json:"warnings,omitempty"`
}

// Comparison summarizes several assessments side by side
type Comparison struct {
	TotalVendors     int                  `json:"total_vendors"`
	Failed           int                  `json:"failed"`
	AverageScore     float64              `json:"average_score"`
	RiskDistribution map[Tier]int         `json:"risk_distribution"`
	BestVendors      []VendorScore        `json:"best_vendors"`
	WorstVendors     []VendorScore        `json:"worst_vendors"`
	CategoryAverages map[Category]float64 `json:"category_averages"`
}

// VendorScore is a compact ranking row in a comparison
type VendorScore struct {
	Vendor     string  `json:"vendor_name"`
	File       string  `json:"contract_file,omitempty"`
	TotalScore float64 `json:"total_score"`
	RiskLevel  Tier    `json:"risk_level"`
}
