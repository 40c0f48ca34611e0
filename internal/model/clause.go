package model

// Clause is a contract section that matched a category's detection rule.
// Clauses are created by the extractor and never mutated afterwards.
type Clause struct {
	ID             string    `json:"clause_id"`         // {vendor}_{n}, sequential per contract
	Vendor         string    `json:"vendor_name"`       // Vendor identifier
	ContractFile   string    `json:"contract_file"`     // Source filename (metadata only)
	Category       Category  `json:"clause_category"`   // Owning category
	Text           string    `json:"clause_text"`       // Originating section text, truncated
	RiskLevel      RiskLevel `json:"risk_level"`        // High if any negative keyword matched
	Mechanism      string    `json:"lock_in_mechanism"` // First matching mechanism or "standard"
	KeywordMatches int       `json:"keyword_matches"`   // Number of category keywords found
	Section        int       `json:"section_index"`     // Index of the originating section
}

// IsHighRisk reports whether the clause carries a negative-keyword match
func (c Clause) IsHighRisk() bool {
	return c.RiskLevel == RiskHigh
}
