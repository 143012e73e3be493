package domain

import "time"

// AnalysisResult is the structured output of the analysis orchestrator. The
// JSON tags are the wire contract with the AI provider: a successful reply
// carries a fenced JSON object with exactly these fields, and the same shape
// is stored in the articles.analysis column.
type AnalysisResult struct {
	AnalysisTitle         string                `json:"analysis_title"`
	ExecutiveSummary      string                `json:"executive_summary"`
	MarketAnalysis        MarketAnalysis        `json:"market_analysis"`
	InvestmentPerspective InvestmentPerspective `json:"investment_perspective"`
	TechnicalAnalysis     TechnicalAnalysis     `json:"technical_analysis"`
	Conclusion            string                `json:"conclusion"`
	Tags                  []string              `json:"tags"`
	SEOKeywords           []string              `json:"seo_keywords"`
	RiskDisclaimer        string                `json:"risk_disclaimer"`
	ContentQualityScore   float64               `json:"content_quality_score"`
	OriginalityScore      float64               `json:"originality_score"`

	// Provenance, stamped by the orchestrator rather than the model.
	GeneratedAt time.Time `json:"generated_at"`
	AIModel     string    `json:"ai_model"`
	Version     int       `json:"version"`
}

// MarketAnalysis covers the market-impact section.
type MarketAnalysis struct {
	ImmediateImpact      string   `json:"immediate_impact"`
	LongTermImplications string   `json:"long_term_implications"`
	AffectedSectors      []string `json:"affected_sectors"`
}

// InvestmentPerspective covers the investment section.
type InvestmentPerspective struct {
	Opportunities       string `json:"opportunities"`
	Risks               string `json:"risks"`
	StrategySuggestions string `json:"strategy_suggestions"`
}

// TechnicalAnalysis covers the technical section.
type TechnicalAnalysis struct {
	KeyIndicators     string `json:"key_indicators"`
	PriceTargets      string `json:"price_targets"`
	SupportResistance string `json:"support_resistance"`
}

// FallbackModel marks results synthesized locally after the provider could
// not be reached or parsed.
const FallbackModel = "fallback"

// SchemaVersion is the current AnalysisResult schema version.
const SchemaVersion = 1

// Complete reports whether the result satisfies the minimal field contract
// the store relies on.
func (r AnalysisResult) Complete() bool {
	return r.AnalysisTitle != "" &&
		r.ExecutiveSummary != "" &&
		r.Conclusion != "" &&
		r.RiskDisclaimer != "" &&
		r.AIModel != ""
}
