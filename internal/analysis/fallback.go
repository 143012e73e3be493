package analysis

import (
	"fmt"
	"strings"

	"NewsPulse/internal/domain"
)

const standardDisclaimer = "This content is automatically generated commentary, " +
	"not investment advice. Markets involve risk; do your own research before acting."

// fallbackResult synthesizes a deterministic analysis from the article alone.
// Provenance is stamped by the orchestrator.
func fallbackResult(title, body string) domain.AnalysisResult {
	excerpt := firstSentences(body, 2)
	if excerpt == "" {
		excerpt = title
	}

	return domain.AnalysisResult{
		AnalysisTitle:    title,
		ExecutiveSummary: fmt.Sprintf("Automated digest: %s", excerpt),
		MarketAnalysis: domain.MarketAnalysis{
			ImmediateImpact:      "No immediate market impact has been assessed for this item.",
			LongTermImplications: "Long-term implications were not evaluated.",
			AffectedSectors:      []string{},
		},
		InvestmentPerspective: domain.InvestmentPerspective{
			Opportunities:       "Not evaluated.",
			Risks:               "Not evaluated.",
			StrategySuggestions: "Monitor follow-up coverage before drawing conclusions.",
		},
		TechnicalAnalysis: domain.TechnicalAnalysis{
			KeyIndicators:     "Not evaluated.",
			PriceTargets:      "Not evaluated.",
			SupportResistance: "Not evaluated.",
		},
		Conclusion:          fmt.Sprintf("Summary of \"%s\" pending full analysis.", title),
		Tags:                []string{},
		SEOKeywords:         []string{},
		RiskDisclaimer:      standardDisclaimer,
		ContentQualityScore: 30,
		OriginalityScore:    0,
	}
}

// firstSentences returns up to n leading sentences, capped at 280 bytes.
func firstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	count := 0
	end := len(text)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '。' {
			count++
			if count == n {
				end = i + len(string(r))
				break
			}
		}
	}

	out := text[:end]
	if len(out) > 280 {
		out = out[:280]
	}
	return strings.TrimSpace(out)
}
