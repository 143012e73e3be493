package analysis

import (
	"fmt"
	"strings"

	"NewsPulse/internal/domain"
)

const maxPromptSnippets = 3

const systemPrompt = `You are a senior financial analyst writing for retail investors.
You produce rigorous, neutral, well-sourced market commentary.
Always reply with a single fenced JSON code block and nothing else.
Never invent prices or events that are not supported by the provided material.`

// buildUserPrompt embeds the article and up to three related snippets and
// spells out the exact reply schema.
func buildUserPrompt(title, body string, snippets []domain.Snippet) string {
	var sb strings.Builder

	sb.WriteString("Analyze the following financial news article.\n\n")
	fmt.Fprintf(&sb, "Title: %s\n\nBody:\n%s\n", title, body)

	if len(snippets) > 0 {
		sb.WriteString("\nRelated coverage found elsewhere:\n")
		for i, snippet := range snippets {
			if i == maxPromptSnippets {
				break
			}
			fmt.Fprintf(&sb, "%d. %s — %s\n", i+1, snippet.Title, snippet.Excerpt)
		}
	}

	sb.WriteString(`
Reply with one fenced ` + "```json" + ` block containing exactly this object:
{
  "analysis_title": "...",
  "executive_summary": "...",
  "market_analysis": {"immediate_impact": "...", "long_term_implications": "...", "affected_sectors": ["..."]},
  "investment_perspective": {"opportunities": "...", "risks": "...", "strategy_suggestions": "..."},
  "technical_analysis": {"key_indicators": "...", "price_targets": "...", "support_resistance": "..."},
  "conclusion": "...",
  "tags": ["..."],
  "seo_keywords": ["..."],
  "risk_disclaimer": "...",
  "content_quality_score": 0,
  "originality_score": 0
}`)

	return sb.String()
}
