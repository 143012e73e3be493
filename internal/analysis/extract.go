package analysis

import (
	"encoding/json"
	"strings"

	"NewsPulse/internal/domain"
)

// extractor attempts to pull a result out of a raw completion. Strategies are
// pure and tried in a fixed order; the first hit wins.
type extractor func(raw string) (domain.AnalysisResult, bool)

var extractors = []extractor{
	extractFencedJSON,
	extractFirstObject,
	extractRawJSON,
}

// extractResult applies the strategy chain.
func extractResult(raw string) (domain.AnalysisResult, bool) {
	for _, extract := range extractors {
		if result, ok := extract(raw); ok {
			return result, true
		}
	}
	return domain.AnalysisResult{}, false
}

// extractFencedJSON pulls the payload of a ```json fence.
func extractFencedJSON(raw string) (domain.AnalysisResult, bool) {
	start := strings.Index(raw, "```json")
	if start < 0 {
		return domain.AnalysisResult{}, false
	}
	payload := raw[start+len("```json"):]

	end := strings.Index(payload, "```")
	if end < 0 {
		return domain.AnalysisResult{}, false
	}
	return decodeResult(payload[:end])
}

// extractFirstObject takes the first balanced top-level {...} span, skipping
// braces inside JSON string literals.
func extractFirstObject(raw string) (domain.AnalysisResult, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return domain.AnalysisResult{}, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return decodeResult(raw[start : i+1])
			}
		}
	}
	return domain.AnalysisResult{}, false
}

// extractRawJSON treats the whole reply as the object.
func extractRawJSON(raw string) (domain.AnalysisResult, bool) {
	return decodeResult(raw)
}

func decodeResult(payload string) (domain.AnalysisResult, bool) {
	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &result); err != nil {
		return domain.AnalysisResult{}, false
	}
	// Guard against decoding an unrelated JSON object into all-zero fields.
	if result.AnalysisTitle == "" && result.ExecutiveSummary == "" {
		return domain.AnalysisResult{}, false
	}
	return result, true
}
