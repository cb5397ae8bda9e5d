// Package analysis implements the keyword scoring engine and risk classifier
package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Result is the outcome of scoring one piece of text against a lexicon
type Result struct {
	ViolenceScore     int
	ThreatScore       int
	HateScore         int
	Sentiment         string
	TriggeredKeywords []string
	Explanation       string
}

// MaxRisk returns the highest of the three category scores
func (r Result) MaxRisk() int {
	m := r.ViolenceScore
	if r.ThreatScore > m {
		m = r.ThreatScore
	}
	if r.HateScore > m {
		m = r.HateScore
	}
	return m
}

const maxCategoryScore = 100

// Score evaluates text against the lexicon. It is a pure function: no state
// is read or written, so repeated calls with the same inputs give identical
// results.
func Score(text string, lex Lexicon) Result {
	normalized := normalize(text)

	violenceScore, violenceHits := scoreCategory(normalized, lex.Violence)
	threatScore, threatHits := scoreCategory(normalized, lex.Threat)
	hateScore, hateHits := scoreCategory(normalized, lex.Hate)

	sentiment := analyzeSentiment(normalized)

	result := Result{
		ViolenceScore:     violenceScore,
		ThreatScore:       threatScore,
		HateScore:         hateScore,
		Sentiment:         sentiment,
		TriggeredKeywords: dedupeKeywords(violenceHits, threatHits, hateHits),
	}
	result.Explanation = buildExplanation(result)
	return result
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// scoreCategory counts whole-word, non-overlapping occurrences of each
// keyword phrase and maps the total to a 0-100 score. Each occurrence is
// worth 10 points, saturating at 100 so a single repeated keyword cannot
// dominate beyond the cap.
func scoreCategory(normalized string, keywords []string) (int, []string) {
	var matched []string
	total := 0

	for _, keyword := range keywords {
		count := countOccurrences(normalized, keyword)
		if count > 0 {
			matched = append(matched, keyword)
			total += count
		}
	}

	score := total * 10
	if score > maxCategoryScore {
		score = maxCategoryScore
	}
	return score, matched
}

// countOccurrences counts whole-word matches of keyword in normalized text.
// Boundaries apply at both ends, so "cat" never matches inside "category",
// and multi-word phrases must match contiguously.
func countOccurrences(normalized, keyword string) int {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return 0
	}
	pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
	if err != nil {
		return 0
	}
	return len(pattern.FindAllStringIndex(normalized, -1))
}

// analyzeSentiment compares the number of positive and negative cue words
// present in the text. Cues use substring presence, and ties (including no
// cues at all) resolve to neutral.
func analyzeSentiment(normalized string) string {
	positiveCount := 0
	for _, word := range positiveWords {
		if strings.Contains(normalized, word) {
			positiveCount++
		}
	}

	negativeCount := 0
	for _, word := range negativeWords {
		if strings.Contains(normalized, word) {
			negativeCount++
		}
	}

	switch {
	case positiveCount > negativeCount:
		return "positive"
	case negativeCount > positiveCount:
		return "negative"
	default:
		return "neutral"
	}
}

func dedupeKeywords(lists ...[]string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, list := range lists {
		for _, keyword := range list {
			if !seen[keyword] {
				seen[keyword] = true
				unique = append(unique, keyword)
			}
		}
	}
	sort.Strings(unique)
	return unique
}

// buildExplanation renders a deterministic human-readable summary: nonzero
// categories in fixed order followed by the sentiment label, or a fixed
// all-clear string when no category scored.
func buildExplanation(r Result) string {
	var parts []string
	if r.ViolenceScore > 0 {
		parts = append(parts, fmt.Sprintf("Violence indicators: %d/100", r.ViolenceScore))
	}
	if r.ThreatScore > 0 {
		parts = append(parts, fmt.Sprintf("Threat indicators: %d/100", r.ThreatScore))
	}
	if r.HateScore > 0 {
		parts = append(parts, fmt.Sprintf("Hate indicators: %d/100", r.HateScore))
	}

	if len(parts) == 0 {
		return "No significant risk indicators detected."
	}
	return strings.Join(parts, ". ") + fmt.Sprintf(". Sentiment: %s.", r.Sentiment)
}
