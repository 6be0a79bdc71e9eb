package refextract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

const (
	phraseMinWords = 20
	phraseMaxWords = 50
	phraseMinChars = 50

	// Phrases whose word sets overlap beyond this ratio are duplicates.
	phraseOverlapLimit = 0.7

	// Number of distinct phrases reported per pair.
	phraseReportLimit = 2

	// Words shown per phrase before truncation.
	phraseDisplayWords = 50
)

var phraseTokenPattern = regexp.MustCompile(`\b\w+\b|[^\w\s]`)

// CommonText finds long shared phrases between two narrations. Only
// continuous runs of 20-50 tokens spanning at least 50 characters count,
// which keeps the fallback focused on genuinely copied text such as
// insurance certificates or vehicle details. The result reads
// "<n> words: <phrase>", longest phrase first, at most two phrases joined
// with " | ". Returns "" when the narrations share no such phrase.
func CommonText(text1, text2 string) string {
	if text1 == "" || text2 == "" {
		return ""
	}

	phrases1 := phraseSet(strings.ToLower(text1))
	phrases2 := phraseSet(strings.ToLower(text2))

	var common []string
	for phrase := range phrases1 {
		if _, ok := phrases2[phrase]; ok {
			common = append(common, phrase)
		}
	}
	if len(common) == 0 {
		return ""
	}

	// Longest first; ties break lexicographically so output is stable
	// regardless of map iteration order.
	sort.Slice(common, func(i, j int) bool {
		if len(common[i]) != len(common[j]) {
			return len(common[i]) > len(common[j])
		}
		return common[i] < common[j]
	})

	var selected []string
	for _, phrase := range common {
		if overlapsSelected(phrase, selected) {
			continue
		}
		selected = append(selected, phrase)
		if len(selected) >= phraseReportLimit {
			break
		}
	}

	parts := make([]string, 0, len(selected))
	for _, phrase := range selected {
		words := strings.Fields(phrase)
		display := phrase
		if len(words) > phraseDisplayWords {
			display = strings.Join(words[:phraseDisplayWords], " ") + " (CONT...)"
		}
		parts = append(parts, fmt.Sprintf("%d words: %s", len(words), display))
	}
	return strings.Join(parts, " | ")
}

// phraseSet builds every qualifying token window of the text.
func phraseSet(text string) map[string]struct{} {
	tokens := phraseTokenPattern.FindAllString(text, -1)
	phrases := make(map[string]struct{})

	for i := 0; i+phraseMinWords <= len(tokens); i++ {
		maxLen := phraseMaxWords
		if rest := len(tokens) - i; rest < maxLen {
			maxLen = rest
		}
		for length := phraseMinWords; length <= maxLen; length++ {
			phrase := strings.Join(tokens[i:i+length], " ")
			if len(phrase) >= phraseMinChars {
				phrases[phrase] = struct{}{}
			}
		}
	}
	return phrases
}

func overlapsSelected(phrase string, selected []string) bool {
	for _, prev := range selected {
		if strings.Contains(prev, phrase) || strings.Contains(phrase, prev) {
			return true
		}
		words1 := wordSet(phrase)
		words2 := wordSet(prev)
		if len(words1) == 0 || len(words2) == 0 {
			continue
		}
		shared := 0
		for w := range words1 {
			if _, ok := words2[w]; ok {
				shared++
			}
		}
		larger := len(words1)
		if len(words2) > larger {
			larger = len(words2)
		}
		if float64(shared)/float64(larger) > phraseOverlapLimit {
			return true
		}
	}
	return false
}

func wordSet(phrase string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(phrase) {
		set[w] = struct{}{}
	}
	return set
}
