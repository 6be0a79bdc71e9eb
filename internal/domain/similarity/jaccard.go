// Package similarity scores free-text narrations for the reconciliation
// engine. Jaccard similarity over filtered word sets tolerates the wording
// drift between the two legs of the same interunit transfer.
package similarity

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// stopWords are dropped before comparison. Short filler words dominate
// narration text and would inflate scores between unrelated entries.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

// Jaccard returns |A∩B| / |A∪B| over the filtered word sets of the two
// texts. Words of three or more characters count; stop words do not.
// Returns 0.0 when either input is empty or no qualifying words remain.
func Jaccard(text1, text2 string) float64 {
	if text1 == "" || text2 == "" {
		return 0.0
	}

	set1 := tokenSet(text1)
	set2 := tokenSet(text2)
	if len(set1) == 0 && len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for word := range set1 {
		if _, ok := set2[word]; ok {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		if _, skip := stopWords[word]; skip {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}
