package textsim

import "strings"

// minWordLength filters out filler words ("the", "and", "a") so similarity
// is computed over the vocabulary that actually carries meaning.
const minWordLength = 3

// WordSet returns the set of lowercased words longer than minWordLength
// characters found in text.
func WordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:\"'()[]")
		if len(word) > minWordLength {
			set[word] = struct{}{}
		}
	}
	return set
}

// Jaccard computes intersection-over-union of the word sets of a and b.
// Returns 0 when both sets are empty.
func Jaccard(a, b string) float64 {
	setA := WordSet(a)
	setB := WordSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
