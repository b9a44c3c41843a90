package textutil

// Trigrams returns the set of character trigrams of the normalized form of
// text. Strings shorter than three characters produce a single trigram of the
// whole string so they still compare non-trivially.
func Trigrams(text string) map[string]struct{} {
	normalized := NormalizeKey(text)
	set := make(map[string]struct{})
	if normalized == "" {
		return set
	}
	runes := []rune(normalized)
	if len(runes) < 3 {
		set[string(runes)] = struct{}{}
		return set
	}
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// TrigramJaccard computes the Jaccard similarity of the trigram sets of a and
// b. Returns 0 when either side has no trigrams.
func TrigramJaccard(a, b string) float64 {
	setA := Trigrams(a)
	setB := Trigrams(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for gram := range setA {
		if _, ok := setB[gram]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
