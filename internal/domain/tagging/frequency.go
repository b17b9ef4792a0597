package tagging

// FrequencyTagger returns the token(s) sharing the single highest occurrence count.
// Lower-frequency tokens are never returned, even when the cap is not reached.
type FrequencyTagger struct {
	stopWords StopWordSet
	maxTags   int
}

var _ Tagger = (*FrequencyTagger)(nil)

// NewFrequencyTagger creates a FrequencyTagger. maxTags <= 0 selects DefaultMaxTags.
func NewFrequencyTagger(stopWords StopWordSet, maxTags int) *FrequencyTagger {
	return &FrequencyTagger{stopWords: stopWords, maxTags: capOrDefault(maxTags)}
}

// MaxTags returns the per-text cap.
func (t *FrequencyTagger) MaxTags() int { return t.maxTags }

// Tags implements Tagger. Tokens tied at the maximum count keep first-seen order.
func (t *FrequencyTagger) Tags(text string) []string {
	tokens := normalizeWords(text)

	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	maxCount := 0
	for _, tok := range tokens {
		if t.stopWords.Contains(tok) {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
		if counts[tok] > maxCount {
			maxCount = counts[tok]
		}
	}

	tags := make([]string, 0, min(t.maxTags, len(order)))
	for _, tok := range order {
		if counts[tok] != maxCount {
			continue
		}
		tags = append(tags, tok)
		if len(tags) == t.maxTags {
			break
		}
	}
	return tags
}
