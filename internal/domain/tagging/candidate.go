package tagging

import (
	"cmp"
	"slices"
)

// CandidateTagger ranks a fixed vocabulary by how often each candidate occurs in the text.
// It always returns min(maxTags, vocabulary size) tags; candidates with zero
// occurrences fill the list when fewer match.
type CandidateTagger struct {
	vocabulary CandidateVocabulary
	maxTags    int
}

var _ Tagger = (*CandidateTagger)(nil)

// NewCandidateTagger creates a CandidateTagger. maxTags <= 0 selects DefaultMaxTags.
func NewCandidateTagger(vocabulary CandidateVocabulary, maxTags int) *CandidateTagger {
	return &CandidateTagger{vocabulary: vocabulary, maxTags: capOrDefault(maxTags)}
}

// MaxTags returns the per-text cap.
func (t *CandidateTagger) MaxTags() int { return t.maxTags }

type candidateCount struct {
	tag   string
	count int
}

// Tags implements Tagger. Equal counts keep vocabulary order.
func (t *CandidateTagger) Tags(text string) []string {
	freq := make(map[string]int)
	for _, tok := range normalizeWords(text) {
		freq[tok]++
	}

	ranked := make([]candidateCount, len(t.vocabulary.words))
	for i, w := range t.vocabulary.words {
		ranked[i] = candidateCount{tag: w, count: freq[w]}
	}
	slices.SortStableFunc(ranked, func(a, b candidateCount) int {
		return cmp.Compare(b.count, a.count)
	})

	n := min(t.maxTags, len(ranked))
	tags := make([]string, n)
	for i := range n {
		tags[i] = ranked[i].tag
	}
	return tags
}
