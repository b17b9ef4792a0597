// Package tagging holds the tag-extraction heuristics run by backend workers.
//
// Two strategies share the Tagger contract:
//   - FrequencyTagger returns only the most frequent non-stop word(s) of a text.
//   - CandidateTagger ranks a closed candidate vocabulary by occurrence count and
//     always returns a fixed-width list, zero-count candidates included.
//
// Both are pure and safe for concurrent use once constructed.
package tagging

import (
	"errors"
	"fmt"
)

// DefaultMaxTags is the per-text tag cap used when none is configured.
const DefaultMaxTags = 5

// Tagger extracts an ordered tag list from one text.
type Tagger interface {
	Tags(text string) []string
}

// Kind names a Tagger strategy in configuration.
type Kind string

// Tagger kinds.
const (
	KindFrequency Kind = "frequency"
	KindCandidate Kind = "candidate"
)

// Valid reports whether k names a known strategy.
func (k Kind) Valid() bool {
	return k == KindFrequency || k == KindCandidate
}

func capOrDefault(maxTags int) int {
	if maxTags <= 0 {
		return DefaultMaxTags
	}
	return maxTags
}

// ErrUnknownKind is returned by New for an unrecognized Kind.
var ErrUnknownKind = errors.New("unknown tagger kind")

// New builds the Tagger named by k from corpora.
func New(k Kind, c Corpora, maxTags int) (Tagger, error) {
	switch k {
	case KindFrequency:
		return NewFrequencyTagger(c.StopWords, maxTags), nil
	case KindCandidate:
		return NewCandidateTagger(NewCandidateVocabulary(c.Popular, c.StopWords), maxTags), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}
