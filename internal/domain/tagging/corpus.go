package tagging

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

//go:embed data/stopwords.txt
var defaultStopWords string

//go:embed data/popular.txt
var defaultPopularWords string

// StopWordSet is an immutable set of lowercase words excluded from frequency counting.
type StopWordSet struct {
	words map[string]struct{}
}

// NewStopWordSet builds a set from words; entries are trimmed and lower-cased, blanks dropped.
func NewStopWordSet(words []string) StopWordSet {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return StopWordSet{words: set}
}

// DefaultStopWordSet returns the built-in English stop-word list.
func DefaultStopWordSet() StopWordSet {
	words, _ := ParseWordList(strings.NewReader(defaultStopWords))
	return NewStopWordSet(words)
}

// Contains reports whether word is a stop word.
func (s StopWordSet) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

// Len returns the number of stop words.
func (s StopWordSet) Len() int { return len(s.words) }

// CandidateVocabulary is an immutable ordered list of lowercase candidate tags.
type CandidateVocabulary struct {
	words []string
}

// NewCandidateVocabulary derives the vocabulary as popular minus stop words.
// Order follows popular; duplicates and blanks are dropped.
func NewCandidateVocabulary(popular []string, stop StopWordSet) CandidateVocabulary {
	seen := make(map[string]struct{}, len(popular))
	words := make([]string, 0, len(popular))
	for _, w := range popular {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || stop.Contains(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return CandidateVocabulary{words: words}
}

// DefaultPopularWords returns the built-in popular-word corpus.
func DefaultPopularWords() []string {
	words, _ := ParseWordList(strings.NewReader(defaultPopularWords))
	return words
}

// Words returns a copy of the vocabulary in ranking tie-break order.
func (v CandidateVocabulary) Words() []string { return slices.Clone(v.words) }

// Len returns the vocabulary size.
func (v CandidateVocabulary) Len() int { return len(v.words) }

// ParseWordList reads one word per line, trimming and lower-casing, skipping blank lines.
func ParseWordList(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w != "" {
			words = append(words, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan word list: %w", err)
	}
	return words, nil
}

// LoadWordList reads a newline-separated word file.
func LoadWordList(path string) ([]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open word list %s: %w", path, err)
	}
	defer f.Close()

	words, err := ParseWordList(f)
	if err != nil {
		return nil, fmt.Errorf("read word list %s: %w", path, err)
	}
	return words, nil
}

// Corpora bundles the word lists taggers are built from.
type Corpora struct {
	StopWords StopWordSet
	Popular   []string
}

// DefaultCorpora returns the built-in stop-word and popular-word lists.
func DefaultCorpora() Corpora {
	return Corpora{StopWords: DefaultStopWordSet(), Popular: DefaultPopularWords()}
}

// LoadCorpora reads the word lists from files. An empty path selects the
// built-in list for that corpus.
func LoadCorpora(stopWordsPath, popularPath string) (Corpora, error) {
	c := DefaultCorpora()
	if stopWordsPath != "" {
		words, err := LoadWordList(stopWordsPath)
		if err != nil {
			return Corpora{}, err
		}
		c.StopWords = NewStopWordSet(words)
	}
	if popularPath != "" {
		words, err := LoadWordList(popularPath)
		if err != nil {
			return Corpora{}, err
		}
		c.Popular = words
	}
	return c, nil
}
