package tagging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func vocabulary(words ...string) CandidateVocabulary {
	return NewCandidateVocabulary(words, StopWordSet{})
}

func TestCandidateTagger_RanksByCount(t *testing.T) {
	tagger := NewCandidateTagger(vocabulary("design", "pattern", "code", "music"), 3)

	// "patterns" is not an exact match for "pattern".
	tags := tagger.Tags("Design patterns: design and code.")
	assert.Equal(t, []string{"design", "code", "pattern"}, tags)
}

func TestCandidateTagger_TiesKeepVocabularyOrder(t *testing.T) {
	tagger := NewCandidateTagger(vocabulary("music", "news", "video", "sport"), 4)

	tags := tagger.Tags("sport video sport video")
	assert.Equal(t, []string{"video", "sport", "music", "news"}, tags)
}

func TestCandidateTagger_PadsWithZeroCountCandidates(t *testing.T) {
	tagger := NewCandidateTagger(vocabulary("alpha", "beta", "gamma", "delta", "epsilon", "zeta"), 5)

	assert.Equal(t,
		[]string{"alpha", "beta", "gamma", "delta", "epsilon"},
		tagger.Tags("nothing here matches at all"),
	)
	assert.Equal(t,
		[]string{"alpha", "beta", "gamma", "delta", "epsilon"},
		tagger.Tags(""),
	)
}

func TestCandidateTagger_LengthIsMinOfCapAndVocabulary(t *testing.T) {
	tests := []struct {
		name    string
		vocab   CandidateVocabulary
		maxTags int
		want    int
	}{
		{"vocabulary smaller than cap", vocabulary("one", "two"), 5, 2},
		{"vocabulary larger than cap", vocabulary("one", "two", "three", "four"), 3, 3},
		{"equal", vocabulary("one", "two", "three"), 3, 3},
		{"empty vocabulary", vocabulary(), 5, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tagger := NewCandidateTagger(tc.vocab, tc.maxTags)
			for _, text := range []string{"", "one two two", "zero matches in this text"} {
				assert.Len(t, tagger.Tags(text), tc.want)
			}
		})
	}
}

func TestCandidateTagger_NoStopWordFiltering(t *testing.T) {
	// Candidates are matched against every normalized token.
	tagger := NewCandidateTagger(vocabulary("music", "the"), 2)

	assert.Equal(t, []string{"the", "music"}, tagger.Tags("the the music"))
}

func TestCandidateTagger_ShortCandidatesNeverMatch(t *testing.T) {
	tagger := NewCandidateTagger(vocabulary("go", "golang"), 2)

	assert.Equal(t, []string{"golang", "go"}, tagger.Tags("go go go golang"))
}

func TestCandidateTagger_DefaultCap(t *testing.T) {
	assert.Equal(t, DefaultMaxTags, NewCandidateTagger(vocabulary("a"), 0).MaxTags())
}
