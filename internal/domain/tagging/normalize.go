package tagging

import (
	"strings"
	"unicode/utf8"
)

// WordsAlphabet is the character set both taggers keep; any other rune becomes a separator.
const WordsAlphabet = "abcdefghijklmnopqrstuvwxyz-'"

// DefaultMinTokenLength drops tokens of this many runes or fewer.
const DefaultMinTokenLength = 2

// dottedCapitalI lower-cases to "i" plus a combining dot above (U+0307) under
// full Unicode case mapping; strings.ToLower alone yields a bare "i".
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// Normalize lower-cases text, replaces every rune outside alphabet with a space,
// splits on whitespace and keeps tokens strictly longer than minLength runes.
func Normalize(text, alphabet string, minLength int) []string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(alphabet, r) {
			return r
		}
		return ' '
	}, strings.ToLower(dottedCapitalI.Replace(text)))

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > minLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func normalizeWords(text string) []string {
	return Normalize(text, WordsAlphabet, DefaultMinTokenLength)
}
