package term

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes accented runes and discards the combining
// marks left behind, so "café" and "cafe" index as the same term.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a raw token, strips diacritics and every character
// that is not a letter (punctuation included), and rejects the token
// (ok=false) if it contains a digit or if the result is empty or a stop
// word. It is the single choke point the indexer's tokenization goes
// through so that "the", "The,", and
// "THE" all collapse to the same rejected token, and "covid19" is rejected
// outright rather than indexed as a word.
func Normalize(raw string) (normalized string, ok bool) {
	folded, _, err := transform.String(diacriticStripper, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsDigit(r) {
			return "", false
		}
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	if cleaned == "" || IsStopWord(cleaned) {
		return "", false
	}
	return cleaned, true
}

// Tokenize splits body text on whitespace and normalises each token,
// discarding anything Normalize rejects.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if n, ok := Normalize(f); ok {
			tokens = append(tokens, n)
		}
	}
	return tokens
}
