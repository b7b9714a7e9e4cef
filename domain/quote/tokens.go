package quote

import "strings"

// minLongToken is the exclusive length floor for tokens that count toward
// lexical overlap between two quotes.
const minLongToken = 3

// Tokenize splits text into lowercase whitespace tokens with surrounding
// punctuation stripped.
func Tokenize(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()[]{}")
		if w != "" {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// TokenSet returns the deduplicated token set of text.
func TokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// SharedLongTokens counts tokens of length > 3 present in both sets.
func SharedLongTokens(a, b map[string]struct{}) int {
	shared := 0
	for tok := range a {
		if len(tok) <= minLongToken {
			continue
		}
		if _, ok := b[tok]; ok {
			shared++
		}
	}
	return shared
}

// Overlap is the token-set intersection size divided by the size of the
// larger set. Returns 0 when either set is empty.
func Overlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	larger := len(a)
	if len(b) > larger {
		larger = len(b)
	}
	return float64(intersection) / float64(larger)
}
