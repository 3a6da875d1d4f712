package vectorize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes drops single-letter noise such as "s" from possessives.
const minTokenRunes = 2

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "were": true, "been": true, "to": true, "of": true, "and": true,
	"in": true, "that": true, "have": true, "has": true, "had": true, "it": true,
	"its": true, "for": true, "not": true, "on": true, "with": true, "as": true,
	"you": true, "your": true, "do": true, "at": true, "this": true, "these": true,
	"those": true, "but": true, "by": true, "from": true, "or": true, "if": true,
	"into": true, "about": true, "than": true, "then": true, "there": true,
	"their": true, "they": true, "them": true, "we": true, "our": true, "us": true,
	"he": true, "she": true, "his": true, "her": true, "so": true, "such": true,
	"can": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "also": true, "more": true, "most": true, "other": true,
	"some": true, "any": true, "all": true, "each": true, "which": true,
	"who": true, "whom": true, "what": true, "when": true, "where": true,
	"how": true, "why": true, "no": true, "nor": true, "only": true, "own": true,
	"same": true, "too": true, "very": true, "just": true, "over": true,
	"after": true, "before": true, "up": true, "down": true, "out": true,
	"off": true, "again": true, "once": true, "here": true, "both": true,
	"few": true, "being": true, "does": true, "did": true, "doing": true,
	"am": true, "my": true, "me": true, "him": true, "i": true,
}

// IsStopWord reports whether token (already lower-cased) is ignored by Tokenize.
func IsStopWord(token string) bool {
	return stopWords[token]
}

// Tokenize lower-cases text, splits it on every rune that is not a letter or
// digit, and drops stop words and tokens shorter than two runes.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) < minTokenRunes || stopWords[field] {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
