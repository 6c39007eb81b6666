package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var quoteReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"ʼ", "'",
	"“", `"`,
	"”", `"`,
)

// Normalize composes the text to NFC and folds typographic quotes to ASCII
// so that clitics such as "don’t" split the same way as "don't".
func Normalize(text string) string {
	return quoteReplacer.Replace(norm.NFC.String(text))
}

// Lower lowercases s. A cases.Caser is stateful, so a fresh one is built
// for non-ASCII input instead of sharing one across goroutines.
func Lower(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return cases.Lower(language.Und).String(s)
		}
	}
	return strings.ToLower(s)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsMark(r) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isCapitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
