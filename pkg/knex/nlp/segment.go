package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type span struct {
	text       string
	start, end int
}

// clitics that are split off the preceding word ("fox's" -> "fox" "'s").
var clitics = map[string]struct{}{
	"s":  {},
	"re": {},
	"ve": {},
	"ll": {},
	"d":  {},
	"m":  {},
}

// segment splits normalized text into word, clitic and punctuation spans.
// Words are runs of letters and digits; every other non-space rune becomes
// its own span.
func segment(s string) []span {
	var out []span
	start := -1

	flush := func(end int) {
		if start >= 0 {
			out = append(out, span{text: s[start:end], start: start, end: end})
			start = -1
		}
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || (unicode.IsMark(r) && start >= 0):
			if start < 0 {
				start = i
			}
			i += size

		case unicode.IsSpace(r):
			flush(i)
			i += size

		case r == '\'' && start >= 0:
			tailEnd := i + size
			for tailEnd < len(s) {
				tr, ts := utf8.DecodeRuneInString(s[tailEnd:])
				if !unicode.IsLetter(tr) {
					break
				}
				tailEnd += ts
			}
			tail := strings.ToLower(s[i+size : tailEnd])

			switch {
			case tail == "t" && i-start > 1 && (s[i-1] == 'n' || s[i-1] == 'N'):
				// "don't" -> "do" "n't"
				out = append(out, span{text: s[start : i-1], start: start, end: i - 1})
				out = append(out, span{text: s[i-1 : tailEnd], start: i - 1, end: tailEnd})
				start = -1
				i = tailEnd
			case tail == "":
				flush(i)
				out = append(out, span{text: s[i : i+size], start: i, end: i + size})
				i += size
			default:
				if _, ok := clitics[tail]; ok {
					flush(i)
					out = append(out, span{text: s[i:tailEnd], start: i, end: tailEnd})
					i = tailEnd
					continue
				}
				// o'clock, rock'n'roll: the apostrophe stays inside the word
				i = tailEnd
			}

		default:
			flush(i)
			out = append(out, span{text: s[i : i+size], start: i, end: i + size})
			i += size
		}
	}
	flush(len(s))

	return out
}
