package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RuleTagger is a deterministic, lexicon-driven English tagger. It holds no
// mutable state after construction and may be shared across goroutines.
type RuleTagger struct {
	lex *Lexicon
}

// NewRuleTagger builds a tagger over lex. A nil lexicon selects the
// built-in default.
func NewRuleTagger(lex *Lexicon) *RuleTagger {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &RuleTagger{lex: lex}
}

// Tag normalizes, segments, tags and lemmatizes text.
func (t *RuleTagger) Tag(text string) []Token {
	text = Normalize(text)
	spans := segment(text)
	if len(spans) == 0 {
		return []Token{}
	}

	starts := t.sentenceStarts(spans)
	proper := t.properNames(spans, starts)

	tokens := make([]Token, 0, len(spans))
	for i, sp := range spans {
		lower := Lower(sp.text)

		var prev Token
		if i > 0 {
			prev = tokens[i-1]
		}
		pos := t.classify(lower, sp.text, prev, i > 0, starts[i], proper)

		tokens = append(tokens, Token{
			Text:  sp.text,
			Lemma: t.lex.lemma(lower, pos),
			POS:   pos,
			Alpha: isAlpha(sp.text),
			Start: sp.start,
			End:   sp.end,
		})
	}
	return tokens
}

// sentenceStarts marks the spans that open a sentence. Opening quotes and
// brackets keep the sentence-start state.
func (t *RuleTagger) sentenceStarts(spans []span) []bool {
	starts := make([]bool, len(spans))
	start := true
	for i, sp := range spans {
		starts[i] = start
		if _, ok := t.lex.closed[Lower(sp.text)]; ok {
			start = false
			continue
		}
		r, _ := utf8.DecodeRuneInString(sp.text)
		switch {
		case !unicode.IsPunct(r):
			start = false
		case strings.ContainsRune(".!?", r):
			start = true
		case strings.ContainsRune("\"'([{", r):
		default:
			start = false
		}
	}
	return starts
}

// properNames collects unknown words written capitalized inside a
// sentence. A sentence-initial occurrence of one of them is read as the
// same proper noun.
func (t *RuleTagger) properNames(spans []span, starts []bool) map[string]struct{} {
	names := make(map[string]struct{})
	for i, sp := range spans {
		if starts[i] || !isAlpha(sp.text) || !isCapitalized(sp.text) {
			continue
		}
		if lower := Lower(sp.text); !t.lex.known(lower) {
			names[lower] = struct{}{}
		}
	}
	return names
}

func (t *RuleTagger) classify(lower, surface string, prev Token, hasPrev, sentenceStart bool, proper map[string]struct{}) POS {
	lex := t.lex

	if pos, ok := lex.closed[lower]; ok {
		return pos
	}

	r, _ := utf8.DecodeRuneInString(surface)
	if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
		switch {
		case unicode.IsPunct(r):
			return Punct
		case unicode.IsSymbol(r):
			return Sym
		}
		return X
	}

	if !isAlpha(surface) {
		switch {
		case isDigits(surface):
			return Num
		case isOrdinal(lower):
			return Adj
		}
		// model names, versions: gpt4, mp3
		return PropNoun
	}

	if lex.has(lex.nouns, lower) {
		return Noun
	}
	if isCapitalized(surface) && !lex.known(lower) {
		if _, ok := proper[lower]; ok || !sentenceStart {
			return PropNoun
		}
	}
	if lex.has(lex.adjectives, lower) {
		return Adj
	}
	if lex.has(lex.adverbs, lower) {
		return Adv
	}

	if hasPrev {
		switch prev.POS {
		case Det, Adj, Num:
			return nominal(lower)
		case Part:
			if prev.Lemma == "'s" {
				return nominal(lower)
			}
			if lex.isVerbForm(lower) {
				return Verb
			}
		case Pron:
			if lex.isVerbForm(lower) {
				return Verb
			}
		case Noun, PropNoun:
			// "fox jumps", "dogs bark"; a bare base form after a singular
			// noun is more often a compound ("customer support").
			if lex.isInflectedVerb(lower) {
				return Verb
			}
			if lex.has(lex.verbs, lower) && strings.HasSuffix(Lower(prev.Text), "s") {
				return Verb
			}
			// "Athens hosted": a past form right after the subject
			if len(lower) > 5 && strings.HasSuffix(lower, "ed") {
				return Verb
			}
		case Aux:
			if lex.isVerbForm(lower) {
				return Verb
			}
		case Adv:
			if lex.isVerbForm(lower) {
				return Verb
			}
			if _, ok := intensifiers[prev.Lemma]; ok {
				return Adj
			}
		}
	}

	switch {
	case len(lower) > 4 && strings.HasSuffix(lower, "ly") && !lex.isVerbForm(lower):
		return Adv
	case hasAdjSuffix(lower):
		return Adj
	case len(lower) > 5 && hasAnySuffix(lower, "ing", "ed") && lex.isVerbForm(lower):
		return Verb
	}
	return Noun
}

// nominal resolves a word in a slot that takes a noun phrase head.
func nominal(w string) POS {
	if hasAdjSuffix(w) {
		return Adj
	}
	return Noun
}

func hasAdjSuffix(w string) bool {
	n := len(w)
	switch {
	case n > 5 && hasAnySuffix(w, "ous", "ful", "less", "ical"):
		return true
	case n > 6 && hasAnySuffix(w, "able", "ible"):
		return true
	}
	return false
}

func isOrdinal(w string) bool {
	if len(w) < 3 || !hasAnySuffix(w, "st", "nd", "rd", "th") {
		return false
	}
	return isDigits(w[:len(w)-2])
}
