package nlp

import "strings"

var particleLemmas = map[string]string{
	"n't": "not",
}

// lemma returns the base form of a lowercased word given its tag.
func (l *Lexicon) lemma(w string, pos POS) string {
	switch pos {
	case Noun:
		return l.nounLemma(w)
	case Verb, Aux:
		return l.verbLemma(w)
	case Part:
		if base, ok := particleLemmas[w]; ok {
			return base
		}
	}
	return w
}

func (l *Lexicon) nounLemma(w string) string {
	if base, ok := l.nounLemmas[w]; ok {
		return base
	}
	if l.has(l.invariant, w) {
		return w
	}
	n := len(w)
	if n <= 3 || !strings.HasSuffix(w, "s") {
		return w
	}
	switch {
	case hasAnySuffix(w, "ss", "us", "is", "'s"):
		return w
	case strings.HasSuffix(w, "ies") && n > 4:
		return w[:n-3] + "y"
	case hasAnySuffix(w, "sses", "shes", "ches", "xes", "zzes"):
		return w[:n-2]
	default:
		// dogs -> dog, cases -> case, moves -> move
		return w[:n-1]
	}
}

func (l *Lexicon) verbLemma(w string) string {
	if base, ok := l.verbLemmas[w]; ok {
		return base
	}
	if l.has(l.verbs, w) {
		return w
	}
	n := len(w)
	switch {
	case strings.HasSuffix(w, "ies") && n > 4:
		return w[:n-3] + "y"
	case strings.HasSuffix(w, "ied") && n > 4:
		return w[:n-3] + "y"
	case strings.HasSuffix(w, "ing") && n > 4:
		return l.restore(w[:n-3])
	case strings.HasSuffix(w, "ed") && n > 3:
		return l.restore(w[:n-2])
	case strings.HasSuffix(w, "es") && n > 3:
		if l.has(l.verbs, w[:n-1]) {
			return w[:n-1]
		}
		if stem := w[:n-2]; hasAnySuffix(stem, "sh", "ch", "x", "z", "ss", "o") {
			return stem
		}
		return w[:n-1]
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && n > 2:
		return w[:n-1]
	}
	return w
}

// restore rebuilds a verb base from a stem left after cutting -ing or -ed:
// "mak" -> "make", "runn" -> "run", "add" stays "add".
func (l *Lexicon) restore(stem string) string {
	if l.has(l.verbs, stem) {
		return stem
	}
	if l.has(l.verbs, stem+"e") {
		return stem + "e"
	}
	if n := len(stem); n > 2 && stem[n-1] == stem[n-2] && !strings.ContainsRune("lszf", rune(stem[n-1])) {
		return stem[:n-1]
	}
	if hasAnySuffix(stem, "at", "iz", "ys") {
		return stem + "e"
	}
	return stem
}

// isVerbForm reports whether w is a known verb in base or inflected form.
func (l *Lexicon) isVerbForm(w string) bool {
	if l.has(l.verbs, w) {
		return true
	}
	return l.isInflectedVerb(w)
}

func (l *Lexicon) isInflectedVerb(w string) bool {
	if _, ok := l.verbLemmas[w]; ok {
		return true
	}
	base := l.verbLemma(w)
	return base != w && l.has(l.verbs, base)
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
