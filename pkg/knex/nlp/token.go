// Package nlp turns raw prose into tagged, lemmatized tokens.
//
// The Tagger interface is the only thing the keyword engine depends on;
// RuleTagger is a deterministic English implementation built from a
// closed-class lexicon, suffix heuristics and a few context rules.
package nlp

// POS is a coarse, universal part-of-speech tag.
type POS uint8

const (
	X POS = iota
	Noun
	PropNoun
	Verb
	Aux
	Adj
	Adv
	Adp
	Det
	Pron
	CConj
	SConj
	Part
	Intj
	Num
	Punct
	Sym
)

var posNames = [...]string{
	X:        "X",
	Noun:     "NOUN",
	PropNoun: "PROPN",
	Verb:     "VERB",
	Aux:      "AUX",
	Adj:      "ADJ",
	Adv:      "ADV",
	Adp:      "ADP",
	Det:      "DET",
	Pron:     "PRON",
	CConj:    "CCONJ",
	SConj:    "SCONJ",
	Part:     "PART",
	Intj:     "INTJ",
	Num:      "NUM",
	Punct:    "PUNCT",
	Sym:      "SYM",
}

func (p POS) String() string {
	if int(p) < len(posNames) {
		return posNames[p]
	}
	return "X"
}

// IsNoun reports whether the tag marks a common or proper noun.
func (p POS) IsNoun() bool {
	return p == Noun || p == PropNoun
}

// Token is a single lexical unit of the analysed text.
type Token struct {
	Text  string // surface form as it appears in the normalized text
	Lemma string // lowercased base form
	POS   POS
	Alpha bool // true only when Text consists solely of letters
	Start int  // byte offsets into the normalized text
	End   int
}

// Tagger produces tokens in original order. Implementations must be
// deterministic and safe for concurrent use.
type Tagger interface {
	Tag(text string) []Token
}
