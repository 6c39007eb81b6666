// Package keywords extracts salient nouns from prose and scores how well a
// keyword list covers a text.
package keywords

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/knex/pkg/knex/nlp"
)

// DefaultLimit is the number of keywords Extract returns at most.
const DefaultLimit = 3

const (
	minTokenRunes   = 3
	diversityWeight = 0.3
	frequencyWeight = 0.2
)

// Engine runs keyword extraction and confidence scoring over a Tagger.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	tagger nlp.Tagger
}

// Result bundles the keywords of a text with their confidence.
type Result struct {
	Keywords   []string
	Confidence float64
}

// New returns an engine backed by tagger. A nil tagger selects a RuleTagger
// over the default lexicon.
func New(tagger nlp.Tagger) *Engine {
	if tagger == nil {
		tagger = nlp.NewRuleTagger(nil)
	}
	return &Engine{tagger: tagger}
}

// Extract returns up to three noun lemmas, most frequent first. Ties keep
// the order in which lemmas first appear. The result is never nil.
func (e *Engine) Extract(text string) []string {
	return e.ExtractN(text, DefaultLimit)
}

// ExtractN is Extract with a custom limit. n <= 0 selects DefaultLimit.
func (e *Engine) ExtractN(text string, n int) []string {
	if n <= 0 {
		n = DefaultLimit
	}
	return topNouns(e.tagger.Tag(text), n)
}

// Confidence scores how strongly keywords are represented in text. The
// score is in [0,1] and is 0 for an empty keyword list or blank text.
func (e *Engine) Confidence(text string, keywords []string) float64 {
	if len(keywords) == 0 || strings.TrimSpace(text) == "" {
		return 0
	}
	return confidence(e.tagger.Tag(text), keywords)
}

// Score extracts keywords and computes their confidence from a single
// tagging pass.
func (e *Engine) Score(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Keywords: []string{}}
	}
	tokens := e.tagger.Tag(text)
	kws := topNouns(tokens, DefaultLimit)
	return Result{Keywords: kws, Confidence: confidence(tokens, kws)}
}

func long(tok nlp.Token) bool {
	return utf8.RuneCountInString(tok.Text) >= minTokenRunes
}

func topNouns(tokens []nlp.Token, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, tok := range tokens {
		if !tok.POS.IsNoun() || !long(tok) || tok.Lemma == "" {
			continue
		}
		if counts[tok.Lemma] == 0 {
			order = append(order, tok.Lemma)
		}
		counts[tok.Lemma]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}

func confidence(tokens []nlp.Token, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}

	freq := make(map[string]int)
	total := 0
	for _, tok := range tokens {
		if !tok.Alpha || !long(tok) {
			continue
		}
		freq[tok.Lemma]++
		total++
	}
	if total == 0 {
		return 0
	}

	occurrences := 0
	found := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = nlp.Lower(kw)
		c := freq[kw]
		occurrences += c
		if c > 0 {
			found[kw] = struct{}{}
		}
	}

	n := float64(len(keywords))
	density := float64(occurrences) / float64(total)
	diversity := float64(len(found)) / n
	frequency := min(float64(occurrences)/n, 1)

	return min(density+diversityWeight*diversity+frequencyWeight*frequency, 1)
}
