package nlp

import (
	"sync"
	"testing"
)

type tagged struct {
	text  string
	lemma string
	pos   POS
}

func assertTags(t *testing.T, got []Token, want []tagged) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Text != w.text || g.Lemma != w.lemma || g.POS != w.pos {
			t.Errorf("token %d: expected %q/%q/%s, got %q/%q/%s",
				i, w.text, w.lemma, w.pos, g.Text, g.Lemma, g.POS)
		}
	}
}

func TestRuleTaggerSentence(t *testing.T) {
	tagger := NewRuleTagger(nil)

	got := tagger.Tag("The quick brown fox jumps over the lazy dog.")
	assertTags(t, got, []tagged{
		{"The", "the", Det},
		{"quick", "quick", Adj},
		{"brown", "brown", Adj},
		{"fox", "fox", Noun},
		{"jumps", "jump", Verb},
		{"over", "over", Adp},
		{"the", "the", Det},
		{"lazy", "lazy", Adj},
		{"dog", "dog", Noun},
		{".", ".", Punct},
	})
}

func TestRuleTaggerPluralSubject(t *testing.T) {
	tagger := NewRuleTagger(nil)

	got := tagger.Tag("Dogs bark.")
	assertTags(t, got, []tagged{
		{"Dogs", "dog", Noun},
		{"bark", "bark", Verb},
		{".", ".", Punct},
	})
}

func TestRuleTaggerAuxiliaryAndAdverb(t *testing.T) {
	tagger := NewRuleTagger(nil)

	got := tagger.Tag("They are running quickly")
	assertTags(t, got, []tagged{
		{"They", "they", Pron},
		{"are", "be", Aux},
		{"running", "run", Verb},
		{"quickly", "quickly", Adv},
	})
}

func TestRuleTaggerProperNouns(t *testing.T) {
	tagger := NewRuleTagger(nil)

	got := tagger.Tag("The dog saw Paris. Rome is old.")
	if got[3].Text != "Paris" || got[3].POS != PropNoun || got[3].Lemma != "paris" {
		t.Errorf("expected Paris as PROPN with lemma paris, got %+v", got[3])
	}
	// sentence-initial capitals are not promoted to proper nouns, but
	// still resolve to a noun reading
	if got[5].Text != "Rome" || !got[5].POS.IsNoun() {
		t.Errorf("expected Rome as a noun, got %+v", got[5])
	}
}

func TestRuleTaggerProperNounLemmaStable(t *testing.T) {
	tagger := NewRuleTagger(nil)

	got := tagger.Tag("Texas is big. I moved to Texas last year. Texas has oil.")
	var n int
	for _, tok := range got {
		if tok.Text != "Texas" {
			continue
		}
		n++
		if tok.POS != PropNoun || tok.Lemma != "texas" {
			t.Errorf("expected Texas as PROPN with lemma texas, got %+v", tok)
		}
	}
	if n != 3 {
		t.Fatalf("expected three Texas tokens, got %d", n)
	}
}

func TestRuleTaggerUnknownPastAfterNoun(t *testing.T) {
	tagger := NewRuleTagger(nil)

	got := tagger.Tag("Athens hosted the games.")
	if got[1].Text != "hosted" || got[1].POS != Verb || got[1].Lemma != "host" {
		t.Errorf("expected hosted as VERB with lemma host, got %+v", got[1])
	}
}

func TestRuleTaggerAlpha(t *testing.T) {
	tagger := NewRuleTagger(nil)

	got := tagger.Tag("gpt4 scored 42 points")
	if got[0].Alpha || got[0].POS != PropNoun {
		t.Errorf("gpt4: expected non-alpha PROPN, got %+v", got[0])
	}
	if got[2].Alpha || got[2].POS != Num {
		t.Errorf("42: expected non-alpha NUM, got %+v", got[2])
	}
	if !got[3].Alpha {
		t.Errorf("points: expected alpha, got %+v", got[3])
	}
}

func TestRuleTaggerCurlyApostrophe(t *testing.T) {
	tagger := NewRuleTagger(nil)

	got := tagger.Tag("Don’t")
	assertTags(t, got, []tagged{
		{"Do", "do", Aux},
		{"n't", "not", Part},
	})
}

func TestRuleTaggerEmpty(t *testing.T) {
	tagger := NewRuleTagger(nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		got := tagger.Tag(text)
		if got == nil || len(got) != 0 {
			t.Errorf("Tag(%q): expected empty non-nil slice, got %#v", text, got)
		}
	}
}

func TestRuleTaggerDeterministic(t *testing.T) {
	tagger := NewRuleTagger(nil)
	text := "The fox is a clever animal. The fox runs fast."
	want := tagger.Tag(text)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := tagger.Tag(text)
			if len(got) != len(want) {
				t.Errorf("expected %d tokens, got %d", len(want), len(got))
				return
			}
			for j := range got {
				if got[j] != want[j] {
					t.Errorf("token %d differs: %+v vs %+v", j, got[j], want[j])
				}
			}
		}()
	}
	wg.Wait()
}

func TestPOSString(t *testing.T) {
	if Noun.String() != "NOUN" || PropNoun.String() != "PROPN" || POS(200).String() != "X" {
		t.Errorf("unexpected POS names: %s %s %s", Noun, PropNoun, POS(200))
	}
	if !Noun.IsNoun() || !PropNoun.IsNoun() || Verb.IsNoun() {
		t.Error("IsNoun should cover exactly NOUN and PROPN")
	}
}
