package nlp

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseLexiconOverrides(t *testing.T) {
	lex, err := ParseLexicon([]byte(`
nouns: [Need]
verbs: [deploy]
lemmas:
  cacti: cactus
verb_lemmas:
  forsook: forsake
`))
	if err != nil {
		t.Fatalf("ParseLexicon: %v", err)
	}
	if !lex.has(lex.nouns, "need") {
		t.Error("expected override nouns to be lowercased and added")
	}
	if got := lex.lemma("cacti", Noun); got != "cactus" {
		t.Errorf("expected cacti -> cactus, got %q", got)
	}
	if got := lex.lemma("forsook", Verb); got != "forsake" {
		t.Errorf("expected forsook -> forsake, got %q", got)
	}
	if lex.Size() <= DefaultLexicon().Size() {
		t.Error("expected overrides to grow the lexicon")
	}
}

func TestLexiconOverrideChangesTagging(t *testing.T) {
	base := NewRuleTagger(nil).Tag("They need help")
	if base[1].POS != Verb {
		t.Fatalf("expected need as VERB with default lexicon, got %s", base[1].POS)
	}

	lex, err := ParseLexicon([]byte("nouns: [need]\n"))
	if err != nil {
		t.Fatalf("ParseLexicon: %v", err)
	}
	got := NewRuleTagger(lex).Tag("They need help")
	if got[1].POS != Noun {
		t.Errorf("expected need forced to NOUN, got %s", got[1].POS)
	}
}

func TestParseLexiconInvalid(t *testing.T) {
	if _, err := ParseLexicon([]byte("nouns: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoadLexicon(t *testing.T) {
	lex, err := LoadLexicon("")
	if err != nil {
		t.Fatalf("LoadLexicon(\"\"): %v", err)
	}
	if lex.Size() != DefaultLexicon().Size() {
		t.Error("empty path should yield the default lexicon")
	}

	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	if err := os.WriteFile(path, []byte("adjectives: [serverless]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	lex, err = LoadLexicon(path)
	if err != nil {
		t.Fatalf("LoadLexicon: %v", err)
	}
	if !lex.has(lex.adjectives, "serverless") {
		t.Error("expected serverless in adjectives")
	}

	if _, err := LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
