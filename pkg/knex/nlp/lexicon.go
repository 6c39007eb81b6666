package nlp

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon holds the word lists the rule tagger consults. A Lexicon is
// read-only once handed to a tagger.
type Lexicon struct {
	closed     map[string]POS
	nouns      map[string]struct{}
	verbs      map[string]struct{}
	adjectives map[string]struct{}
	adverbs    map[string]struct{}
	invariant  map[string]struct{} // plural-looking nouns that are their own lemma
	nounLemmas map[string]string   // irregular plural -> singular
	verbLemmas map[string]string   // irregular inflection -> base
}

// DefaultLexicon returns a fresh copy of the built-in English lexicon.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		closed:     make(map[string]POS, 256),
		nouns:      set(defaultNouns),
		verbs:      set(defaultVerbs),
		adjectives: set(defaultAdjectives),
		adverbs:    set(defaultAdverbs),
		invariant:  set(invariantNouns),
		nounLemmas: pairs(irregularNouns),
		verbLemmas: pairs(irregularVerbs),
	}
	for pos, list := range closedClass {
		for _, w := range strings.Fields(list) {
			lex.closed[w] = pos
		}
	}
	return lex
}

// LexiconFile is the YAML shape accepted by LoadLexicon.
//
//	nouns: [kubernetes, vegetable]
//	verbs: [deploy, refactor]
//	adjectives: [serverless]
//	adverbs: [asap]
//	lemmas:
//	  cacti: cactus
//	verb_lemmas:
//	  forsook: forsake
type LexiconFile struct {
	Nouns      []string          `yaml:"nouns"`
	Verbs      []string          `yaml:"verbs"`
	Adjectives []string          `yaml:"adjectives"`
	Adverbs    []string          `yaml:"adverbs"`
	Lemmas     map[string]string `yaml:"lemmas"`
	VerbLemmas map[string]string `yaml:"verb_lemmas"`
}

// LoadLexicon reads a YAML override file and merges it onto the default
// lexicon. An empty path yields the default lexicon.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLexicon(data)
}

// ParseLexicon merges YAML overrides onto the default lexicon.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var file LexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	lex := DefaultLexicon()
	lex.Merge(file)
	return lex, nil
}

// Merge adds the entries of f. Words listed as nouns win over every other
// open-class list.
func (l *Lexicon) Merge(f LexiconFile) {
	add := func(dst map[string]struct{}, words []string) {
		for _, w := range words {
			if w = Lower(strings.TrimSpace(w)); w != "" {
				dst[w] = struct{}{}
			}
		}
	}
	add(l.nouns, f.Nouns)
	add(l.verbs, f.Verbs)
	add(l.adjectives, f.Adjectives)
	add(l.adverbs, f.Adverbs)
	for k, v := range f.Lemmas {
		l.nounLemmas[Lower(k)] = Lower(v)
	}
	for k, v := range f.VerbLemmas {
		l.verbLemmas[Lower(k)] = Lower(v)
	}
}

// Size returns the number of distinct entries across all lists.
func (l *Lexicon) Size() int {
	return len(l.closed) + len(l.nouns) + len(l.verbs) + len(l.adjectives) +
		len(l.adverbs) + len(l.invariant) + len(l.nounLemmas) + len(l.verbLemmas)
}

func (l *Lexicon) known(w string) bool {
	if _, ok := l.closed[w]; ok {
		return true
	}
	for _, m := range []map[string]struct{}{l.nouns, l.verbs, l.adjectives, l.adverbs} {
		if _, ok := m[w]; ok {
			return true
		}
	}
	_, ok := l.verbLemmas[w]
	return ok
}

func (l *Lexicon) has(m map[string]struct{}, w string) bool {
	_, ok := m[w]
	return ok
}

func set(list string) map[string]struct{} {
	words := strings.Fields(list)
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// pairs parses "inflected:lemma" fields.
func pairs(list string) map[string]string {
	fields := strings.Fields(list)
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		k, v, ok := strings.Cut(f, ":")
		if ok {
			m[k] = v
		}
	}
	return m
}

var closedClass = map[POS]string{
	Det: `the a an this that these those each every either neither some any no all both
		another such what which whose my your his her its our their`,
	Pron: `i me you he him she it we us they them myself yourself himself herself itself
		ourselves yourselves themselves mine yours hers ours theirs who whom whoever
		whatever whichever someone somebody something anyone anybody anything everyone
		everybody everything nobody nothing`,
	Adp: `of in on at by for with about against between into through during before after
		above below from up down out off over under across along among around behind
		beyond despite except inside near onto outside since toward towards upon via
		within without like per amid throughout`,
	CConj: `and or but nor plus`,
	SConj: `because if unless although though while whereas whether once until when
		where why how as`,
	Aux: `is are was were am be been being do does did have has had will would shall
		should can could may might must 're 've 'll 'd 'm`,
	Part: `to not n't 's`,
	Intj: `hello hi hey oh ah wow yes yeah ok okay please thanks alas hooray bye goodbye
		ouch oops hmm uh um`,
	Num: `zero one two three four five six seven eight nine ten eleven twelve twenty
		thirty forty fifty hundred thousand million billion`,
}

const defaultAdverbs = `very too so quite rather really also just only even still already
	always never often sometimes usually again soon now then here there today tomorrow
	yesterday almost enough maybe perhaps however therefore thus indeed instead
	nevertheless moreover furthermore fast well hard late ever else away together back
	forward ago anyway somewhat extremely highly pretty fairly incredibly`

const defaultAdjectives = `quick brown lazy clever smart great good bad new old big small large
	little long short high low young happy sad excellent positive negative neutral
	important different same able best better worse worst free full real sure clear easy
	strong weak hot cold warm dark heavy rich poor nice beautiful ugly bright simple
	complex common public private major minor main whole single local national
	international global social political economic financial natural final ready wrong
	true false certain possible impossible recent modern current available likely
	unlikely special general specific personal serious various several many much few
	more most less least other own next last previous first second third red green blue
	yellow black white gray grey purple pink quiet loud fresh dirty safe dangerous huge
	tiny deep wide narrow thin thick slow busy angry calm afraid glad proud brave wise
	cruel gentle amazing awesome terrible horrible wonderful fantastic cheap expensive
	popular efficient effective reliable fair primary basic entire empty early`

// intensifiers push an unknown following word towards an adjective reading.
var intensifiers = set(`very too so quite rather really extremely highly pretty fairly incredibly most more less least`)

const defaultVerbs = `be have do say get make go know take see come think look want give use
	find tell ask work seem feel try leave call keep let begin help talk turn start show
	hear play run move live believe hold bring happen write provide sit stand lose pay
	meet include continue set learn change lead understand watch follow stop create speak
	read allow add spend grow open walk win offer remember love consider appear buy wait
	serve die send expect build stay fall cut reach kill remain suggest raise pass sell
	require report decide pull jump eat drink sleep drive fly swim sing dance climb throw
	catch break choose wear rise draw explain develop carry hope accept improve enjoy
	reduce support describe produce prefer realize agree increase receive achieve
	analyze analyse extract compute return publish finish establish announce launch
	release deliver manage discover mention contain affect avoid apply argue arrive
	belong borrow burn check clean close collect compare complain confirm connect cook
	count cross damage deal deny depend destroy determine discuss drop earn encourage
	enter escape exist expand explore express fail fill fit fix force forget forgive gain
	gather grab handle hate heat hide hit hunt identify ignore imagine impress inform
	install intend introduce invent invite join judge kick kiss knock laugh lay lie lift
	limit listen maintain marry measure miss mix notice obtain occur paint perform pick
	predict prepare prevent prove push recognize recommend recover refer reflect refuse
	relax rely remove repair repeat replace reply request rescue respond reveal ride roll
	rush save search seek shake share shine shoot shout shut smell smile solve spell
	split spread steal stick strike succeed suffer suppose surprise survive teach tear
	thank touch travel treat trust visit warn wash wonder worry yell need mean put bark`

const defaultNouns = `family assembly anomaly monopoly butterfly rally belly jelly lily bully
	vegetable variable timetable constable syllable bible handful mouthful spoonful supply`

const invariantNouns = `news series species means physics mathematics economics politics ethics
	statistics athletics gymnastics measles aircraft sheep fish deer data media people
	analysis crisis thesis basis status virus bus gas`

const irregularNouns = `men:man women:woman children:child mice:mouse geese:goose feet:foot
	teeth:tooth oxen:ox lives:life wives:wife knives:knife leaves:leaf wolves:wolf
	halves:half shelves:shelf thieves:thief loaves:loaf calves:calf selves:self
	criteria:criterion phenomena:phenomenon analyses:analysis crises:crisis theses:thesis
	hypotheses:hypothesis diagnoses:diagnosis indices:index matrices:matrix
	vertices:vertex movies:movie cookies:cookie zombies:zombie calories:calorie
	caches:cache niches:niche aches:ache headaches:headache heroes:hero potatoes:potato
	tomatoes:tomato echoes:echo vetoes:veto ties:tie lies:lie pies:pie buses:bus
	statuses:status viruses:virus`

const irregularVerbs = `am:be is:be are:be was:be were:be been:be being:be 're:be 'm:be
	has:have had:have having:have 've:have does:do did:do done:do doing:do 'll:will
	'd:would said:say got:get gotten:get made:make went:go gone:go knew:know known:know
	took:take taken:take saw:see seen:see came:come thought:think gave:give given:give
	found:find told:tell felt:feel left:leave kept:keep began:begin begun:begin held:hold
	brought:bring wrote:write written:write sat:sit stood:stand lost:lose paid:pay
	met:meet led:lead understood:understand spoke:speak spoken:speak spent:spend
	grew:grow grown:grow won:win bought:buy fell:fall fallen:fall sent:send built:build
	ran:run ate:eat eaten:eat drank:drink drunk:drink slept:sleep drove:drive
	driven:drive flew:fly flown:fly swam:swim swum:swim sang:sing sung:sing threw:throw
	thrown:throw caught:catch broke:break broken:break chose:choose chosen:choose
	wore:wear worn:wear rose:rise risen:rise drew:draw drawn:draw forgot:forget
	forgotten:forget hid:hide hidden:hide rode:ride ridden:ride shook:shake shaken:shake
	stole:steal stolen:steal struck:strike taught:teach tore:tear torn:tear sought:seek
	dealt:deal meant:mean heard:hear laid:lay shot:shoot sold:sell`
