package words

import (
	"errors"
	"math/rand/v2"
	"testing"
)

const flatFixture = `[
  {"a": "code", "q": "Instructions", "level": 1},
  {"a": "moon", "q": "Satellite", "level": 2},
  {"a": "comet", "q": "Icy body", "level": 1},
  {"a": "orbit", "q": "Path", "level": 1}
]`

const legacyFixture = `{
  "4": [{"a": "kedi", "q": "Miyav"}, {"a": "ışık", "q": "Aydınlık", "level": 2}],
  "6": [{"a": "yıldız", "q": "Parlar", "level": 1}]
}`

func testRand() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func mustParse(t *testing.T, lang Language, data string) *Catalog {
	t.Helper()
	c, err := Parse(lang, []byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return c
}

func TestQuestionExactLength(t *testing.T) {
	c := mustParse(t, English, flatFixture)
	rng := testRand()
	for i := 0; i < 50; i++ {
		q := c.Question(rng, English, 5, 1)
		if q.Len() != 5 {
			t.Fatalf("got %q, want a 5-letter word", q.Word)
		}
		if q.Word != "COMET" && q.Word != "ORBIT" {
			t.Fatalf("unexpected word %q", q.Word)
		}
	}
}

func TestQuestionFallsBackToLongestLength(t *testing.T) {
	c := mustParse(t, English, flatFixture)
	rng := testRand()
	// 3 is closer to 4, but the policy is "longest available".
	for _, want := range []int{3, 9} {
		q := c.Question(rng, English, want, 1)
		if q.Len() != 5 {
			t.Errorf("length %d: got %q, want fallback to 5 letters", want, q.Word)
		}
	}
}

func TestQuestionLevelFilterFallsBack(t *testing.T) {
	c := mustParse(t, English, flatFixture)
	rng := testRand()

	for i := 0; i < 20; i++ {
		if q := c.Question(rng, English, 4, 2); q.Word != "MOON" {
			t.Fatalf("level 2: got %q, want MOON", q.Word)
		}
	}

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[c.Question(rng, English, 4, 7).Word] = true
	}
	if !seen["CODE"] || !seen["MOON"] {
		t.Fatalf("unknown level should draw from every 4-letter word, saw %v", seen)
	}
}

func TestQuestionSentinel(t *testing.T) {
	c := mustParse(t, English, flatFixture)
	if q := c.Question(testRand(), Turkish, 4, 1); !q.IsSentinel() {
		t.Fatalf("missing language: got %+v, want sentinel", q)
	}

	empty := mustParse(t, English, `[]`)
	if q := empty.Question(testRand(), English, 4, 1); !q.IsSentinel() {
		t.Fatalf("empty dataset: got %+v, want sentinel", q)
	}
}

func TestLegacyShape(t *testing.T) {
	c := mustParse(t, Turkish, legacyFixture)
	rng := testRand()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[c.Question(rng, Turkish, 4, 1).Word] = true
	}
	// No 4-letter word is tagged level 1, so both are candidates.
	if !seen["KEDİ"] || !seen["IŞIK"] {
		t.Fatalf("got %v, want KEDİ and IŞIK with Turkish casing", seen)
	}
	if q := c.Question(rng, Turkish, 5, 1); q.Word != "YILDIZ" {
		t.Fatalf("fallback: got %q, want YILDIZ", q.Word)
	}

	stats := c.Stats()
	if len(stats) != 1 || stats[0].Words != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if got := stats[0].Lengths; len(got) != 2 || got[0] != 4 || got[1] != 6 {
		t.Fatalf("lengths = %v, want [4 6]", got)
	}
}

func TestParseRejectsUnknownShape(t *testing.T) {
	for _, in := range []string{"", "  ", `"word"`, `42`} {
		if _, err := Parse(English, []byte(in)); !errors.Is(err, ErrUnknownShape) {
			t.Errorf("Parse(%q) err = %v, want ErrUnknownShape", in, err)
		}
	}
	if _, err := Parse(English, []byte(`{"four":[]}`)); err == nil {
		t.Error("non-numeric length key should fail")
	}
}

func TestDecodeFlattensBothShapes(t *testing.T) {
	qs, err := Decode(Turkish, []byte(legacyFixture))
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 3 || qs[2].Word != "YILDIZ" {
		t.Fatalf("Decode legacy = %+v", qs)
	}

	qs, err = Decode(English, []byte(flatFixture))
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 4 || qs[0].Len() != 4 || qs[3].Len() != 5 {
		t.Fatalf("Decode flat = %+v", qs)
	}
}

func TestLoadEmbedded(t *testing.T) {
	c, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	rng := testRand()
	for _, lang := range Languages() {
		q := c.Question(rng, lang, 4, 1)
		if q.IsSentinel() || q.Len() != 4 {
			t.Errorf("%s: got %+v", lang, q)
		}
		if q.Word != lang.Upper(q.Word) {
			t.Errorf("%s: %q is not canonical uppercase", lang, q.Word)
		}
	}
}

func TestLanguage(t *testing.T) {
	if l, err := ParseLanguage(" TR "); err != nil || l != Turkish {
		t.Fatalf("ParseLanguage = %v, %v", l, err)
	}
	if _, err := ParseLanguage("de"); err == nil {
		t.Fatal("de should be unsupported")
	}
	if got := Turkish.Upper("istanbul"); got != "İSTANBUL" {
		t.Errorf("Turkish.Upper = %q", got)
	}
	if got := English.Upper("istanbul"); got != "ISTANBUL" {
		t.Errorf("English.Upper = %q", got)
	}
	if n := len(Turkish.Alphabet()); n != 29 {
		t.Errorf("Turkish alphabet has %d letters, want 29", n)
	}
	if n := len(English.Alphabet()); n != 26 {
		t.Errorf("English alphabet has %d letters, want 26", n)
	}
}
