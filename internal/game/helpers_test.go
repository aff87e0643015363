package game

import (
	"math/rand/v2"
	"testing"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

// stubSource serves fixed words by length and records every request.
type stubSource struct {
	byLength map[int]string
	asked    []int
}

func (s *stubSource) Question(_ words.Rand, _ words.Language, length, _ int) words.Question {
	s.asked = append(s.asked, length)
	w, ok := s.byLength[length]
	if !ok {
		return words.NoQuestion
	}
	return words.Question{Word: w, Prompt: "clue for " + w, Level: 1}
}

func newStub() *stubSource {
	return &stubSource{byLength: map[int]string{
		4: "CODE",
		5: "COMET",
		6: "PLANET",
	}}
}

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }

// bankOf builds a bank with the given letters in order.
func bankOf(letters string) *Bank {
	rs := []rune(letters)
	b := &Bank{tiles: make([]Tile, len(rs)), state: make([]tileState, len(rs))}
	for i, r := range rs {
		b.tiles[i] = Tile{Letter: r, Index: i}
	}
	return b
}

// freeTile returns the first free tile holding r, or NoTile.
func freeTile(b *Bank, r rune) int {
	for i, t := range b.tiles {
		if t.Letter == r && b.Free(i) {
			return i
		}
	}
	return NoTile
}

func newStarted(t *testing.T, cfg Config, src WordSource) *Session {
	t.Helper()
	s, err := NewSession(cfg, Settings{DurationSeconds: 60, Level: 1, Language: words.English}, src, seeded(7))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if res := s.Start(); res.Outcome != OutcomeRound {
		t.Fatalf("Start outcome = %s", res.Outcome)
	}
	return s
}

// spell places the letters of w in order and returns the last result.
func spell(t *testing.T, s *Session, w string) Result {
	t.Helper()
	var res Result
	for _, r := range w {
		i := freeTile(s.Bank(), r)
		if i == NoTile {
			t.Fatalf("no free tile for %q in %q", r, string(s.Bank().Letters()))
		}
		var err error
		if res, err = s.PlaceLetter(i); err != nil {
			t.Fatalf("PlaceLetter(%d): %v", i, err)
		}
	}
	return res
}

func hasEvent(res Result, kind EventKind) bool {
	for _, e := range res.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
