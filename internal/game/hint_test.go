package game

import (
	"reflect"
	"testing"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

func TestSelectDistractors(t *testing.T) {
	cases := []struct {
		name  string
		bank  string
		word  string
		place []int
		max   int
		want  []int
	}{
		{
			name: "bombs in scan order up to the cap",
			bank: "XCYOZDWEVU",
			word: "CODE",
			max:  5,
			want: []int{0, 2, 4, 6, 8},
		},
		{
			name: "cap smaller than distractors",
			bank: "XCYOZDWEVU",
			word: "CODE",
			max:  2,
			want: []int{0, 2},
		},
		{
			name: "extra copies of a needed letter are distractors",
			bank: "CCODEE",
			word: "CODE",
			max:  5,
			want: []int{1, 5},
		},
		{
			name:  "placed letters reduce what is needed",
			bank:  "CODECX",
			word:  "CODE",
			place: []int{0},
			max:   5,
			// Tile 4 (second C) is no longer needed once tile 0 is placed.
			want: []int{4, 5},
		},
		{
			name:  "wrong placed letters are ignored",
			bank:  "XCODE",
			word:  "CODE",
			place: []int{0},
			max:   5,
			want:  nil,
		},
		{
			name: "nothing to bomb",
			bank: "CODE",
			word: "CODE",
			max:  5,
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := bankOf(tc.bank)
			a := NewAnswer(len([]rune(tc.word)), b)
			for _, i := range tc.place {
				if _, err := a.Place(i); err != nil {
					t.Fatal(err)
				}
			}
			got := SelectDistractors(b, a, tc.word, tc.max)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for _, i := range got {
				if !b.Bombed(i) || b.Free(i) {
					t.Fatalf("tile %d should be bombed", i)
				}
			}
		})
	}
}

func TestSelectDistractorsKeepsWordConstructible(t *testing.T) {
	rng := seeded(11)
	for _, word := range []string{"CODE", "BALLOON", "MISSISSIPPI", "AAAA"} {
		for run := 0; run < 200; run++ {
			b := GenerateBank(rng, word, words.English, 21)
			a := NewAnswer(len(word), b)
			// Place a random prefix of the word.
			for _, r := range word[:rng.IntN(len(word))] {
				a.Place(freeTile(b, r))
			}

			for hint := 0; hint < 4; hint++ {
				got := SelectDistractors(b, a, word, 5)
				if len(got) > 5 {
					t.Fatalf("bombed %d tiles, cap is 5", len(got))
				}
			}

			// Remaining word letters must still be available on free tiles.
			need := letterCounts([]rune(word))
			for _, s := range a.Slots() {
				if s.Letter != 0 {
					need[s.Letter]--
				}
			}
			for i := 0; i < b.Len(); i++ {
				if tile, _ := b.Tile(i); b.Free(i) {
					need[tile.Letter]--
				}
			}
			for r, n := range need {
				if n > 0 {
					t.Fatalf("%s: hint bombed a required %q (bank %q)", word, r, string(b.Letters()))
				}
			}
		}
	}
}
