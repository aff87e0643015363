// apps/go-server/internal/game/bank.go
//
// Letter bank generation.
//
// A bank holds every letter of the target word (duplicates included, so the
// word is always constructible) padded with uniform-random letters from the
// language alphabet up to the bank size, then shuffled with an unbiased
// Fisher–Yates pass. Tile indices are assigned after the shuffle and never
// change; only the per-tile state moves between free, placed and bombed.

package game

import (
	"math/rand/v2"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

// NoTile marks a slot that references no bank tile.
const NoTile = -1

type tileState uint8

const (
	tileFree   tileState = iota
	tilePlaced           // referenced by an answer slot
	tileBombed           // removed by a hint for the rest of the round
)

// Tile is one letter in the bank.
type Tile struct {
	Letter rune
	Index  int
}

// Bank is the shuffled letter pool of one round.
type Bank struct {
	tiles []Tile
	state []tileState
}

// GenerateBank builds a shuffled bank of size tiles for word in lang.
// If the word has size letters or more, the bank is just the shuffled word.
func GenerateBank(rng *rand.Rand, word string, lang words.Language, size int) *Bank {
	letters := []rune(lang.Upper(word))
	alphabet := lang.Alphabet()
	for len(letters) < size {
		letters = append(letters, alphabet[rng.IntN(len(alphabet))])
	}
	rng.Shuffle(len(letters), func(i, j int) {
		letters[i], letters[j] = letters[j], letters[i]
	})

	b := &Bank{
		tiles: make([]Tile, len(letters)),
		state: make([]tileState, len(letters)),
	}
	for i, r := range letters {
		b.tiles[i] = Tile{Letter: r, Index: i}
	}
	return b
}

// Len is the number of tiles.
func (b *Bank) Len() int { return len(b.tiles) }

// Tile returns the tile at i; ok is false when i is out of range.
func (b *Bank) Tile(i int) (Tile, bool) {
	if i < 0 || i >= len(b.tiles) {
		return Tile{}, false
	}
	return b.tiles[i], true
}

// Letters returns the bank letters in tile order.
func (b *Bank) Letters() []rune {
	out := make([]rune, len(b.tiles))
	for i, t := range b.tiles {
		out[i] = t.Letter
	}
	return out
}

// Free reports whether tile i can be tapped.
func (b *Bank) Free(i int) bool {
	return i >= 0 && i < len(b.state) && b.state[i] == tileFree
}

// Bombed reports whether tile i was removed by a hint.
func (b *Bank) Bombed(i int) bool {
	return i >= 0 && i < len(b.state) && b.state[i] == tileBombed
}

// Placed counts tiles currently referenced by answer slots.
func (b *Bank) Placed() int {
	n := 0
	for _, s := range b.state {
		if s == tilePlaced {
			n++
		}
	}
	return n
}

// EnableAll returns every tile, bombed ones included, to the free state.
func (b *Bank) EnableAll() {
	for i := range b.state {
		b.state[i] = tileFree
	}
}

func (b *Bank) set(i int, s tileState) { b.state[i] = s }
