// apps/go-server/internal/game/answer.go
//
// AnswerState: the word-length row of slots the player fills from the bank.
//
// Rules:
//   - Place fills the FIRST empty slot (left to right) and marks the tile placed.
//   - Remove clears a slot and frees its tile.
//   - Matches is an ordered comparison; an anagram of the target does not match.
//
// Invariant: slots holding a tile reference == tiles in the placed state.

package game

import "strings"

// Slot is one answer position. Letter is 0 while empty.
type Slot struct {
	Letter rune
	Tile   int
}

func (s Slot) empty() bool { return s.Letter == 0 }

// Answer tracks the slots of one round against its bank.
type Answer struct {
	slots []Slot
	bank  *Bank
}

// NewAnswer returns an empty answer of n slots drawing from bank.
func NewAnswer(n int, bank *Bank) *Answer {
	a := &Answer{slots: make([]Slot, n), bank: bank}
	a.clear()
	return a
}

func (a *Answer) clear() {
	for i := range a.slots {
		a.slots[i] = Slot{Tile: NoTile}
	}
}

// Len is the number of slots.
func (a *Answer) Len() int { return len(a.slots) }

// Slots returns a copy of the slots.
func (a *Answer) Slots() []Slot { return append([]Slot(nil), a.slots...) }

// Place puts the letter of bank tile i into the first empty slot and returns
// that slot. Used, bombed or unknown tiles give ErrTileUnavailable and a full
// answer gives ErrAnswerFull; neither changes any state.
func (a *Answer) Place(i int) (int, error) {
	if !a.bank.Free(i) {
		return NoTile, ErrTileUnavailable
	}
	for s := range a.slots {
		if a.slots[s].empty() {
			t, _ := a.bank.Tile(i)
			a.slots[s] = Slot{Letter: t.Letter, Tile: i}
			a.bank.set(i, tilePlaced)
			return s, nil
		}
	}
	return NoTile, ErrAnswerFull
}

// Remove clears slot s and frees its tile. It reports false for empty or
// out-of-range slots.
func (a *Answer) Remove(s int) bool {
	if s < 0 || s >= len(a.slots) || a.slots[s].empty() {
		return false
	}
	if t := a.slots[s].Tile; t != NoTile {
		a.bank.set(t, tileFree)
	}
	a.slots[s] = Slot{Tile: NoTile}
	return true
}

// Filled counts non-empty slots.
func (a *Answer) Filled() int {
	n := 0
	for _, s := range a.slots {
		if !s.empty() {
			n++
		}
	}
	return n
}

// IsComplete reports whether every slot holds a letter.
func (a *Answer) IsComplete() bool { return a.Filled() == len(a.slots) }

// String concatenates the filled letters in slot order.
func (a *Answer) String() string {
	var sb strings.Builder
	for _, s := range a.slots {
		if !s.empty() {
			sb.WriteRune(s.Letter)
		}
	}
	return sb.String()
}

// Matches reports exact, ordered equality with word.
func (a *Answer) Matches(word string) bool {
	return a.IsComplete() && a.String() == word
}

// Reset empties every slot and frees every bank tile.
func (a *Answer) Reset() {
	a.clear()
	a.bank.EnableAll()
}

// Fill writes word into the slots without referencing bank tiles. Tiles that
// were placed are freed first so the placement invariant still holds.
func (a *Answer) Fill(word string) {
	for s := range a.slots {
		a.Remove(s)
	}
	for s, r := range []rune(word) {
		if s >= len(a.slots) {
			break
		}
		a.slots[s] = Slot{Letter: r, Tile: NoTile}
	}
}
