// apps/go-server/internal/game/hint.go
//
// Hint ("bomb") selection.
//
// The needed multiset starts as the target word's letters minus one occurrence
// of every filled slot letter (letters that are not in the word are ignored).
// Free tiles are then scanned in index order:
//   - letter still needed → reserve one occurrence, keep the tile.
//   - letter not needed   → bomb the tile.
// Scanning stops once maxCount tiles are bombed. Placed and bombed tiles are
// skipped, so a letter required to finish the word is never bombed.

package game

// SelectDistractors bombs up to maxCount distractor tiles and returns their
// indices in scan order. The time penalty is the caller's concern.
func SelectDistractors(bank *Bank, answer *Answer, word string, maxCount int) []int {
	needed := make(map[rune]int)
	for _, r := range word {
		needed[r]++
	}
	for _, s := range answer.slots {
		if !s.empty() && needed[s.Letter] > 0 {
			needed[s.Letter]--
		}
	}

	var bombed []int
	for i, t := range bank.tiles {
		if len(bombed) >= maxCount {
			break
		}
		if !bank.Free(i) {
			continue
		}
		if needed[t.Letter] > 0 {
			needed[t.Letter]--
			continue
		}
		bank.set(i, tileBombed)
		bombed = append(bombed, i)
	}
	return bombed
}
