// apps/go-server/internal/words/dataset.go
//
// Dataset adapters for question lists.
//
// Two JSON shapes exist in the wild and both are supported:
//   - flat:   [{"a":"KEDİ","q":"Miyavlayan hayvan","level":1}, ...]
//   - legacy: {"4":[{"a":"KEDİ","q":"..."}], "5":[...]}   (grouped by length)
//
// The shape is detected once, when a dataset is decoded, and yields one of two
// pool implementations. Everything downstream (Catalog.Question) only sees the
// pool capability and never branches on the shape again.

package words

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Question is one puzzle: the target word and the clue shown to the player.
type Question struct {
	Word   string `json:"word"`   // canonical uppercase
	Prompt string `json:"prompt"` // clue text
	Level  int    `json:"level"`  // difficulty tag; 0 when the dataset has none
}

// NoQuestion is returned when no word matches a request after every fallback.
// It is a playable placeholder, not an error.
var NoQuestion = Question{Word: "HATA", Prompt: "Soru bulunamadı.", Level: 1}

// IsSentinel reports whether q is the NoQuestion placeholder.
func (q Question) IsSentinel() bool { return q == NoQuestion }

// Len is the word length in letters.
func (q Question) Len() int { return utf8.RuneCountInString(q.Word) }

// ErrUnknownShape is returned for datasets that are neither a JSON array nor an object.
var ErrUnknownShape = errors.New("words: dataset is neither a list nor a length-keyed object")

// entry is the on-disk representation shared by both shapes.
type entry struct {
	A     string `json:"a"`
	Q     string `json:"q"`
	Level int    `json:"level,omitempty"`
}

// pool is the read-only view the catalog selects from.
type pool interface {
	// lengths returns the distinct word lengths available, ascending.
	lengths() []int
	// ofLength returns every question filed under length n.
	ofLength(n int) []Question
	// size is the total number of questions.
	size() int
}

// flatPool serves a flat question list; lengths are derived from the words.
type flatPool struct {
	questions []Question
}

func newFlatPool(qs []Question) *flatPool {
	return &flatPool{questions: qs}
}

func (p *flatPool) lengths() []int {
	ls := lo.Uniq(lo.Map(p.questions, func(q Question, _ int) int { return q.Len() }))
	slices.Sort(ls)
	return ls
}

func (p *flatPool) ofLength(n int) []Question {
	return lo.Filter(p.questions, func(q Question, _ int) bool { return q.Len() == n })
}

func (p *flatPool) size() int { return len(p.questions) }

// lengthKeyedPool serves the legacy grouping; the group key is authoritative
// for the length even when a word disagrees with it.
type lengthKeyedPool struct {
	groups map[int][]Question
}

func (p *lengthKeyedPool) lengths() []int {
	ls := lo.Keys(p.groups)
	slices.Sort(ls)
	return ls
}

func (p *lengthKeyedPool) ofLength(n int) []Question { return p.groups[n] }

func (p *lengthKeyedPool) size() int {
	return lo.SumBy(lo.Values(p.groups), func(qs []Question) int { return len(qs) })
}

// decodePool inspects the JSON structure of data and builds the matching adapter.
func decodePool(lang Language, data []byte) (pool, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrUnknownShape
	}
	switch data[0] {
	case '[':
		var raw []entry
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode flat dataset: %w", err)
		}
		return newFlatPool(normalizeEntries(lang, raw)), nil
	case '{':
		var raw map[string][]entry
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode legacy dataset: %w", err)
		}
		groups := make(map[int][]Question, len(raw))
		for key, list := range raw {
			n, err := strconv.Atoi(key)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("decode legacy dataset: bad length key %q", key)
			}
			if qs := normalizeEntries(lang, list); len(qs) > 0 {
				groups[n] = qs
			}
		}
		return &lengthKeyedPool{groups: groups}, nil
	}
	return nil, ErrUnknownShape
}

// normalizeEntries uppercases words for lang and drops blank entries.
func normalizeEntries(lang Language, raw []entry) []Question {
	out := make([]Question, 0, len(raw))
	for _, e := range raw {
		w := lang.Upper(e.A)
		if w == "" {
			continue
		}
		out = append(out, Question{Word: w, Prompt: e.Q, Level: e.Level})
	}
	return out
}

// Decode returns every question of a dataset in either shape, ordered by length.
// It is used to import JSON datasets into SQLite.
func Decode(lang Language, data []byte) ([]Question, error) {
	p, err := decodePool(lang, data)
	if err != nil {
		return nil, err
	}
	out := make([]Question, 0, p.size())
	for _, n := range p.lengths() {
		out = append(out, p.ofLength(n)...)
	}
	return out, nil
}
