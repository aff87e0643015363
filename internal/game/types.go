// apps/go-server/internal/game/types.go
//
// Core type definitions for the word-bomb engine.
// Defines:
//   - Phase / Outcome: where a session is and what an action did.
//   - Event: values emitted for a presentation layer to animate.
//   - Stats / Timer: the running economy of a session.
//   - View: a read-only snapshot for rendering.

package game

import (
	"errors"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

// Phase is the round-level state of a session.
type Phase string

const (
	PhaseLoading  Phase = "loading"        // fetching the next question
	PhaseAwaiting Phase = "awaiting_input" // player is building the word
	PhaseSolved   Phase = "round_success"  // word complete, waiting for NextRound
	PhaseOver     Phase = "over"           // timer expired; terminal
)

// Outcome tags the effect of one engine call.
type Outcome string

const (
	OutcomeNone    Outcome = "none" // tolerated no-op (late or redundant input)
	OutcomePlaced  Outcome = "placed"
	OutcomeRemoved Outcome = "removed"
	OutcomeSuccess Outcome = "success"
	OutcomeFail    Outcome = "fail"
	OutcomeSkip    Outcome = "skip"
	OutcomeHint    Outcome = "hint"
	OutcomePaused  Outcome = "paused"
	OutcomeResumed Outcome = "resumed"
	OutcomeTick    Outcome = "tick"
	OutcomeRound   Outcome = "round"
	OutcomeOver    Outcome = "over"
)

// EventKind names an Event.
type EventKind string

const (
	EventRoundStarted   EventKind = "round_started"
	EventLetterPlaced   EventKind = "letter_placed"
	EventLetterRemoved  EventKind = "letter_removed"
	EventRoundSolved    EventKind = "round_solved"
	EventRoundFailed    EventKind = "round_failed"
	EventRoundSkipped   EventKind = "round_skipped"
	EventTilesBombed    EventKind = "tiles_bombed"
	EventLengthIncrease EventKind = "length_increased"
	EventTimeChanged    EventKind = "time_changed"
	EventPaused         EventKind = "paused"
	EventResumed        EventKind = "resumed"
	EventSessionOver    EventKind = "session_over"
)

// Event is a fact a presentation layer may react to. Only the fields relevant
// to Kind are set.
type Event struct {
	Kind      EventKind `json:"kind"`
	Tile      int       `json:"tile"`
	Slot      int       `json:"slot"`
	Tiles     []int     `json:"tiles,omitempty"`
	Word      string    `json:"word,omitempty"`   // revealed on solve/skip only
	Length    int       `json:"length,omitempty"` // word length of a new round / new current length
	Remaining int       `json:"remaining"`        // seconds left after the event
	Stats     *Stats    `json:"stats,omitempty"`  // final stats on session_over
}

// Result is what every mutating engine call returns.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Events  []Event `json:"events"`
}

// Stats is the economy of a session; finalized on session over.
type Stats struct {
	Score                int `json:"score"`
	CurrentStreak        int `json:"currentStreak"`
	MaxStreak            int `json:"maxStreak"`
	CurrentWordLength    int `json:"currentWordLength"`
	MaxWordLengthReached int `json:"maxWordLengthReached"`
	TotalWordsFound      int `json:"totalWordsFound"`
	WordsSkipped         int `json:"wordsSkipped"`
	HintsUsed            int `json:"hintsUsed"`
}

// Timer is the countdown state. Remaining may exceed Total after bonuses;
// only Remaining <= 0 means expired.
type Timer struct {
	Remaining int  `json:"remaining"`
	Total     int  `json:"total"`
	Paused    bool `json:"paused"`
}

// TileView is one bank tile as rendered.
type TileView struct {
	Index    int    `json:"index"`
	Letter   string `json:"letter"`
	Disabled bool   `json:"disabled"`
	Bombed   bool   `json:"bombed"`
}

// SlotView is one answer slot as rendered; Tile is NoTile when empty or forced.
type SlotView struct {
	Letter string `json:"letter"`
	Tile   int    `json:"tile"`
}

// View is a read-only render snapshot.
type View struct {
	Phase    Phase          `json:"phase"`
	Language words.Language `json:"language"`
	Level    int            `json:"level"`
	Timer    Timer          `json:"timer"`
	Stats    Stats          `json:"stats"`
	Prompt   string         `json:"prompt"`
	Length   int            `json:"length"`
	Sentinel bool           `json:"sentinel,omitempty"`
	Bank     []TileView     `json:"bank"`
	Slots    []SlotView     `json:"slots"`
}

var (
	// ErrSessionOver is returned by every operation after the timer expired.
	ErrSessionOver = errors.New("session over")
	// ErrNotStarted is returned when an action arrives before Start.
	ErrNotStarted = errors.New("session not started")
	// ErrTileUnavailable means the tile is out of range, placed or bombed.
	ErrTileUnavailable = errors.New("tile already used")
	// ErrAnswerFull means every slot is already filled.
	ErrAnswerFull = errors.New("answer full")
)
