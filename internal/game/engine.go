// apps/go-server/internal/game/engine.go
//
// Session controller: the state machine of one timed play session.
//
//	loading → awaiting_input → round_success → loading → ...
//	                 ↺ fail (slots full, wrong word: streak reset, slots cleared)
//	any phase → over (timer expired; terminal)
//
// Pause is an orthogonal flag that only stops Tick from counting down.
//
// The engine is deterministic and holds no timers. Every mutating call returns
// a Result (outcome tag + events); a caller owns the clock (Tick), the delay
// between a solved word and the next question (NextRound), and all animation.
// Calls must be serialized by the caller; a Session is not safe for concurrent use.

package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

// WordSource supplies questions; *words.Catalog implements it.
type WordSource interface {
	Question(rng words.Rand, lang words.Language, length, level int) words.Question
}

// Session is one timed play session.
type Session struct {
	ID string

	cfg      Config
	settings Settings
	src      WordSource
	rng      *rand.Rand

	phase    Phase
	timer    Timer
	stats    Stats
	question words.Question
	bank     *Bank
	answer   *Answer
}

// NewSession validates cfg and settings and returns a session that has not
// started yet. rng is owned by the session from here on.
func NewSession(cfg Config, settings Settings, src WordSource, rng *rand.Rand) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if src == nil || rng == nil {
		return nil, fmt.Errorf("game: nil word source or rng")
	}
	lang, _ := words.ParseLanguage(string(settings.Language))
	settings.Language = lang

	return &Session{
		ID:       uuid.NewString(),
		cfg:      cfg,
		settings: settings,
		src:      src,
		rng:      rng,
		phase:    PhaseLoading,
		timer:    Timer{Remaining: settings.DurationSeconds, Total: settings.DurationSeconds},
		stats: Stats{
			CurrentWordLength:    cfg.MinWordLength,
			MaxWordLengthReached: cfg.MinWordLength,
		},
	}, nil
}

// Start loads the first question. Calling it again is a no-op.
func (s *Session) Start() Result {
	if s.bank != nil || s.phase == PhaseOver {
		return Result{Outcome: OutcomeNone}
	}
	return Result{Outcome: OutcomeRound, Events: []Event{s.loadQuestion()}}
}

// NextRound moves a solved round on to a new question at the current length.
func (s *Session) NextRound() (Result, error) {
	if err := s.guard(); err != nil {
		return Result{}, err
	}
	if s.phase != PhaseSolved {
		return Result{Outcome: OutcomeNone}, nil
	}
	return Result{Outcome: OutcomeRound, Events: []Event{s.loadQuestion()}}, nil
}

func (s *Session) loadQuestion() Event {
	s.phase = PhaseLoading
	lang := s.settings.Language

	q := s.src.Question(s.rng, lang, s.stats.CurrentWordLength, s.settings.Level)
	q.Word = lang.Upper(q.Word)
	if q.Word == "" {
		q = words.NoQuestion
	}
	s.question = q
	s.bank = GenerateBank(s.rng, q.Word, lang, s.cfg.BankSize)
	s.answer = NewAnswer(q.Len(), s.bank)
	s.phase = PhaseAwaiting

	return Event{Kind: EventRoundStarted, Length: q.Len(), Remaining: s.timer.Remaining}
}

// PlaceLetter handles a tap on bank tile i. Taps on used tiles and taps
// outside awaiting_input are tolerated as OutcomeNone.
func (s *Session) PlaceLetter(i int) (Result, error) {
	if err := s.guard(); err != nil {
		return Result{}, err
	}
	if s.phase != PhaseAwaiting {
		return Result{Outcome: OutcomeNone}, nil
	}
	slot, err := s.answer.Place(i)
	if err != nil {
		return Result{Outcome: OutcomeNone}, nil
	}

	res := Result{
		Outcome: OutcomePlaced,
		Events:  []Event{{Kind: EventLetterPlaced, Tile: i, Slot: slot, Remaining: s.timer.Remaining}},
	}
	if !s.answer.IsComplete() {
		return res, nil
	}
	if s.answer.Matches(s.question.Word) {
		res.Outcome = OutcomeSuccess
		res.Events = append(res.Events, s.solve(false)...)
		return res, nil
	}

	s.stats.CurrentStreak = 0
	s.answer.Reset()
	res.Outcome = OutcomeFail
	res.Events = append(res.Events, Event{Kind: EventRoundFailed, Remaining: s.timer.Remaining})
	return res, nil
}

// RemoveLetter handles a tap on answer slot i.
func (s *Session) RemoveLetter(i int) (Result, error) {
	if err := s.guard(); err != nil {
		return Result{}, err
	}
	if s.phase != PhaseAwaiting {
		return Result{Outcome: OutcomeNone}, nil
	}
	tile := NoTile
	if i >= 0 && i < s.answer.Len() {
		tile = s.answer.slots[i].Tile
	}
	if !s.answer.Remove(i) {
		return Result{Outcome: OutcomeNone}, nil
	}
	return Result{
		Outcome: OutcomeRemoved,
		Events:  []Event{{Kind: EventLetterRemoved, Tile: tile, Slot: i, Remaining: s.timer.Remaining}},
	}, nil
}

// Hint bombs up to HintCap distractors and charges HintTimePenalty once,
// even when nothing could be bombed. Time is clamped at 0; expiry is only
// evaluated by the next Tick.
func (s *Session) Hint() (Result, error) {
	if err := s.guard(); err != nil {
		return Result{}, err
	}
	if s.phase != PhaseAwaiting {
		return Result{Outcome: OutcomeNone}, nil
	}
	s.timer.Remaining = max(s.timer.Remaining-s.cfg.HintTimePenalty, 0)
	s.stats.HintsUsed++
	bombed := SelectDistractors(s.bank, s.answer, s.question.Word, s.cfg.HintCap)

	return Result{
		Outcome: OutcomeHint,
		Events: []Event{
			{Kind: EventTilesBombed, Tiles: bombed, Remaining: s.timer.Remaining},
			{Kind: EventTimeChanged, Remaining: s.timer.Remaining},
		},
	}, nil
}

// Skip reveals the word and ends the round without score or time bonus.
func (s *Session) Skip() (Result, error) {
	if err := s.guard(); err != nil {
		return Result{}, err
	}
	if s.phase != PhaseAwaiting {
		return Result{Outcome: OutcomeNone}, nil
	}
	s.stats.CurrentStreak = 0
	s.answer.Fill(s.question.Word)
	return Result{Outcome: OutcomeSkip, Events: s.solve(true)}, nil
}

// solve applies the success path. Skips reveal the word like a solve but
// grant no score and no time; they count toward TotalWordsFound only when
// Config.SkipCountsAsFound is set.
func (s *Session) solve(skipped bool) []Event {
	s.phase = PhaseSolved
	var events []Event

	if skipped {
		s.stats.WordsSkipped++
		events = append(events, Event{Kind: EventRoundSkipped, Word: s.question.Word, Remaining: s.timer.Remaining})
		if s.cfg.SkipCountsAsFound {
			events = append(events, s.countFound()...)
		}
		return events
	}

	s.stats.CurrentStreak++
	s.stats.MaxStreak = max(s.stats.MaxStreak, s.stats.CurrentStreak)
	events = append(events, s.countFound()...)
	s.stats.Score += s.cfg.ScorePerLengthUnit * s.stats.CurrentWordLength
	s.timer.Remaining += s.cfg.SuccessTimeBonus

	return append([]Event{{Kind: EventRoundSolved, Word: s.question.Word, Remaining: s.timer.Remaining}}, events...)
}

// countFound records a found word and grows the word length on every
// WordsPerLengthIncrease-th one.
func (s *Session) countFound() []Event {
	s.stats.TotalWordsFound++
	if s.stats.TotalWordsFound%s.cfg.WordsPerLengthIncrease != 0 {
		return nil
	}
	s.stats.CurrentWordLength++
	s.stats.MaxWordLengthReached = max(s.stats.MaxWordLengthReached, s.stats.CurrentWordLength)
	return []Event{{Kind: EventLengthIncrease, Length: s.stats.CurrentWordLength, Remaining: s.timer.Remaining}}
}

// TogglePause flips the pause flag. Input is not blocked while paused.
func (s *Session) TogglePause() (Result, error) {
	if err := s.guard(); err != nil {
		return Result{}, err
	}
	s.timer.Paused = !s.timer.Paused
	if s.timer.Paused {
		return Result{Outcome: OutcomePaused, Events: []Event{{Kind: EventPaused, Remaining: s.timer.Remaining}}}, nil
	}
	return Result{Outcome: OutcomeResumed, Events: []Event{{Kind: EventResumed, Remaining: s.timer.Remaining}}}, nil
}

// Tick advances the countdown by delta seconds. Expiry is checked before the
// pause flag, so a session already at 0 ends even while paused, and it ends
// exactly once: later calls return ErrSessionOver.
func (s *Session) Tick(delta int) (Result, error) {
	if err := s.guard(); err != nil {
		return Result{}, err
	}
	if s.timer.Remaining <= 0 {
		return s.expire(), nil
	}
	if s.timer.Paused || delta <= 0 {
		return Result{Outcome: OutcomeNone}, nil
	}
	s.timer.Remaining -= delta
	if s.timer.Remaining <= 0 {
		s.timer.Remaining = 0
		return s.expire(), nil
	}
	return Result{Outcome: OutcomeTick, Events: []Event{{Kind: EventTimeChanged, Remaining: s.timer.Remaining}}}, nil
}

func (s *Session) expire() Result {
	s.phase = PhaseOver
	final := s.stats
	return Result{Outcome: OutcomeOver, Events: []Event{{Kind: EventSessionOver, Stats: &final}}}
}

func (s *Session) guard() error {
	if s.phase == PhaseOver {
		return ErrSessionOver
	}
	if s.bank == nil {
		return ErrNotStarted
	}
	return nil
}

// Phase returns the current round phase.
func (s *Session) Phase() Phase { return s.phase }

// Over reports whether the session has ended.
func (s *Session) Over() bool { return s.phase == PhaseOver }

// Stats returns a copy of the running stats.
func (s *Session) Stats() Stats { return s.stats }

// Timer returns a copy of the timer state.
func (s *Session) Timer() Timer { return s.timer }

// Settings returns the settings the session was created with.
func (s *Session) Settings() Settings { return s.settings }

// Question returns the current question, answer included.
func (s *Session) Question() words.Question { return s.question }

// Bank returns the current letter bank; nil before Start.
func (s *Session) Bank() *Bank { return s.bank }

// Answer returns the current answer row; nil before Start.
func (s *Session) Answer() *Answer { return s.answer }

// Snapshot renders the session without revealing the answer.
func (s *Session) Snapshot() View {
	v := View{
		Phase:    s.phase,
		Language: s.settings.Language,
		Level:    s.settings.Level,
		Timer:    s.timer,
		Stats:    s.stats,
		Prompt:   s.question.Prompt,
		Length:   s.question.Len(),
		Sentinel: s.question.IsSentinel(),
	}
	if s.bank == nil {
		return v
	}
	v.Bank = make([]TileView, s.bank.Len())
	for i, t := range s.bank.tiles {
		v.Bank[i] = TileView{
			Index:    i,
			Letter:   string(t.Letter),
			Disabled: !s.bank.Free(i),
			Bombed:   s.bank.Bombed(i),
		}
	}
	v.Slots = make([]SlotView, s.answer.Len())
	for i, sl := range s.answer.slots {
		v.Slots[i] = SlotView{Tile: sl.Tile}
		if !sl.empty() {
			v.Slots[i].Letter = string(sl.Letter)
		}
	}
	return v
}
