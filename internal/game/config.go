// apps/go-server/internal/game/config.go
//
// Tunables for the round/session engine.
//
// Config is passed by value into NewSession and never mutated afterwards, so
// every session carries its own copy. DefaultConfig matches the shipped game:
// 21-tile bank, 5 bombs per hint at -2s, +2s per solved word, +1 letter every
// 5 words, 10 points per letter of the current length.

package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

// Config holds the game rules.
type Config struct {
	BankSize               int  // tiles in every letter bank
	HintCap                int  // max distractors bombed per hint
	HintTimePenalty        int  // seconds removed per hint, clamped at 0
	SuccessTimeBonus       int  // seconds added per solved word
	WordsPerLengthIncrease int  // word length grows on every Nth word found
	ScorePerLengthUnit     int  // points per letter of the current length
	MinWordLength          int  // length of the first question
	SkipCountsAsFound      bool // skipped words count toward TotalWordsFound
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		BankSize:               21,
		HintCap:                5,
		HintTimePenalty:        2,
		SuccessTimeBonus:       2,
		WordsPerLengthIncrease: 5,
		ScorePerLengthUnit:     10,
		MinWordLength:          4,
	}
}

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid game config")

// Validate checks that every tunable is usable.
func (c Config) Validate() error {
	switch {
	case c.BankSize <= 0:
		return fmt.Errorf("%w: bank size %d", ErrInvalidConfig, c.BankSize)
	case c.HintCap < 0:
		return fmt.Errorf("%w: hint cap %d", ErrInvalidConfig, c.HintCap)
	case c.HintTimePenalty < 0 || c.SuccessTimeBonus < 0:
		return fmt.Errorf("%w: negative time adjustment", ErrInvalidConfig)
	case c.WordsPerLengthIncrease <= 0:
		return fmt.Errorf("%w: words per length increase %d", ErrInvalidConfig, c.WordsPerLengthIncrease)
	case c.ScorePerLengthUnit < 0:
		return fmt.Errorf("%w: score per length unit %d", ErrInvalidConfig, c.ScorePerLengthUnit)
	case c.MinWordLength <= 0:
		return fmt.Errorf("%w: min word length %d", ErrInvalidConfig, c.MinWordLength)
	}
	return nil
}

// Durations lists the selectable session lengths in seconds.
var Durations = []int{30, 60, 120, 300}

// Settings are the player's choices for one session.
type Settings struct {
	DurationSeconds int            `json:"durationSeconds"`
	Level           int            `json:"level"`
	Language        words.Language `json:"language"`
}

// ErrInvalidSettings is wrapped by Settings.Validate failures.
var ErrInvalidSettings = errors.New("invalid session settings")

// Validate checks the duration against Durations, the level and the language.
func (s Settings) Validate() error {
	if !slices.Contains(Durations, s.DurationSeconds) {
		return fmt.Errorf("%w: duration %ds not in %v", ErrInvalidSettings, s.DurationSeconds, Durations)
	}
	if s.Level < 1 {
		return fmt.Errorf("%w: level %d", ErrInvalidSettings, s.Level)
	}
	if _, err := words.ParseLanguage(string(s.Language)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}
