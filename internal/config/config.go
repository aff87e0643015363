// apps/go-server/internal/config/config.go
//
// Process configuration.
//
// Values come from the environment; a .env file in the working directory is
// loaded first (development convenience, missing file is fine). Every field
// has a default so the server starts with no configuration at all.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/game"
)

// Config is the full server configuration.
type Config struct {
	Port      string `env:"PORT"       envDefault:"5175"`
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"false"`

	JWTSecret    string        `env:"JWT_SECRET"    envDefault:"dev_secret_change_me"`
	TokenTTL     time.Duration `env:"TOKEN_TTL"     envDefault:"1h"`
	ClientOrigin string        `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	DailySalt    string        `env:"DAILY_SALT"    envDefault:"local_dev_salt"`

	// Word dataset: WORDS_DB (SQLite, see `import`) wins over WORDS_DIR;
	// with neither set the embedded lists are used.
	WordsDir string `env:"WORDS_DIR"`
	WordsDB  string `env:"WORDS_DB"`

	TickInterval      time.Duration `env:"TICK_INTERVAL"      envDefault:"1s"`
	AdvanceDelay      time.Duration `env:"ADVANCE_DELAY"      envDefault:"600ms"`
	FinishedRetention time.Duration `env:"FINISHED_RETENTION" envDefault:"10m"`

	BankSize          int  `env:"BANK_SIZE"            envDefault:"21"`
	HintCap           int  `env:"HINT_CAP"             envDefault:"5"`
	HintPenalty       int  `env:"HINT_PENALTY"         envDefault:"2"`
	SuccessBonus      int  `env:"SUCCESS_BONUS"        envDefault:"2"`
	WordsPerLength    int  `env:"WORDS_PER_LENGTH"     envDefault:"5"`
	ScorePerLength    int  `env:"SCORE_PER_LENGTH"     envDefault:"10"`
	MinWordLength     int  `env:"MIN_WORD_LENGTH"      envDefault:"4"`
	SkipCountsAsFound bool `env:"SKIP_COUNTS_AS_FOUND" envDefault:"false"`
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

// FromMap parses cfg from an explicit variable set instead of the process
// environment.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the env parser cannot.
func (c Config) Validate() error {
	if c.TickInterval <= 0 {
		return errors.New("config: TICK_INTERVAL must be positive")
	}
	if c.AdvanceDelay < 0 {
		return errors.New("config: ADVANCE_DELAY must not be negative")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if err := c.Game().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Game returns the engine rules.
func (c Config) Game() game.Config {
	return game.Config{
		BankSize:               c.BankSize,
		HintCap:                c.HintCap,
		HintTimePenalty:        c.HintPenalty,
		SuccessTimeBonus:       c.SuccessBonus,
		WordsPerLengthIncrease: c.WordsPerLength,
		ScorePerLengthUnit:     c.ScorePerLength,
		MinWordLength:          c.MinWordLength,
		SkipCountsAsFound:      c.SkipCountsAsFound,
	}
}
