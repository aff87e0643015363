// apps/go-server/internal/words/catalog.go
//
// Catalog is the WordSource used by game sessions.
//
// Selection rules for Question(rng, lang, length, level):
//  1. Resolve the length: if the language has no words of the requested
//     length, use the LONGEST available length (not the nearest one).
//  2. Filter that length's words by difficulty level; an empty filter result
//     falls back to every word of that length.
//  3. Pick uniformly at random with the caller's RNG.
//  4. If nothing is left, return NoQuestion.
//
// A Catalog is immutable after loading and safe for concurrent use; the RNG is
// owned by the caller (one per session), so no random state is shared.

package words

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/robalobadob/wordbomb/apps/go-server/assets"
)

// Rand is the subset of *math/rand/v2.Rand the catalog needs.
type Rand interface {
	IntN(n int) int
}

// Catalog holds one question pool per language.
type Catalog struct {
	pools map[Language]pool
}

// LanguageStats summarizes a loaded language for diagnostics.
type LanguageStats struct {
	Language Language `json:"language"`
	Words    int      `json:"words"`
	Lengths  []int    `json:"lengths"`
}

func newCatalog() *Catalog { return &Catalog{pools: make(map[Language]pool)} }

// Question returns a random question for lang at the requested length and level.
func (c *Catalog) Question(rng Rand, lang Language, length, level int) Question {
	p, ok := c.pools[lang]
	if !ok {
		return NoQuestion
	}
	lengths := p.lengths()
	if len(lengths) == 0 {
		return NoQuestion
	}
	if !slices.Contains(lengths, length) {
		length = lengths[len(lengths)-1]
	}

	ofLength := p.ofLength(length)
	candidates := lo.Filter(ofLength, func(q Question, _ int) bool { return q.Level == level })
	if len(candidates) == 0 {
		candidates = ofLength
	}
	if len(candidates) == 0 {
		return NoQuestion
	}
	return candidates[rng.IntN(len(candidates))]
}

// Stats reports word counts and available lengths per language.
func (c *Catalog) Stats() []LanguageStats {
	out := make([]LanguageStats, 0, len(c.pools))
	for _, lang := range Languages() {
		p, ok := c.pools[lang]
		if !ok {
			continue
		}
		out = append(out, LanguageStats{Language: lang, Words: p.size(), Lengths: p.lengths()})
	}
	return out
}

// Parse builds a single-language catalog from raw JSON in either dataset shape.
func Parse(lang Language, data []byte) (*Catalog, error) {
	p, err := decodePool(lang, data)
	if err != nil {
		return nil, fmt.Errorf("words %s: %w", lang, err)
	}
	c := newCatalog()
	c.pools[lang] = p
	return c, nil
}

// LoadEmbedded loads the datasets compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	c := newCatalog()
	for _, lang := range Languages() {
		data, err := assets.WordList(string(lang))
		if err != nil {
			return nil, fmt.Errorf("embedded %s: %w", lang, err)
		}
		p, err := decodePool(lang, data)
		if err != nil {
			return nil, fmt.Errorf("embedded %s: %w", lang, err)
		}
		c.pools[lang] = p
	}
	return c, nil
}

// LoadDir loads words_<lang>.json files from dir.
// Missing files are skipped; at least one language must load.
func LoadDir(dir string) (*Catalog, error) {
	c := newCatalog()
	for _, lang := range Languages() {
		path := filepath.Join(dir, "words_"+string(lang)+".json")
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("word list missing, language disabled")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		p, err := decodePool(lang, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		c.pools[lang] = p
	}
	if len(c.pools) == 0 {
		return nil, fmt.Errorf("words: no word lists found in %s", dir)
	}
	return c, nil
}

// LoadSQLite loads every language from the questions table of an imported
// dataset. Rows are read once; the database is not consulted afterwards.
func LoadSQLite(ctx context.Context, db *sql.DB) (*Catalog, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT language, word, prompt, level FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	byLang := make(map[Language][]Question)
	for rows.Next() {
		var (
			code string
			q    Question
		)
		if err := rows.Scan(&code, &q.Word, &q.Prompt, &q.Level); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		lang, err := ParseLanguage(code)
		if err != nil {
			log.Warn().Str("language", code).Msg("skipping question with unknown language")
			continue
		}
		q.Word = lang.Upper(q.Word)
		byLang[lang] = append(byLang[lang], q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(byLang) == 0 {
		return nil, fmt.Errorf("words: questions table is empty")
	}

	c := newCatalog()
	for lang, qs := range byLang {
		c.pools[lang] = newFlatPool(qs)
	}
	return c, nil
}

// Load picks a dataset source: SQLite when db is set, then dir, then the
// embedded defaults.
func Load(ctx context.Context, dir string, db *sql.DB) (*Catalog, error) {
	switch {
	case db != nil:
		return LoadSQLite(ctx, db)
	case dir != "":
		return LoadDir(dir)
	default:
		return LoadEmbedded()
	}
}
