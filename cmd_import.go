package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

var (
	importDB   string
	importLang string
)

var importCmd = &cobra.Command{
	Use:   "import [files...]",
	Short: "Import JSON word lists into a SQLite dataset",
	Long: `Import reads word lists in either the flat ([{"a","q","level"}]) or the
legacy length-keyed ({"4":[...]}) shape and stores them in the questions table.
The language comes from --lang, or from a words_<lang>.json file name.
Serve the result with WORDS_DB=<path>.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := importDB
		if path == "" {
			path = cfg.WordsDB
		}
		if path == "" {
			return fmt.Errorf("import: set --db or WORDS_DB")
		}

		db, err := openDB(path)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := migrate(ctx, db); err != nil {
			return err
		}

		for _, file := range args {
			lang, err := languageFor(file, importLang)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			qs, err := words.Decode(lang, data)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			added, err := insertQuestions(ctx, db, lang, qs)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			log.Info().
				Str("file", file).
				Str("language", string(lang)).
				Int("read", len(qs)).
				Int64("added", added).
				Msg("imported")
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importDB, "db", "", "SQLite file to write (default WORDS_DB)")
	importCmd.Flags().StringVar(&importLang, "lang", "", "language of every file (en, tr)")
}

// languageFor resolves the language of file: flag wins, else words_<lang>.json.
func languageFor(file, flag string) (words.Language, error) {
	if flag != "" {
		return words.ParseLanguage(flag)
	}
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	code, ok := strings.CutPrefix(base, "words_")
	if !ok {
		return "", fmt.Errorf("import: cannot infer language of %s, use --lang", file)
	}
	return words.ParseLanguage(code)
}
