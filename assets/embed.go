// Package assets embeds the default word datasets and the SQL migrations for
// the imported dataset database.
package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed words_en.json words_tr.json sql/*.sql
var FS embed.FS

// WordList returns the raw JSON dataset for a language code ("en", "tr").
func WordList(lang string) ([]byte, error) {
	return FS.ReadFile("words_" + lang + ".json")
}

// Migration is one embedded SQL script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded sql/*.sql scripts in lexical order.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(FS, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, n := range names {
		b, err := FS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Name: n, SQL: string(b)})
	}
	return out, nil
}
