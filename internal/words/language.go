// apps/go-server/internal/words/language.go
//
// Supported puzzle languages and their letter sets.
//
// Every word handled by the engine is canonical uppercase for its language.
// Upper-casing goes through golang.org/x/text so Turkish dotted/dotless i
// map correctly (i → İ, ı → I) instead of following the Unicode default.

package words

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language identifies a word dataset and its alphabet.
type Language string

const (
	English Language = "en"
	Turkish Language = "tr"
)

const (
	alphabetEN = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphabetTR = "ABCÇDEFGĞHIİJKLMNOÖPRSŞTUÜVYZ"
)

// Languages lists every supported language in display order.
func Languages() []Language { return []Language{Turkish, English} }

// ParseLanguage normalizes a language code ("EN", " tr ") and validates it.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case English, Turkish:
		return l, nil
	}
	return "", fmt.Errorf("words: unsupported language %q", s)
}

// Alphabet returns the filler letter set for l.
// Unknown languages fall back to the English alphabet.
func (l Language) Alphabet() []rune {
	if l == Turkish {
		return []rune(alphabetTR)
	}
	return []rune(alphabetEN)
}

// Upper converts s to canonical uppercase using the casing rules of l.
func (l Language) Upper(s string) string {
	return cases.Upper(l.tag()).String(strings.TrimSpace(s))
}

func (l Language) tag() language.Tag {
	if l == Turkish {
		return language.Turkish
	}
	return language.English
}
