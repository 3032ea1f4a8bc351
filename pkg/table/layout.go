package table

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Fixed column names.
const (
	ColStep    = "step"
	ColJump    = "jump"
	ColIf      = "if"
	ColIf2     = "if2"
	ColAction  = "action"
	ColParam   = "param"
	ColActor   = "actor"
	ColVersion = "version"
	ColID      = "id"

	// TextPrefix starts every localized text column.
	TextPrefix = "text_"
)

// DefaultOffset is the number of rows before the first data row: the header plus reserved rows.
const DefaultOffset = 5

var fixedColumns = []string{ColStep, ColJump, ColIf, ColIf2, ColAction, ColParam, ColActor, ColVersion, ColID}

// Locale binds a language tag to the suffix of its text column.
type Locale struct {
	Tag    language.Tag
	Column string
}

// Header returns the full column name, e.g. "text_JP".
func (l Locale) Header() string {
	return TextPrefix + l.Column
}

// ParseLocale reads "tag=COLUMN" (e.g. "ja=JP") or a bare tag ("en"),
// whose column defaults to the upper-cased base language.
func ParseLocale(s string) (Locale, error) {
	tagStr, column, _ := strings.Cut(strings.TrimSpace(s), "=")
	tag, err := language.Parse(tagStr)
	if err != nil {
		return Locale{}, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	if column == "" {
		base, _ := tag.Base()
		column = strings.ToUpper(base.String())
	}
	return Locale{Tag: tag, Column: column}, nil
}

// ParseLocales parses a list of locale specs, rejecting duplicate columns.
func ParseLocales(specs []string) ([]Locale, error) {
	seen := make(map[string]bool)
	out := make([]Locale, 0, len(specs))
	for _, s := range specs {
		l, err := ParseLocale(s)
		if err != nil {
			return nil, err
		}
		if seen[l.Column] {
			return nil, fmt.Errorf("duplicate locale column %q", l.Column)
		}
		seen[l.Column] = true
		out = append(out, l)
	}
	return out, nil
}

// DefaultLocales returns the engine's stock text columns: text_JP and text_EN.
func DefaultLocales() []Locale {
	return []Locale{
		{Tag: language.Japanese, Column: "JP"},
		{Tag: language.English, Column: "EN"},
	}
}

// Layout describes how entries are placed on a sheet.
type Layout struct {
	Locales []Locale
	Offset  int
}

// DefaultLayout returns the engine's stock layout.
func DefaultLayout() Layout {
	return Layout{Locales: DefaultLocales(), Offset: DefaultOffset}
}

// Header returns the ordered column names.
func (l Layout) Header() []string {
	h := make([]string, 0, len(fixedColumns)+len(l.Locales))
	h = append(h, fixedColumns...)
	for _, loc := range l.Locales {
		h = append(h, loc.Header())
	}
	return h
}

func (l Layout) offset() int {
	if l.Offset < 1 {
		return DefaultOffset
	}
	return l.Offset
}
