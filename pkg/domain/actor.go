package domain

import "golang.org/x/text/language"

// Actor is a speaker identity used to tag dialogue lines.
type Actor struct {
	ID    string                  `json:"id" yaml:"id"`
	Names map[language.Tag]string `json:"-" yaml:"-"`
}

// Name returns the display name for tag, falling back to the base language
// and finally to the actor ID.
func (a Actor) Name(tag language.Tag) string {
	if n, ok := a.Names[tag]; ok {
		return n
	}
	base, _ := tag.Base()
	for t, n := range a.Names {
		if b, _ := t.Base(); b == base {
			return n
		}
	}
	return a.ID
}
