package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the drama banner and version.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"     _                           ", "#818cf8"},
		{"  __| |_ __ __ _ _ __ ___   __ _ ", "#a78bfa"},
		{" / _` | '__/ _` | '_ ` _ \\ / _` |", "#c084fc"},
		{"| (_| | | | (_| | | | | | | (_| |", "#e879f9"},
		{" \\__,_|_|  \\__,_|_| |_| |_|\\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  "+version).Faint())
	fmt.Fprintln(w)
}
