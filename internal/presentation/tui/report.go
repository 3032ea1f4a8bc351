package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/muesli/termenv"
)

// Report is what the CLI knows about one compiled graph.
type Report struct {
	Graph      string
	Rows       int
	Warnings   []domain.Warning
	Violations []error
}

// Clean reports whether there is nothing to show beyond the summary.
func (r Report) Clean() bool {
	return len(r.Warnings) == 0 && len(r.Violations) == 0
}

// Markdown renders the findings as a markdown document.
func Markdown(reports []Report) string {
	var sb strings.Builder
	sb.WriteString("# Drama build report\n\n")

	for _, r := range reports {
		sb.WriteString(fmt.Sprintf("## %s\n\n", r.Graph))
		sb.WriteString(fmt.Sprintf("%d rows, %d warnings, %d schema violations.\n\n", r.Rows, len(r.Warnings), len(r.Violations)))

		if len(r.Warnings) > 0 {
			sb.WriteString("| Row | Kind | Subject |\n")
			sb.WriteString("|----:|------|---------|\n")
			for _, w := range r.Warnings {
				sb.WriteString(fmt.Sprintf("| %d | %s | `%s` |\n", w.Row, w.Kind, escape(w.Subject())))
			}
			sb.WriteString("\n")
		}
		for _, err := range r.Violations {
			sb.WriteString(fmt.Sprintf("- %s\n", escape(err.Error())))
		}
		if len(r.Violations) > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Summary returns one colored line per report.
func Summary(reports []Report) string {
	p := termenv.ColorProfile()
	ok := p.Color("#22c55e")
	warn := p.Color("#f59e0b")
	bad := p.Color("#ef4444")

	var sb strings.Builder
	for _, r := range reports {
		status := termenv.String("✔").Foreground(ok)
		switch {
		case len(r.Violations) > 0:
			status = termenv.String("✘").Foreground(bad)
		case len(r.Warnings) > 0:
			status = termenv.String("!").Foreground(warn)
		}
		sb.WriteString(fmt.Sprintf("%s %s  %s\n",
			status,
			termenv.String(r.Graph).Bold(),
			termenv.String(fmt.Sprintf("%d rows, %d warnings, %d violations", r.Rows, len(r.Warnings), len(r.Violations))).Faint(),
		))
	}
	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
