package graph

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/aretw0/drama/pkg/domain"
)

// Overlay highlights findings on the graph.
type Overlay struct {
	EntryStep string
	Warnings  []domain.Warning
}

type step struct {
	name     string
	choices  bool
	dispatch bool
	edges    []edge
}

type edge struct {
	to     string
	label  string
	dotted bool
}

// GenerateMermaid produces a Mermaid flowchart from a flat entry sequence.
// It applies semantic styling:
// - Entry step: ((Circle))
// - Step with choices: [/Parallelogram/]
// - Step with a dispatch: {{Hexagon}}
// - Built-in engine flow: [[Subroutine]]
// - Default: [Rectangle]
// Edges between different step families are dotted.
func GenerateMermaid(entries []domain.Entry, overlay *Overlay) string {
	entryStep := domain.DefaultEntryStep
	if overlay != nil && overlay.EntryStep != "" {
		entryStep = overlay.EntryStep
	}

	// 1. Group edges by step, in declaration order
	var steps []*step
	declared := make(map[string]bool)
	var cur *step
	for _, e := range entries {
		if e.Kind() == domain.KindMarker {
			cur = &step{name: e.Step}
			steps = append(steps, cur)
			declared[e.Step] = true
			continue
		}
		if cur == nil {
			continue
		}
		cur.edges = append(cur.edges, edgesOf(cur, e)...)
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	// 2. Nodes and edges
	builtins := make(map[string]bool)
	for _, s := range steps {
		opener, closer := "[", "]"
		switch {
		case s.name == entryStep:
			opener, closer = "((", "))"
		case s.dispatch:
			opener, closer = "{{", "}}"
		case s.choices:
			opener, closer = "[/", "/]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", sanitizeMermaidID(s.name), opener, s.name, closer))

		for _, ed := range s.edges {
			if domain.Label(ed.to).IsBuiltin() && !declared[ed.to] {
				builtins[ed.to] = true
			}
			dotted := ed.dotted || path.Dir(s.name) != path.Dir(ed.to) && !strings.HasPrefix(ed.to, s.name+domain.ChildSeparator)
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(s.name), arrow(ed.label, dotted), sanitizeMermaidID(ed.to)))
		}
	}
	for _, s := range steps {
		delete(builtins, s.name)
	}
	for _, name := range sortedKeys(builtins) {
		sb.WriteString(fmt.Sprintf("    %s[[\"%s\"]]\n", sanitizeMermaidID(name), name))
	}

	// 3. Overlay Styles
	if overlay != nil && len(overlay.Warnings) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef warning fill:#fff3e0,stroke:#e65100,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef missing fill:#ffebee,stroke:#b71c1c,stroke-width:2px,stroke-dasharray: 5 5,color:#000;\n")

		styled := make(map[string]bool)
		for _, w := range overlay.Warnings {
			subject := w.Subject()
			if subject == "" || styled[subject] {
				continue
			}
			styled[subject] = true
			class := "warning"
			if w.Kind == domain.WarningUndefinedTarget {
				class = "missing"
			}
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", sanitizeMermaidID(subject), class))
		}
	}

	return sb.String()
}

func edgesOf(s *step, e domain.Entry) []edge {
	switch e.Kind() {
	case domain.KindJump:
		return []edge{{to: e.Jump}}
	case domain.KindChoice:
		s.choices = true
		return []edge{{to: e.Jump, label: choiceLabel(e)}}
	case domain.KindCancel:
		return []edge{{to: e.Jump, label: "cancel", dotted: true}}
	case domain.KindDispatch:
		s.dispatch = true
		d, err := domain.ParseDispatch(e.Param)
		if err != nil {
			return nil
		}
		if d.Construct == domain.ConstructIfFlag {
			if d.Target == "" {
				return nil
			}
			return []edge{{to: d.Target, label: fmt.Sprintf("%s %s%s", d.Flag, d.Op, d.Value)}}
		}
		var out []edge
		for i, c := range d.Cases {
			if c != "" {
				out = append(out, edge{to: c, label: fmt.Sprintf("%s=%d", d.Flag, i)})
			}
		}
		if d.Fallback != "" {
			out = append(out, edge{to: d.Fallback, label: "else", dotted: true})
		}
		return out
	}
	return nil
}

// choiceLabel prefers the last locale's text, then the text id.
func choiceLabel(e domain.Entry) string {
	for i := len(e.Text) - 1; i >= 0; i-- {
		if e.Text[i] != "" {
			return e.Text[i]
		}
	}
	return e.ID
}

func arrow(label string, dotted bool) string {
	if label == "" {
		if dotted {
			return "-.->"
		}
		return "-->"
	}
	// Escape double quotes for Mermaid labels
	label = strings.ReplaceAll(label, "\"", "'")
	if dotted {
		return fmt.Sprintf("-. \"%s\" .->", label)
	}
	return fmt.Sprintf("-- \"%s\" -->", label)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
