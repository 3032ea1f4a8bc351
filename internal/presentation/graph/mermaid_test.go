package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/drama/internal/presentation/graph"
	"github.com/aretw0/drama/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		entries  []domain.Entry
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Entry Step Shape",
			entries: []domain.Entry{
				{Step: "main"},
				{Jump: "shop"},
				{Step: "shop"},
				{Action: domain.ActionEnd},
			},
			contains: []string{
				"main((\"main\"))",
				"shop[\"shop\"]",
				"main --> shop",
			},
		},
		{
			name: "Custom Entry Step",
			entries: []domain.Entry{
				{Step: "start"},
				{Action: domain.ActionEnd},
			},
			overlay:  &graph.Overlay{EntryStep: "start"},
			contains: []string{"start((\"start\"))"},
		},
		{
			name: "Choices and Builtins",
			entries: []domain.Entry{
				{Step: "main"},
				{Step: "menu"},
				{Action: domain.ActionChoice, Jump: "_buy", Text: []string{"買う", "Buy"}},
				{Action: domain.ActionChoice, Jump: "_sell", ID: "sell"},
				{Action: domain.ActionCancel, Jump: "_bye"},
			},
			contains: []string{
				"menu[/\"menu\"/]",
				"menu -- \"Buy\" --> _buy",
				"menu -- \"sell\" --> _sell",
				"menu -. \"cancel\" .-> _bye",
				"_buy[[\"_buy\"]]",
				"_bye[[\"_bye\"]]",
			},
		},
		{
			name: "Switch Dispatch",
			entries: []domain.Entry{
				{Step: "main"},
				{Action: domain.ActionDispatch, Param: "switch_flag(drama.idx, main/none|main/a, main/none)"},
				{Step: "main/none"},
				{Action: domain.ActionEnd},
				{Step: "main/a"},
				{Action: domain.ActionEnd},
			},
			contains: []string{
				"main -- \"drama.idx=0\" --> main_none",
				"main -- \"drama.idx=1\" --> main_a",
				"main -. \"else\" .-> main_none",
			},
		},
		{
			name: "If Dispatch",
			entries: []domain.Entry{
				{Step: "main"},
				{Action: domain.ActionDispatch, Param: "if_flag(drama.met, ==1, shop)"},
				{Jump: "_bye"},
			},
			contains: []string{
				"main -- \"drama.met ==1\" --> shop",
				"main --> _bye",
			},
		},
		{
			name: "Warning Overlay",
			entries: []domain.Entry{
				{Step: "main"},
				{Jump: "nowhere"},
				{Step: "lost"},
			},
			overlay: &graph.Overlay{Warnings: []domain.Warning{
				{Kind: domain.WarningNoTerminator, Step: "lost"},
				{Kind: domain.WarningOrphanStep, Step: "lost"},
				{Kind: domain.WarningUndefinedTarget, Step: "main", Target: "nowhere"},
			}},
			contains: []string{
				"class lost warning;",
				"class nowhere missing;",
			},
		},
		{
			name: "No Overlay",
			entries: []domain.Entry{
				{Step: "main"},
				{Action: domain.ActionEnd},
			},
			excludes: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.entries, tt.overlay)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("missing header:\n%s", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q\nGot:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output not to contain %q\nGot:\n%s", unwanted, got)
				}
			}
		})
	}
}
