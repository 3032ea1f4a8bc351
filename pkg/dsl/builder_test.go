package dsl

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/drama/pkg/domain"
	"github.com/aretw0/drama/pkg/flags"
	"github.com/aretw0/drama/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T) *flags.Registry {
	t.Helper()
	reg := flags.NewRegistry(flags.DefaultNamespace)
	reg.MustRegister(
		flags.Enum("drama.quest.state", "offered", "accepted", "done"),
		flags.IntRange("drama.trust", 0, 10),
		flags.Bool("drama.met"),
	)
	return reg
}

func buildScenario() *Result {
	b := New("scenario", WithEntryStep("start"))
	a := b.Label("a")
	missing := b.Label("b")

	b.Step("start").
		Say("greet", T("こんにちは", "Hello")).
		Choice(a, T("A")).
		Choice(missing, T("B"))
	b.Step(a).Finish()

	return b.Finalize()
}

func TestBuilder_Scenario(t *testing.T) {
	res := buildScenario()

	rows := res.Table().StepRows()
	assert.Equal(t, 4, rows["start"])
	assert.Equal(t, 2, rows["a"])
	assert.Zero(t, rows["b"])

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "undefined jump target: b", res.Warnings[0].String())
	assert.Empty(t, res.Violations)
}

func TestBuilder_Deterministic(t *testing.T) {
	var first bytes.Buffer
	require.NoError(t, table.WriteTSV(&first, buildScenario().Table()))

	for i := 0; i < 5; i++ {
		var next bytes.Buffer
		require.NoError(t, table.WriteTSV(&next, buildScenario().Table()))
		assert.Equal(t, first.String(), next.String())
	}
}

func TestBuilder_StepOrder(t *testing.T) {
	var logs bytes.Buffer
	b := New("order", WithLogger(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	first := b.Step("main")
	second := b.Step("second")

	// Emitting into an earlier scope after a later one was opened keeps rows grouped.
	second.Finish()
	first.Jump("second")

	entries := b.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "main", entries[0].Step)
	assert.Equal(t, "second", entries[1].Jump)
	assert.Equal(t, "second", entries[2].Step)
	assert.Equal(t, domain.ActionEnd, entries[3].Action)
	assert.Contains(t, logs.String(), "Row added to an earlier step")
}

func TestBuilder_DuplicateSteps(t *testing.T) {
	t.Run("Allowed", func(t *testing.T) {
		b := New("dup")
		b.Step("main").Finish()
		b.Step("main").Finish()

		res := b.Finalize()
		dups := res.WarningsOf(domain.WarningDuplicateStep)
		require.Len(t, dups, 1)
		assert.Equal(t, "main", dups[0].Step)
		markers := 0
		for _, e := range res.Entries {
			if e.Kind() == domain.KindMarker {
				markers++
			}
		}
		assert.Equal(t, 2, markers, "both markers are emitted")
	})

	t.Run("Rejected", func(t *testing.T) {
		b := New("dup", WithDuplicateSteps(RejectDuplicates))
		b.Step("main").Finish()

		assert.PanicsWithError(t, "duplicate step: main", func() {
			b.Step("main")
		})
	})
}

func TestBuilder_Termination(t *testing.T) {
	tests := []struct {
		name  string
		build func(s *StepScope)
		want  bool // no-terminator warning expected
	}{
		{"Empty", func(s *StepScope) {}, true},
		{"SayOnly", func(s *StepScope) { s.Say("x", T("a")) }, true},
		{"Jump", func(s *StepScope) { s.Jump("_bye") }, false},
		{"Finish", func(s *StepScope) { s.Finish() }, false},
		{"Choice", func(s *StepScope) { s.Choice("_bye", T("bye")) }, false},
		{"Cancel", func(s *StepScope) { s.OnCancel("_bye") }, false},
		{"BranchOnly", func(s *StepScope) { s.BranchIf("drama.met", domain.OpEq, true, "_bye") }, true},
		{"SwitchWithFallback", func(s *StepScope) {
			s.SwitchFlag("drama.quest.state", []domain.Label{"_bye", "_bye", "_bye"}, "_bye")
		}, false},
		{"SwitchWithoutFallback", func(s *StepScope) {
			s.SwitchFlag("drama.quest.state", []domain.Label{"_bye", "_bye", "_bye"}, "")
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("term", WithRegistry(testRegistry(t)))
			tt.build(b.Step("main"))
			res := b.Finalize()

			got := len(res.WarningsOf(domain.WarningNoTerminator)) == 1
			assert.Equal(t, tt.want, got, "warnings: %v", res.Warnings)
			assert.Empty(t, res.Violations)
		})
	}
}

func TestBuilder_Unreachable(t *testing.T) {
	b := New("unreachable")
	b.Step("main").Jump("_bye").Say("lost", T("never")).Say("lost2", T("never"))

	res := b.Finalize()
	unreachable := res.WarningsOf(domain.WarningUnreachableEntry)
	require.Len(t, unreachable, 1)
	assert.Equal(t, 2, unreachable[0].Row)
}

func TestBuilder_UndefinedTargetStillSerializes(t *testing.T) {
	b := New("broken")
	b.Step("main").Jump("nowhere")

	res := b.Finalize()
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, domain.WarningUndefinedTarget, res.Warnings[0].Kind)
	assert.Equal(t, "nowhere", res.Warnings[0].Subject())

	tbl := res.Table()
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "nowhere", tbl.Rows[1][1])
}

func TestBuilder_RoundTrip(t *testing.T) {
	b := New("roundtrip", WithRegistry(testRegistry(t)))
	hero := domain.Actor{ID: "hero"}
	b.Step("main").
		Version("v2").
		Say("l1", T("やあ", "Hi"), As(hero), When(Flag("drama.met", domain.OpEq, true))).
		SetFlag("drama.met", true).
		IncrementFlag("drama.trust", domain.OpAdd, 2).
		Invoke("playBGM", "town").
		Choice("main", T("", "Again"), ID("again"), And(Raw("hasItem(key)"))).
		OnCancel("_bye")

	res := b.Finalize()
	require.Empty(t, res.Violations)

	var buf bytes.Buffer
	require.NoError(t, table.WriteTSV(&buf, res.Table()))
	tbl, err := table.ReadTSV(&buf, res.Layout.Offset)
	require.NoError(t, err)
	decoded, err := table.Decode(tbl)
	require.NoError(t, err)

	require.Len(t, decoded, len(res.Entries))
	for i := range decoded {
		assert.True(t, res.Entries[i].Equal(decoded[i]), "row %d: %+v != %+v", i, res.Entries[i], decoded[i])
	}

	assert.Equal(t, "drama.met,1", res.Entries[2].Param)
	assert.Equal(t, "drama.trust,+2", res.Entries[3].Param)
	assert.Equal(t, "if_flag(drama.met, ==1)", res.Entries[1].If)
	assert.Equal(t, "hasItem(key)", res.Entries[5].If2)
	assert.Equal(t, "v2", res.Entries[5].Version)
}

func TestBuilder_SchemaViolations(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	b := New("violations", WithRegistry(testRegistry(t)), WithLogger(logger))
	b.Step("main").
		SetFlag("drama.trust", 11).
		SetFlag("drama.unknown", 1).
		SetFlag("other.mod.flag", "anything").
		IncrementFlag("drama.met", domain.OpAdd, 1).
		SwitchFlag("drama.quest.state", []domain.Label{"_bye", "_bye", "_bye", "_bye"}, "_bye")

	res := b.Finalize()
	require.Len(t, res.Violations, 4)
	assert.True(t, errors.Is(res.Violations[0], flags.ErrRange))
	assert.True(t, errors.Is(res.Violations[1], flags.ErrUnknownFlag))
	assert.True(t, errors.Is(res.Violations[2], flags.ErrType))
	assert.True(t, errors.Is(res.Violations[3], flags.ErrRange))

	// Violations never stop serialization.
	assert.Len(t, res.Table().Rows, 6)
	assert.Error(t, res.Err())
	assert.Contains(t, logs.String(), "Flag schema violation")
}

func TestBuilder_TooManyVariants(t *testing.T) {
	b := New("text")
	assert.Panics(t, func() {
		b.Step("main").Say("x", T("a", "b", "c"))
	})
}

func TestBuilder_ChildStep(t *testing.T) {
	b := New("child")
	main := b.Step("main")
	child := main.Child("accept")
	main.Finish()
	b.Step(child).Finish()

	res := b.Finalize()
	assert.Equal(t, domain.Label("main/accept"), child)
	assert.Empty(t, res.WarningsOf(domain.WarningOrphanStep))
	assert.True(t, strings.HasPrefix(string(child), "main"))
}

func TestBuilder_NormalizesOperands(t *testing.T) {
	b := New("normalize", WithRegistry(testRegistry(t)))
	b.Step("main").
		SetFlag("drama.quest.state", "accepted").
		SetFlag("drama.met", "true").
		SetFlag("drama.met", false).
		BranchIf("drama.quest.state", domain.OpEq, "done", "_bye").
		Say("hi", T("やあ"), When(Flag("drama.met", domain.OpEq, "false")), And(Flag("drama.quest.state", domain.OpNe, "offered"))).
		Finish()

	res := b.Finalize()
	require.Empty(t, res.Violations)
	assert.Empty(t, res.Warnings)

	assert.Equal(t, "drama.quest.state,1", res.Entries[1].Param)
	assert.Equal(t, "drama.met,1", res.Entries[2].Param)
	assert.Equal(t, "drama.met,0", res.Entries[3].Param)
	assert.Equal(t, "if_flag(drama.quest.state, ==2, _bye)", res.Entries[4].Param)
	assert.Equal(t, "if_flag(drama.met, ==0)", res.Entries[5].If)
	assert.Equal(t, "if_flag(drama.quest.state, !=0)", res.Entries[5].If2)
}

func TestBuilder_MalformedDispatch(t *testing.T) {
	var logs bytes.Buffer
	b := New("malformed", WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	b.Step("main").
		BranchIf("engine.other", domain.OpEq, "a, b", "missing").
		Say("x", T("x"), When(Flag("engine.other", domain.OpEq, "(x)"))).
		Finish()

	res := b.Finalize()
	require.Len(t, res.Violations, 2)
	assert.ErrorIs(t, res.Violations[0], domain.ErrMalformedDispatch)
	assert.ErrorIs(t, res.Violations[1], domain.ErrMalformedDispatch)
	assert.Contains(t, logs.String(), "Malformed dispatch")

	// The row cannot be read back, so the validator flags it instead of dropping it.
	malformed := res.WarningsOf(domain.WarningMalformedDispatch)
	require.Len(t, malformed, 1)
	assert.Equal(t, "main", malformed[0].Step)
	assert.Equal(t, 1, malformed[0].Row)
}
