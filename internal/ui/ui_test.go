package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/domain"
)

func plainFormatter(t *testing.T) (*Formatter, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	f := NewFormatter(config.New())
	f.SetOutput(&buf)
	return f, &buf
}

func TestPrintReportStats(t *testing.T) {
	f, buf := plainFormatter(t)
	report := &domain.FillReport{
		Meta: domain.FillReportMeta{TotalRuns: 3, FilledRuns: 2, FailedRuns: 1, Modules: 1, FixtureFiles: 1, DurationSeconds: 1.234, Workers: 4, ToolVersion: "1.14.11-stable"},
		Failures: []domain.FillFailure{
			{RunID: "eip3855/push0.json::test_push0[fork=London]", Module: "eip3855/push0.json", Class: "TOOL", Message: "t8n failed"},
			{Module: "eip3855/push0/test_push0", Class: "IO", Message: "could not write fixture file"},
		},
	}

	f.PrintReportStats(report)
	out := buf.String()

	assert.Contains(t, out, "│ Filled Runs                     │ 2")
	assert.Contains(t, out, "1.23s")
	assert.Contains(t, out, "1.14.11-stable")
	assert.Contains(t, out, "✗ 1 run(s) failed, 2 failure(s) reported")
	assert.Contains(t, out, "└── eip3855")
	assert.Contains(t, out, "✗ test_push0[fork=London] [TOOL] t8n failed")
	assert.Contains(t, out, "✗ (module) [IO] could not write fixture file")
}

func TestPrintReportStats_AllFilled(t *testing.T) {
	f, buf := plainFormatter(t)
	f.PrintReportStats(&domain.FillReport{Meta: domain.FillReportMeta{FilledRuns: 5, FixtureFiles: 2}})
	assert.Contains(t, buf.String(), "✓ All 5 run(s) filled into 2 fixture file(s)")
}

func TestPrintFillerList(t *testing.T) {
	f, buf := plainFormatter(t)
	fillers := []*discovery.Filler{
		{Module: domain.Module{RelPath: "a.json", Runs: []domain.Run{
			{ID: "a.json::test_x[fork=London]", BaseName: "test_x", Fork: "London"},
			{ID: "a.json::test_x[fork=Paris]", BaseName: "test_x", Fork: "Paris"},
		}}},
		{Module: domain.Module{RelPath: "b.json"}},
	}
	failed := map[string]struct{}{"a.json::test_x[fork=Paris]": {}}

	f.PrintFillerList(fillers, true, failed)
	out := buf.String()

	assert.Contains(t, out, "Found 2 filler file(s) with 2 run(s):")
	assert.Contains(t, out, "├── a.json [F]")
	assert.Contains(t, out, "│   ├── test_x[fork=London]\n")
	assert.Contains(t, out, "│   └── test_x[fork=Paris] [F]")
	assert.Contains(t, out, "└── b.json")
	assert.Contains(t, out, "    └── (no runs)")

	buf.Reset()
	f.PrintFillerList(fillers, false, nil)
	assert.NotContains(t, buf.String(), "test_x")
}

func TestFailedRuns(t *testing.T) {
	report := &domain.FillReport{Failures: []domain.FillFailure{
		{RunID: "a", Class: "TOOL"},
		{RunID: "b", Class: "POST", Resolved: true},
		{Module: "m", Class: "IO"},
	}}
	assert.Equal(t, map[string]struct{}{"a": {}}, FailedRuns(report))
	assert.Empty(t, FailedRuns(nil))
}

func TestFailureFormatting(t *testing.T) {
	failure := domain.FillFailure{
		RunID:    "a.json::test_x[fork=London]",
		Module:   "a.json",
		Class:    "TOOL",
		Message:  "t8n failed (evm error)",
		ExitCode: 2,
		Details:  []string{"ERROR(2): stack underflow"},
	}

	details := formatFailureDetails(failure)
	assert.Contains(t, details, "Exit code:[white] 2 (evm error)")
	assert.Contains(t, details, "stack underflow")
	assert.NotContains(t, details, "Marked as resolved")

	stats := formatFailureStats(failure)
	assert.Contains(t, stats, "test_x")
	assert.Contains(t, stats, "[red]TOOL")

	assert.True(t, strings.HasPrefix(listItemText(failure, 0), "[yellow]1.[white] "))

	report := &domain.FillReport{Failures: []domain.FillFailure{failure}}
	toggleResolved(report, 0)
	assert.True(t, report.Failures[0].Resolved)
	assert.Equal(t, 0, countUnresolved(report.Failures))
	assert.True(t, strings.HasPrefix(listItemText(report.Failures[0], 0), "[gray]✓"))
}
