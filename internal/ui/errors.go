package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"evmfill/internal/domain"
	"evmfill/internal/parser"
	"evmfill/internal/storage"
)

// FailureViewer displays fill failures in an interactive TUI
type FailureViewer struct {
	storage storage.Storage
}

// NewFailureViewer creates a new FailureViewer persisting through st
func NewFailureViewer(st storage.Storage) *FailureViewer {
	return &FailureViewer{storage: st}
}

// View displays fill failures in an interactive TUI. Toggling a failure
// resolved is written back to the report immediately.
func (fv *FailureViewer) View(report *domain.FillReport) error {
	if len(report.Failures) == 0 {
		color.Green("✓ No fill failures found!")
		return nil
	}
	failures := report.Failures

	// Create the application
	app := tview.NewApplication()

	// Create list for failures (left side)
	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i := range failures {
		list.AddItem(listItemText(failures[i], i), "", 0, nil)
	}

	// Set list colors for better visibility
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	// Create stats header view (shows module and run)
	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	// Create text view for failure details (right side)
	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	// Create a container with right padding for the details view
	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	// Create right side layout: stats on top, details below
	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	// List on left (1/3), details on right (2/3)
	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(fmt.Sprintf(" Fill Failures (%d total, %d unresolved) | Use ↑↓ to navigate, [yellow]R[white] to mark resolved, → to view details, ← to go back, Ctrl+C to exit ",
			len(failures), countUnresolved(failures)))
	}
	updateHeader()

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(failures) {
			statsView.SetText(formatFailureStats(failures[index]))
			detailsView.SetText(formatFailureDetails(failures[index]))
		}
	}

	var saveErr error

	// Set up keyboard handlers for list
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if index >= 0 && index < len(failures) {
					toggleResolved(report, index)
					list.SetItemText(index, listItemText(failures[index], index), "")
					updateHeader()
					updateDetails()
					if err := fv.storage.SaveOutput(report); err != nil {
						saveErr = err
						app.Stop()
					}
				}
				return nil
			}
		}
		return event
	})

	// Set up keyboard handlers for details view
	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	// Create main layout with title
	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

func toggleResolved(report *domain.FillReport, index int) {
	report.Failures[index].Resolved = !report.Failures[index].Resolved
}

func countUnresolved(failures []domain.FillFailure) int {
	count := 0
	for _, f := range failures {
		if !f.Resolved {
			count++
		}
	}
	return count
}

// listItemText returns the list entry for a failure, greyed out when resolved
func listItemText(failure domain.FillFailure, index int) string {
	name := failure.RunID
	if name == "" {
		name = failure.Module
	}
	if failure.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, tview.Escape(name))
	}
	return fmt.Sprintf("[yellow]%d.[white] %s", index+1, tview.Escape(name))
}

// formatFailureDetails formats a failure for display using tview color tags
func formatFailureDetails(failure domain.FillFailure) string {
	var b strings.Builder

	title := failure.RunID
	if title == "" {
		title = failure.Module
	}
	fmt.Fprintf(&b, "[red]✗ %s failure: %s[white]\n\n", failure.Class, tview.Escape(title))

	if failure.Message != "" {
		fmt.Fprintf(&b, "[yellow]Message:[white]\n%s\n\n", tview.Escape(failure.Message))
	}
	if failure.ExitCode != 0 {
		fmt.Fprintf(&b, "[yellow]Exit code:[white] %d (%s)\n\n", failure.ExitCode, parser.ExitCodeName(failure.ExitCode))
	}

	if len(failure.Details) > 0 {
		fmt.Fprintf(&b, "[yellow]Details:[white]\n")
		for i, line := range failure.Details {
			if i == 20 {
				fmt.Fprintf(&b, "  [gray]... and %d more lines[white]\n", len(failure.Details)-20)
				break
			}
			fmt.Fprintf(&b, "  %s\n", tview.Escape(line))
		}
	}

	if failure.Resolved {
		fmt.Fprintf(&b, "\n[gray]Marked as resolved[white]\n")
	}
	return b.String()
}

// formatFailureStats formats the stats header for a failure
func formatFailureStats(failure domain.FillFailure) string {
	module := failure.Module
	if module == "" {
		module = "Unknown module"
	}
	run := "(module flush)"
	if failure.RunID != "" {
		run = failure.RunID
		if i := strings.LastIndex(run, "::"); i >= 0 {
			run = run[i+2:]
		}
	}
	return fmt.Sprintf("[cyan]module:[white] [yellow]%s[white]  [cyan]run:[white] [yellow]%s[white]  [cyan]class:[white] [red]%s[white]\n",
		tview.Escape(module), tview.Escape(run), failure.Class)
}
