package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/domain"
	"evmfill/internal/identity"
)

var (
	cyan   = color.New(color.FgCyan)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	white  = color.New(color.FgWhite)
)

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return &Formatter{config: cfg, out: os.Stdout}
}

// SetOutput redirects the formatter's output
func (f *Formatter) SetOutput(w io.Writer) {
	f.out = w
}

// PrintHeader prints the session banner with the tool versions in use
func (f *Formatter) PrintHeader(evmBin, t8nVersion, solcVersion string) {
	if t8nVersion == "" {
		t8nVersion = "unknown"
	}
	if solcVersion == "" {
		solcVersion = "not found"
	}
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                     Fixture Filling Session                   ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintf(f.out, "%-14s %s\n", "t8n:", white.Sprintf("%s (%s)", evmBin, t8nVersion))
	fmt.Fprintf(f.out, "%-14s %s\n", "solc:", white.Sprint(solcVersion))
	fmt.Fprintf(f.out, "%-14s %s\n", "fillers:", white.Sprint(f.config.GetFillerPath()))
	fmt.Fprintf(f.out, "%-14s %s\n\n", "output:", white.Sprint(f.config.GetOutputDir()))
}

// PrintReportStats displays the statistics of a fill report
func (f *Formatter) PrintReportStats(report *domain.FillReport) {
	meta := report.Meta

	// Print header
	fmt.Fprint(f.out, "\n")
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                    Fixture Fill Statistics                    ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(f.out)

	// Print table
	rows := []struct {
		label string
		value string
		c     *color.Color
	}{
		{"Total Runs", fmt.Sprint(meta.TotalRuns), white},
		{"Filled Runs", fmt.Sprint(meta.FilledRuns), green},
		{"Failed Runs", fmt.Sprint(meta.FailedRuns), red},
		{"Modules", fmt.Sprint(meta.Modules), white},
		{"Fixture Files", fmt.Sprint(meta.FixtureFiles), white},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), white},
		{"Workers", fmt.Sprint(meta.Workers), white},
		{"Transition Tool", meta.ToolVersion, white},
		{"Timestamp", meta.Timestamp, white},
	}
	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	for i, row := range rows {
		fmt.Fprintf(f.out, "│ %-31s │ ", row.label)
		row.c.Fprintf(f.out, "%-27s", row.value)
		fmt.Fprintln(f.out, " │")
		if i < len(rows)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")

	// Print summary line
	fmt.Fprintln(f.out)
	if len(report.Failures) == 0 {
		green.Fprintf(f.out, "✓ All %d run(s) filled into %d fixture file(s)\n", meta.FilledRuns, meta.FixtureFiles)
		return
	}
	red.Fprintf(f.out, "✗ %d run(s) failed, %d failure(s) reported\n", meta.FailedRuns, len(report.Failures))
	fmt.Fprintln(f.out)
	f.printFailedTree(report.Failures)
}

// TreeNode represents a node in the module tree
type TreeNode struct {
	Name     string
	Children map[string]*TreeNode
	Failures []domain.FillFailure
	IsFile   bool
}

// printFailedTree prints failures grouped by module path
func (f *Formatter) printFailedTree(failures []domain.FillFailure) {
	root := &TreeNode{Children: make(map[string]*TreeNode)}

	for _, failure := range failures {
		parts := strings.Split(strings.TrimPrefix(failure.Module, "./"), "/")
		current := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			if current.Children[part] == nil {
				current.Children[part] = &TreeNode{
					Name:     part,
					Children: make(map[string]*TreeNode),
					IsFile:   i == len(parts)-1,
				}
			}
			current = current.Children[part]
		}
		current.Failures = append(current.Failures, failure)
	}

	f.printTreeNode(root, "")
}

func (f *Formatter) printTreeNode(node *TreeNode, prefix string) {
	// Sort children for consistent output
	var keys []string
	for key := range node.Children {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for i, key := range keys {
		child := node.Children[key]
		last := i == len(keys)-1

		connector, childPrefix := "├── ", "│   "
		if last {
			connector, childPrefix = "└── ", "    "
		}
		if child.IsFile {
			yellow.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		} else {
			cyan.Fprintf(f.out, "%s%s%s\n", prefix, connector, child.Name)
		}

		for _, failure := range child.Failures {
			red.Fprintf(f.out, "%s✗ %s\n", prefix+childPrefix, failureLabel(failure))
		}
		f.printTreeNode(child, prefix+childPrefix)
	}
}

// failureLabel names a failure by its case label, falling back to the run id
func failureLabel(failure domain.FillFailure) string {
	name := failure.RunID
	if name == "" {
		name = "(module)"
	} else if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	return fmt.Sprintf("%s [%s] %s", name, failure.Class, failure.Message)
}

// PrintFillerList prints filler files, optionally with their runs.
// Runs listed in failedRuns (from the last report) are marked with [F].
func (f *Formatter) PrintFillerList(fillers []*discovery.Filler, showRuns bool, failedRuns map[string]struct{}) {
	total := 0
	for _, fl := range fillers {
		total += len(fl.Runs)
	}
	if showRuns {
		green.Fprintf(f.out, "Found %d filler file(s) with %d run(s):\n\n", len(fillers), total)
	} else {
		green.Fprintf(f.out, "Found %d filler file(s):\n\n", len(fillers))
	}

	for i, fl := range fillers {
		lastFile := i == len(fillers)-1
		connector, childPrefix := "├── ", "│   "
		if lastFile {
			connector, childPrefix = "└── ", "    "
		}

		marker := ""
		if hasFailedRun(fl, failedRuns) {
			marker = " " + red.Sprint("[F]")
		}
		cyan.Fprintf(f.out, "%s%s%s\n", connector, fl.RelPath, marker)

		if !showRuns {
			continue
		}
		if len(fl.Runs) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", childPrefix, red.Sprint("(no runs)"))
			continue
		}
		for j, run := range fl.Runs {
			runConnector := "├── "
			if j == len(fl.Runs)-1 {
				runConnector = "└── "
			}
			label, err := identity.CaseLabel(run.ID)
			if err != nil {
				label = run.Fork
			}
			name := yellow.Sprintf("%s[%s]", run.BaseName, label)
			if _, failed := failedRuns[run.ID]; failed {
				name += " " + red.Sprint("[F]")
			}
			fmt.Fprintf(f.out, "%s%s%s\n", childPrefix, runConnector, name)
		}
		if !lastFile {
			fmt.Fprintln(f.out)
		}
	}
}

func hasFailedRun(fl *discovery.Filler, failedRuns map[string]struct{}) bool {
	for _, run := range fl.Runs {
		if _, ok := failedRuns[run.ID]; ok {
			return true
		}
	}
	return false
}

// FailedRuns collects the ids of unresolved failed runs from a report
func FailedRuns(report *domain.FillReport) map[string]struct{} {
	out := make(map[string]struct{})
	if report == nil {
		return out
	}
	for _, failure := range report.Failures {
		if failure.RunID != "" && !failure.Resolved {
			out[failure.RunID] = struct{}{}
		}
	}
	return out
}
