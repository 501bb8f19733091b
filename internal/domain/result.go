package domain

import "time"

// RunResult is the outcome of one test run.
type RunResult struct {
	Run      Run
	Module   string
	Success  bool
	Error    error
	Duration time.Duration
}

// ModuleResult is the outcome of filling one filler module.
type ModuleResult struct {
	Module   string
	Runs     []RunResult
	Files    []string     // Fixture files written by the flush
	Entries  []IndexEntry // Keys recorded during the module
	FlushErr error
	Aborted  bool // Cancelled before the flush; nothing was written
}

// Filled counts the successful runs of the module.
func (m ModuleResult) Filled() int {
	n := 0
	for _, r := range m.Runs {
		if r.Success {
			n++
		}
	}
	return n
}

// Failed reports whether any run or the flush failed.
func (m ModuleResult) Failed() bool {
	return m.FlushErr != nil || m.Filled() < len(m.Runs)
}

// IndexEntry describes one fixture key written to disk.
type IndexEntry struct {
	File string `json:"file"`
	Key  string `json:"key"`
	Fork string `json:"fork,omitempty"`
	Hash string `json:"hash,omitempty"`
}

// FillReportMeta contains metadata about a fill session.
type FillReportMeta struct {
	TotalRuns       int     `json:"total_runs"`
	FilledRuns      int     `json:"filled_runs"`
	FailedRuns      int     `json:"failed_runs"`
	Modules         int     `json:"modules"`
	FixtureFiles    int     `json:"fixture_files"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
	ToolVersion     string  `json:"tool_version,omitempty"`
}

// FillReport is the complete persisted report of a fill session.
type FillReport struct {
	Meta     FillReportMeta `json:"meta"`
	Fixtures []IndexEntry   `json:"fixtures"`
	Failures []FillFailure  `json:"failures"`
}
