package discovery

import (
	"path/filepath"
	"strings"

	"evmfill/internal/domain"
)

// Filter filters filler files and runs by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters filler files by name pattern using wildcard matching
// Supports patterns like "push0.json" or "*eip3855*"
func (f *Filter) FilterByName(files []string, pattern string) []string {
	if pattern == "" {
		return files
	}

	var filtered []string
	for _, file := range files {
		if matchName(filepath.Base(file), pattern) {
			filtered = append(filtered, file)
		}
	}

	return filtered
}

// FilterRuns keeps the runs whose declared test name matches the pattern.
// Fillers left without runs are dropped.
func (f *Filter) FilterRuns(fillers []*Filler, pattern string) []*Filler {
	if pattern == "" {
		return fillers
	}

	var filtered []*Filler
	for _, fl := range fillers {
		var runs []domain.Run
		for _, run := range fl.Runs {
			if matchName(run.BaseName, pattern) {
				runs = append(runs, run)
			}
		}
		if len(runs) == 0 {
			continue
		}
		cp := *fl
		cp.Runs = runs
		filtered = append(filtered, &cp)
	}

	return filtered
}

func matchName(name, pattern string) bool {
	// Try to match using filepath.Match (supports * and ? wildcards)
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	// If no wildcards, do a simple contains check
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	// filepath.Match anchors the pattern; fall back to matching the
	// non-wildcard parts in order, so "*push*" finds "test_push0"
	if !strings.Contains(pattern, "*") {
		return false
	}
	rest := name
	matchedPart := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		i := strings.Index(rest, part)
		if i < 0 {
			return false
		}
		rest = rest[i+len(part):]
		matchedPart = true
	}
	return matchedPart
}
