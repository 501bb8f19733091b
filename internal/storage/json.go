package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"evmfill/internal/domain"
)

// Save builds the fill report from the module results and writes it.
func (s *JSONStorage) Save(results []domain.ModuleResult, duration time.Duration, workers int, toolVersion string) (*domain.FillReport, error) {
	report := BuildReport(results, duration, workers, toolVersion)
	if err := s.SaveOutput(report); err != nil {
		return nil, err
	}
	return report, nil
}

// Load reads the last fill report.
func (s *JSONStorage) Load() (*domain.FillReport, error) {
	path := s.cfg.GetReportPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fill report: %w", err)
	}
	var report domain.FillReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse fill report: %w", err)
	}
	return &report, nil
}

// SaveOutput writes the full report to the configured JSON file.
func (s *JSONStorage) SaveOutput(report *domain.FillReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fill report: %w", err)
	}
	path := s.cfg.GetReportPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write fill report: %w", err)
	}
	return nil
}

// BuildReport summarizes a fill session. Every failed run and every failed
// module flush becomes one failure entry.
func BuildReport(results []domain.ModuleResult, duration time.Duration, workers int, toolVersion string) *domain.FillReport {
	report := &domain.FillReport{
		Meta: domain.FillReportMeta{
			Modules:         len(results),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Workers:         workers,
			Timestamp:       time.Now().Format(time.RFC3339),
			ToolVersion:     toolVersion,
		},
		Fixtures: []domain.IndexEntry{},
		Failures: []domain.FillFailure{},
	}

	for _, m := range results {
		report.Meta.TotalRuns += len(m.Runs)
		for _, r := range m.Runs {
			if r.Success {
				report.Meta.FilledRuns++
				continue
			}
			report.Meta.FailedRuns++
			report.Failures = append(report.Failures, toFailure(r.Error, r.Run.ID, m.Module))
		}

		if m.Aborted {
			report.Failures = append(report.Failures, domain.FillFailure{
				Module:  m.Module,
				Class:   string(domain.ErrIO),
				Message: "module aborted, fixtures not written",
			})
			continue
		}
		for _, err := range splitJoined(m.FlushErr) {
			report.Failures = append(report.Failures, toFailure(err, "", m.Module))
		}
		report.Meta.FixtureFiles += len(m.Files)
		report.Fixtures = append(report.Fixtures, writtenEntries(m)...)
	}

	return report
}

// writtenEntries keeps the index entries whose file was actually written.
func writtenEntries(m domain.ModuleResult) []domain.IndexEntry {
	if m.FlushErr == nil {
		return m.Entries
	}
	var out []domain.IndexEntry
	for _, e := range m.Entries {
		suffix := string(filepath.Separator) + filepath.FromSlash(e.File)
		for _, f := range m.Files {
			if strings.HasSuffix(f, suffix) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func toFailure(err error, runID, module string) domain.FillFailure {
	f := domain.FillFailure{RunID: runID, Module: module}
	var fe *domain.FillError
	if errors.As(err, &fe) {
		f.Class = string(fe.Class)
		f.Message = fe.Message
		if fe.Cause != nil {
			f.Message += ": " + fe.Cause.Error()
		}
		f.ExitCode = fe.ExitCode
		f.Details = fe.Details
		if fe.Module != "" && runID == "" {
			f.Module = fe.Module
		}
		return f
	}
	f.Class = string(domain.ErrTool)
	if err != nil {
		f.Message = err.Error()
	}
	return f
}

// splitJoined undoes errors.Join so each flush failure is reported on its own.
func splitJoined(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
