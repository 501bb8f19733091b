package commands

import (
	"errors"
	"fmt"

	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/domain"
)

// discovered holds the parsed fillers selected by the current flags and the
// files that could not be parsed.
type discovered struct {
	fillers   []*discovery.Filler
	parseErrs []error
}

func (d *discovered) runs() int {
	n := 0
	for _, fl := range d.fillers {
		n += len(fl.Runs)
	}
	return n
}

// discover scans the filler root, applies the file and test filters and
// parses every remaining file. A broken filler does not stop discovery.
func discover(cfg *config.Config, scanner *discovery.Scanner, filter *discovery.Filter) (*discovered, error) {
	root := cfg.GetFillerPath()
	files, err := scanner.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("scan fillers in %s: %w", root, err)
	}
	files = filter.FilterByName(files, cfg.Flags.NameFilter)

	fillers, err := discovery.NewParser(root).ParseAll(files)
	found := &discovered{
		fillers: filter.FilterRuns(fillers, cfg.Flags.TestFilter),
	}
	if err != nil {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			found.parseErrs = joined.Unwrap()
		} else {
			found.parseErrs = []error{err}
		}
	}
	return found, nil
}

// parseResults turns filler parse errors into module results so they are
// reported and counted like any other module failure.
func parseResults(errs []error) []domain.ModuleResult {
	results := make([]domain.ModuleResult, 0, len(errs))
	for _, err := range errs {
		result := domain.ModuleResult{FlushErr: err}
		var fe *domain.FillError
		if errors.As(err, &fe) {
			result.Module = fe.Module
		}
		results = append(results, result)
	}
	return results
}
