package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"evmfill/internal/domain"
	"evmfill/internal/spec"
)

// Filler is a parsed filler module: its runs and the declarations behind them
type Filler struct {
	domain.Module
	File *spec.FillerFile
}

// Test returns the declaration a run was generated from
func (f *Filler) Test(run domain.Run) *spec.FillerTest {
	return &f.File.Tests[run.TestIndex]
}

// Parser parses filler files into modules of runs
type Parser struct {
	fillerRoot string
}

// NewParser creates a new Parser; run ids are made relative to fillerRoot
func NewParser(fillerRoot string) *Parser {
	return &Parser{fillerRoot: filepath.Clean(fillerRoot)}
}

// RunID formats the id of one parametrized run, e.g.
// "eip3855/push0.json::test_push0[fork=Shanghai]"
func RunID(relPath, name, fork string) string {
	return fmt.Sprintf("%s::%s[fork=%s]", relPath, name, fork)
}

// ParseFile reads a filler file and expands every (test, fork) pair into a
// run, in file order then fork order
func (p *Parser) ParseFile(path string) (*Filler, error) {
	rel, err := filepath.Rel(p.fillerRoot, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.FillError{Class: domain.ErrIO, Module: rel, Message: "error reading filler file", Cause: err}
	}

	file, err := spec.ParseFillerFile(content)
	if err != nil {
		return nil, &domain.FillError{Class: domain.ErrSpec, Module: rel, Message: "invalid filler file", Cause: err}
	}

	filler := &Filler{
		Module: domain.Module{Path: path, RelPath: rel},
		File:   file,
	}
	for i := range file.Tests {
		test := &file.Tests[i]
		if len(test.Forks) == 0 {
			return nil, &domain.FillError{
				Class:   domain.ErrSpec,
				Module:  rel,
				Message: fmt.Sprintf("test %s declares no forks", test.Name),
			}
		}
		for _, fork := range test.Forks {
			filler.Runs = append(filler.Runs, domain.Run{
				ID:         RunID(rel, test.Name, fork),
				SourcePath: path,
				BaseName:   test.Name,
				TestIndex:  i,
				Fork:       fork,
				Kinds:      test.Kinds(),
			})
		}
	}

	return filler, nil
}

// ParseAll parses every file. Files that fail to parse are skipped and
// their errors joined, so one broken filler does not hide the others.
func (p *Parser) ParseAll(paths []string) ([]*Filler, error) {
	var (
		fillers []*Filler
		errs    []error
	)
	for _, path := range paths {
		filler, err := p.ParseFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fillers = append(fillers, filler)
	}
	return fillers, errors.Join(errs...)
}
