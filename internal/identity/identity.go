// Package identity derives the on-disk identity of a filled fixture from the
// run identifier and the location of the filler that declared it.
package identity

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"evmfill/internal/domain"
)

var caseLabelPattern = regexp.MustCompile(`^.*?\[(.*)\]`)

// Resolver resolves test identities relative to a filler root.
type Resolver struct {
	fillerRoot string
}

// NewResolver creates a Resolver for the given filler root directory.
func NewResolver(fillerRoot string) *Resolver {
	return &Resolver{fillerRoot: filepath.Clean(fillerRoot)}
}

// Resolve derives the identity of a run. The run identifier must carry a
// bracketed parametrization suffix; without it the run cannot be identified.
func (r *Resolver) Resolve(runID, sourcePath, baseName string) (domain.TestIdentity, error) {
	label, err := CaseLabel(runID)
	if err != nil {
		return domain.TestIdentity{}, err
	}
	modulePath, err := r.ModulePath(sourcePath)
	if err != nil {
		fe := domain.WrapError(domain.ErrIdentity, "could not locate filler source", err)
		fe.RunID = runID
		return domain.TestIdentity{}, fe
	}
	return domain.TestIdentity{
		ModulePath: modulePath,
		BaseName:   baseName,
		CaseLabel:  label,
	}, nil
}

// ModulePath returns the source path, extension stripped, relative to the
// filler root in slash form.
func (r *Resolver) ModulePath(sourcePath string) (string, error) {
	noExt := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	rel, err := filepath.Rel(r.fillerRoot, filepath.Clean(noExt))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// CaseLabel extracts the parametrization label from a run identifier.
func CaseLabel(runID string) (string, error) {
	m := caseLabelPattern.FindStringSubmatch(runID)
	if m == nil {
		return "", &domain.FillError{
			Class:   domain.ErrIdentity,
			RunID:   runID,
			Message: fmt.Sprintf("could not parse test name: %s", runID),
		}
	}
	return m[1], nil
}

// WithSubFixture attaches the filled fixture's own label, if it has one.
func WithSubFixture(id domain.TestIdentity, name string) domain.TestIdentity {
	id.SubFixtureLabel = name
	return id
}
