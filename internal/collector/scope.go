package collector

import (
	"sync"

	"evmfill/internal/domain"
	"evmfill/internal/identity"
)

// Scope ties a Collector to the execution of one filler module: it is
// opened when the module starts and flushed exactly once when it ends.
type Scope struct {
	collector *Collector
	resolver  *identity.Resolver

	once  sync.Once
	files []string
	err   error
}

// OpenScope starts a module scope writing under outputDir.
func OpenScope(outputDir string, resolver *identity.Resolver) *Scope {
	return &Scope{
		collector: New(outputDir),
		resolver:  resolver,
	}
}

// RecordRun resolves the identity of a finished run and records its fixture.
// Nothing is recorded if the identity cannot be resolved.
func (s *Scope) RecordRun(run domain.Run, fixture *domain.FilledFixture) error {
	id, err := s.resolver.Resolve(run.ID, run.SourcePath, run.BaseName)
	if err != nil {
		return err
	}
	if fixture != nil {
		id = identity.WithSubFixture(id, fixture.Name)
	}
	return s.collector.Record(id, fixture)
}

// Entries lists the fixture keys recorded in this scope.
func (s *Scope) Entries() []domain.IndexEntry {
	return s.collector.Entries()
}

// Close flushes the scope. Only the first call writes; later calls return
// the first result.
func (s *Scope) Close() ([]string, error) {
	s.once.Do(func() {
		s.files, s.err = s.collector.Finalize()
	})
	return s.files, s.err
}
