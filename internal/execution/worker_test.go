package execution

import (
	"context"
	"sync"
	"testing"

	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/domain"
)

// fakeModuleRunner marks modules listed in fail as failed.
type fakeModuleRunner struct {
	mu   sync.Mutex
	ran  []string
	fail map[string]bool
}

func (f *fakeModuleRunner) Run(_ context.Context, fl *discovery.Filler, _ int) domain.ModuleResult {
	f.mu.Lock()
	f.ran = append(f.ran, fl.RelPath)
	f.mu.Unlock()
	return domain.ModuleResult{
		Module: fl.RelPath,
		Runs:   []domain.RunResult{{Module: fl.RelPath, Success: !f.fail[fl.RelPath]}},
	}
}

type fakeProgress struct {
	mu       sync.Mutex
	filled   int
	failed   int
	finished bool
}

func (p *fakeProgress) Update(filled, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filled, p.failed = filled, failed
}

func (p *fakeProgress) Finish() { p.finished = true }

func TestWorkerPool_Execute(t *testing.T) {
	cfg := config.New()
	cfg.Workers = 3
	runner := &fakeModuleRunner{fail: map[string]bool{"c": true}}
	pool := NewWorkerPool(cfg, runner, NewRoundRobinScheduler())
	progress := &fakeProgress{}
	pool.SetProgress(progress)

	results, _, err := pool.Execute(context.Background(), fillersNamed("a", "b", "c", "d", "e"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		if results[i].Module != name {
			t.Errorf("result %d: expected module %s, got %s", i, name, results[i].Module)
		}
	}
	if progress.filled != 4 || progress.failed != 1 || !progress.finished {
		t.Errorf("unexpected progress: %+v", progress)
	}
}

func TestWorkerPool_ExecuteFailFast(t *testing.T) {
	cfg := config.New()
	cfg.Workers = 1
	runner := &fakeModuleRunner{fail: map[string]bool{"b": true}}
	pool := NewWorkerPool(cfg, runner, NewRoundRobinScheduler())

	results, _, err := pool.ExecuteWithOptions(context.Background(), fillersNamed("a", "b", "c", "d"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected execution to stop after the failed module, got %d results", len(results))
	}
	for _, name := range runner.ran {
		if name == "c" || name == "d" {
			t.Errorf("module %s must not start after a failure", name)
		}
	}
}

func TestWorkerPool_ExecuteEmpty(t *testing.T) {
	pool := NewWorkerPool(config.New(), &fakeModuleRunner{}, NewRoundRobinScheduler())
	results, duration, err := pool.Execute(context.Background(), nil)
	if err != nil || results != nil || duration != 0 {
		t.Errorf("expected empty execution, got %v %v %v", results, duration, err)
	}
}
