package execution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/domain"
	"evmfill/internal/filler"
	"evmfill/internal/spec"
)

// fakeFill returns a payload naming the fork, or fails for forks in failOn.
// Filling cancelOn calls cancel and fails with the context error.
type fakeFill struct {
	calls    []string
	failOn   map[string]error
	cancelOn string
	cancel   context.CancelFunc
}

func (f *fakeFill) fill(ctx context.Context, _ filler.TransitionTool, _ filler.BlockBuilder, _ spec.Test, fork string, engine string, _ spec.ReferenceSpec, _ []int) (*domain.FilledFixture, error) {
	f.calls = append(f.calls, fork)
	if fork == f.cancelOn && f.cancel != nil {
		f.cancel()
		return nil, ctx.Err()
	}
	if err := f.failOn[fork]; err != nil {
		return nil, err
	}
	return &domain.FilledFixture{Payload: map[string]string{"network": fork, "sealEngine": engine}, Fork: fork}, nil
}

func newTestRunner(t *testing.T, fake *fakeFill) (*Runner, *config.Config) {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := config.New()
	cfg.FillerPath = filepath.Join(tmpDir, "fillers")
	cfg.OutputDir = filepath.Join(tmpDir, "fixtures")
	return NewRunner(cfg, nil, nil).WithFill(fake.fill), cfg
}

func testFiller(cfg *config.Config, tests ...spec.FillerTest) *discovery.Filler {
	path := filepath.Join(cfg.GetFillerPath(), "eip3855", "push0.json")
	fl := &discovery.Filler{
		Module: domain.Module{Path: path, RelPath: "eip3855/push0.json"},
		File:   &spec.FillerFile{Tests: tests},
	}
	for i, test := range tests {
		for _, fork := range test.Forks {
			fl.Runs = append(fl.Runs, domain.Run{
				ID:         discovery.RunID(fl.RelPath, test.Name, fork),
				SourcePath: path,
				BaseName:   test.Name,
				TestIndex:  i,
				Fork:       fork,
				Kinds:      tests[i].Kinds(),
			})
		}
	}
	return fl
}

func readKeys(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	if _, err := dec.Token(); err != nil {
		t.Fatalf("invalid fixture file: %v", err)
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			t.Fatalf("invalid fixture file: %v", err)
		}
		keys = append(keys, tok.(string))
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			t.Fatalf("invalid fixture file: %v", err)
		}
	}
	return keys
}

func TestRunner_Run(t *testing.T) {
	fake := &fakeFill{}
	runner, cfg := newTestRunner(t, fake)
	fl := testFiller(cfg,
		spec.FillerTest{Name: "test_push0", Forks: []string{"London", "Paris"}, StateTest: &spec.StateTest{}},
		spec.FillerTest{Name: "test_chain", Forks: []string{"Paris"}, FixtureName: "variantA", BlockchainTest: &spec.BlockchainTest{}},
	)

	result := runner.Run(context.Background(), fl, 1)

	if result.FlushErr != nil {
		t.Fatalf("unexpected flush error: %v", result.FlushErr)
	}
	if len(result.Runs) != 3 || result.Filled() != 3 {
		t.Fatalf("expected 3 filled runs, got %d of %d", result.Filled(), len(result.Runs))
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 fixture files, got %v", result.Files)
	}

	keys := readKeys(t, filepath.Join(cfg.GetOutputDir(), "eip3855", "push0", "test_push0.json"))
	expected := []string{"000-fork=London", "001-fork=Paris"}
	if strings.Join(keys, ",") != strings.Join(expected, ",") {
		t.Errorf("expected keys %v, got %v", expected, keys)
	}

	keys = readKeys(t, filepath.Join(cfg.GetOutputDir(), "eip3855", "push0", "test_chain.json"))
	if len(keys) != 1 || keys[0] != "000-fork=Paris-variantA" {
		t.Errorf("expected sub-fixture label in key, got %v", keys)
	}

	if len(result.Entries) != 3 {
		t.Errorf("expected 3 index entries, got %d", len(result.Entries))
	}
}

func TestRunner_Run_GuardBeforeFill(t *testing.T) {
	fake := &fakeFill{}
	runner, cfg := newTestRunner(t, fake)
	fl := testFiller(cfg,
		spec.FillerTest{Name: "test_both", Forks: []string{"London"}, StateTest: &spec.StateTest{}, BlockchainTest: &spec.BlockchainTest{}},
		spec.FillerTest{Name: "test_none", Forks: []string{"London"}},
	)

	result := runner.Run(context.Background(), fl, 1)

	if len(fake.calls) != 0 {
		t.Errorf("fill must not be invoked when the kind check fails, got %d calls", len(fake.calls))
	}
	for _, rr := range result.Runs {
		var fe *domain.FillError
		if !errors.As(rr.Error, &fe) || fe.Class != domain.ErrKind {
			t.Errorf("%s: expected KIND error, got %v", rr.Run.ID, rr.Error)
			continue
		}
		if fe.RunID != rr.Run.ID || fe.Module != fl.RelPath {
			t.Errorf("error not attributed to the run: %+v", fe)
		}
	}
	if len(result.Files) != 0 {
		t.Errorf("expected no fixture files, got %v", result.Files)
	}
}

func TestRunner_Run_FailedRunContinues(t *testing.T) {
	toolErr := &domain.FillError{Class: domain.ErrTool, Message: "t8n failed (evm error)"}
	fake := &fakeFill{failOn: map[string]error{"London": toolErr}}
	runner, cfg := newTestRunner(t, fake)
	fl := testFiller(cfg,
		spec.FillerTest{Name: "test_push0", Forks: []string{"London", "Paris"}, StateTest: &spec.StateTest{}},
	)

	result := runner.Run(context.Background(), fl, 1)

	if result.Filled() != 1 || !result.Failed() {
		t.Fatalf("expected one filled and one failed run, got %+v", result.Runs)
	}
	var fe *domain.FillError
	if !errors.As(result.Runs[0].Error, &fe) || fe.Class != domain.ErrTool {
		t.Fatalf("expected TOOL error, got %v", result.Runs[0].Error)
	}
	if toolErr.RunID != "" {
		t.Error("the original error must not be modified")
	}

	keys := readKeys(t, filepath.Join(cfg.GetOutputDir(), "eip3855", "push0", "test_push0.json"))
	if len(keys) != 1 || keys[0] != "000-fork=Paris" {
		t.Errorf("expected only the Paris fixture, got %v", keys)
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	fake := &fakeFill{}
	runner, cfg := newTestRunner(t, fake)
	fl := testFiller(cfg,
		spec.FillerTest{Name: "test_push0", Forks: []string{"London"}, StateTest: &spec.StateTest{}},
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := runner.Run(ctx, fl, 1)

	if !result.Aborted {
		t.Error("expected module to be aborted")
	}
	if _, err := os.Stat(cfg.GetOutputDir()); !os.IsNotExist(err) {
		t.Errorf("expected nothing written, stat returned %v", err)
	}
}

func TestRunner_Run_CancelledDuringLastRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fake := &fakeFill{cancelOn: "Paris", cancel: cancel}
	runner, cfg := newTestRunner(t, fake)
	fl := testFiller(cfg,
		spec.FillerTest{Name: "test_push0", Forks: []string{"London", "Paris"}, StateTest: &spec.StateTest{}},
	)

	result := runner.Run(ctx, fl, 1)

	if len(fake.calls) != 2 {
		t.Fatalf("expected both runs to be filled, got %v", fake.calls)
	}
	if !result.Aborted {
		t.Error("expected module to be aborted")
	}
	if len(result.Files) != 0 || len(result.Entries) != 0 {
		t.Errorf("expected no files or entries, got %v / %v", result.Files, result.Entries)
	}
	path := filepath.Join(cfg.GetOutputDir(), "eip3855", "push0", "test_push0.json")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s not to be written, stat returned %v", path, err)
	}
}

func TestAnnotate(t *testing.T) {
	run := domain.Run{ID: "a.json::t[fork=London]"}
	inner := &domain.FillError{Class: domain.ErrTool, Message: "t8n failed"}

	fe := annotate(fmt.Errorf("block 2: %w", inner), run, "a.json")
	if fe.Message != "block 2: t8n failed" {
		t.Errorf("unexpected message %q", fe.Message)
	}
	if fe.RunID != run.ID || fe.Module != "a.json" {
		t.Errorf("unexpected attribution %+v", fe)
	}

	fe = annotate(errors.New("decode t8n output: EOF"), run, "a.json")
	if fe.Class != domain.ErrTool || fe.Cause == nil {
		t.Errorf("expected wrapped TOOL error, got %+v", fe)
	}
}
