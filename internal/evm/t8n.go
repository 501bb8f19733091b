package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"evmfill/internal/parser"
	"evmfill/internal/spec"
)

// TransitionTool is a handle on `evm t8n`. It is created once per session
// and is safe for concurrent use.
type TransitionTool struct {
	binary string
	trace  bool
	runner CommandRunner
	parser *parser.EVMParser

	version *versionCache
}

type versionCache struct {
	once sync.Once
	v    string
	err  error
}

// NewTransitionTool creates a handle on the given evm binary. An empty
// binary means "evm" from PATH.
func NewTransitionTool(binary string, trace bool) *TransitionTool {
	if binary == "" {
		binary = "evm"
	}
	return &TransitionTool{
		binary:  binary,
		trace:   trace,
		runner:  OSRunner{},
		parser:  parser.NewEVMParser(),
		version: &versionCache{},
	}
}

// WithRunner returns a copy of the tool using r to execute commands.
func (t *TransitionTool) WithRunner(r CommandRunner) *TransitionTool {
	cp := *t
	cp.runner = r
	cp.version = &versionCache{}
	return &cp
}

// Binary returns the configured executable.
func (t *TransitionTool) Binary() string { return t.binary }

// Version returns the version reported by `evm -v`. The binary is only
// queried once per handle.
func (t *TransitionTool) Version(ctx context.Context) (string, error) {
	t.version.once.Do(func() {
		inv := t.runner.Run(ctx, "evm", []string{t.binary, "-v"}, nil)
		if inv.Err != nil {
			t.version.err = t.parser.ParseFailure(inv)
			return
		}
		t.version.v = t.parser.ParseVersion(inv.Stdout)
	})
	return t.version.v, t.version.err
}

type transitionInput struct {
	Alloc types.GenesisAlloc `json:"alloc"`
	Txs   []spec.Transaction `json:"txs"`
	Env   *Env               `json:"env"`
}

// Evaluate executes txs on top of alloc in the block described by env.
func (t *TransitionTool) Evaluate(ctx context.Context, alloc types.GenesisAlloc, txs []spec.Transaction, env *Env, fork string, chainID uint64, reward int64) (*TransitionOutput, error) {
	if txs == nil {
		txs = []spec.Transaction{}
	}
	input, err := json.Marshal(transitionInput{Alloc: alloc, Txs: txs, Env: env})
	if err != nil {
		return nil, fmt.Errorf("encode t8n input: %w", err)
	}

	args := []string{
		t.binary, "t8n",
		"--input.alloc=stdin",
		"--input.txs=stdin",
		"--input.env=stdin",
		"--output.result=stdout",
		"--output.alloc=stdout",
		"--output.body=stdout",
		"--state.fork=" + fork,
		"--state.chainid=" + strconv.FormatUint(chainID, 10),
		"--state.reward=" + strconv.FormatInt(reward, 10),
	}
	var traceDir string
	if t.trace {
		traceDir, err = os.MkdirTemp("", "evmfill-t8n-*")
		if err != nil {
			return nil, fmt.Errorf("create trace dir: %w", err)
		}
		defer os.RemoveAll(traceDir)
		args = append(args, "--trace", "--output.basedir="+traceDir)
	}

	log.Debug("Invoking transition tool", "fork", fork, "txs", len(txs), "number", uint64(env.Number))
	inv := t.runner.Run(ctx, "t8n", args, input)
	if inv.Err != nil {
		fe := t.parser.ParseFailure(inv)
		fe.Details = append(fe.Details, traceNames(traceDir)...)
		return nil, fe
	}

	var out TransitionOutput
	if err := json.Unmarshal([]byte(inv.Stdout), &out); err != nil {
		return nil, fmt.Errorf("decode t8n output: %w", err)
	}
	if traceDir != "" {
		out.Traces, err = readTraces(traceDir)
		if err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func traceNames(dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, "trace: "+e.Name())
	}
	return names
}

func readTraces(dir string) (map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read trace dir: %w", err)
	}
	traces := make(map[string][]byte, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read trace %s: %w", e.Name(), err)
		}
		traces[e.Name()] = data
	}
	return traces, nil
}
