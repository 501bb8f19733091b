// Package evm drives the external evm executable: the state transition
// tool (t8n) and the block builder (b11r).
package evm

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"evmfill/internal/parser"
)

// CommandRunner executes an external command with the given stdin.
type CommandRunner interface {
	Run(ctx context.Context, tool string, argv []string, stdin []byte) parser.Invocation
}

// OSRunner executes commands on the host.
type OSRunner struct{}

// Run executes argv and captures stdout and stderr separately.
func (OSRunner) Run(ctx context.Context, tool string, argv []string, stdin []byte) parser.Invocation {
	inv := parser.Invocation{Tool: tool, Args: argv}
	if len(argv) == 0 {
		inv.Err = errors.New("empty argv")
		return inv
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	inv.Stdout = stdout.String()
	inv.Stderr = stderr.String()
	if err != nil {
		inv.Err = err
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			inv.ExitCode = exitErr.ExitCode()
		}
	}
	return inv
}
