package evm

import (
	"context"

	"evmfill/internal/parser"
)

// SolcVersion returns the version of the solc compiler on PATH, or an empty
// string when it is not installed. It is only used for the console banner.
func SolcVersion(ctx context.Context, r CommandRunner) string {
	if r == nil {
		r = OSRunner{}
	}
	inv := r.Run(ctx, "solc", []string{"solc", "--version"}, nil)
	if inv.Err != nil {
		return ""
	}
	return parser.NewEVMParser().ParseSolcVersion(inv.Stdout)
}
