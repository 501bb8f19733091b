package parser

import "evmfill/internal/domain"

// Parser turns raw tool output into structured fill failures
type Parser interface {
	ParseFailure(inv Invocation) *domain.FillError
}

// Invocation is the raw record of one external tool call
type Invocation struct {
	Tool     string // "t8n", "b11r", ...
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error // Error from starting or waiting for the process
}
