package parser

import (
	"fmt"
	"regexp"
	"strings"

	"evmfill/internal/domain"
)

// Exit codes used by go-ethereum's t8ntool.
const (
	ExitEVM              = 2
	ExitConfig           = 3
	ExitMissingBlockhash = 4
	ExitJSON             = 10
	ExitIO               = 11
	ExitRLP              = 12
)

var (
	evmVersionPattern  = regexp.MustCompile(`(?i)version\s+(\S+)`)
	solcVersionPattern = regexp.MustCompile(`0\.\d+\.\d+\+\S+`)
	errorLinePattern   = regexp.MustCompile(`(?i)^(fatal|error|err)\b|(^|\s)(lvl|level)=(eror|error|crit)\b`)
)

// EVMParser parses the output of the evm t8n/b11r tools
type EVMParser struct{}

// NewEVMParser creates a new EVMParser
func NewEVMParser() *EVMParser {
	return &EVMParser{}
}

// ExitCodeName names a t8ntool exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitEVM:
		return "evm error"
	case ExitConfig:
		return "configuration error"
	case ExitMissingBlockhash:
		return "missing blockhash"
	case ExitJSON:
		return "json error"
	case ExitIO:
		return "io error"
	case ExitRLP:
		return "rlp error"
	default:
		return fmt.Sprintf("exit status %d", code)
	}
}

// ParseFailure classifies a failed tool invocation as a TOOL error. The
// message is the most relevant stderr line; all non-empty stderr lines are
// kept as details.
func (p *EVMParser) ParseFailure(inv Invocation) *domain.FillError {
	lines := nonEmptyLines(inv.Stderr)

	message := ""
	for _, line := range lines {
		if errorLinePattern.MatchString(line) {
			message = line
			break
		}
	}
	if message == "" && len(lines) > 0 {
		message = lines[len(lines)-1]
	}

	summary := fmt.Sprintf("%s failed", inv.Tool)
	if inv.ExitCode > 0 {
		summary = fmt.Sprintf("%s failed (%s)", inv.Tool, ExitCodeName(inv.ExitCode))
	}
	if message != "" {
		summary += ": " + message
	}

	return &domain.FillError{
		Class:    domain.ErrTool,
		Message:  summary,
		ExitCode: inv.ExitCode,
		Details:  lines,
		Cause:    inv.Err,
	}
}

// ParseVersion extracts the version from `evm -v` output, falling back to
// the trimmed first line.
func (p *EVMParser) ParseVersion(output string) string {
	lines := nonEmptyLines(output)
	if len(lines) == 0 {
		return ""
	}
	if m := evmVersionPattern.FindStringSubmatch(lines[0]); m != nil {
		return m[1]
	}
	return lines[0]
}

// ParseSolcVersion extracts the version string from `solc --version` output.
func (p *EVMParser) ParseSolcVersion(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if m := solcVersionPattern.FindString(line); m != "" {
			return m
		}
	}
	return ""
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
