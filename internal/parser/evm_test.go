package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"evmfill/internal/domain"
)

func TestEVMParser_ParseFailure(t *testing.T) {
	p := NewEVMParser()

	tests := []struct {
		name        string
		inv         Invocation
		wantMessage string
		wantDetails int
	}{
		{
			name: "config error with error line",
			inv: Invocation{
				Tool:     "t8n",
				ExitCode: ExitConfig,
				Stderr:   "INFO [01-01|00:00:00] Trie dumping started\nERROR(3): unsupported fork \"Londn\"\n",
			},
			wantMessage: "t8n failed (configuration error): ERROR(3): unsupported fork \"Londn\"",
			wantDetails: 2,
		},
		{
			name: "logfmt error level",
			inv: Invocation{
				Tool:     "b11r",
				ExitCode: ExitRLP,
				Stderr:   "t=2024 lvl=info msg=start\nt=2024 lvl=eror msg=\"rlp: too short\"\n",
			},
			wantMessage: "b11r failed (rlp error): t=2024 lvl=eror msg=\"rlp: too short\"",
			wantDetails: 2,
		},
		{
			name:        "falls back to last line",
			inv:         Invocation{Tool: "t8n", ExitCode: 1, Stderr: "first\nsecond\n"},
			wantMessage: "t8n failed (exit status 1): second",
			wantDetails: 2,
		},
		{
			name:        "no output",
			inv:         Invocation{Tool: "t8n", Err: errors.New("exec: \"evm\": executable file not found in $PATH")},
			wantMessage: "t8n failed",
			wantDetails: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := p.ParseFailure(tt.inv)
			assert.Equal(t, domain.ErrTool, fe.Class)
			assert.Equal(t, tt.wantMessage, fe.Message)
			assert.Len(t, fe.Details, tt.wantDetails)
			assert.Equal(t, tt.inv.ExitCode, fe.ExitCode)
			assert.Equal(t, tt.inv.Err, fe.Cause)
		})
	}
}

func TestEVMParser_ParseVersion(t *testing.T) {
	p := NewEVMParser()
	assert.Equal(t, "1.14.11-stable-f3c696fa", p.ParseVersion("evm version 1.14.11-stable-f3c696fa\n"))
	assert.Equal(t, "custom-tool", p.ParseVersion("\ncustom-tool\n"))
	assert.Equal(t, "", p.ParseVersion(""))
}

func TestEVMParser_ParseSolcVersion(t *testing.T) {
	p := NewEVMParser()
	out := "solc, the solidity compiler commandline interface\nVersion: 0.8.17+commit.8df45f5f.Linux.g++\n"
	assert.Equal(t, "0.8.17+commit.8df45f5f.Linux.g++", p.ParseSolcVersion(out))
	assert.Equal(t, "", p.ParseSolcVersion("command not found"))
}
