package evm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"evmfill/internal/parser"
)

// BlockBuilder is a handle on `evm b11r`. It is created once per session
// and is safe for concurrent use.
type BlockBuilder struct {
	binary string
	runner CommandRunner
	parser *parser.EVMParser
}

// NewBlockBuilder creates a handle on the given evm binary.
func NewBlockBuilder(binary string) *BlockBuilder {
	if binary == "" {
		binary = "evm"
	}
	return &BlockBuilder{
		binary: binary,
		runner: OSRunner{},
		parser: parser.NewEVMParser(),
	}
}

// WithRunner returns a copy of the builder using r to execute commands.
func (b *BlockBuilder) WithRunner(r CommandRunner) *BlockBuilder {
	cp := *b
	cp.runner = r
	return &cp
}

type builderInput struct {
	Header      builderHeader       `json:"header"`
	Txs         string              `json:"txs"`
	Ommers      []string            `json:"ommers"`
	Withdrawals []*types.Withdrawal `json:"withdrawals,omitempty"`
}

// Build assembles and seals a block from a header and the RLP encoded
// transaction list produced by t8n.
func (b *BlockBuilder) Build(ctx context.Context, header *Header, txsRLP []byte, withdrawals []*types.Withdrawal) (*BuiltBlock, error) {
	if len(txsRLP) == 0 {
		txsRLP = []byte{0xc0} // empty list
	}
	input, err := json.Marshal(builderInput{
		Header:      header.toBuilder(),
		Txs:         hexutil.Encode(txsRLP),
		Ommers:      []string{},
		Withdrawals: withdrawals,
	})
	if err != nil {
		return nil, fmt.Errorf("encode b11r input: %w", err)
	}
	args := []string{
		b.binary, "b11r",
		"--input.header=stdin",
		"--input.txs=stdin",
		"--input.ommers=stdin",
		"--output.block=stdout",
	}
	if withdrawals != nil {
		args = append(args, "--input.withdrawals=stdin")
	}

	log.Debug("Invoking block builder", "number", uint64(header.Number))
	inv := b.runner.Run(ctx, "b11r", args, input)
	if inv.Err != nil {
		return nil, b.parser.ParseFailure(inv)
	}
	var out BuiltBlock
	if err := json.Unmarshal([]byte(inv.Stdout), &out); err != nil {
		return nil, fmt.Errorf("decode b11r output: %w", err)
	}
	return &out, nil
}
