// Package spec holds the declarative test specifications authored in
// filler files. Values in this package are plain data: building them has no
// side effects, filling them is done by package filler.
package spec

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"

	"evmfill/internal/domain"
)

// Test is a fillable test specification.
type Test interface {
	Kind() domain.TestKind
	GenesisEnv() Environment
	PreState() types.GenesisAlloc
	BlockSpecs() []Block
	Expectations() Expectations
}

// ReferenceSpec points at the specification document a test covers.
type ReferenceSpec struct {
	GitPath string `json:"gitPath"`
	Version string `json:"version"`
}

// Environment describes the block a state test executes in, or the genesis
// block of a blockchain test.
type Environment struct {
	Coinbase   common.Address        `json:"currentCoinbase"`
	GasLimit   math.HexOrDecimal64   `json:"currentGasLimit"`
	Number     math.HexOrDecimal64   `json:"currentNumber"`
	Timestamp  math.HexOrDecimal64   `json:"currentTimestamp"`
	Difficulty *math.HexOrDecimal256 `json:"currentDifficulty,omitempty"`
	BaseFee    *math.HexOrDecimal256 `json:"currentBaseFee,omitempty"`
	PrevRandao *common.Hash          `json:"currentRandom,omitempty"`
	ExtraData  hexutil.Bytes         `json:"extraData,omitempty"`
}

// Transaction is an unsigned transaction; the transition tool signs it with SecretKey.
type Transaction struct {
	Type                 hexutil.Uint64   `json:"type"`
	ChainID              *hexutil.Big     `json:"chainId,omitempty"`
	Nonce                hexutil.Uint64   `json:"nonce"`
	To                   *common.Address  `json:"to"`
	Gas                  hexutil.Uint64   `json:"gas"`
	GasPrice             *hexutil.Big     `json:"gasPrice,omitempty"`
	MaxPriorityFeePerGas *hexutil.Big     `json:"maxPriorityFeePerGas,omitempty"`
	MaxFeePerGas         *hexutil.Big     `json:"maxFeePerGas,omitempty"`
	Value                *hexutil.Big     `json:"value"`
	Input                hexutil.Bytes    `json:"input"`
	AccessList           types.AccessList `json:"accessList,omitempty"`
	V                    *hexutil.Big     `json:"v"`
	R                    *hexutil.Big     `json:"r"`
	S                    *hexutil.Big     `json:"s"`
	SecretKey            *common.Hash     `json:"secretKey,omitempty"`
}

// Block is one block of a blockchain test. Unset fields are derived from the parent.
type Block struct {
	Coinbase  *common.Address      `json:"coinbase,omitempty"`
	Timestamp *math.HexOrDecimal64 `json:"timestamp,omitempty"`
	ExtraData hexutil.Bytes        `json:"extraData,omitempty"`
	Txs       []Transaction        `json:"txs"`
}

// ExpectedAccount lists the post-state fields a test asserts. Nil fields
// are not checked.
type ExpectedAccount struct {
	Nonce   *math.HexOrDecimal64  `json:"nonce,omitempty"`
	Balance *math.HexOrDecimal256 `json:"balance,omitempty"`
	Code    *hexutil.Bytes        `json:"code,omitempty"`
	Storage map[string]string     `json:"storage,omitempty"`
}

// Expectations maps addresses to expected accounts. A nil account means
// the address must not exist after execution.
type Expectations map[common.Address]*ExpectedAccount
