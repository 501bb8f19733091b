package filler

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"evmfill/internal/spec"
)

// Values used when a test leaves them unset.
const (
	DefaultGasLimit   = 100_000_000_000_000_000
	DefaultDifficulty = "0x20000"
	DefaultBaseFee    = "0x7"
	DefaultGasPrice   = 10
	BlockTime         = 12
)

// WithDefaults returns a copy of txs with the fields the transition tool
// requires filled in: zero value and signature, chain id for typed
// transactions and a gas price for legacy ones.
func WithDefaults(txs []spec.Transaction) []spec.Transaction {
	out := make([]spec.Transaction, len(txs))
	for i, tx := range txs {
		if tx.Value == nil {
			tx.Value = new(hexutil.Big)
		}
		if tx.Input == nil {
			tx.Input = hexutil.Bytes{}
		}
		if tx.V == nil {
			tx.V = new(hexutil.Big)
		}
		if tx.R == nil {
			tx.R = new(hexutil.Big)
		}
		if tx.S == nil {
			tx.S = new(hexutil.Big)
		}
		if tx.Type > 0 && tx.ChainID == nil {
			tx.ChainID = (*hexutil.Big)(big.NewInt(ChainID))
		}
		if tx.Type < 2 && tx.GasPrice == nil {
			tx.GasPrice = (*hexutil.Big)(big.NewInt(DefaultGasPrice))
		}
		out[i] = tx
	}
	return out
}
