package evm

import (
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"

	"evmfill/internal/spec"
)

// Env is the t8n block environment: the test-facing environment plus
// values derived from the parent block.
type Env struct {
	spec.Environment
	ParentDifficulty *math.HexOrDecimal256               `json:"parentDifficulty,omitempty"`
	ParentTimestamp  math.HexOrDecimal64                 `json:"parentTimestamp,omitempty"`
	ParentBaseFee    *math.HexOrDecimal256               `json:"parentBaseFee,omitempty"`
	ParentGasUsed    math.HexOrDecimal64                 `json:"parentGasUsed,omitempty"`
	ParentGasLimit   math.HexOrDecimal64                 `json:"parentGasLimit,omitempty"`
	ParentUncleHash  *common.Hash                        `json:"parentUncleHash,omitempty"`
	BlockHashes      map[math.HexOrDecimal64]common.Hash `json:"blockHashes,omitempty"`
	Withdrawals      []*types.Withdrawal                 `json:"withdrawals,omitempty"`

	ParentBeaconBlockRoot *common.Hash         `json:"parentBeaconBlockRoot,omitempty"`
	ExcessBlobGas         *math.HexOrDecimal64 `json:"currentExcessBlobGas,omitempty"`
	ParentExcessBlobGas   *math.HexOrDecimal64 `json:"parentExcessBlobGas,omitempty"`
	ParentBlobGasUsed     *math.HexOrDecimal64 `json:"parentBlobGasUsed,omitempty"`
}

// RejectedTx is a transaction the transition tool refused to include.
type RejectedTx struct {
	Index int    `json:"index"`
	Err   string `json:"error"`
}

// Result is the execution result reported by t8n.
type Result struct {
	StateRoot       common.Hash           `json:"stateRoot"`
	TxRoot          common.Hash           `json:"txRoot"`
	ReceiptsRoot    common.Hash           `json:"receiptsRoot"`
	LogsHash        common.Hash           `json:"logsHash"`
	Bloom           types.Bloom           `json:"logsBloom"`
	Receipts        []json.RawMessage     `json:"receipts"`
	Rejected        []RejectedTx          `json:"rejected,omitempty"`
	Difficulty      *math.HexOrDecimal256 `json:"currentDifficulty"`
	GasUsed         math.HexOrDecimal64   `json:"gasUsed"`
	BaseFee         *math.HexOrDecimal256 `json:"currentBaseFee,omitempty"`
	WithdrawalsRoot *common.Hash          `json:"withdrawalsRoot,omitempty"`
	BlobGasUsed     *math.HexOrDecimal64  `json:"blobGasUsed,omitempty"`
	ExcessBlobGas   *math.HexOrDecimal64  `json:"currentExcessBlobGas,omitempty"`
}

// TransitionOutput is everything t8n writes to stdout for one block.
type TransitionOutput struct {
	Alloc  types.GenesisAlloc `json:"alloc"`
	Result Result             `json:"result"`
	Body   hexutil.Bytes      `json:"body"`
	Traces map[string][]byte  `json:"-"` // Trace file name to contents, when tracing
}

// Header is a block header in the form written to blockchain fixtures.
type Header struct {
	ParentHash      common.Hash      `json:"parentHash"`
	UncleHash       common.Hash      `json:"uncleHash"`
	Coinbase        common.Address   `json:"coinbase"`
	StateRoot       common.Hash      `json:"stateRoot"`
	TxRoot          common.Hash      `json:"transactionsTrie"`
	ReceiptsRoot    common.Hash      `json:"receiptTrie"`
	Bloom           types.Bloom      `json:"bloom"`
	Difficulty      *hexutil.Big     `json:"difficulty"`
	Number          hexutil.Uint64   `json:"number"`
	GasLimit        hexutil.Uint64   `json:"gasLimit"`
	GasUsed         hexutil.Uint64   `json:"gasUsed"`
	Timestamp       hexutil.Uint64   `json:"timestamp"`
	ExtraData       hexutil.Bytes    `json:"extraData"`
	MixHash         common.Hash      `json:"mixHash"`
	Nonce           types.BlockNonce `json:"nonce"`
	BaseFee         *hexutil.Big     `json:"baseFeePerGas,omitempty"`
	WithdrawalsRoot *common.Hash     `json:"withdrawalsRoot,omitempty"`
	BlobGasUsed     *hexutil.Uint64  `json:"blobGasUsed,omitempty"`
	ExcessBlobGas   *hexutil.Uint64  `json:"excessBlobGas,omitempty"`
	BeaconRoot      *common.Hash     `json:"parentBeaconBlockRoot,omitempty"`
	Hash            common.Hash      `json:"hash"`
}

// builderHeader is the header as b11r reads it.
type builderHeader struct {
	ParentHash      common.Hash      `json:"parentHash"`
	OmmerHash       common.Hash      `json:"sha3Ommers"`
	Coinbase        common.Address   `json:"miner"`
	Root            common.Hash      `json:"stateRoot"`
	TxHash          common.Hash      `json:"transactionsRoot"`
	ReceiptHash     common.Hash      `json:"receiptsRoot"`
	Bloom           types.Bloom      `json:"logsBloom"`
	Difficulty      *hexutil.Big     `json:"difficulty"`
	Number          *hexutil.Big     `json:"number"`
	GasLimit        hexutil.Uint64   `json:"gasLimit"`
	GasUsed         hexutil.Uint64   `json:"gasUsed"`
	Time            hexutil.Uint64   `json:"timestamp"`
	Extra           hexutil.Bytes    `json:"extraData"`
	MixDigest       common.Hash      `json:"mixHash"`
	Nonce           types.BlockNonce `json:"nonce"`
	BaseFee         *hexutil.Big     `json:"baseFeePerGas,omitempty"`
	WithdrawalsRoot *common.Hash     `json:"withdrawalsRoot,omitempty"`
	BlobGasUsed     *hexutil.Uint64  `json:"blobGasUsed,omitempty"`
	ExcessBlobGas   *hexutil.Uint64  `json:"excessBlobGas,omitempty"`
	BeaconRoot      *common.Hash     `json:"parentBeaconBlockRoot,omitempty"`
}

func (h *Header) toBuilder() builderHeader {
	difficulty := h.Difficulty
	if difficulty == nil {
		difficulty = (*hexutil.Big)(new(big.Int))
	}
	return builderHeader{
		ParentHash:      h.ParentHash,
		OmmerHash:       h.UncleHash,
		Coinbase:        h.Coinbase,
		Root:            h.StateRoot,
		TxHash:          h.TxRoot,
		ReceiptHash:     h.ReceiptsRoot,
		Bloom:           h.Bloom,
		Difficulty:      difficulty,
		Number:          (*hexutil.Big)(new(big.Int).SetUint64(uint64(h.Number))),
		GasLimit:        h.GasLimit,
		GasUsed:         h.GasUsed,
		Time:            h.Timestamp,
		Extra:           h.ExtraData,
		MixDigest:       h.MixHash,
		Nonce:           h.Nonce,
		BaseFee:         h.BaseFee,
		WithdrawalsRoot: h.WithdrawalsRoot,
		BlobGasUsed:     h.BlobGasUsed,
		ExcessBlobGas:   h.ExcessBlobGas,
		BeaconRoot:      h.BeaconRoot,
	}
}

// BuiltBlock is the sealed block returned by b11r.
type BuiltBlock struct {
	RLP  hexutil.Bytes `json:"rlp"`
	Hash common.Hash   `json:"hash"`
}
