package filler

import (
	"encoding/json"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"evmfill/internal/evm"
)

// Fixture is the filled blockchain fixture written for every run.
type Fixture struct {
	Info               *Info              `json:"_info,omitempty"`
	Network            string             `json:"network"`
	GenesisBlockHeader *evm.Header        `json:"genesisBlockHeader"`
	GenesisRLP         hexutil.Bytes      `json:"genesisRLP"`
	Blocks             []Block            `json:"blocks"`
	LastBlockHash      common.Hash        `json:"lastblockhash"`
	Pre                types.GenesisAlloc `json:"pre"`
	PostState          types.GenesisAlloc `json:"postState"`
	SealEngine         string             `json:"sealEngine"`
}

// Info describes how a fixture was produced.
type Info struct {
	Hash                  string `json:"hash"`
	FillingTransitionTool string `json:"filling-transition-tool"`
	ReferenceSpec         string `json:"reference-spec,omitempty"`
	ReferenceSpecVersion  string `json:"reference-spec-version,omitempty"`
}

// Block is one sealed block of a fixture.
type Block struct {
	RLP hexutil.Bytes `json:"rlp"`
}

// ComputeHash returns the keccak256 hash of the canonical JSON form of the
// fixture, excluding _info.
func (f *Fixture) ComputeHash() (string, error) {
	cp := *f
	cp.Info = nil
	data, err := json.Marshal(&cp)
	if err != nil {
		return "", err
	}
	return CanonicalHash(data)
}

// CanonicalHash hashes the RFC 8785 canonical form of a JSON document, so
// key order and whitespace do not affect the result.
func CanonicalHash(data []byte) (string, error) {
	canonical, err := jsoncanonicalizer.Transform(data)
	if err != nil {
		return "", err
	}
	return crypto.Keccak256Hash(canonical).Hex(), nil
}
