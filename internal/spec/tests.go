package spec

import (
	"github.com/ethereum/go-ethereum/core/types"

	"evmfill/internal/domain"
)

// StateTest executes a list of transactions in a single block.
type StateTest struct {
	Env  Environment        `json:"env"`
	Pre  types.GenesisAlloc `json:"pre"`
	Txs  []Transaction      `json:"txs"`
	Post Expectations       `json:"post,omitempty"`
}

func (t *StateTest) Kind() domain.TestKind        { return domain.KindState }
func (t *StateTest) PreState() types.GenesisAlloc { return t.Pre }
func (t *StateTest) Expectations() Expectations   { return t.Post }

// GenesisEnv derives the genesis block from the test environment: same
// gas limit, difficulty and base fee, block number and timestamp zero.
func (t *StateTest) GenesisEnv() Environment {
	env := t.Env
	env.Number = 0
	env.Timestamp = 0
	env.ExtraData = nil
	return env
}

// BlockSpecs returns the single block carrying the test's transactions.
func (t *StateTest) BlockSpecs() []Block {
	ts := t.Env.Timestamp
	coinbase := t.Env.Coinbase
	return []Block{{
		Coinbase:  &coinbase,
		Timestamp: &ts,
		ExtraData: t.Env.ExtraData,
		Txs:       t.Txs,
	}}
}

// BlockchainTest executes a sequence of blocks on top of a genesis block.
type BlockchainTest struct {
	Genesis Environment        `json:"genesisEnvironment"`
	Pre     types.GenesisAlloc `json:"pre"`
	Blocks  []Block            `json:"blocks"`
	Post    Expectations       `json:"post,omitempty"`
}

func (t *BlockchainTest) Kind() domain.TestKind        { return domain.KindBlockchain }
func (t *BlockchainTest) GenesisEnv() Environment      { return t.Genesis }
func (t *BlockchainTest) PreState() types.GenesisAlloc { return t.Pre }
func (t *BlockchainTest) BlockSpecs() []Block          { return t.Blocks }
func (t *BlockchainTest) Expectations() Expectations   { return t.Post }
