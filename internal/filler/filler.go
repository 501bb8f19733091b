// Package filler executes test specifications against the transition and
// block builder tools and assembles the resulting blockchain fixture.
package filler

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"

	"evmfill/internal/domain"
	"evmfill/internal/evm"
	"evmfill/internal/forks"
	"evmfill/internal/spec"
)

// ChainID is the chain id every fixture is filled for.
const ChainID = 1

// TransitionTool applies transactions to a state. *evm.TransitionTool
// implements it.
type TransitionTool interface {
	Evaluate(ctx context.Context, alloc types.GenesisAlloc, txs []spec.Transaction, env *evm.Env, fork string, chainID uint64, reward int64) (*evm.TransitionOutput, error)
	Version(ctx context.Context) (string, error)
}

// BlockBuilder seals a header and body into an RLP block. *evm.BlockBuilder
// implements it.
type BlockBuilder interface {
	Build(ctx context.Context, header *evm.Header, txsRLP []byte, withdrawals []*types.Withdrawal) (*evm.BuiltBlock, error)
}

// Fill produces the filled fixture for one test at one fork. Errors from
// the tools are returned with their *domain.FillError intact.
func Fill(ctx context.Context, t8n TransitionTool, b11r BlockBuilder, test spec.Test, fork string, engine string, ref spec.ReferenceSpec, eips []int) (*domain.FilledFixture, error) {
	if err := forks.Validate(fork); err != nil {
		return nil, domain.WrapError(domain.ErrSpec, "cannot fill test", err)
	}
	network := forks.WithEIPs(fork, eips)

	f := &filling{
		ctx:     ctx,
		t8n:     t8n,
		b11r:    b11r,
		fork:    fork,
		network: network,
		hashes:  make(map[math.HexOrDecimal64]common.Hash),
	}

	genesis, genesisRLP, err := f.genesis(test)
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	alloc := test.PreState()
	parent := genesis
	blocks := make([]Block, 0, len(test.BlockSpecs()))
	for i, b := range test.BlockSpecs() {
		header, built, post, err := f.block(parent, b, alloc, test.GenesisEnv().Coinbase)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		blocks = append(blocks, Block{RLP: built.RLP})
		alloc = post
		parent = header
	}

	if err := CheckPost(test.Expectations(), alloc); err != nil {
		return nil, err
	}

	// An unknown version leaves the fixture label empty.
	toolVersion, err := t8n.Version(ctx)
	if err != nil {
		log.Warn("Could not read transition tool version", "err", err)
		toolVersion = ""
	}

	fixture := &Fixture{
		Network:            network,
		GenesisBlockHeader: genesis,
		GenesisRLP:         genesisRLP,
		Blocks:             blocks,
		LastBlockHash:      parent.Hash,
		Pre:                test.PreState(),
		PostState:          alloc,
		SealEngine:         engine,
	}
	hash, err := fixture.ComputeHash()
	if err != nil {
		return nil, fmt.Errorf("hash fixture: %w", err)
	}
	fixture.Info = &Info{
		Hash:                  hash,
		FillingTransitionTool: toolVersion,
		ReferenceSpec:         ref.GitPath,
		ReferenceSpecVersion:  ref.Version,
	}

	log.Debug("Filled fixture", "fork", network, "blocks", len(blocks), "hash", hash)
	return &domain.FilledFixture{Payload: fixture, Hash: hash, Fork: fork}, nil
}

// filling carries the chain being built for one Fill call.
type filling struct {
	ctx     context.Context
	t8n     TransitionTool
	b11r    BlockBuilder
	fork    string
	network string
	hashes  map[math.HexOrDecimal64]common.Hash
}

func (f *filling) genesis(test spec.Test) (*evm.Header, hexutil.Bytes, error) {
	env := &evm.Env{Environment: test.GenesisEnv()}
	env.Number = 0
	if env.GasLimit == 0 {
		env.GasLimit = DefaultGasLimit
	}
	if len(env.ExtraData) == 0 {
		env.ExtraData = hexutil.Bytes{0x00}
	}
	if forks.IsPostMerge(f.fork) {
		env.Difficulty = new(math.HexOrDecimal256)
		if env.PrevRandao == nil {
			env.PrevRandao = &common.Hash{}
		}
	} else if env.Difficulty == nil {
		env.Difficulty = (*math.HexOrDecimal256)(math.MustParseBig256(DefaultDifficulty))
	}
	if forks.HasBaseFee(f.fork) && env.BaseFee == nil {
		env.BaseFee = (*math.HexOrDecimal256)(math.MustParseBig256(DefaultBaseFee))
	}
	f.forkFields(env, nil)

	// No transactions and no reward: t8n only computes the state root.
	out, err := f.t8n.Evaluate(f.ctx, test.PreState(), nil, env, f.network, ChainID, -1)
	if err != nil {
		return nil, nil, err
	}
	header := f.header(env, &out.Result, common.Hash{})
	header.GasUsed = 0
	built, err := f.b11r.Build(f.ctx, header, nil, withdrawalsFor(f.fork))
	if err != nil {
		return nil, nil, err
	}
	header.Hash = built.Hash
	f.hashes[0] = built.Hash
	return header, built.RLP, nil
}

func (f *filling) block(parent *evm.Header, b spec.Block, alloc types.GenesisAlloc, coinbase common.Address) (*evm.Header, *evm.BuiltBlock, types.GenesisAlloc, error) {
	env := &evm.Env{}
	env.Coinbase = coinbase
	if b.Coinbase != nil {
		env.Coinbase = *b.Coinbase
	}
	env.Number = math.HexOrDecimal64(parent.Number + 1)
	env.GasLimit = math.HexOrDecimal64(parent.GasLimit)
	env.Timestamp = math.HexOrDecimal64(parent.Timestamp + BlockTime)
	if b.Timestamp != nil {
		env.Timestamp = *b.Timestamp
	}
	env.ExtraData = b.ExtraData
	env.ParentTimestamp = math.HexOrDecimal64(parent.Timestamp)
	uncleHash := parent.UncleHash
	env.ParentUncleHash = &uncleHash
	env.BlockHashes = make(map[math.HexOrDecimal64]common.Hash, len(f.hashes))
	for n, h := range f.hashes {
		env.BlockHashes[n] = h
	}

	if forks.IsPostMerge(f.fork) {
		env.Difficulty = new(math.HexOrDecimal256)
		env.PrevRandao = &common.Hash{}
	} else {
		env.ParentDifficulty = (*math.HexOrDecimal256)(parent.Difficulty)
	}
	if forks.HasBaseFee(f.fork) {
		env.ParentBaseFee = (*math.HexOrDecimal256)(parent.BaseFee)
		env.ParentGasUsed = math.HexOrDecimal64(parent.GasUsed)
		env.ParentGasLimit = math.HexOrDecimal64(parent.GasLimit)
	}
	f.forkFields(env, parent)

	out, err := f.t8n.Evaluate(f.ctx, alloc, WithDefaults(b.Txs), env, f.network, ChainID, forks.BlockReward(f.fork))
	if err != nil {
		return nil, nil, nil, err
	}
	if len(out.Result.Rejected) > 0 {
		fe := domain.NewError(domain.ErrSpec, fmt.Sprintf("%d transaction(s) rejected by the transition tool", len(out.Result.Rejected)))
		for _, r := range out.Result.Rejected {
			fe.Details = append(fe.Details, fmt.Sprintf("tx %d: %s", r.Index, r.Err))
		}
		return nil, nil, nil, fe
	}

	header := f.header(env, &out.Result, parent.Hash)
	built, err := f.b11r.Build(f.ctx, header, out.Body, withdrawalsFor(f.fork))
	if err != nil {
		return nil, nil, nil, err
	}
	header.Hash = built.Hash
	f.hashes[env.Number] = built.Hash
	return header, built, out.Alloc, nil
}

// forkFields sets the environment fields introduced by Shanghai and Cancun.
func (f *filling) forkFields(env *evm.Env, parent *evm.Header) {
	if forks.HasWithdrawals(f.fork) {
		env.Withdrawals = []*types.Withdrawal{}
	}
	if !forks.HasBlobs(f.fork) {
		return
	}
	env.ParentBeaconBlockRoot = &common.Hash{}
	if parent == nil {
		zero := math.HexOrDecimal64(0)
		env.ExcessBlobGas = &zero
		return
	}
	var excess, used math.HexOrDecimal64
	if parent.ExcessBlobGas != nil {
		excess = math.HexOrDecimal64(*parent.ExcessBlobGas)
	}
	if parent.BlobGasUsed != nil {
		used = math.HexOrDecimal64(*parent.BlobGasUsed)
	}
	env.ParentExcessBlobGas = &excess
	env.ParentBlobGasUsed = &used
}

// header assembles the block header from the environment t8n ran in and
// its result.
func (f *filling) header(env *evm.Env, res *evm.Result, parentHash common.Hash) *evm.Header {
	h := &evm.Header{
		ParentHash:   parentHash,
		UncleHash:    types.EmptyUncleHash,
		Coinbase:     env.Coinbase,
		StateRoot:    res.StateRoot,
		TxRoot:       res.TxRoot,
		ReceiptsRoot: res.ReceiptsRoot,
		Bloom:        res.Bloom,
		Difficulty:   new(hexutil.Big),
		Number:       hexutil.Uint64(env.Number),
		GasLimit:     hexutil.Uint64(env.GasLimit),
		GasUsed:      hexutil.Uint64(res.GasUsed),
		Timestamp:    hexutil.Uint64(env.Timestamp),
		ExtraData:    env.ExtraData,
	}
	if h.ExtraData == nil {
		h.ExtraData = hexutil.Bytes{}
	}
	if forks.IsPostMerge(f.fork) {
		if env.PrevRandao != nil {
			h.MixHash = *env.PrevRandao
		}
	} else if res.Difficulty != nil {
		h.Difficulty = (*hexutil.Big)(res.Difficulty)
	} else if env.Difficulty != nil {
		h.Difficulty = (*hexutil.Big)(env.Difficulty)
	}
	if forks.HasBaseFee(f.fork) {
		switch {
		case res.BaseFee != nil:
			h.BaseFee = (*hexutil.Big)(res.BaseFee)
		case env.BaseFee != nil:
			h.BaseFee = (*hexutil.Big)(env.BaseFee)
		}
	}
	if forks.HasWithdrawals(f.fork) {
		root := types.EmptyWithdrawalsHash
		if res.WithdrawalsRoot != nil {
			root = *res.WithdrawalsRoot
		}
		h.WithdrawalsRoot = &root
	}
	if forks.HasBlobs(f.fork) {
		var used, excess hexutil.Uint64
		if res.BlobGasUsed != nil {
			used = hexutil.Uint64(*res.BlobGasUsed)
		}
		if res.ExcessBlobGas != nil {
			excess = hexutil.Uint64(*res.ExcessBlobGas)
		} else if env.ExcessBlobGas != nil {
			excess = hexutil.Uint64(*env.ExcessBlobGas)
		}
		h.BlobGasUsed = &used
		h.ExcessBlobGas = &excess
		h.BeaconRoot = env.ParentBeaconBlockRoot
	}
	return h
}

func withdrawalsFor(fork string) []*types.Withdrawal {
	if forks.HasWithdrawals(fork) {
		return []*types.Withdrawal{}
	}
	return nil
}
