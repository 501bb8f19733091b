package filler

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"

	"evmfill/internal/domain"
	"evmfill/internal/spec"
)

// CheckPost compares the post-state against the test's expectations. All
// mismatches are collected into a single POST class error.
func CheckPost(expected spec.Expectations, alloc types.GenesisAlloc) error {
	if len(expected) == 0 {
		return nil
	}
	addrs := make([]common.Address, 0, len(expected))
	for addr := range expected {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return bytes.Compare(addrs[i][:], addrs[j][:]) < 0 })

	var mismatches []string
	for _, addr := range addrs {
		want := expected[addr]
		got, exists := alloc[addr]
		if want == nil {
			if exists {
				mismatches = append(mismatches, fmt.Sprintf("%s: account should not exist", addr.Hex()))
			}
			continue
		}
		if !exists {
			mismatches = append(mismatches, fmt.Sprintf("%s: account missing", addr.Hex()))
			continue
		}
		mm, err := compareAccount(want, got)
		if err != nil {
			return domain.WrapError(domain.ErrSpec, fmt.Sprintf("invalid expectation for %s", addr.Hex()), err)
		}
		for _, m := range mm {
			mismatches = append(mismatches, addr.Hex()+": "+m)
		}
	}
	if len(mismatches) == 0 {
		return nil
	}
	return &domain.FillError{
		Class:   domain.ErrPost,
		Message: fmt.Sprintf("post state does not match expectations (%d mismatches)", len(mismatches)),
		Details: mismatches,
	}
}

func compareAccount(want *spec.ExpectedAccount, got types.Account) ([]string, error) {
	var out []string
	if want.Nonce != nil && uint64(*want.Nonce) != got.Nonce {
		out = append(out, fmt.Sprintf("nonce: want %d, got %d", uint64(*want.Nonce), got.Nonce))
	}
	if want.Balance != nil {
		balance := got.Balance
		if balance == nil {
			balance = new(big.Int)
		}
		if (*big.Int)(want.Balance).Cmp(balance) != 0 {
			out = append(out, fmt.Sprintf("balance: want %s, got %s", (*big.Int)(want.Balance), balance))
		}
	}
	if want.Code != nil && !bytes.Equal(*want.Code, got.Code) {
		out = append(out, fmt.Sprintf("code: want %x, got %x", []byte(*want.Code), got.Code))
	}

	keys := make([]string, 0, len(want.Storage))
	for k := range want.Storage {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		slot, err := storageWord(k)
		if err != nil {
			return nil, err
		}
		value, err := storageWord(want.Storage[k])
		if err != nil {
			return nil, err
		}
		if have := got.Storage[slot]; have != value {
			out = append(out, fmt.Sprintf("storage[%s]: want %s, got %s", k, value.Hex(), have.Hex()))
		}
	}
	return out, nil
}

// storageWord parses a hex or decimal storage key or value.
func storageWord(s string) (common.Hash, error) {
	v, ok := math.ParseBig256(s)
	if !ok {
		return common.Hash{}, fmt.Errorf("invalid storage word %q", s)
	}
	return common.BigToHash(v), nil
}
