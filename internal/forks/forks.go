// Package forks knows the order of mainnet forks and which header fields
// each one introduces.
package forks

import (
	"fmt"
	"strconv"
	"strings"
)

// Ordered lists supported forks from oldest to newest.
var Ordered = []string{
	"Frontier",
	"Homestead",
	"Byzantium",
	"Constantinople",
	"ConstantinopleFix",
	"Istanbul",
	"Berlin",
	"London",
	"Paris",
	"Shanghai",
	"Cancun",
}

var index = func() map[string]int {
	m := make(map[string]int, len(Ordered))
	for i, f := range Ordered {
		m[f] = i
	}
	return m
}()

// Validate reports whether the fork is known.
func Validate(fork string) error {
	if _, ok := index[fork]; !ok {
		return fmt.Errorf("unknown fork %q", fork)
	}
	return nil
}

// AtLeast reports whether fork activates at or after since.
func AtLeast(fork, since string) bool {
	f, ok := index[fork]
	if !ok {
		return false
	}
	return f >= index[since]
}

// HasBaseFee reports whether headers carry baseFeePerGas (EIP-1559).
func HasBaseFee(fork string) bool { return AtLeast(fork, "London") }

// IsPostMerge reports whether blocks are produced by the beacon chain.
func IsPostMerge(fork string) bool { return AtLeast(fork, "Paris") }

// HasWithdrawals reports whether headers carry withdrawalsRoot (EIP-4895).
func HasWithdrawals(fork string) bool { return AtLeast(fork, "Shanghai") }

// HasBlobs reports whether headers carry the blob gas fields and the parent
// beacon root (EIP-4844, EIP-4788).
func HasBlobs(fork string) bool { return AtLeast(fork, "Cancun") }

// BlockReward returns the proof-of-work block reward in wei, zero after the merge.
func BlockReward(fork string) int64 {
	switch {
	case IsPostMerge(fork):
		return 0
	case AtLeast(fork, "Constantinople"):
		return 2e18
	case AtLeast(fork, "Byzantium"):
		return 3e18
	default:
		return 5e18
	}
}

// WithEIPs renders the fork name understood by the transition tool, with
// extra EIPs appended as "Fork+1234+5678".
func WithEIPs(fork string, eips []int) string {
	if len(eips) == 0 {
		return fork
	}
	parts := make([]string, 0, len(eips)+1)
	parts = append(parts, fork)
	for _, eip := range eips {
		parts = append(parts, strconv.Itoa(eip))
	}
	return strings.Join(parts, "+")
}
