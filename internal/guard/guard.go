// Package guard validates that each run declares exactly one test kind
// before any fill work happens for it.
package guard

import (
	"strings"

	"evmfill/internal/domain"
)

// Check returns a KIND error unless kinds holds exactly one recognized test kind.
func Check(kinds []domain.TestKind) error {
	var state, blockchain bool
	for _, k := range kinds {
		switch k {
		case domain.KindState:
			state = true
		case domain.KindBlockchain:
			blockchain = true
		}
	}
	switch {
	case state && blockchain:
		return domain.NewError(domain.ErrKind,
			"a filler should only implement either a state test or a blockchain test; not both")
	case !state && !blockchain:
		return domain.NewError(domain.ErrKind,
			"test must define either one of the following test kinds to properly generate a test: "+acceptedKinds())
	}
	return nil
}

func acceptedKinds() string {
	names := make([]string, len(domain.AllKinds))
	for i, k := range domain.AllKinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
