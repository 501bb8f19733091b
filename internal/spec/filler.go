package spec

import (
	"encoding/json"
	"fmt"

	"evmfill/internal/domain"
)

// FillerFile is the on-disk form of a filler module.
type FillerFile struct {
	EIPs          []int         `json:"eips,omitempty"`
	ReferenceSpec ReferenceSpec `json:"referenceSpec"`
	Tests         []FillerTest  `json:"tests"`
}

// FillerTest declares one test and the forks it is filled for. Exactly one
// of StateTest and BlockchainTest should be set.
type FillerTest struct {
	Name           string          `json:"name"`
	Forks          []string        `json:"forks"`
	FixtureName    string          `json:"fixtureName,omitempty"`
	StateTest      *StateTest      `json:"stateTest,omitempty"`
	BlockchainTest *BlockchainTest `json:"blockchainTest,omitempty"`
}

// Kinds lists the test kinds the declaration requests.
func (t *FillerTest) Kinds() []domain.TestKind {
	var kinds []domain.TestKind
	if t.StateTest != nil {
		kinds = append(kinds, domain.KindState)
	}
	if t.BlockchainTest != nil {
		kinds = append(kinds, domain.KindBlockchain)
	}
	return kinds
}

// Spec returns the declared test. It must only be called after the kind
// check passed.
func (t *FillerTest) Spec() Test {
	if t.StateTest != nil {
		return t.StateTest
	}
	return t.BlockchainTest
}

// ParseFillerFile decodes a filler file.
func ParseFillerFile(data []byte) (*FillerFile, error) {
	var f FillerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i, t := range f.Tests {
		if t.Name == "" {
			return nil, fmt.Errorf("test #%d has no name", i)
		}
	}
	return &f, nil
}
