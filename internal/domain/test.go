package domain

import "fmt"

// TestKind is the closed set of test kinds a filler test may declare.
type TestKind int

const (
	KindState TestKind = iota + 1
	KindBlockchain
)

// AllKinds lists the recognized test kinds in display order.
var AllKinds = []TestKind{KindState, KindBlockchain}

// String returns the kind name as used in filler files and messages.
func (k TestKind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindBlockchain:
		return "blockchain"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ParseTestKind maps a kind name onto the enumeration.
func ParseTestKind(s string) (TestKind, error) {
	for _, k := range AllKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown test kind %q", s)
}

// Module is one filler file; all runs in it share a collector scope.
type Module struct {
	Path    string // Full path to the filler file
	RelPath string // Path relative to the filler root
	Runs    []Run
}

// Run is a single parametrized execution of a filler test.
type Run struct {
	ID         string // e.g. "eip3855/push0.json::test_push0[fork=Shanghai]"
	SourcePath string // Full path to the filler file declaring the test
	BaseName   string // Declared test name, stable across parametrizations
	TestIndex  int    // Position of the declaring test in its filler file
	Fork       string
	Kinds      []TestKind
}
