package domain

// TestIdentity locates a filled fixture on disk and within its output file.
type TestIdentity struct {
	ModulePath      string // Slash separated, relative to the filler root, no extension
	BaseName        string
	CaseLabel       string // Parametrization label, e.g. "fork=London"
	SubFixtureLabel string // Optional label supplied by the filled fixture
}

// Key is the bucket key shared by all runs of one test.
func (id TestIdentity) Key() string {
	return id.ModulePath + "/" + id.BaseName
}

// FinalLabel is the label stored in the output file, before the index prefix.
func (id TestIdentity) FinalLabel() string {
	if id.SubFixtureLabel == "" {
		return id.CaseLabel
	}
	return id.CaseLabel + "-" + id.SubFixtureLabel
}

// FilledFixture is the artifact produced by filling one test run.
type FilledFixture struct {
	Name    string // Optional sub-fixture label
	Payload any    // Serialized as-is into the fixture file
	Hash    string // Canonical payload hash, if computed
	Fork    string
}
