package cli

import "evmfill/internal/config"

// Flags holds command-line flags
type Flags struct {
	EVMBin     string
	Traces     bool
	FillerPath string
	Output     string
	Workers    int
	Engine     string
	Verbosity  int
	NameFilter string
	TestFilter string
	TestCases  bool
	FailFast   bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		NameFilter: f.NameFilter,
		TestFilter: f.TestFilter,
		TestCases:  f.TestCases,
		FailFast:   f.FailFast,
	}
}

// Apply overrides persisted settings with the flags the user set explicitly.
// changed reports whether a flag was given on the command line.
func (f *Flags) Apply(cfg *config.Config, changed func(name string) bool) {
	cfg.Flags = f.ToConfigFlags()
	if changed("evm-bin") {
		cfg.EVMBin = f.EVMBin
	}
	if changed("traces") {
		cfg.Traces = f.Traces
	}
	if changed("filler-path") {
		cfg.FillerPath = f.FillerPath
	}
	if changed("output") {
		cfg.OutputDir = f.Output
	}
	if changed("workers") && f.Workers > 0 {
		cfg.Workers = f.Workers
	}
	if changed("engine") {
		cfg.Engine = f.Engine
	}
	if changed("verbosity") {
		cfg.Verbosity = f.Verbosity
	}
}
