package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for a fill session. It is loaded once
// before any filler runs and treated as read-only afterwards.
type Config struct {
	// Filler settings
	FillerPath string `yaml:"filler_path"`
	OutputDir  string `yaml:"output"`

	// Tool settings
	EVMBin string `yaml:"evm_bin"`
	Traces bool   `yaml:"traces"`
	Engine string `yaml:"engine"`

	// Execution settings
	Workers   int `yaml:"workers"`
	Verbosity int `yaml:"verbosity"`

	// Paths to ignore when scanning
	PathsToIgnore []string `yaml:"ignore"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Flags holds command-line flags that do not map onto persisted settings
type Flags struct {
	NameFilter string
	TestFilter string
	TestCases  bool
	FailFast   bool
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		FillerPath: DefaultFillerPath,
		OutputDir:  DefaultOutputDir,
		EVMBin:     DefaultEVMBin,
		Engine:     DefaultEngine,
		Workers:    DefaultWorkers,
		Verbosity:  DefaultVerbosity,
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config from defaults, the project file at path (if it
// exists) and the environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	cfg := New()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges a YAML project file onto the config. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if file.FillerPath != "" {
		c.FillerPath = file.FillerPath
	}
	if file.OutputDir != "" {
		c.OutputDir = file.OutputDir
	}
	if file.EVMBin != "" {
		c.EVMBin = file.EVMBin
	}
	if file.Engine != "" {
		c.Engine = file.Engine
	}
	if file.Workers > 0 {
		c.Workers = file.Workers
	}
	if file.Verbosity > 0 {
		c.Verbosity = file.Verbosity
	}
	if len(file.PathsToIgnore) > 0 {
		c.PathsToIgnore = file.PathsToIgnore
	}
	c.Traces = c.Traces || file.Traces
	return nil
}

// ApplyEnv loads .env from the working directory (if present) and applies
// EVMFILL_* variables.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	if v := os.Getenv("EVMFILL_EVM_BIN"); v != "" {
		c.EVMBin = v
	}
	if v := os.Getenv("EVMFILL_FILLER_PATH"); v != "" {
		c.FillerPath = v
	}
	if v := os.Getenv("EVMFILL_OUTPUT"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("EVMFILL_TRACES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid EVMFILL_TRACES %q: %w", v, err)
		}
		c.Traces = b
	}
	if v := os.Getenv("EVMFILL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid EVMFILL_WORKERS %q: %w", v, err)
		}
		c.Workers = n
	}
	return nil
}

// GetFillerPath returns the absolute filler root. Every test source location
// is made relative to it.
func (c *Config) GetFillerPath() string {
	return absPath(c.FillerPath)
}

// GetOutputDir returns the absolute fixture output directory.
func (c *Config) GetOutputDir() string {
	return absPath(c.OutputDir)
}

// GetReportPath returns the full path to the fill report, so fill, failures
// and publish always read/write the same file regardless of cwd.
func (c *Config) GetReportPath() string {
	return filepath.Join(c.GetOutputDir(), MetaDir, ReportFile)
}

// GetWorkers returns the worker count, never less than one.
func (c *Config) GetWorkers() int {
	if c.Workers <= 0 {
		return 1
	}
	return c.Workers
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
