package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"evmfill/internal/cli"
	"evmfill/internal/cli/commands"
	"evmfill/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "evmfill",
		Short:         "Fill EVM test fixtures from filler files",
		Long:          `Fills declarative EVM test fillers into consensus test fixtures by driving an external transition tool (evm t8n / b11r), filling filler modules in parallel.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Load config: defaults, .evmfill.yaml, environment
	cfg, err := config.Load(config.DefaultConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	// Cancel in-flight fills on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
