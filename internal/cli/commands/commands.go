package commands

import (
	"evmfill/internal/cli"
	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/execution"
	"evmfill/internal/storage"
	"evmfill/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Fill     *FillCommand
	List     *ListCommand
	Failures *FailuresCommand
	Publish  *PublishCommand
}

// NewCommands creates all commands with dependencies. Components that depend
// on flag-controlled settings (tool paths, filler root) are built when a
// command executes.
func NewCommands(cfg *config.Config) *Commands {
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	scheduler := execution.NewRoundRobinScheduler()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	failureViewer := ui.NewFailureViewer(jsonStorage)

	return &Commands{
		Fill:     NewFillCommand(cfg, scanner, filter, scheduler, jsonStorage, formatter),
		List:     NewListCommand(cfg, scanner, filter, formatter, jsonStorage),
		Failures: NewFailuresCommand(cfg, jsonStorage, failureViewer),
		Publish:  NewPublishCommand(cfg, jsonStorage),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().IntVar(&flags.Verbosity, "verbosity", config.DefaultVerbosity, "Log level (0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace)")
	rootCmd.PersistentFlags().StringVar(&flags.FillerPath, "filler-path", config.DefaultFillerPath, "Directory holding the filler files")
	rootCmd.PersistentFlags().StringVar(&flags.Output, "output", config.DefaultOutputDir, "Directory fixtures and the fill report are written to")

	// Update config with flags after parsing
	applyFlags := func(cmd *cobra.Command, args []string) error {
		flags.Apply(cfg, cmd.Flags().Changed)
		cli.SetupLogging(cfg.Verbosity)
		return nil
	}

	// Fill command
	fillCmd := &cobra.Command{
		Use:     "fill",
		Short:   "Fill test fixtures from filler files",
		Long:    "Discover filler files, execute every test run against the transition tool and write the resulting fixtures",
		RunE:    c.Fill.Execute,
		PreRunE: applyFlags,
	}
	fillCmd.Flags().StringVar(&flags.EVMBin, "evm-bin", config.DefaultEVMBin, "Path to the evm binary providing t8n and b11r")
	fillCmd.Flags().BoolVar(&flags.Traces, "traces", false, "Collect execution traces from the transition tool")
	fillCmd.Flags().IntVarP(&flags.Workers, "workers", "n", config.DefaultWorkers, "Number of filler modules filled in parallel")
	fillCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter filler files by name pattern (supports wildcards, e.g., '*push0*')")
	fillCmd.Flags().StringVarP(&flags.TestFilter, "test", "k", "", "Filter test runs by declared test name (supports wildcards)")
	fillCmd.Flags().StringVar(&flags.Engine, "engine", config.DefaultEngine, "Seal engine written into blockchain fixtures")
	fillCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop dispatching modules after the first failure")
	rootCmd.AddCommand(fillCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered filler files",
		Long:    "Scan and list filler files and their runs without filling them",
		RunE:    c.List.Execute,
		PreRunE: applyFlags,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter filler files by name pattern (supports wildcards, e.g., '*push0*')")
	listCmd.Flags().StringVarP(&flags.TestFilter, "test", "k", "", "Filter test runs by declared test name (supports wildcards)")
	listCmd.Flags().BoolVarP(&flags.TestCases, "test-cases", "c", false, "List test runs instead of filler files")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View fill failures interactively",
		Long:    "Display failures from the last fill report in an interactive viewer",
		RunE:    c.Failures.Execute,
		PreRunE: applyFlags,
	}
	rootCmd.AddCommand(failuresCmd)

	// Publish command
	publishCmd := &cobra.Command{
		Use:     "publish",
		Short:   "Publish the fixture index to MySQL",
		Long:    "Upsert every fixture key from the last fill report into the configured MySQL table",
		RunE:    c.Publish.Execute,
		PreRunE: applyFlags,
	}
	rootCmd.AddCommand(publishCmd)
}
