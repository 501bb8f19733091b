package commands

import (
	"fmt"
	"time"

	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/domain"
	"evmfill/internal/evm"
	"evmfill/internal/execution"
	"evmfill/internal/storage"
	"evmfill/internal/ui"

	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// FillCommand handles the fill command
type FillCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	scheduler execution.Scheduler
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewFillCommand creates a new FillCommand
func NewFillCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	scheduler execution.Scheduler,
	st storage.Storage,
	formatter *ui.Formatter,
) *FillCommand {
	return &FillCommand{
		config:    cfg,
		scanner:   scanner,
		filter:    filter,
		scheduler: scheduler,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (fc *FillCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Discover fillers
	found, err := discover(fc.config, fc.scanner, fc.filter)
	if err != nil {
		return err
	}
	for _, perr := range found.parseErrs {
		log.Error("Could not parse filler", "err", perr)
	}

	// One tool handle per session, shared by every worker
	t8n := evm.NewTransitionTool(fc.config.EVMBin, fc.config.Traces)
	b11r := evm.NewBlockBuilder(fc.config.EVMBin)
	toolVersion, err := t8n.Version(ctx)
	if err != nil {
		log.Warn("Could not determine transition tool version", "bin", fc.config.EVMBin, "err", err)
	}
	fc.formatter.PrintHeader(fc.config.EVMBin, toolVersion, evm.SolcVersion(ctx, nil))

	if len(found.fillers) == 0 && len(found.parseErrs) == 0 {
		color.Yellow("No filler runs to execute")
		return nil
	}

	var (
		results  []domain.ModuleResult
		duration time.Duration
		runErr   error
	)
	if len(found.fillers) > 0 {
		runner := execution.NewRunner(fc.config, t8n, b11r)
		pool := execution.NewWorkerPool(fc.config, runner, fc.scheduler)
		pool.SetProgress(ui.NewProgressBar(found.runs(), "Filling"))

		results, duration, runErr = pool.ExecuteWithOptions(ctx, found.fillers, fc.config.Flags.FailFast)
	}
	results = append(results, parseResults(found.parseErrs)...)

	// Save report
	report, err := fc.storage.Save(results, duration, fc.config.GetWorkers(), toolVersion)
	if err != nil {
		return fmt.Errorf("failed to save fill report: %w", err)
	}

	// Print stats
	fc.formatter.PrintReportStats(report)

	if runErr != nil {
		return fmt.Errorf("fill interrupted: %w", runErr)
	}
	if len(report.Failures) > 0 {
		return fmt.Errorf("fill finished with %d failure(s)", len(report.Failures))
	}
	return nil
}
