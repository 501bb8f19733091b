package commands

import (
	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/domain"
	"evmfill/internal/storage"
	"evmfill/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	formatter *ui.Formatter
	storage   storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		scanner:   scanner,
		filter:    filter,
		formatter: formatter,
		storage:   st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	found, err := discover(lc.config, lc.scanner, lc.filter)
	if err != nil {
		return err
	}
	for _, perr := range found.parseErrs {
		color.Yellow("Skipping %v", perr)
	}

	if len(found.fillers) == 0 {
		color.Yellow("No filler files found")
		return nil
	}

	// Mark runs that failed in the last fill, if there was one
	var report *domain.FillReport
	if last, err := lc.storage.Load(); err == nil {
		report = last
	}

	lc.formatter.PrintFillerList(found.fillers, lc.config.Flags.TestCases, ui.FailedRuns(report))
	return nil
}
