package commands

import (
	"fmt"

	"evmfill/internal/config"
	"evmfill/internal/publish"
	"evmfill/internal/storage"
	"evmfill/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// PublishCommand handles the publish command
type PublishCommand struct {
	config  *config.Config
	storage storage.Storage
}

// NewPublishCommand creates a new PublishCommand
func NewPublishCommand(cfg *config.Config, st storage.Storage) *PublishCommand {
	return &PublishCommand{
		config:  cfg,
		storage: st,
	}
}

// Execute runs the command
func (pc *PublishCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	report, err := pc.storage.Load()
	if err != nil {
		return fmt.Errorf("no fill report in %s (run fill first): %w", pc.config.GetOutputDir(), err)
	}
	if len(report.Fixtures) == 0 {
		color.Yellow("No fixtures to publish")
		return nil
	}

	dbCfg := publish.LoadDBConfig(".env")
	publisher, err := publish.Open(ctx, dbCfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	if err := publisher.EnsureTable(ctx); err != nil {
		return err
	}

	bar := ui.NewProgressBar(len(report.Fixtures), "Publishing")
	rows, err := publisher.Publish(ctx, report.Fixtures, func(done int) {
		bar.Update(done, 0)
	})
	bar.Finish()
	if err != nil {
		return err
	}

	color.Green("%s", publish.Summary(report, rows, dbCfg))
	return nil
}
