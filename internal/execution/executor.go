package execution

import (
	"context"
	"time"

	"evmfill/internal/discovery"
	"evmfill/internal/domain"
)

// Executor fills filler modules and returns one result per module
type Executor interface {
	Execute(ctx context.Context, fillers []*discovery.Filler) ([]domain.ModuleResult, time.Duration, error)
}

// ModuleRunner fills all runs of a single module
type ModuleRunner interface {
	Run(ctx context.Context, filler *discovery.Filler, workerID int) domain.ModuleResult
}

// Progress receives run counts as modules complete
type Progress interface {
	Update(filled, failed int)
	Finish()
}
