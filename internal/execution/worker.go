package execution

import (
	"context"
	"sync"
	"time"

	"evmfill/internal/config"
	"evmfill/internal/discovery"
	"evmfill/internal/domain"
)

// WorkerPool manages a pool of workers filling modules in parallel
type WorkerPool struct {
	config    *config.Config
	runner    ModuleRunner
	scheduler Scheduler
	progress  Progress
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner ModuleRunner, scheduler Scheduler) *WorkerPool {
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
	}
}

// SetProgress sets the progress bar for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute fills modules in parallel using the worker pool (no fail-fast).
func (wp *WorkerPool) Execute(ctx context.Context, fillers []*discovery.Filler) ([]domain.ModuleResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, fillers, false)
}

// ExecuteWithOptions fills modules with optional fail-fast (no new module
// starts after the first failed run). Results are returned in input order.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, fillers []*discovery.Filler, failFast bool) ([]domain.ModuleResult, time.Duration, error) {
	if len(fillers) == 0 {
		return nil, 0, nil
	}
	startTime := time.Now()

	var results []domain.ModuleResult
	if !failFast {
		results = wp.executeAll(ctx, fillers)
	} else {
		results = wp.executeFailFast(ctx, fillers)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}

	order := make(map[string]int, len(fillers))
	for i, fl := range fillers {
		order[fl.RelPath] = i
	}
	sorted := make([]domain.ModuleResult, 0, len(results))
	slots := make([]*domain.ModuleResult, len(fillers))
	for i := range results {
		slots[order[results[i].Module]] = &results[i]
	}
	for _, r := range slots {
		if r != nil {
			sorted = append(sorted, *r)
		}
	}
	return sorted, time.Since(startTime), ctx.Err()
}

// counter tracks run outcomes for the progress bar.
type counter struct {
	mu       sync.Mutex
	progress Progress
	filled   int
	failed   int
}

func (c *counter) add(result domain.ModuleResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	filled := result.Filled()
	c.filled += filled
	c.failed += len(result.Runs) - filled
	if c.progress != nil {
		c.progress.Update(c.filled, c.failed)
	}
}

// executeAll distributes every module up front, round-robin.
func (wp *WorkerPool) executeAll(ctx context.Context, fillers []*discovery.Filler) []domain.ModuleResult {
	distribution := wp.scheduler.Schedule(fillers, wp.config.GetWorkers())
	results := make(chan domain.ModuleResult, len(fillers))
	counts := &counter{progress: wp.progress}

	var wg sync.WaitGroup
	for i, assigned := range distribution {
		wg.Add(1)
		go func(workerID int, assigned []*discovery.Filler) {
			defer wg.Done()
			for _, fl := range assigned {
				result := wp.runner.Run(ctx, fl, workerID)
				counts.add(result)
				results <- result
			}
		}(i+1, assigned)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []domain.ModuleResult
	for result := range results {
		allResults = append(allResults, result)
	}
	return allResults
}

// executeFailFast feeds modules one at a time and stops feeding after the
// first failure. Modules already started still complete and flush.
func (wp *WorkerPool) executeFailFast(ctx context.Context, fillers []*discovery.Filler) []domain.ModuleResult {
	dispatch, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan *discovery.Filler)
	results := make(chan domain.ModuleResult, len(fillers))

	go func() {
		defer close(queue)
		for _, fl := range fillers {
			select {
			case <-dispatch.Done():
				return
			case queue <- fl:
			}
		}
	}()

	counts := &counter{progress: wp.progress}
	var wg sync.WaitGroup
	for i := 1; i <= wp.config.GetWorkers(); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for fl := range queue {
				if dispatch.Err() != nil {
					continue
				}
				result := wp.runner.Run(ctx, fl, workerID)
				counts.add(result)
				results <- result
				if result.Failed() {
					cancel()
				}
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []domain.ModuleResult
	for result := range results {
		allResults = append(allResults, result)
	}
	return allResults
}
