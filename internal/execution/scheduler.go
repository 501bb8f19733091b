package execution

import "evmfill/internal/discovery"

// Scheduler distributes filler modules across workers
type Scheduler interface {
	Schedule(fillers []*discovery.Filler, workerCount int) [][]*discovery.Filler
}

// RoundRobinScheduler distributes modules evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes modules evenly across workers using round-robin.
// A module is never split: all of its runs go to the same worker.
func (s *RoundRobinScheduler) Schedule(fillers []*discovery.Filler, workerCount int) [][]*discovery.Filler {
	if workerCount <= 0 {
		workerCount = 1
	}

	distribution := make([][]*discovery.Filler, workerCount)
	for i := range distribution {
		distribution[i] = make([]*discovery.Filler, 0)
	}

	for i, filler := range fillers {
		workerIndex := i % workerCount
		distribution[workerIndex] = append(distribution[workerIndex], filler)
	}

	return distribution
}
