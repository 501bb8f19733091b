package storage

import (
	"time"

	"evmfill/internal/config"
	"evmfill/internal/domain"
)

// Storage persists and loads fill reports (e.g. for the failures viewer and publish).
type Storage interface {
	Save(results []domain.ModuleResult, duration time.Duration, workers int, toolVersion string) (*domain.FillReport, error)
	Load() (*domain.FillReport, error)
	// SaveOutput writes a full report (e.g. after failures were marked resolved).
	SaveOutput(report *domain.FillReport) error
}

// JSONStorage stores the report in a JSON file under the output directory.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's report path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
