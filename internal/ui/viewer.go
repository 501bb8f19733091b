package ui

import "evmfill/internal/domain"

// Viewer displays fill failures in an interactive TUI
type Viewer interface {
	View(report *domain.FillReport) error
}
