package ui

import "rtc/internal/domain"

// Viewer displays a collected run's failures in an interactive TUI
type Viewer interface {
	View(output *domain.RunOutput) error
}
