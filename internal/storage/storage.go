package storage

import (
	"rtc/internal/domain"
)

// Storage persists and loads the last collected run (e.g. for the failures
// viewer).
type Storage interface {
	Save(output *domain.RunOutput) error
	Load() (*domain.RunOutput, error)
}
