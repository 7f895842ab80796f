package storage

import (
	"wakeup/internal/core"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Schedule
	core.ScheduleStorage

	// Lifecycle
	Close() error
}
