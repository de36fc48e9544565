// Package memory stores scenario history in memory and exports it to JSON.
package memory

import (
	"errors"
	"sync"

	"github.com/blastmap/engine/internal/storage"
)

// ErrNoScenarios is returned when an export is requested before any
// scenario has been recorded.
var ErrNoScenarios = errors.New("no scenarios recorded")

// Config controls history depth and export output.
type Config struct {
	OutputDir      string
	MaxHistory     int
	CompressOutput bool
}

// Backend keeps the most recent scenarios in memory.
type Backend struct {
	cfg Config

	scenarios []storage.Scenario
	idCounter uint
	mu        sync.RWMutex

	lastExportPath string
}

// New creates a new memory backend.
func New(cfg Config) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// RecordScenario stores a snapshot, assigns its ID, and trims history to
// the configured depth, discarding the oldest entries first.
func (b *Backend) RecordScenario(s *storage.Scenario) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	s.ID = b.idCounter

	b.scenarios = append(b.scenarios, *s)
	if b.cfg.MaxHistory > 0 && len(b.scenarios) > b.cfg.MaxHistory {
		overflow := len(b.scenarios) - b.cfg.MaxHistory
		b.scenarios = append(b.scenarios[:0:0], b.scenarios[overflow:]...)
	}
	return nil
}

// Scenarios returns a copy of the stored history, oldest first.
func (b *Backend) Scenarios() []storage.Scenario {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]storage.Scenario, len(b.scenarios))
	copy(out, b.scenarios)
	return out
}

// GetExportedFilePath returns the path of the last export, empty if none.
func (b *Backend) GetExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
