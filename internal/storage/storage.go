// Package storage defines the scenario history contract. Computed scenarios
// are kept per session so operators can compare target placements and export
// the session for later review.
package storage

import (
	"time"

	"github.com/blastmap/engine/internal/model"
)

// Scenario is one computed casualty scenario snapshot.
type Scenario struct {
	ID         uint               `json:"id"`
	Name       string             `json:"name"`
	Lat        float64            `json:"lat"`
	Lng        float64            `json:"lng"`
	City       string             `json:"city,omitempty"`
	ComputedAt time.Time          `json:"computedAt"`
	DurationMs int64              `json:"durationMs"`
	Data       model.CasualtyData `json:"data"`
}

// Backend is the interface all scenario stores must satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// RecordScenario stores a snapshot and assigns its ID.
	RecordScenario(s *Scenario) error

	// Scenarios returns the stored history, oldest first.
	Scenarios() []Scenario

	// Export writes the session history to a file and returns its path.
	Export() (string, error)
}
