// internal/storage/storage.go
package storage

import "github.com/openfootball/matchsim/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Match management
	StartMatch(match *core.Match, venue *core.Venue) error
	EndMatch(result *core.MatchResult) error

	// Player registration (assigns ID to the passed pointer)
	AddPlayer(p *core.Player) error

	// State recording
	RecordPlayerState(s *core.PlayerState) error

	// Event recording
	RecordDecision(e *core.DecisionEvent) error
	RecordPhaseChange(e *core.PhaseChangeEvent) error
	RecordPossessionChange(e *core.PossessionChangeEvent) error
	RecordGoal(e *core.GoalEvent) error
	RecordTickDigest(d *core.TickDigest) error
	RecordTelemetry(tm *core.TickTelemetry) error
}

// Uploadable is an optional interface for storage backends that produce
// replay files suitable for upload to the matchsim web frontend.
type Uploadable interface {
	GetExportedFilePath() string
	GetExportMetadata() core.UploadMetadata
}
