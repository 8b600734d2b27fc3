// internal/storage/memory/memory.go
package memory

import (
	"sync"

	"github.com/openfootball/matchsim/internal/config"
	v1 "github.com/openfootball/matchsim/internal/storage/memory/export/v1"
	"github.com/openfootball/matchsim/pkg/core"
)

// Backend stores match data in memory and exports a replay JSON on EndMatch
type Backend struct {
	cfg   config.MemoryConfig
	match *core.Match
	venue *core.Venue

	players map[uint8]*v1.PlayerRecord // keyed by AgentID

	phaseChanges      []core.PhaseChangeEvent
	possessionChanges []core.PossessionChangeEvent
	goals             []core.GoalEvent
	digests           []core.TickDigest
	telemetry         []core.TickTelemetry
	result            *core.MatchResult

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:     cfg,
		players: make(map[uint8]*v1.PlayerRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartMatch begins recording a new match
func (b *Backend) StartMatch(match *core.Match, venue *core.Venue) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.match = match
	b.venue = venue

	// Reset all collections
	b.players = make(map[uint8]*v1.PlayerRecord)
	b.phaseChanges = nil
	b.possessionChanges = nil
	b.goals = nil
	b.digests = nil
	b.telemetry = nil
	b.result = nil
	b.idCounter = 0

	return nil
}

// EndMatch finalizes and exports the match data
func (b *Backend) EndMatch(result *core.MatchResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.result = result
	return b.exportJSON()
}

// AddPlayer registers a new player
func (b *Backend) AddPlayer(p *core.Player) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	p.ID = b.idCounter

	b.players[p.AgentID] = &v1.PlayerRecord{
		Player:    *p,
		States:    make([]core.PlayerState, 0),
		Decisions: make([]core.DecisionEvent, 0),
	}
	return nil
}

// GetPlayerByAgentID looks up a player by their agent id
func (b *Backend) GetPlayerByAgentID(agentID uint8) (*core.Player, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if record, ok := b.players[agentID]; ok {
		return &record.Player, true
	}
	return nil, false
}

// RecordPlayerState records a player state update
func (b *Backend) RecordPlayerState(s *core.PlayerState) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, record := range b.players {
		if record.Player.ID == s.PlayerID {
			record.States = append(record.States, *s)
			return nil
		}
	}
	return nil // silently ignore if player not found
}

// RecordDecision records a decision event against its player
func (b *Backend) RecordDecision(e *core.DecisionEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if record, ok := b.players[e.AgentID]; ok {
		record.Decisions = append(record.Decisions, *e)
	}
	return nil
}

// RecordPhaseChange records a team phase flip
func (b *Backend) RecordPhaseChange(e *core.PhaseChangeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.phaseChanges = append(b.phaseChanges, *e)
	return nil
}

// RecordPossessionChange records a turnover
func (b *Backend) RecordPossessionChange(e *core.PossessionChangeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.possessionChanges = append(b.possessionChanges, *e)
	return nil
}

// RecordGoal records a goal
func (b *Backend) RecordGoal(e *core.GoalEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.goals = append(b.goals, *e)
	return nil
}

// RecordTickDigest records a determinism checkpoint
func (b *Backend) RecordTickDigest(d *core.TickDigest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.digests = append(b.digests, *d)
	return nil
}

// RecordTelemetry records per-tick engine health
func (b *Backend) RecordTelemetry(tm *core.TickTelemetry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.telemetry = append(b.telemetry, *tm)
	return nil
}
