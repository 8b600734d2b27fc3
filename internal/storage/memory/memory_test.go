package memory_test

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfootball/matchsim/internal/config"
	"github.com/openfootball/matchsim/internal/storage"
	"github.com/openfootball/matchsim/internal/storage/memory"
	v1 "github.com/openfootball/matchsim/internal/storage/memory/export/v1"
	"github.com/openfootball/matchsim/pkg/core"
)

// Compile-time interface checks
var (
	_ storage.Backend    = (*memory.Backend)(nil)
	_ storage.Uploadable = (*memory.Backend)(nil)
)

func newTestBackend(t *testing.T, compress bool) *memory.Backend {
	t.Helper()
	b := memory.New(config.MemoryConfig{
		OutputDir:      t.TempDir(),
		CompressOutput: compress,
	})
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func testMatch() *core.Match {
	return &core.Match{
		ID:          1,
		Competition: "Test League",
		HomeTeam:    "Reds",
		AwayTeam:    "Blues",
		KickoffTime: time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
		TickRate:    10,
		Tag:         "Friendly",
	}
}

func TestAddPlayer_AssignsID(t *testing.T) {
	b := newTestBackend(t, false)
	require.NoError(t, b.StartMatch(testMatch(), &core.Venue{Name: "Ground"}))

	p1 := &core.Player{AgentID: 0, Side: core.SideHome, Name: "GK"}
	p2 := &core.Player{AgentID: 11, Side: core.SideAway, Name: "Away GK"}
	require.NoError(t, b.AddPlayer(p1))
	require.NoError(t, b.AddPlayer(p2))

	assert.Equal(t, uint(1), p1.ID)
	assert.Equal(t, uint(2), p2.ID)

	got, ok := b.GetPlayerByAgentID(11)
	require.True(t, ok)
	assert.Equal(t, "Away GK", got.Name)

	_, ok = b.GetPlayerByAgentID(5)
	assert.False(t, ok)
}

func TestRecordPlayerState_UnknownPlayerIgnored(t *testing.T) {
	b := newTestBackend(t, false)
	require.NoError(t, b.StartMatch(testMatch(), nil))

	// No players registered; must not error
	assert.NoError(t, b.RecordPlayerState(&core.PlayerState{PlayerID: 99, Tick: 1}))
}

func TestStartMatch_ResetsState(t *testing.T) {
	b := newTestBackend(t, false)
	require.NoError(t, b.StartMatch(testMatch(), nil))

	require.NoError(t, b.AddPlayer(&core.Player{AgentID: 0, Name: "Old"}))
	require.NoError(t, b.RecordGoal(&core.GoalEvent{Tick: 10, Side: core.SideHome, AgentID: 0}))

	require.NoError(t, b.StartMatch(testMatch(), nil))
	_, ok := b.GetPlayerByAgentID(0)
	assert.False(t, ok)
}

func TestEndMatch_ExportsReplay(t *testing.T) {
	dir := t.TempDir()
	b := memory.New(config.MemoryConfig{OutputDir: dir, CompressOutput: false})
	require.NoError(t, b.Init())

	require.NoError(t, b.StartMatch(testMatch(), &core.Venue{Name: "Ground"}))

	p := &core.Player{AgentID: 9, Side: core.SideHome, ShirtNumber: 10, Name: "Striker", Position: "ST"}
	require.NoError(t, b.AddPlayer(p))
	require.NoError(t, b.RecordPlayerState(&core.PlayerState{PlayerID: p.ID, Tick: 5, X: 80, Y: 34, Stamina: 0.9, HasBall: true}))
	require.NoError(t, b.RecordDecision(&core.DecisionEvent{Tick: 5, AgentID: 9, ActionKind: "Shoot", Intent: "ShootClose", WeightedTotal: 0.8}))
	require.NoError(t, b.RecordGoal(&core.GoalEvent{Tick: 6, Side: core.SideHome, AgentID: 9, XG: 0.4}))
	require.NoError(t, b.RecordPossessionChange(&core.PossessionChangeEvent{Tick: 7, WinnerSide: core.SideAway, AgentID: 12}))
	require.NoError(t, b.RecordPhaseChange(&core.PhaseChangeEvent{Tick: 7, Side: core.SideAway, FromPhase: "Defense", ToPhase: "TransitionAttack", SubPhase: "Circulation"}))
	require.NoError(t, b.RecordTickDigest(&core.TickDigest{Tick: 7, Digest: "deadbeef"}))
	require.NoError(t, b.RecordTelemetry(&core.TickTelemetry{Tick: 7, DecisionMicros: 120}))

	require.NoError(t, b.EndMatch(&core.MatchResult{MatchID: 1, HomeGoals: 1, FinalTick: 100}))

	path := b.GetExportedFilePath()
	assert.Equal(t, filepath.Join(dir, "Reds_vs_Blues_20260314_150000.json"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var export v1.Export
	require.NoError(t, json.NewDecoder(f).Decode(&export))

	assert.Equal(t, "Reds vs Blues", export.MatchName)
	assert.Equal(t, uint8(1), export.HomeGoals)
	assert.Equal(t, uint64(100), export.EndTick)
	require.Len(t, export.Players, 10)
	assert.Equal(t, "Striker", export.Players[9].Name)
	require.Len(t, export.Players[9].Positions, 1)
	require.Len(t, export.Players[9].Decisions, 1)
	assert.Len(t, export.Events, 3)
	assert.Len(t, export.Digests, 1)
}

func TestEndMatch_CompressedExport(t *testing.T) {
	dir := t.TempDir()
	b := memory.New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})
	require.NoError(t, b.Init())

	require.NoError(t, b.StartMatch(testMatch(), nil))
	require.NoError(t, b.EndMatch(&core.MatchResult{MatchID: 1}))

	path := b.GetExportedFilePath()
	assert.Equal(t, filepath.Join(dir, "Reds_vs_Blues_20260314_150000.json.gz"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var export v1.Export
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	assert.Equal(t, "Reds vs Blues", export.MatchName)
}

func TestGetExportMetadata(t *testing.T) {
	b := newTestBackend(t, false)
	require.NoError(t, b.StartMatch(testMatch(), nil))
	require.NoError(t, b.EndMatch(&core.MatchResult{MatchID: 1, FinalTick: 54000}))

	meta := b.GetExportMetadata()
	assert.Equal(t, "Test League", meta.Competition)
	assert.Equal(t, "Reds vs Blues", meta.MatchName)
	assert.Equal(t, "Friendly", meta.Tag)
	assert.Equal(t, uint64(54000), meta.FinalTick)
}
