package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/openfootball/matchsim/internal/database"
	"github.com/openfootball/matchsim/internal/model"
)

// exportMatches pulls stored matches out of postgres and writes each one
// as a gzipped replay JSON file next to the configured logs directory.
func (a *app) exportMatches(matchIDs []string) error {
	log := a.slog.Logger()

	var err error
	a.db, err = database.GetPostgresDBStandalone()
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}

	for _, raw := range matchIDs {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("bad match id %q: %w", raw, err)
		}

		start := time.Now()
		path, err := a.exportMatch(uint(id))
		if err != nil {
			return fmt.Errorf("exporting match %d: %w", id, err)
		}
		log.Info("Match exported", "id", id, "path", path, "took", time.Since(start))
	}
	return nil
}

// replayPlayer is one player's row in the export, states packed as
// [tick, x, y, stamina, hasBall] frames.
type replayPlayer struct {
	AgentID     uint8    `json:"agentId"`
	Side        string   `json:"side"`
	ShirtNumber uint8    `json:"shirtNumber"`
	Name        string   `json:"name"`
	Position    string   `json:"position"`
	States      [][5]any `json:"states"`
}

func (a *app) exportMatch(id uint) (string, error) {
	var m model.Match
	if err := a.db.Where("id = ?", id).First(&m).Error; err != nil {
		return "", fmt.Errorf("loading match: %w", err)
	}

	replay := map[string]any{
		"engineVersion": m.EngineVersion,
		"competition":   m.Competition,
		"homeTeam":      m.HomeTeam,
		"awayTeam":      m.AwayTeam,
		"kickoffTime":   m.KickoffTime,
		"seed":          m.Seed,
		"tickRate":      m.TickRate,
		"homeGoals":     m.HomeGoals,
		"awayGoals":     m.AwayGoals,
		"finalTick":     m.FinalTick,
		"finalDigest":   m.FinalDigest,
	}

	var venue model.Venue
	if err := a.db.Where("id = ?", m.VenueID).First(&venue).Error; err == nil {
		replay["venue"] = venue.Name
	}

	var players []model.Player
	if err := a.db.Where("match_id = ?", id).Order("agent_id").Find(&players).Error; err != nil {
		return "", fmt.Errorf("loading players: %w", err)
	}

	var states []model.PlayerState
	if err := a.db.Where("match_id = ?", id).Order("tick").Find(&states).Error; err != nil {
		return "", fmt.Errorf("loading player states: %w", err)
	}
	statesByAgent := make(map[uint8][][5]any, len(players))
	for _, s := range states {
		statesByAgent[s.AgentID] = append(statesByAgent[s.AgentID],
			[5]any{s.Tick, s.X, s.Y, s.Stamina, s.HasBall})
	}

	exported := make([]replayPlayer, 0, len(players))
	for _, p := range players {
		exported = append(exported, replayPlayer{
			AgentID:     p.AgentID,
			Side:        p.Side,
			ShirtNumber: p.ShirtNumber,
			Name:        p.Name,
			Position:    p.Position,
			States:      statesByAgent[p.AgentID],
		})
	}
	replay["players"] = exported

	var decisions []model.DecisionEvent
	if err := a.db.Where("match_id = ?", id).Order("tick, agent_id").Find(&decisions).Error; err != nil {
		return "", fmt.Errorf("loading decisions: %w", err)
	}
	replay["decisions"] = decisions

	var goals []model.GoalEvent
	a.db.Where("match_id = ?", id).Order("tick").Find(&goals)
	replay["goals"] = goals

	var phases []model.PhaseChangeEvent
	a.db.Where("match_id = ?", id).Order("tick").Find(&phases)
	replay["phaseChanges"] = phases

	var possession []model.PossessionChangeEvent
	a.db.Where("match_id = ?", id).Order("tick").Find(&possession)
	replay["possessionChanges"] = possession

	var digests []model.TickDigest
	a.db.Where("match_id = ?", id).Order("tick").Find(&digests)
	replay["tickDigests"] = digests

	outDir := os.Getenv("MATCHSIM_EXPORT_DIR")
	if outDir == "" {
		outDir = "./replays"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, fmt.Sprintf("match_%d.json.gz", id))
	return path, writeReplayFile(path, replay)
}

func writeReplayFile(path string, replay map[string]any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	if err := json.NewEncoder(gz).Encode(replay); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
