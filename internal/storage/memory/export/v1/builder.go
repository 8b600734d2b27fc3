package v1

import (
	"fmt"
	"math"

	"github.com/openfootball/matchsim/pkg/core"
)

// MatchData contains all the data needed to build an export
type MatchData struct {
	Match   *core.Match
	Venue   *core.Venue
	Players map[uint8]*PlayerRecord

	PhaseChanges      []core.PhaseChangeEvent
	PossessionChanges []core.PossessionChangeEvent
	Goals             []core.GoalEvent
	Digests           []core.TickDigest
	Result            *core.MatchResult
}

// PlayerRecord groups a player with all its time-series data
type PlayerRecord struct {
	Player    core.Player
	States    []core.PlayerState
	Decisions []core.DecisionEvent
}

// Build creates an Export from the match data
func Build(data *MatchData) Export {
	export := Export{
		EngineVersion: data.Match.EngineVersion,
		Competition:   data.Match.Competition,
		MatchName:     fmt.Sprintf("%s vs %s", data.Match.HomeTeam, data.Match.AwayTeam),
		HomeTeam:      data.Match.HomeTeam,
		AwayTeam:      data.Match.AwayTeam,
		TickRate:      data.Match.TickRate,
		Tags:          data.Match.Tag,
		Players:       make([]Player, 0),
		Events:        make([][]any, 0),
		Digests:       make([][]any, 0, len(data.Digests)),
	}
	if data.Venue != nil {
		export.VenueName = data.Venue.Name
	}
	if data.Result != nil {
		export.HomeGoals = data.Result.HomeGoals
		export.AwayGoals = data.Result.AwayGoals
	}

	var maxTick uint64 = 0

	// Find max agent ID to size the players array correctly.
	// The JS frontend uses players[id] to look up agents, so array index must
	// equal the agent id.
	var maxAgentID uint8 = 0
	hasPlayers := len(data.Players) > 0
	for _, record := range data.Players {
		if record.Player.AgentID > maxAgentID {
			maxAgentID = record.Player.AgentID
		}
	}

	if hasPlayers {
		export.Players = make([]Player, maxAgentID+1)
	}

	// Convert players - place at index matching their agent id
	for _, record := range data.Players {
		player := Player{
			ID:        record.Player.AgentID,
			Name:      record.Player.Name,
			Side:      record.Player.Side.String(),
			Number:    record.Player.ShirtNumber,
			Position:  record.Player.Position,
			StartTick: record.Player.JoinTick,
			Positions: make([][]any, 0, len(record.States)),
			Decisions: make([][]any, 0, len(record.Decisions)),
		}

		for _, state := range record.States {
			pos := []any{
				state.Tick,
				[]float64{roundTo(state.X, 2), roundTo(state.Y, 2)},
				roundTo(state.Stamina, 3),
				boolToInt(state.HasBall),
			}
			player.Positions = append(player.Positions, pos)
			if state.Tick > maxTick {
				maxTick = state.Tick
			}
		}

		for _, dec := range record.Decisions {
			targetID := -1
			if dec.TargetID != nil {
				targetID = int(*dec.TargetID)
			}
			row := []any{
				dec.Tick,
				dec.ActionKind,
				dec.Intent,
				targetID,
				[]float64{roundTo(dec.PointX, 2), roundTo(dec.PointY, 2)},
				roundTo(dec.WeightedTotal, 4),
				boolToInt(dec.ForcedShot),
			}
			player.Decisions = append(player.Decisions, row)
			if dec.Tick > maxTick {
				maxTick = dec.Tick
			}
		}

		export.Players[record.Player.AgentID] = player
	}

	export.EndTick = maxTick
	if data.Result != nil && data.Result.FinalTick > export.EndTick {
		export.EndTick = data.Result.FinalTick
	}

	// Convert possession changes
	// Format: [tick, "possession", sideIndex, agentId]
	for _, evt := range data.PossessionChanges {
		export.Events = append(export.Events, []any{
			evt.Tick,
			"possession",
			sideToIndex(evt.WinnerSide),
			evt.AgentID,
		})
	}

	// Convert phase changes
	// Format: [tick, "phase", sideIndex, fromPhase, toPhase, subPhase]
	for _, evt := range data.PhaseChanges {
		export.Events = append(export.Events, []any{
			evt.Tick,
			"phase",
			sideToIndex(evt.Side),
			evt.FromPhase,
			evt.ToPhase,
			evt.SubPhase,
		})
	}

	// Convert goals
	// Format: [tick, "goal", sideIndex, scorerId, assistId, xg]
	for _, evt := range data.Goals {
		assistID := -1
		if evt.AssistID != nil {
			assistID = int(*evt.AssistID)
		}
		export.Events = append(export.Events, []any{
			evt.Tick,
			"goal",
			sideToIndex(evt.Side),
			evt.AgentID,
			assistID,
			roundTo(evt.XG, 4),
		})
	}

	// Convert digests
	// Format: [tick, hexDigest]
	for _, d := range data.Digests {
		export.Digests = append(export.Digests, []any{d.Tick, d.Digest})
	}

	return export
}

// sideToIndex converts a side to its numeric replay index: 0=home, 1=away
func sideToIndex(s core.Side) int {
	if s == core.SideHome {
		return 0
	}
	return 1
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
