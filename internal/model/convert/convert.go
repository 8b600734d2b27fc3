// Package convert maps plain core records to their gorm models.
// MatchID is left zero here; the DB writer stamps it at insert time.
package convert

import (
	"encoding/json"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/openfootball/matchsim/internal/model"
	"github.com/openfootball/matchsim/pkg/core"
)

// CoreToVenue converts a core venue to its gorm model. The ground's
// coordinates become a 4326 geometry point so postgres installs with
// PostGIS can map venues.
func CoreToVenue(v core.Venue) model.Venue {
	// OmitInvalid keeps a venue with junk coordinates insertable; the
	// location column just ends up empty.
	location, _ := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: float64(v.Longitude), Y: float64(v.Latitude)},
		Type: geom.DimXY,
	}, geom.OmitInvalid)

	return model.Venue{
		Name:         v.Name,
		City:         v.City,
		Capacity:     v.Capacity,
		PitchLengthM: v.PitchLengthM,
		PitchWidthM:  v.PitchWidthM,
		Latitude:     v.Latitude,
		Longitude:    v.Longitude,
		Location:     location,
	}
}

// CoreToMatch converts a core match to its gorm model
func CoreToMatch(m core.Match) model.Match {
	return model.Match{
		Competition:   m.Competition,
		MatchDay:      m.MatchDay,
		HomeTeam:      m.HomeTeam,
		AwayTeam:      m.AwayTeam,
		KickoffTime:   m.KickoffTime,
		VenueID:       m.VenueID,
		Seed:          m.Seed,
		TickRate:      m.TickRate,
		HalfTicks:     m.HalfTicks,
		EngineVersion: m.EngineVersion,
		Tag:           m.Tag,
	}
}

// CoreToPlayer converts a core player to its gorm model
func CoreToPlayer(p core.Player) model.Player {
	traits, err := json.Marshal(p.Traits)
	if err != nil || p.Traits == nil {
		traits = []byte("[]")
	}
	return model.Player{
		AgentID:     p.AgentID,
		JoinTick:    p.JoinTick,
		Side:        p.Side.String(),
		ShirtNumber: p.ShirtNumber,
		Name:        p.Name,
		Position:    p.Position,
		Traits:      traits,
	}
}

// CoreToPlayerState converts a core player state to its gorm model
func CoreToPlayerState(s core.PlayerState) model.PlayerState {
	return model.PlayerState{
		AgentID: s.AgentID,
		Tick:    s.Tick,
		X:       s.X,
		Y:       s.Y,
		Stamina: float32(s.Stamina),
		HasBall: s.HasBall,
	}
}

// CoreToDecisionEvent converts a core decision event to its gorm model
func CoreToDecisionEvent(e core.DecisionEvent) model.DecisionEvent {
	return model.DecisionEvent{
		Tick:           e.Tick,
		AgentID:        e.AgentID,
		Side:           e.Side.String(),
		State:          e.State,
		Role:           e.Role,
		ActionKind:     e.ActionKind,
		TargetID:       e.TargetID,
		PointX:         e.PointX,
		PointY:         e.PointY,
		Intent:         e.Intent,
		Distance:       float32(e.Distance),
		Safety:         float32(e.Safety),
		Readiness:      float32(e.Readiness),
		Progression:    float32(e.Progression),
		Space:          float32(e.Space),
		Tactical:       float32(e.Tactical),
		WeightedTotal:  float32(e.WeightedTotal),
		CandidateCount: uint16(e.CandidateCount),
		FilteredCount:  uint16(e.FilteredCount),
		ForcedShot:     e.ForcedShot,
	}
}

// CoreToPhaseChangeEvent converts a core phase change to its gorm model
func CoreToPhaseChangeEvent(e core.PhaseChangeEvent) model.PhaseChangeEvent {
	return model.PhaseChangeEvent{
		Tick:      e.Tick,
		Side:      e.Side.String(),
		FromPhase: e.FromPhase,
		ToPhase:   e.ToPhase,
		SubPhase:  e.SubPhase,
	}
}

// CoreToPossessionChangeEvent converts a core possession change to its gorm model
func CoreToPossessionChangeEvent(e core.PossessionChangeEvent) model.PossessionChangeEvent {
	return model.PossessionChangeEvent{
		Tick:       e.Tick,
		WinnerSide: e.WinnerSide.String(),
		AgentID:    e.AgentID,
	}
}

// CoreToGoalEvent converts a core goal to its gorm model
func CoreToGoalEvent(e core.GoalEvent) model.GoalEvent {
	return model.GoalEvent{
		Tick:     e.Tick,
		Side:     e.Side.String(),
		AgentID:  e.AgentID,
		AssistID: e.AssistID,
		XG:       float32(e.XG),
	}
}

// CoreToTickDigest converts a core tick digest to its gorm model
func CoreToTickDigest(d core.TickDigest) model.TickDigest {
	return model.TickDigest{
		Tick:   d.Tick,
		Digest: d.Digest,
	}
}
