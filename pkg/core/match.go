// Package core holds the plain data records shared between the simulation,
// the storage backends and the streaming surface. Records here carry no
// persistence concerns; the gorm models live in internal/model.
package core

import "time"

// Side identifies a team within a match.
type Side uint8

const (
	SideHome Side = iota
	SideAway
)

func (s Side) String() string {
	if s == SideHome {
		return "home"
	}
	return "away"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// Venue describes the ground a match is played at.
type Venue struct {
	ID           uint
	Name         string
	City         string
	Capacity     uint32
	PitchLengthM float32
	PitchWidthM  float32
	Latitude     float32
	Longitude    float32
}

// Match is one simulated fixture.
type Match struct {
	ID            uint
	Competition   string
	MatchDay      uint8
	HomeTeam      string
	AwayTeam      string
	KickoffTime   time.Time
	VenueID       uint
	Seed          uint64
	TickRate      uint8
	HalfTicks     uint32
	EngineVersion string
	Tag           string
}

// MatchResult summarizes a finished match.
type MatchResult struct {
	MatchID     uint
	HomeGoals   uint8
	AwayGoals   uint8
	FinalTick   uint64
	FinalDigest string
}

// UploadMetadata accompanies a replay file pushed to the web frontend.
type UploadMetadata struct {
	Competition string
	MatchName   string
	Tag         string
	FinalTick   uint64
}
