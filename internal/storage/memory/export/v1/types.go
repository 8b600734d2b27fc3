// Package v1 contains the v1 replay export format for matchsim match data.
// This format is what the replay web frontend consumes.
package v1

// Export is the root JSON structure for v1 replay format
type Export struct {
	EngineVersion string   `json:"engineVersion"`
	Competition   string   `json:"competition"`
	MatchName     string   `json:"matchName"`
	HomeTeam      string   `json:"homeTeam"`
	AwayTeam      string   `json:"awayTeam"`
	VenueName     string   `json:"venueName"`
	TickRate      uint8    `json:"tickRate"`
	EndTick       uint64   `json:"endTick"`
	Tags          string   `json:"tags"`
	HomeGoals     uint8    `json:"homeGoals"`
	AwayGoals     uint8    `json:"awayGoals"`
	Players       []Player `json:"players"`
	Events        [][]any  `json:"events"`
	Digests       [][]any  `json:"digests"`
}

// Player is one participant with its packed time-series data.
// Positions rows are [tick, [x, y], stamina, hasBall].
// Decisions rows are [tick, action, intent, targetId, [x, y], total, forced].
type Player struct {
	ID        uint8   `json:"id"`
	Name      string  `json:"name"`
	Side      string  `json:"side"`
	Number    uint8   `json:"number"`
	Position  string  `json:"position"`
	StartTick uint64  `json:"startTick"`
	Positions [][]any `json:"positions"`
	Decisions [][]any `json:"decisions"`
}
