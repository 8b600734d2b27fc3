package core

// Player is one registered participant. ID is the engine-wide agent id:
// home occupies 0-10, away 11-21.
type Player struct {
	ID          uint
	AgentID     uint8
	Side        Side
	ShirtNumber uint8
	Name        string
	Position    string
	Traits      []string
	JoinTick    uint64
}

// TeamSheet is one side's lineup and tactical setup.
type TeamSheet struct {
	Side         Side
	Name         string
	Formation    string
	Mentality    string
	PassingStyle string
	Tempo        string
	Players      []Player
}

// PlayerState is one player's observable state at a tick.
type PlayerState struct {
	PlayerID uint
	AgentID  uint8
	Tick     uint64
	X        float64
	Y        float64
	Stamina  float64
	HasBall  bool
}
