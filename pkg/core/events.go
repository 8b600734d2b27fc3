package core

// DecisionEvent is the outcome of one player's pipeline run at one tick.
// One is emitted per agent per tick; a tick where nothing cleared the
// threshold is recorded with an empty ActionKind so gaps stay visible in
// replay.
type DecisionEvent struct {
	Tick     uint64
	PlayerID uint
	AgentID  uint8
	Side     Side

	State string
	Role  string

	ActionKind string
	TargetID   *uint8
	PointX     float64
	PointY     float64
	Intent     string

	Distance      float64
	Safety        float64
	Readiness     float64
	Progression   float64
	Space         float64
	Tactical      float64
	WeightedTotal float64

	CandidateCount int
	FilteredCount  int
	ForcedShot     bool
}

// PhaseChangeEvent marks a team phase flip.
type PhaseChangeEvent struct {
	Tick      uint64
	Side      Side
	FromPhase string
	ToPhase   string
	SubPhase  string
}

// PossessionChangeEvent marks a turnover.
type PossessionChangeEvent struct {
	Tick       uint64
	WinnerSide Side
	AgentID    uint8
}

// GoalEvent records a goal.
type GoalEvent struct {
	Tick     uint64
	Side     Side
	AgentID  uint8
	AssistID *uint8
	XG       float64
}

// TickDigest is the determinism checkpoint for one tick.
type TickDigest struct {
	Tick   uint64
	Digest string
}

// TickTelemetry is per-tick engine health, mirrored into metrics.
type TickTelemetry struct {
	Tick            uint64
	DecisionMicros  int64
	CandidatesTotal int
	GatedTotal      int
	ClaimConflicts  int
}
