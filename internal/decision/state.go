package decision

// PhaseState is the per-player game situation. The state picks the
// candidate action pool, so classification runs before anything else in
// the pipeline.
type PhaseState uint8

const (
	// Team in possession.
	StateOnBall PhaseState = iota
	StateReadyToReceive
	StateOffBallAttack

	// Team out of possession.
	StateDefendBallCarrier
	StateDefendOffBallTarget
	StateDefensiveShape

	// Possession changed within the last few ticks.
	StateTransitionLoss
	StateTransitionWin
)

var phaseStateNames = map[PhaseState]string{
	StateOnBall:              "on_ball",
	StateReadyToReceive:      "ready_to_receive",
	StateOffBallAttack:       "off_ball_attack",
	StateDefendBallCarrier:   "defend_ball_carrier",
	StateDefendOffBallTarget: "defend_off_ball_target",
	StateDefensiveShape:      "defensive_shape",
	StateTransitionLoss:      "transition_loss",
	StateTransitionWin:       "transition_win",
}

func (s PhaseState) String() string {
	if n, ok := phaseStateNames[s]; ok {
		return n
	}
	return "unknown"
}

// IsOffBall reports whether the player does not carry the ball in this state.
func (s PhaseState) IsOffBall() bool {
	return s != StateOnBall
}

// IsDefensive reports whether the state belongs to the defending side.
func (s PhaseState) IsDefensive() bool {
	switch s {
	case StateDefendBallCarrier, StateDefendOffBallTarget, StateDefensiveShape, StateTransitionLoss:
		return true
	}
	return false
}

// IsTransition reports whether possession changed recently.
func (s PhaseState) IsTransition() bool {
	return s == StateTransitionLoss || s == StateTransitionWin
}

// transitionWindowTicks is how long after a possession change a player is
// classified as in transition. Roughly two seconds of play.
const transitionWindowTicks = 8

// StateContext carries the observations needed to classify a player.
type StateContext struct {
	TeamHasBall bool
	IHaveBall   bool

	DistToBall float64

	PossessionChangedTick uint64
	CurrentTick           uint64

	// MarkingAssignment is the opponent this player marks, if any.
	MarkingAssignment   *PlayerID
	PassLaneClear       bool
	BodyFacingBall      bool
	DistToBallCarrier   float64
	AssignedToCarrier   bool
	ClosestToCarrier    bool
}

// NewStateContext returns a context with neutral defaults: far from the
// ball, no assignments, out of possession.
func NewStateContext() StateContext {
	return StateContext{
		DistToBall:        50.0,
		DistToBallCarrier: 50.0,
	}
}

func (c *StateContext) possessionChangedWithin(ticks uint64) bool {
	if c.CurrentTick < c.PossessionChangedTick {
		return true
	}
	return c.CurrentTick-c.PossessionChangedTick < ticks
}

// CanReceivePass reports whether the player is a viable immediate pass
// target: lane open, facing the ball, within 30 metres.
func (c *StateContext) CanReceivePass() bool {
	return c.PassLaneClear && c.BodyFacingBall && c.DistToBall < 30.0
}

// DefendingBallCarrier reports whether this player is the one engaging
// the carrier, by assignment or by being closest within 10 metres.
func (c *StateContext) DefendingBallCarrier() bool {
	return c.AssignedToCarrier || (c.ClosestToCarrier && c.DistToBallCarrier < 10.0)
}

// ClassifyState resolves the player's phase state. Transitions take
// priority over everything else.
func ClassifyState(ctx *StateContext) PhaseState {
	if ctx.possessionChangedWithin(transitionWindowTicks) {
		if ctx.TeamHasBall {
			return StateTransitionWin
		}
		return StateTransitionLoss
	}

	if ctx.TeamHasBall {
		if ctx.IHaveBall {
			return StateOnBall
		}
		if ctx.CanReceivePass() {
			return StateReadyToReceive
		}
		return StateOffBallAttack
	}

	if ctx.DefendingBallCarrier() {
		return StateDefendBallCarrier
	}
	if ctx.MarkingAssignment != nil {
		return StateDefendOffBallTarget
	}
	return StateDefensiveShape
}

// RoleTag is the player's functional role within the current state.
type RoleTag uint8

const (
	RoleFinisher RoleTag = iota
	RoleCreator
	RoleRunner
	RoleOutlet
	RolePresser
	RoleMarker
	RoleAnchor
	RoleSweeper
)

var roleTagNames = map[RoleTag]string{
	RoleFinisher: "finisher",
	RoleCreator:  "creator",
	RoleRunner:   "runner",
	RoleOutlet:   "outlet",
	RolePresser:  "presser",
	RoleMarker:   "marker",
	RoleAnchor:   "anchor",
	RoleSweeper:  "sweeper",
}

func (r RoleTag) String() string {
	if n, ok := roleTagNames[r]; ok {
		return n
	}
	return "unknown"
}

// ClassifyRole derives the role from the position string, the phase state
// and whether the team presses.
func ClassifyRole(position string, state PhaseState, isPressing bool) RoleTag {
	switch state {
	case StateOnBall:
		switch position {
		case "ST", "CF":
			return RoleFinisher
		case "AM", "W", "WM":
			return RoleCreator
		default:
			return RoleCreator
		}

	case StateReadyToReceive, StateOffBallAttack:
		switch position {
		case "ST", "CF", "AM", "W":
			return RoleRunner
		case "CM", "DM", "CB", "FB":
			return RoleOutlet
		default:
			return RoleRunner
		}

	case StateTransitionWin:
		switch position {
		case "ST", "CF", "W":
			return RoleRunner
		default:
			return RoleOutlet
		}

	case StateDefendBallCarrier:
		if isPressing {
			return RolePresser
		}
		return RoleMarker

	case StateDefendOffBallTarget:
		return RoleMarker

	case StateDefensiveShape:
		switch position {
		case "CB", "DM":
			return RoleAnchor
		case "GK":
			return RoleSweeper
		case "ST", "CF":
			// Forwards wait high for the counter.
			return RoleOutlet
		default:
			return RoleAnchor
		}

	case StateTransitionLoss:
		if isPressing {
			return RolePresser
		}
		return RoleAnchor
	}

	return RoleAnchor
}
