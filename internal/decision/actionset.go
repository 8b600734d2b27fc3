package decision

import "github.com/openfootball/matchsim/internal/pitch"

// ActionSetContext carries the observations the candidate builder needs.
// Candidate generation is pure: the same context always yields the same
// list in the same order.
type ActionSetContext struct {
	PlayerX float64
	PlayerY float64

	AttacksRight bool

	InShootingZone bool
	HasClearShot   bool

	InCrossingZone bool

	PassTargets        []PlayerID
	ThroughBallTargets []PlayerID
	// ReciprocalTargets lists teammates who passed to this player recently.
	ReciprocalTargets []PlayerID

	DistToBallCarrier float64
	MarkingTarget     *PlayerID
	MostDangerousLane *PassLane
	MostExposedZone   *Zone

	HasRunnerAhead    bool
	BestCounterTarget *PlayerID
	CounterSpace      *Vec2

	InOwnThird    bool
	UnderPressure bool
}

// NewActionSetContext returns a context with neutral defaults: centre of
// the pitch, no targets, nobody near.
func NewActionSetContext() ActionSetContext {
	return ActionSetContext{
		PlayerX:           pitch.CenterX,
		PlayerY:           pitch.CenterY,
		AttacksRight:      true,
		DistToBallCarrier: 50.0,
	}
}

func (c *ActionSetContext) isReciprocal(target PlayerID) bool {
	for _, id := range c.ReciprocalTargets {
		if id == target {
			return true
		}
	}
	return false
}

// BuildActionSet generates the candidate pool for the state. The pool is
// state-specific; an on-ball player never sees defensive candidates and
// vice versa.
func BuildActionSet(state PhaseState, role RoleTag, ctx *ActionSetContext) []Action {
	switch state {
	case StateOnBall:
		return onBallActions(role, ctx)
	case StateReadyToReceive:
		return readyToReceiveActions(ctx)
	case StateOffBallAttack:
		return offBallAttackActions(role, ctx)
	case StateDefendBallCarrier:
		return defendBallCarrierActions(ctx)
	case StateDefendOffBallTarget:
		return defendOffBallActions(ctx)
	case StateDefensiveShape:
		return defensiveShapeActions(role, ctx)
	case StateTransitionLoss:
		return transitionLossActions(ctx)
	case StateTransitionWin:
		return transitionWinActions(role, ctx)
	}
	return nil
}

func forwardDirection(attacksRight bool) Vec2 {
	if attacksRight {
		return Vec2{X: 1, Y: 0}
	}
	return Vec2{X: -1, Y: 0}
}

func onBallActions(role RoleTag, ctx *ActionSetContext) []Action {
	// Shoot is always a candidate; distance scoring decides its fate.
	actions := []Action{Shoot()}

	for _, target := range ctx.PassTargets {
		actions = append(actions, Pass(target))
	}

	// Carrying forward is the baseline on-ball move.
	forward := forwardDirection(ctx.AttacksRight)
	actions = append(actions, Dribble(forward))

	// Side escape when hugging a flank.
	if ctx.PlayerY < 30.0 {
		actions = append(actions, Dribble(Vec2{X: forward.X * 0.7, Y: 0.7}))
	} else if ctx.PlayerY > 38.0 {
		actions = append(actions, Dribble(Vec2{X: forward.X * 0.7, Y: -0.7}))
	}

	if role == RoleCreator {
		if ctx.InCrossingZone {
			actions = append(actions, Cross(FarPost), Cross(NearPost))
		}
		for _, target := range ctx.ThroughBallTargets {
			actions = append(actions, ThroughBall(target))
		}
	}

	if ctx.InOwnThird && ctx.UnderPressure {
		actions = append(actions, Clear())
	}

	return actions
}

func readyToReceiveActions(ctx *ActionSetContext) []Action {
	return []Action{
		HoldPosition(),
		Support(Vec2{X: ctx.PlayerX, Y: ctx.PlayerY}),
	}
}

func offBallAttackActions(role RoleTag, ctx *ActionSetContext) []Action {
	actions := []Action{
		Support(Vec2{X: ctx.PlayerX + 5.0, Y: ctx.PlayerY}),
	}

	switch role {
	case RoleRunner:
		target := Vec2{X: ctx.PlayerX + 15.0, Y: ctx.PlayerY}
		if !ctx.AttacksRight {
			target.X = ctx.PlayerX - 15.0
		}
		actions = append(actions, RunIntoSpace(target))
	case RoleOutlet:
		actions = append(actions, HoldPosition())
	}

	actions = append(actions, Overlap())
	return actions
}

func defendBallCarrierActions(ctx *ActionSetContext) []Action {
	var actions []Action

	dist := ctx.DistToBallCarrier
	if dist < 2.0 {
		actions = append(actions, Tackle())
	}
	if dist < 5.0 {
		actions = append(actions, Jockey())
	}
	if dist < 15.0 {
		actions = append(actions, Press())
	}

	if ctx.MostDangerousLane != nil {
		actions = append(actions, BlockLane(*ctx.MostDangerousLane))
	}

	return actions
}

func defendOffBallActions(ctx *ActionSetContext) []Action {
	var actions []Action

	if ctx.MarkingTarget != nil {
		actions = append(actions, Mark(*ctx.MarkingTarget))
	}
	if ctx.MostDangerousLane != nil {
		actions = append(actions, Intercept(*ctx.MostDangerousLane), BlockLane(*ctx.MostDangerousLane))
	}

	return actions
}

func defensiveShapeActions(role RoleTag, ctx *ActionSetContext) []Action {
	actions := []Action{HoldPosition()}

	switch role {
	case RoleAnchor:
		if ctx.MostExposedZone != nil {
			actions = append(actions, Cover(*ctx.MostExposedZone))
		}
	case RoleOutlet:
		actions = append(actions, HoldPosition())
	}

	return actions
}

func transitionLossActions(ctx *ActionSetContext) []Action {
	actions := []Action{CounterPress(), Delay()}

	if ctx.MostExposedZone != nil {
		actions = append(actions, CoverEmergency(*ctx.MostExposedZone))
	}

	return actions
}

func transitionWinActions(role RoleTag, ctx *ActionSetContext) []Action {
	var actions []Action

	if ctx.HasRunnerAhead && ctx.BestCounterTarget != nil {
		actions = append(actions, FirstPassForward(*ctx.BestCounterTarget))
	}

	actions = append(actions, Carry(forwardDirection(ctx.AttacksRight)))

	if role == RoleRunner && ctx.CounterSpace != nil {
		actions = append(actions, RunSupport(*ctx.CounterSpace))
	}

	return actions
}
