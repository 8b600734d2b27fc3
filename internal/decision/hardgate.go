package decision

import "github.com/openfootball/matchsim/internal/pitch"

// GateViolation names a rule that removes an action from the candidate
// pool outright. A gated action is deleted, never scored down.
type GateViolation uint8

const (
	GateNone GateViolation = iota
	GateOffside
	GateBackpassToGK
	GateOutOfBounds
	GatePlayerUnavailable

	// GateHandball is defined for completeness. The current action set
	// contains foot actions only, so it is never produced.
	GateHandball

	GateAlreadyClaimed
)

var gateMessages = map[GateViolation]string{
	GateNone:              "",
	GateOffside:           "offside position",
	GateBackpassToGK:      "backpass to goalkeeper not allowed",
	GateOutOfBounds:       "target is out of bounds",
	GatePlayerUnavailable: "player is injured or sent off",
	GateHandball:          "handball",
	GateAlreadyClaimed:    "target already claimed by teammate",
}

func (g GateViolation) String() string {
	return gateMessages[g]
}

// dribbleProjectionM is how far ahead a dribble is projected when
// checking the touchlines.
const dribbleProjectionM = 5.0

// GateContext carries the observations the hard gates read. Gates are
// pure rule checks; no randomness is involved.
type GateContext struct {
	PlayerInjured bool
	PlayerSentOff bool
	PlayerX       float64
	PlayerY       float64

	BallKickedByTeammate bool

	IsHome       bool
	AttacksRight bool

	// OffsideLineX is the second-last defender's x position.
	OffsideLineX float64

	GoalkeeperID PlayerID

	// TargetPositions maps teammate ids to their pitch positions for
	// offside checks on targeted actions.
	TargetPositions map[PlayerID]Vec2
}

// NewGateContext returns a context for an available home player at the
// pitch centre with a high offside line.
func NewGateContext() GateContext {
	return GateContext{
		PlayerX:      pitch.CenterX,
		PlayerY:      pitch.CenterY,
		IsHome:       true,
		AttacksRight: true,
		OffsideLineX: 90.0,
	}
}

func (c *GateContext) offsidePosition(x float64) bool {
	if c.AttacksRight {
		return x > c.OffsideLineX
	}
	return x < c.OffsideLineX
}

func (c *GateContext) targetOffside(target PlayerID) bool {
	pos, ok := c.TargetPositions[target]
	if !ok {
		return false
	}
	return c.offsidePosition(pos.X)
}

// CheckAction returns the violation blocking the action, or GateNone.
// Player availability is checked first and blocks every action.
func CheckAction(a Action, ctx *GateContext) GateViolation {
	if ctx.PlayerInjured || ctx.PlayerSentOff {
		return GatePlayerUnavailable
	}

	switch a.Kind {
	case KindRunIntoSpace:
		if ctx.offsidePosition(a.Point.X) {
			return GateOffside
		}

	case KindThroughBall:
		if ctx.targetOffside(a.Target) {
			return GateOffside
		}

	case KindPass:
		if a.Target == ctx.GoalkeeperID && ctx.BallKickedByTeammate {
			return GateBackpassToGK
		}

	case KindDribble:
		nx := ctx.PlayerX + a.Direction.X*dribbleProjectionM
		ny := ctx.PlayerY + a.Direction.Y*dribbleProjectionM
		if !pitch.Contains(nx, ny) {
			return GateOutOfBounds
		}

	case KindRunSupport:
		if !pitch.Contains(a.Point.X, a.Point.Y) {
			return GateOutOfBounds
		}
	}

	return GateNone
}

// FilterActions removes gated candidates and returns the survivors along
// with the number removed.
func FilterActions(actions []Action, ctx *GateContext) ([]Action, int) {
	kept := actions[:0]
	for _, a := range actions {
		if CheckAction(a, ctx) == GateNone {
			kept = append(kept, a)
		}
	}
	return kept, len(actions) - len(kept)
}
