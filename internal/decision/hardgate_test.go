package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckAction(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		setup  func(ctx *GateContext)
		want   GateViolation
	}{
		{
			name:   "injured player blocks everything",
			action: Pass(4),
			setup:  func(ctx *GateContext) { ctx.PlayerInjured = true },
			want:   GatePlayerUnavailable,
		},
		{
			name:   "sent off player blocks everything",
			action: HoldPosition(),
			setup:  func(ctx *GateContext) { ctx.PlayerSentOff = true },
			want:   GatePlayerUnavailable,
		},
		{
			name:   "run beyond the offside line",
			action: RunIntoSpace(Vec2{X: 95, Y: 34}),
			setup:  func(ctx *GateContext) {},
			want:   GateOffside,
		},
		{
			name:   "run inside the offside line",
			action: RunIntoSpace(Vec2{X: 85, Y: 34}),
			setup:  func(ctx *GateContext) {},
			want:   GateNone,
		},
		{
			name:   "offside line flips with attacking end",
			action: RunIntoSpace(Vec2{X: 95, Y: 34}),
			setup: func(ctx *GateContext) {
				ctx.AttacksRight = false
				ctx.OffsideLineX = 20.0
			},
			want: GateNone,
		},
		{
			name:   "through ball to offside target",
			action: ThroughBall(9),
			setup: func(ctx *GateContext) {
				ctx.TargetPositions = map[PlayerID]Vec2{9: {X: 95, Y: 34}}
			},
			want: GateOffside,
		},
		{
			name:   "through ball to onside target",
			action: ThroughBall(9),
			setup: func(ctx *GateContext) {
				ctx.TargetPositions = map[PlayerID]Vec2{9: {X: 80, Y: 34}}
			},
			want: GateNone,
		},
		{
			name:   "backpass to keeper after a kick",
			action: Pass(0),
			setup: func(ctx *GateContext) {
				ctx.GoalkeeperID = 0
				ctx.BallKickedByTeammate = true
			},
			want: GateBackpassToGK,
		},
		{
			name:   "pass to keeper without a preceding kick",
			action: Pass(0),
			setup:  func(ctx *GateContext) { ctx.GoalkeeperID = 0 },
			want:   GateNone,
		},
		{
			name:   "dribble off the touchline",
			action: Dribble(Vec2{X: 0, Y: -1}),
			setup:  func(ctx *GateContext) { ctx.PlayerY = 2.0 },
			want:   GateOutOfBounds,
		},
		{
			name:   "dribble along the touchline stays in",
			action: Dribble(Vec2{X: 1, Y: 0}),
			setup:  func(ctx *GateContext) { ctx.PlayerY = 2.0 },
			want:   GateNone,
		},
		{
			name:   "support run out of bounds",
			action: RunSupport(Vec2{X: 110, Y: 34}),
			setup:  func(ctx *GateContext) {},
			want:   GateOutOfBounds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewGateContext()
			tt.setup(&ctx)
			assert.Equal(t, tt.want, CheckAction(tt.action, &ctx))
		})
	}
}

func TestFilterActions(t *testing.T) {
	ctx := NewGateContext()
	ctx.GoalkeeperID = 0
	ctx.BallKickedByTeammate = true

	actions := []Action{
		Shoot(),
		Pass(0),                        // backpass, gated
		Pass(4),                        // fine
		RunIntoSpace(Vec2{X: 95, Y: 34}), // offside, gated
	}

	kept, removed := FilterActions(actions, &ctx)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []ActionKind{KindShoot, KindPass}, kinds(kept))
	assert.Equal(t, PlayerID(4), kept[1].Target)
}

func TestFilterActionsAllGated(t *testing.T) {
	ctx := NewGateContext()
	ctx.PlayerInjured = true

	kept, removed := FilterActions([]Action{Shoot(), Pass(4), Tackle()}, &ctx)
	assert.Empty(t, kept)
	assert.Equal(t, 3, removed)
}

func TestGateViolationMessages(t *testing.T) {
	assert.Equal(t, "", GateNone.String())
	assert.Equal(t, "offside position", GateOffside.String())
	assert.Equal(t, "backpass to goalkeeper not allowed", GateBackpassToGK.String())
}
