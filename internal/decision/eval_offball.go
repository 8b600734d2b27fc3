package decision

func evaluateRun(ctx *EvalContext, target Vec2) ActionScore {
	pace := skill(ctx.Pace)
	offTheBall := skill(ctx.OffTheBall)
	anticipation := skill(ctx.Anticipation)

	runDist := target.DistanceTo(Vec2{X: ctx.PlayerX, Y: ctx.PlayerY})

	var distance float64
	switch {
	case runDist < 5.0:
		distance = 0.6
	case runDist < 15.0:
		distance = 1.0
	case runDist < 30.0:
		distance = 0.8
	default:
		distance = 0.4
	}

	safety := boolVal(ctx.NotLeavingHole, 0.5, 0.2) + ctx.StaminaPct*0.3
	if ctx.CanRecoverTurnover {
		safety += 0.2
	}

	tactical := boolVal(ctx.IsBehindDefense, 0.5, 0.2)
	if ctx.CreatesOverload {
		tactical += 0.3
	}

	return ActionScore{
		Distance:    distance,
		Safety:      safety,
		Readiness:   pace*0.4 + offTheBall*0.4 + anticipation*0.2,
		Progression: ctx.XGAtTarget,
		Space:       ctx.SpaceAtTarget,
		Tactical:    tactical,
	}
}

func evaluateSupport(ctx *EvalContext) ActionScore {
	offTheBall := skill(ctx.OffTheBall)
	teamwork := skill(ctx.Teamwork)
	positioning := skill(ctx.Positioning)

	safety := boolVal(ctx.ProvidesPassOption, 0.5, 0.3)
	if ctx.NotBlockingSpace {
		safety += 0.3
	}

	return ActionScore{
		Distance:    0.8,
		Safety:      safety,
		Readiness:   offTheBall*0.4 + teamwork*0.3 + positioning*0.3,
		Progression: ctx.XGIfReceives,
		Space:       ctx.SpaceAtSupportPos,
		Tactical:    boolVal(ctx.CreatesTriangle, 0.4, 0.2),
	}
}

func evaluateOverlap() ActionScore {
	return ActionScore{
		Distance:    0.8,
		Safety:      0.5,
		Readiness:   0.7,
		Progression: 0.6,
		Space:       0.7,
		Tactical:    0.6,
	}
}

func evaluateHoldPosition() ActionScore {
	return ActionScore{
		Distance:    1.0,
		Safety:      0.8,
		Readiness:   1.0,
		Progression: 0.3,
		Space:       0.5,
		Tactical:    0.5,
	}
}
