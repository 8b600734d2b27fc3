package decision

func evaluateCounterPress(ctx *EvalContext) ActionScore {
	workRate := skill(ctx.WorkRate)
	aggression := skill(ctx.Aggression)

	return ActionScore{
		Distance:    0.8,
		Safety:      0.5,
		Readiness:   workRate*0.4 + aggression*0.3 + ctx.StaminaPct*0.3,
		Progression: 0.6,
		Space:       0.5,
		Tactical:    0.8,
	}
}

func evaluateDelay(ctx *EvalContext) ActionScore {
	positioning := skill(ctx.Positioning)

	return ActionScore{
		Distance:    0.7,
		Safety:      0.8,
		Readiness:   positioning*0.6 + 0.4,
		Progression: 0.3,
		Space:       0.5,
		Tactical:    0.6,
	}
}

func evaluateCoverEmergency() ActionScore {
	return ActionScore{
		Distance:    0.7,
		Safety:      0.9,
		Readiness:   0.8,
		Progression: 0.5,
		Space:       0.6,
		Tactical:    0.8,
	}
}

func evaluateRecoveryRun(ctx *EvalContext, target Vec2) ActionScore {
	pace := skill(ctx.Pace)
	workRate := skill(ctx.WorkRate)

	recoveryDist := target.DistanceTo(Vec2{X: ctx.PlayerX, Y: ctx.PlayerY})

	var distance float64
	switch {
	case recoveryDist < 10.0:
		distance = 0.9
	case recoveryDist < 20.0:
		distance = 0.7
	case recoveryDist < 35.0:
		distance = 0.5
	default:
		distance = 0.3
	}

	safety := ctx.StaminaPct * 0.5
	if ctx.HasCoverBehind {
		safety += 0.3
	}
	if ctx.CoverAvailable {
		safety += 0.2
	}

	return ActionScore{
		Distance:    distance,
		Safety:      safety,
		Readiness:   pace*0.4 + workRate*0.4 + ctx.StaminaPct*0.2,
		Progression: 0.6,
		Space:       boolVal(ctx.CoversDangerousSpace, 0.7, 0.4),
		Tactical:    boolVal(ctx.IsLastMan, 0.8, 0.5),
	}
}
