package decision

func evaluateShoot(ctx *EvalContext) ActionScore {
	finishing := skill(ctx.Finishing)
	longShots := skill(ctx.LongShots)
	composure := skill(ctx.Composure)
	technique := skill(ctx.Technique)

	// Close shots lean on finishing, long shots on the long-range skill.
	distFactor := clamp01(ctx.DistToGoal / 30.0)
	shotSkill := finishing*(1.0-distFactor) + longShots*distFactor

	var zoneBonus float64
	switch {
	case ctx.DistToGoal < 20.0:
		zoneBonus = 0.3
	case ctx.DistToGoal < 30.0:
		zoneBonus = 0.15
	}

	var distance float64
	switch {
	case ctx.DistToGoal < 2.0:
		distance = 0.7
	case ctx.DistToGoal < 8.0:
		distance = 1.0
	case ctx.DistToGoal < 16.0:
		distance = 0.95
	case ctx.DistToGoal < 25.0:
		distance = 0.8
	case ctx.DistToGoal < 30.0:
		distance = 0.5
	default:
		distance = 0.1
	}

	safety := boolVal(ctx.ShotLaneClear, 0.6, 0.4)
	if ctx.LocalPressure >= 0.5 {
		safety *= 0.8
	}
	if ctx.IsOneOnOne {
		safety += 0.2
	}
	safety += zoneBonus

	space := boolVal(ctx.ShotLaneClear, 0.8, 0.4)
	space *= max64(1.0-ctx.LocalPressure*0.5, 0.3)

	tactical := boolVal(ctx.InShootingZone, 0.7, 0.2)
	if ctx.IsOneOnOne {
		tactical += 0.2
	}
	if ctx.ShotAngle > 0.3 {
		tactical += 0.1
	}

	return ActionScore{
		Distance:    distance,
		Safety:      safety,
		Readiness:   shotSkill*0.5 + composure*0.3 + technique*0.2,
		Progression: clamp01(ctx.XG + zoneBonus),
		Space:       space,
		Tactical:    tactical,
	}
}

func evaluatePass(ctx *EvalContext) ActionScore {
	passing := skill(ctx.Passing)
	vision := skill(ctx.Vision)
	technique := skill(ctx.Technique)
	composure := skill(ctx.Composure)

	var distance float64
	switch {
	case ctx.ReceiverDist < 5.0:
		distance = 0.8
	case ctx.ReceiverDist < 15.0:
		distance = 1.0
	case ctx.ReceiverDist < 25.0:
		distance = 0.9
	case ctx.ReceiverDist < 35.0:
		distance = 0.7
	default:
		distance = 0.4
	}

	safety := boolVal(ctx.PassLaneClear, 0.6, 0.3)
	safety *= 1.0 - min64(float64(ctx.PassInterceptorCount)*0.15, 0.6)
	if ctx.LocalPressure >= 0.5 {
		safety *= 0.7
	}

	progression := ctx.LineBreakValue*0.4 + ctx.ReceiverXGIfReceives*0.4
	if ctx.ReceiverIsForward {
		progression += 0.1
	}
	if ctx.IsReciprocalTarget {
		progression += 0.25
	}

	tactical := boolVal(ctx.PassLaneClear, 0.3, 0.1)
	tactical += boolVal(ctx.ReceiverIsForward, 0.15, 0.1)
	if ctx.LineBreakValue > 0.3 {
		tactical += 0.2
	}
	if ctx.IsReciprocalTarget {
		tactical += 0.20
	}

	return ActionScore{
		Distance:    distance,
		Safety:      safety,
		Readiness:   passing*0.4 + vision*0.3 + technique*0.2 + composure*0.1,
		Progression: progression,
		Space:       ctx.ReceiverFreedom*0.6 + ctx.ReceiverHasSpace*0.4,
		Tactical:    tactical,
	}
}

// evaluateThroughBall is the riskier pass variant: lower safety floor,
// higher reward via the receiver's expected goals.
func evaluateThroughBall(ctx *EvalContext) ActionScore {
	passing := skill(ctx.Passing)
	vision := skill(ctx.Vision)
	technique := skill(ctx.Technique)
	composure := skill(ctx.Composure)

	var distance float64
	switch {
	case ctx.ReceiverDist < 10.0:
		distance = 0.6
	case ctx.ReceiverDist < 20.0:
		distance = 1.0
	case ctx.ReceiverDist < 30.0:
		distance = 0.85
	case ctx.ReceiverDist < 40.0:
		distance = 0.6
	default:
		distance = 0.3
	}

	safety := boolVal(ctx.PassLaneClear, 0.4, 0.15)
	safety *= 1.0 - min64(float64(ctx.PassInterceptorCount)*0.2, 0.7)
	if ctx.LocalPressure < 0.4 {
		safety *= 0.9
	} else {
		safety *= 0.5
	}

	progression := ctx.ReceiverXGIfReceives*0.6 + ctx.LineBreakValue*0.3
	if ctx.ReceiverIsForward {
		progression += 0.05
	}
	if ctx.IsReciprocalTarget {
		progression += 0.15
	}

	tactical := boolVal(ctx.IsBehindDefense, 0.5, 0.2)
	if ctx.ReceiverXGIfReceives > 0.15 {
		tactical += 0.3
	} else {
		tactical += 0.1
	}

	return ActionScore{
		Distance:    distance,
		Safety:      safety,
		Readiness:   vision*0.4 + technique*0.3 + passing*0.2 + composure*0.1,
		Progression: progression,
		Space:       ctx.SpaceAtTarget*0.7 + ctx.ReceiverHasSpace*0.3,
		Tactical:    tactical,
	}
}

func evaluateDribble(ctx *EvalContext) ActionScore {
	dribbling := skill(ctx.Dribbling)
	agility := skill(ctx.Agility)
	pace := skill(ctx.Pace)
	flair := skill(ctx.Flair)
	composure := skill(ctx.Composure)
	balance := skill(ctx.Balance)

	var distance float64
	switch {
	case ctx.SpaceAhead > 0.8:
		distance = 1.0
	case ctx.SpaceAhead > 0.5:
		distance = 0.85
	case ctx.SpaceAhead > 0.3:
		distance = 0.6
	default:
		distance = 0.3
	}

	safety := ctx.DribbleSuccessProb * 0.5
	if ctx.HasOutlet {
		safety += 0.25
	}
	if !ctx.BeatenIfFail {
		safety += 0.25
	}

	tactical := boolVal(ctx.ClosestDefenderDist > 3.0, 0.3, 0.1)
	if ctx.HasOutlet {
		tactical += 0.2
	}
	if ctx.DefendersAhead <= 1 {
		tactical += 0.2
	}
	if ctx.LocalPressure < 0.4 {
		tactical += 0.2
	}

	return ActionScore{
		Distance:    distance,
		Safety:      safety,
		Readiness:   dribbling*0.35 + agility*0.25 + pace*0.15 + flair*0.10 + balance*0.10 + composure*0.05,
		Progression: clamp01(ctx.XGGainFromCarry),
		Space:       ctx.SpaceAhead*0.7 + (1.0-min64(float64(ctx.DefendersAhead)*0.2, 0.8))*0.3,
		Tactical:    tactical,
	}
}

func evaluateCross(ctx *EvalContext) ActionScore {
	crossing := skill(ctx.Crossing)
	technique := skill(ctx.Technique)
	vision := skill(ctx.Vision)

	safety := boolVal(ctx.CrossLaneClear, 0.7, 0.3)
	if ctx.LocalPressure >= 0.5 {
		safety *= 0.6
	}

	return ActionScore{
		Distance:    boolVal(ctx.InCrossingZone, 1.0, 0.5),
		Safety:      safety,
		Readiness:   crossing*0.5 + technique*0.3 + vision*0.2,
		Progression: ctx.BestHeaderTargetXG,
		Space:       ctx.BoxTargetSpace,
		Tactical:    boolVal(ctx.HasAerialThreat, 0.6, 0.3),
	}
}

// evaluateHold is deliberately depressed: carrying the ball forward
// covers everything holding used to, so Hold should lose almost every
// comparison.
func evaluateHold(ctx *EvalContext) ActionScore {
	strength := skill(ctx.Strength)
	composure := skill(ctx.Composure)

	return ActionScore{
		Distance:    0.1,
		Safety:      0.3,
		Readiness:   strength*0.2 + composure*0.2,
		Progression: 0.0,
		Space:       0.2,
		Tactical:    boolVal(ctx.IsTargetMan, 0.4, 0.1),
	}
}

func evaluateHeader(ctx *EvalContext, isShot bool) ActionScore {
	heading := skill(ctx.Heading)
	jumping := skill(ctx.Jumping)
	strength := skill(ctx.Strength)

	progression := 0.3
	if isShot {
		progression = ctx.HeaderXG
	}

	return ActionScore{
		Distance:    boolVal(ctx.DistToBall < 1.0, 1.0, 0.5),
		Safety:      ctx.AerialDuelAdvantage*0.5 + 0.3,
		Readiness:   heading*0.5 + jumping*0.3 + strength*0.2,
		Progression: progression,
		Space:       0.5,
		Tactical:    boolVal(ctx.IsSetPiece, 0.6, 0.3),
	}
}

func evaluateClear(ctx *EvalContext) ActionScore {
	heading := skill(ctx.Heading)
	strength := skill(ctx.Strength)
	composure := skill(ctx.Composure)

	safety := boolVal(ctx.ClearDirectionSafe, 0.6, 0.3)
	if ctx.NotOwnGoalRisk {
		safety += 0.3
	}

	return ActionScore{
		Distance:    boolVal(ctx.DistToBall < 1.0, 1.0, 0.5),
		Safety:      safety,
		Readiness:   heading*0.4 + strength*0.4 + composure*0.2,
		Progression: ctx.XGReductionFromClear,
		Space:       1.0,
		Tactical:    boolVal(ctx.IsLastDitch, 0.8, 0.4),
	}
}

func evaluateDrawFoul(ctx *EvalContext) ActionScore {
	technique := skill(ctx.Technique)
	flair := skill(ctx.Flair)
	composure := skill(ctx.Composure)

	var distance float64
	switch {
	case ctx.DistToGoal < 25.0:
		distance = 0.7
	case ctx.DistToGoal < 40.0:
		distance = 0.5
	default:
		distance = 0.3
	}

	// A won free kick near the box is worth the most; in the player's own
	// box a drawn foul is a penalty against.
	var progression float64
	switch {
	case ctx.InOwnBox:
		progression = 0.0
	case ctx.DistToGoal < 20.0:
		progression = 0.6
	case ctx.DistToGoal < 35.0:
		progression = 0.4
	default:
		progression = 0.2
	}

	return ActionScore{
		Distance:    distance,
		Safety:      0.7,
		Readiness:   technique*0.4 + flair*0.4 + composure*0.2,
		Progression: progression,
		Space:       0.5,
		Tactical:    boolVal(ctx.LocalPressure > 0.7, 0.5, 0.3),
	}
}

func boolVal(cond bool, yes, no float64) float64 {
	if cond {
		return yes
	}
	return no
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
