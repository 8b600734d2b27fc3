package decision

func evaluatePress(ctx *EvalContext) ActionScore {
	aggression := skill(ctx.Aggression)
	workRate := skill(ctx.WorkRate)
	pace := skill(ctx.Pace)
	anticipation := skill(ctx.Anticipation)

	var distance float64
	switch {
	case ctx.DistToBallCarrier < 5.0:
		distance = 0.9
	case ctx.DistToBallCarrier < 15.0:
		distance = 1.0
	default:
		distance = 0.3
	}

	safety := boolVal(ctx.HasCoverBehind, 0.4, 0.2)
	safety += (1.0 - ctx.OvercommitRisk) * 0.3
	safety += ctx.StaminaPct * 0.3

	tactical := boolVal(ctx.PressTriggerMet, 0.5, 0.2)
	if ctx.TeamIsPressing {
		tactical += 0.3
	}

	return ActionScore{
		Distance:    distance,
		Safety:      safety,
		Readiness:   aggression*0.3 + workRate*0.3 + pace*0.2 + anticipation*0.2,
		Progression: ctx.TackleSuccessProb,
		Space:       ctx.PassOptionsBlockedRatio,
		Tactical:    tactical,
	}
}

func evaluateTackle(ctx *EvalContext) ActionScore {
	tackling := skill(ctx.Tackling)
	strength := skill(ctx.Strength)

	var distance float64
	switch {
	case ctx.DistToBall < 1.0:
		distance = 1.0
	case ctx.DistToBall < 2.0:
		distance = 0.8
	default:
		distance = 0.3
	}

	tactical := 1.0 - boolVal(ctx.IsLastMan, 0.5, 0.0)
	tactical *= 1.0 - boolVal(ctx.InOwnBox, 0.3, 0.0)

	return ActionScore{
		Distance:    distance,
		Safety:      (1.0-ctx.FoulProbability)*0.4 + (1.0-ctx.BeatenIfMissProb)*0.6,
		Readiness:   tackling*0.5 + strength*0.3 + ctx.TimingQuality*0.2,
		Progression: ctx.BallRecoveryValue,
		Space:       ctx.SpaceAfterTackle,
		Tactical:    tactical,
	}
}

func evaluateJockey(ctx *EvalContext) ActionScore {
	positioning := skill(ctx.Positioning)
	anticipation := skill(ctx.Anticipation)

	var distance float64
	switch {
	case ctx.DistToBallCarrier < 3.0:
		distance = 1.0
	case ctx.DistToBallCarrier < 5.0:
		distance = 0.8
	default:
		distance = 0.4
	}

	return ActionScore{
		Distance:    distance,
		Safety:      0.8,
		Readiness:   positioning*0.5 + anticipation*0.5,
		Progression: 0.3,
		Space:       0.5,
		Tactical:    0.6,
	}
}

func evaluateMark(ctx *EvalContext) ActionScore {
	marking := skill(ctx.Marking)
	positioning := skill(ctx.Positioning)
	concentration := skill(ctx.Concentration)

	safety := boolVal(ctx.CanSeeBall, 0.3, 0.1)
	safety += (1.0 - ctx.BallWatchingRisk) * 0.3
	safety += boolVal(ctx.CoverAvailable, 0.4, 0.2)

	return ActionScore{
		Distance:    0.8,
		Safety:      safety,
		Readiness:   marking*0.4 + positioning*0.3 + concentration*0.3,
		Progression: ctx.PassOptionDeniedValue,
		Space:       ctx.SecondaryCoverArea,
		Tactical:    boolVal(ctx.MatchesTeamMarkingStyle, 0.6, 0.3),
	}
}

func evaluateCover(ctx *EvalContext) ActionScore {
	positioning := skill(ctx.Positioning)
	anticipation := skill(ctx.Anticipation)
	pace := skill(ctx.Pace)

	safety := boolVal(ctx.CoversDangerousSpace, 0.5, 0.2)
	safety += boolVal(ctx.MaintainsLine, 0.3, 0.1)

	tactical := boolVal(ctx.IsCoveringTeammate, 0.5, 0.2)
	if ctx.BlocksPassingLane {
		tactical += 0.3
	}

	return ActionScore{
		Distance:    0.8,
		Safety:      safety,
		Readiness:   positioning*0.4 + anticipation*0.3 + pace*0.3,
		Progression: ctx.XGReductionFromCover,
		Space:       ctx.AreaProtectedSize,
		Tactical:    tactical,
	}
}

func evaluateIntercept(ctx *EvalContext) ActionScore {
	anticipation := skill(ctx.Anticipation)
	positioning := skill(ctx.Positioning)
	pace := skill(ctx.Pace)
	decisions := skill(ctx.Decisions)

	tactical := boolVal(ctx.TriggersCounter, 0.5, 0.2)
	if ctx.HighValueInterception {
		tactical += 0.3
	}

	return ActionScore{
		Distance:    0.7,
		Safety:      ctx.InterceptSuccessProb*0.6 + (1.0-ctx.OutOfPositionIfMiss)*0.4,
		Readiness:   anticipation*0.4 + positioning*0.3 + pace*0.2 + decisions*0.1,
		Progression: ctx.BallRecoveryValue,
		Space:       ctx.SpaceAfterIntercept,
		Tactical:    tactical,
	}
}

func evaluateBlockLane() ActionScore {
	return ActionScore{
		Distance:    0.8,
		Safety:      0.7,
		Readiness:   0.7,
		Progression: 0.4,
		Space:       0.5,
		Tactical:    0.6,
	}
}
